// Package manager loads the vltrace eBPF program and multiplexes the
// decoded syscall event stream to its listeners.
package manager

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Velocidex/ordereddict"
	"github.com/cilium/ebpf"
	"github.com/cilium/ebpf/link"
	"github.com/cilium/ebpf/perf"
	"github.com/cilium/ebpf/rlimit"
	"golang.org/x/sys/unix"
)

const ebpfObjectName = "vltrace.bpf.o"

var mapNotValid = errors.New("required map missing from the collection")

type Tracer struct {
	mu sync.Mutex

	ctx    context.Context
	cancel func()

	config Config

	spec              *ebpf.CollectionSpec
	collection        *ebpf.Collection
	links             []link.Link
	currently_loading bool

	comms *commCache

	logger Logger

	// A list of listeners - we multiplex the event stream to all
	// listeners.
	listeners []*listener

	ebpf_config_obj ebpfConfigT

	// We do not unload the program immediately. Instead we count when
	// the tracer is idle and only unload the eBPF program after some
	// time.
	idle_time        time.Time
	idle_unload_time time.Duration

	// Offset converting CLOCK_BOOTTIME stamps to epoch nanoseconds.
	boot_epoch_ns uint64
}

func (self *Tracer) scMonitored() []syscalls.ID {
	sc_monitored := make(map[syscalls.ID]bool)
	for _, l := range self.listeners {
		for _, id := range l.GetSyscalls() {
			sc_monitored[id] = true
		}
	}

	res := make([]syscalls.ID, 0, len(sc_monitored))
	for id := range sc_monitored {
		res = append(res, id)
	}

	return res
}

func (self *Tracer) bootToEpochNS(ts uint64) uint64 {
	return self.boot_epoch_ns + ts
}

// Read all events from the queue and forward to all listeners.
func (self *Tracer) EventLoop(ctx context.Context) {
	self.mu.Lock()
	if self.collection == nil {
		self.mu.Unlock()
		return
	}

	rd, err := perf.NewReader(self.collection.Maps["events"], 32*4096)
	self.mu.Unlock()

	if err != nil {
		self.logger.Error("Tracer.EventLoop: %v", err)
		return
	}
	defer rd.Close()

	// Close the reader as soon as the context is done.
	go func() {
		<-ctx.Done()

		rd.Close()
	}()

	self.logger.Debug("EventLoop: Reading eBPF events")

	for {
		record, err := rd.Read()
		if err != nil {
			if errors.Is(err, perf.ErrClosed) {
				return
			}
			continue
		}

		self.mu.Lock()
		listeners := self.listeners
		failed_only := self.config.FailedOnly
		self.mu.Unlock()

		var interested_listeners []*listener
		for _, l := range listeners {
			if !l.Prefilter(record.RawSample) {
				continue
			}
			interested_listeners = append(interested_listeners, l)
		}

		// No listeners - dont bother about it.
		if len(interested_listeners) == 0 {
			continue
		}

		event, id, err := self.decodeEvent(record.RawSample)
		if err != nil {
			continue
		}

		if failed_only {
			system, _ := event.Get("System")
			ret, _ := system.(*ordereddict.Dict).GetInt64("ReturnValue")
			if ret >= 0 {
				continue
			}
		}

		for _, l := range interested_listeners {
			l.Feed(id, event)
		}
	}
}

func (self *Tracer) startHousekeeping(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			self.UnloadEbpf()
			return

		case <-time.After(time.Second):
			self.mu.Lock()
			is_idle := len(self.listeners) == 0

			if is_idle && time.Now().
				Add(-self.idle_unload_time).
				After(self.idle_time) {
				self.unloadEbpf()
			}
			self.mu.Unlock()
		}
	}
}

func (self *Tracer) objectPath() string {
	dir := self.config.EbpfSrcDir
	if dir == "" {
		dir = DefaultEbpfDir
	}
	return filepath.Join(dir, ebpfObjectName)
}

func (self *Tracer) loadEbpf() (err error) {
	if self.collection != nil {
		return nil
	}

	self.currently_loading = true

	start := time.Now()
	self.logger.Debug("Loading eBPF program into kernel (This could take a while!)")

	self.spec, err = ebpf.LoadCollectionSpec(self.objectPath())
	if err != nil {
		return err
	}

	self.collection, err = ebpf.NewCollectionWithOptions(
		self.spec, ebpf.CollectionOptions{})
	if err != nil {
		return err
	}

	self.logger.Debug("Load done in %v", time.Now().Sub(start))
	self.currently_loading = false

	return self.attachTracepoints()
}

// The syscall entry and exit hooks are raw tracepoints, one program
// each.
func (self *Tracer) attachTracepoints() error {
	for name, prog := range map[string]string{
		"sys_enter": "vltrace_sys_enter",
		"sys_exit":  "vltrace_sys_exit",
	} {
		program, pres := self.collection.Programs[prog]
		if !pres {
			continue
		}

		l, err := link.AttachRawTracepoint(link.RawTracepointOptions{
			Name:    name,
			Program: program,
		})
		if err != nil {
			return err
		}

		self.links = append(self.links, l)
	}
	return nil
}

func (self *Tracer) applyConfig() error {
	cmap, pres := self.collection.Maps["config_map"]
	if !pres {
		return mapNotValid
	}

	zero := uint32(0)
	return cmap.Put(&zero, &self.ebpf_config_obj)
}

// setSyscallPolicy rebuilds the traced_syscalls map so the eBPF code
// only submits the syscalls some listener asked for.
func (self *Tracer) setSyscallPolicy() error {
	policy_map, pres := self.collection.Maps["traced_syscalls"]
	if !pres {
		return mapNotValid
	}

	enabled := make(map[syscalls.ID]bool)
	for _, id := range self.scMonitored() {
		enabled[id] = true
	}

	one := uint8(1)
	zero := uint8(0)
	for id := range syscalls.Core {
		key := uint32(id)
		value := &zero
		if enabled[id] {
			value = &one
		}

		err := policy_map.Put(&key, value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (self *Tracer) updateEbpfState() error {
	err := self.applyConfig()
	if err != nil {
		return err
	}

	err = self.setSyscallPolicy()
	if err != nil {
		return err
	}

	// Start the main event loop.
	sub_ctx, cancel := context.WithCancel(self.ctx)
	self.cancel = cancel
	go self.EventLoop(sub_ctx)

	return nil
}

func (self *Tracer) UnloadEbpf() {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.unloadEbpf()
}

func (self *Tracer) unloadEbpf() {
	if self.collection == nil {
		return
	}

	self.logger.Debug("Unloading eBPF program")

	// A failed load can leave a collection behind before the event
	// loop (and its cancel) was ever set up.
	if self.cancel != nil {
		self.cancel()
	}

	// Close all our listeners
	for _, l := range self.listeners {
		l.Close()
	}

	for _, l := range self.links {
		l.Close()
	}
	self.links = nil

	self.collection.Close()
	self.collection = nil
}

func (self *Tracer) Close() {
	self.UnloadEbpf()
}

func (self *Tracer) Watch(
	ctx context.Context, opts WatchOptions) (
	chan *ordereddict.Dict, func(), error) {

	self.mu.Lock()
	defer self.mu.Unlock()

	// Add a new listener to the event loop.
	new_listener := newListener(ctx, self.ctx, opts.SelectedSyscalls)
	new_listener.SetPrefilter(opts.Prefilter)
	self.listeners = append(self.listeners, new_listener)

	// If the program is not already loaded, start it.
	if self.collection == nil {
		err := self.loadEbpf()
		if err != nil {
			self.listeners = nil
			return nil, nil, err
		}
	}

	// Update the eBPF state to reflect the new listener
	err := self.updateEbpfState()
	if err != nil {
		self.listeners = nil
		return nil, nil, err
	}

	return new_listener.output_chan,

		// Remove the output chan from the listeners.
		func() {
			self.mu.Lock()
			defer self.mu.Unlock()

			new_listener.Close()

			var new_listeners []*listener

			for _, d := range self.listeners {
				if d == new_listener {
					continue
				}
				new_listeners = append(new_listeners, d)
			}

			self.listeners = new_listeners

			// We are now idle.
			if len(new_listeners) == 0 {
				self.idle_time = time.Now()
			}
		}, nil
}

func NewTracer(
	ctx context.Context,
	config Config,
	logger Logger) (*Tracer, error) {

	comms, err := newCommCache(1024)
	if err != nil {
		return nil, err
	}

	self := &Tracer{
		ctx:              ctx,
		config:           config,
		logger:           logger,
		ebpf_config_obj:  newEbpfConfig(config),
		comms:            comms,
		idle_unload_time: config.IdleUnloadTimeout,
		boot_epoch_ns:    bootEpochNS(),
	}

	if self.idle_unload_time == 0 {
		self.idle_unload_time = time.Duration(5 * time.Minute)
	}

	// Allow the current process to lock memory for eBPF resources.
	err = rlimit.RemoveMemlock()
	if err != nil {
		return nil, err
	}

	// Record the last time we were idle
	self.idle_time = time.Now()
	go self.startHousekeeping(ctx)

	return self, nil
}

// bootEpochNS captures the offset between CLOCK_BOOTTIME and the
// epoch clock, so event timestamps can be normalized once per sample.
func bootEpochNS() uint64 {
	var ts unix.Timespec
	err := unix.ClockGettime(unix.CLOCK_BOOTTIME, &ts)
	if err != nil {
		return 0
	}

	now := time.Now().UnixNano()
	boot := ts.Sec*int64(time.Second) + ts.Nsec
	return uint64(now - boot)
}
