package manager

import (
	"context"
	"sync"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Velocidex/ordereddict"
)

type listener struct {
	mu sync.Mutex

	closed      bool
	output_chan chan *ordereddict.Dict

	// Closed by Close() to release a Feed blocked sending. Without
	// it Close would wait on the mutex Feed holds across the send.
	done      chan struct{}
	done_once sync.Once

	// Belongs to the caller of Watch()
	caller_ctx context.Context

	// Belongs to the main owner of the Tracer
	global_ctx context.Context

	sc_monitored map[syscalls.ID]bool

	prefilter func(in []byte) bool

	count            int
	prefiltered_away int
}

func (self *listener) GetSyscalls() (res []syscalls.ID) {
	self.mu.Lock()
	defer self.mu.Unlock()

	for id := range self.sc_monitored {
		res = append(res, id)
	}
	return res
}

func (self *listener) SetPrefilter(cb func(in []byte) bool) {
	self.mu.Lock()
	defer self.mu.Unlock()

	self.prefilter = cb
}

// Prefilter runs on the raw sample before decoding. A false return
// drops the sample for this listener.
func (self *listener) Prefilter(in []byte) bool {
	self.mu.Lock()
	cb := self.prefilter
	self.mu.Unlock()

	if cb == nil {
		return true
	}

	if !cb(in) {
		self.mu.Lock()
		self.prefiltered_away++
		self.mu.Unlock()
		return false
	}
	return true
}

func (self *listener) Feed(
	id syscalls.ID, event *ordereddict.Dict) {

	self.mu.Lock()
	defer self.mu.Unlock()

	// Ignore events not for us.
	if !self.sc_monitored[id] {
		return
	}

	if self.closed {
		return
	}

	select {
	case <-self.done:
		return

	case <-self.caller_ctx.Done():
		self.close()
		return

	case <-self.global_ctx.Done():
		self.close()
		return

	case self.output_chan <- event:
		self.count++
	}
}

func (self *listener) GetCount() int {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.count
}

func (self *listener) GetPrefilteredCount() int {
	self.mu.Lock()
	defer self.mu.Unlock()

	return self.prefiltered_away
}

func (self *listener) Close() {
	// Wake a Feed blocked on the send first - it holds the mutex.
	self.done_once.Do(func() {
		close(self.done)
	})

	self.mu.Lock()
	defer self.mu.Unlock()

	self.close()
}

func (self *listener) close() {
	if !self.closed {
		close(self.output_chan)
		self.closed = true
	}
}

func newListener(caller_ctx, global_ctx context.Context,
	selected []syscalls.ID) *listener {

	res := &listener{
		output_chan:  make(chan *ordereddict.Dict),
		done:         make(chan struct{}),
		global_ctx:   global_ctx,
		caller_ctx:   caller_ctx,
		sc_monitored: make(map[syscalls.ID]bool),
	}

	// An empty selection means every traceable syscall.
	if len(selected) == 0 {
		for id, d := range syscalls.Core {
			if d.Available {
				res.sc_monitored[id] = true
			}
		}
	} else {
		for _, id := range selected {
			res.sc_monitored[id] = true
		}
	}

	return res
}
