package manager

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Velocidex/ordereddict"
)

var (
	recordTooShortError = errors.New("record too short")
	unknownSyscallError = errors.New("unknown syscall id")
)

// eventContext must match the ev_dt_t layout the eBPF code submits
// through the perf buffer. Any string or buffer payload follows it in
// the same sample.
type eventContext struct {
	Ts     uint64
	Pid    uint32
	Tid    uint32
	Ppid   uint32
	Uid    uint32
	ScID   int32
	_      [4]byte
	Retval int64
	Args   [6]uint64
}

const eventContextSize = 8 + 4*4 + 4 + 4 + 8 + 6*8

// decodeEvent turns one raw perf sample into an event record. The
// record has a System part with the common fields and an Args part
// with the per syscall arguments.
func (self *Tracer) decodeEvent(dataRaw []byte) (
	*ordereddict.Dict, syscalls.ID, error) {

	if len(dataRaw) < eventContextSize {
		return nil, 0, recordTooShortError
	}

	var eCtx eventContext
	reader := bytes.NewReader(dataRaw)
	err := binary.Read(reader, binary.LittleEndian, &eCtx)
	if err != nil {
		return nil, 0, err
	}

	eventId := syscalls.ID(eCtx.ScID)
	definition := syscalls.GetDefinitionByID(eventId)
	if definition.NotValid() {
		return nil, 0, fmt.Errorf("%w: %d", unknownSyscallError, eCtx.ScID)
	}

	// execve renames the process, drop the cached name so the
	// lookup below sees the new one.
	switch definition.Name {
	case "execve", "execveat":
		self.comms.Forget(eCtx.Pid)
	}

	payload := dataRaw[eventContextSize:]

	args := ordereddict.NewDict()
	for i := 0; i < definition.NArgs; i++ {
		name := fmt.Sprintf("arg%d", i)

		// The first argument of path based syscalls arrives as the
		// trailing string payload.
		if i == 0 && len(payload) > 0 && definition.InSet("file") {
			args.Set("pathname",
				string(bytes.TrimRight(payload, "\x00")))
			continue
		}

		args.Set(name, eCtx.Args[i])
	}

	// Network syscalls carrying a raw buffer get a parsed packet
	// field when the payload looks like one.
	if len(payload) > 0 && definition.InSet("net") {
		packet, err := parsePacketPayload(payload)
		if err == nil {
			args.Set("packet", packet)
		}
	}

	system_part := ordereddict.NewDict().
		Set("Timestamp", time.Unix(0, int64(self.bootToEpochNS(eCtx.Ts)))).
		Set("SyscallID", int64(eCtx.ScID)).
		Set("SyscallName", definition.Name).
		Set("ProcessID", int64(eCtx.Pid)).
		Set("ThreadID", int64(eCtx.Tid)).
		Set("ParentProcessID", int64(eCtx.Ppid)).
		Set("UserID", int64(eCtx.Uid)).
		Set("ProcessName", self.comms.Get(eCtx.Pid)).
		Set("ReturnValue", eCtx.Retval)

	return ordereddict.NewDict().
		Set("System", system_part).
		Set("Args", args), eventId, nil
}
