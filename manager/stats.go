package manager

import (
	"time"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
)

func syscallName(id syscalls.ID) string {
	return syscalls.GetDefinitionByID(id).Name
}

type Stats struct {
	NumberOfListeners int
	SyscallsMonitored []map[string]int

	IdleTime          time.Duration
	IdleUnloadTimeout time.Duration

	EBPFProgramStatus string

	EventCount          int
	PrefilterEventCount int
}

func (self *Tracer) Stats() (res Stats) {
	self.mu.Lock()
	defer self.mu.Unlock()

	if self.currently_loading {
		res.EBPFProgramStatus = "Currently Loading"

	} else if self.collection == nil {
		res.EBPFProgramStatus = "Unloaded"

	} else {
		res.EBPFProgramStatus = "Loaded"
	}

	res.NumberOfListeners = len(self.listeners)
	res.IdleTime = time.Now().Sub(self.idle_time)
	res.IdleUnloadTimeout = self.idle_unload_time

	for _, l := range self.listeners {
		sc_monitored := make(map[string]int)

		for _, id := range l.GetSyscalls() {
			desc := syscallName(id)
			if desc == "" {
				continue
			}

			sc_monitored[desc] = int(id)
		}
		res.SyscallsMonitored = append(res.SyscallsMonitored, sc_monitored)
		res.EventCount += l.GetCount()
		res.PrefilterEventCount += l.GetPrefilteredCount()
	}
	return res
}
