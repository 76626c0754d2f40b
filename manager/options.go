package manager

import "github.com/Global19-atlassian-net/vltrace/userspace/syscalls"

type WatchOptions struct {
	// Empty means every traceable syscall in the builtin table.
	SelectedSyscalls []syscalls.ID

	// Runs on the raw sample before decoding.
	Prefilter func(in []byte) bool
}

func NewWatchOptions() *WatchOptions {
	return &WatchOptions{}
}
