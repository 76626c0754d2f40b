package manager

import (
	"os"
	"time"

	"github.com/Global19-atlassian-net/vltrace/userspace/cliparser"
	"github.com/Global19-atlassian-net/vltrace/userspace/output"
)

// DefaultEbpfDir is where the packaged eBPF object is installed.
// The -N/--ebpf-src-dir option overrides it.
const DefaultEbpfDir = "/usr/share/vltrace"

// Config is the tracer side view of the parsed command line.
type Config struct {
	// 0 traces every process.
	Pid int

	FailedOnly bool
	FollowFork bool

	// How the eBPF code reads string arguments.
	StringArgs output.StringArgsMode

	EbpfSrcDir string

	// How long to keep the eBPF program loaded once the last
	// listener is gone.
	IdleUnloadTimeout time.Duration
}

func NewConfigFromOptions(opts *cliparser.Options) Config {
	return Config{
		Pid:        opts.Pid,
		FailedOnly: opts.FailedOnly,
		FollowFork: opts.FollowFork == cliparser.FollowForkFull,
		StringArgs: opts.StringArgsMode,
		EbpfSrcDir: opts.EbpfSrcDir,
	}
}

// ebpfConfigT must match the config_entry_t layout in the eBPF code.
type ebpfConfigT struct {
	VltracePid     uint32
	TracedPid      uint32
	Flags          uint32
	StringReadMode uint32
}

// Flag bits, must match the eBPF code.
const (
	configFlagFailedOnly uint32 = 1 << iota
	configFlagFollowFork
)

func newEbpfConfig(config Config) ebpfConfigT {
	res := ebpfConfigT{
		VltracePid:     uint32(os.Getpid()),
		TracedPid:      uint32(config.Pid),
		StringReadMode: uint32(config.StringArgs),
	}

	if config.FailedOnly {
		res.Flags |= configFlagFailedOnly
	}
	if config.FollowFork {
		res.Flags |= configFlagFollowFork
	}

	return res
}
