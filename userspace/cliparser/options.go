package cliparser

import "github.com/Global19-atlassian-net/vltrace/userspace/output"

type FollowForkMode int

const (
	FollowForkNone FollowForkMode = iota
	FollowForkFull
)

// Options is the parsed command line configuration. The caller
// creates it with the defaults it wants, Parse mutates it in place.
type Options struct {
	Timestamp  bool
	FailedOnly bool
	Debug      bool
	NoProgress bool

	// 0 means trace everything, valid values are >= 1.
	Pid int

	OutputFile string

	// The raw format string is kept next to the resolved enum so
	// diagnostics can echo what the user typed.
	OutputFormatStr string
	OutputFormat    output.Format

	StringArgsMode output.StringArgsMode

	Expr       string
	EbpfSrcDir string

	// 0 means not set, the printers pick their default.
	FieldSeparator byte

	FollowFork   FollowForkMode
	SeparateLogs bool

	// True when unconsumed arguments remain after option scanning -
	// the command to trace follows.
	Command bool
}

func NewOptions() *Options {
	return &Options{}
}
