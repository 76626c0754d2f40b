// Package cliparser turns the vltrace argument vector into a
// populated Options record. Every error and informational path is
// reported back as an ExitRequest instead of terminating the process,
// the caller performs the actual exit.
package cliparser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Global19-atlassian-net/vltrace/userspace/output"
	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Global19-atlassian-net/vltrace/userspace/txt"
)

// ExitRequest asks the caller to terminate the process with Code.
type ExitRequest struct {
	Code int
}

type argKind int

const (
	noArgument argKind = iota
	requiredArgument
	optionalArgument
)

type optionSpec struct {
	short byte
	long  string
	kind  argKind
}

// Mirrors the getopt style option table: "+tXhdLRBrp:l:s:e:o:N:K:f::"
var optionTable = []optionSpec{
	{'t', "timestamp", noArgument},
	{'X', "failed", noArgument},
	{'h', "help", noArgument},
	{'d', "debug", noArgument},
	{'L', "list", noArgument},
	{'R', "ll-list", noArgument},
	{'B', "builtin-list", noArgument},
	{'r', "no-progress", noArgument},
	{'p', "pid", requiredArgument},
	{'l', "format", requiredArgument},
	{'s', "string-args", requiredArgument},
	{'e', "expr", requiredArgument},
	{'o', "output", requiredArgument},
	{'N', "ebpf-src-dir", requiredArgument},
	{'K', "hex-separator", requiredArgument},
	{'f', "full-follow-fork", optionalArgument},
}

func lookupShort(c byte) (optionSpec, bool) {
	for _, spec := range optionTable {
		if spec.short == c {
			return spec, true
		}
	}
	return optionSpec{}, false
}

func lookupLong(name string) (optionSpec, bool) {
	for _, spec := range optionTable {
		if spec.long == name {
			return spec, true
		}
	}
	return optionSpec{}, false
}

type parser struct {
	opts   *Options
	stdout io.Writer
	stderr io.Writer
}

func (self *parser) missingArgument() *ExitRequest {
	fmt.Fprintln(self.stderr, "vltrace: missing mandatory option's argument")
	txt.Help(self.stderr)
	return &ExitRequest{Code: 1}
}

func (self *parser) unknownOption(name string) *ExitRequest {
	fmt.Fprintf(self.stderr, "vltrace: unknown option: '%s'\n", name)
	txt.Help(self.stderr)
	return &ExitRequest{Code: 1}
}

func (self *parser) noArgumentAllowed(name string) *ExitRequest {
	fmt.Fprintf(self.stderr,
		"vltrace: option '--%s' does not take an argument\n", name)
	txt.Help(self.stderr)
	return &ExitRequest{Code: 1}
}

// apply performs the effect of a single recognized option. optarg is
// only meaningful when hasArg is true. A nil return means parsing
// continues with the next token.
func (self *parser) apply(c byte, optarg string, hasArg bool) *ExitRequest {
	opts := self.opts

	switch c {
	case 't':
		opts.Timestamp = true

	case 'X':
		opts.FailedOnly = true

	case 'd':
		opts.Debug = true

	case 'r':
		opts.NoProgress = true

	case 'h':
		txt.Help(self.stdout)
		return &ExitRequest{Code: 0}

	case 'L':
		syscalls.List(self.stdout, syscalls.IsTraced)
		return &ExitRequest{Code: 0}

	case 'R':
		syscalls.List(self.stdout, nil)
		return &ExitRequest{Code: 0}

	case 'B':
		res := syscalls.PrintBuiltinTable(self.stdout)
		switch res {
		case 1:
			return &ExitRequest{Code: 0}
		case 0:
			return &ExitRequest{Code: 1}
		default:
			return &ExitRequest{Code: res}
		}

	case 'p':
		pid, err := strconv.Atoi(optarg)
		if err != nil {
			pid = 0
		}
		if pid < 1 {
			fmt.Fprintf(self.stderr,
				"vltrace: wrong value for pid option is provided: '%s' => '%d'\n",
				optarg, pid)
			return &ExitRequest{Code: 1}
		}
		opts.Pid = pid

	case 'o':
		opts.OutputFile = optarg

	case 'K':
		if len(optarg) > 0 {
			opts.FieldSeparator = optarg[0]
		}

	case 'N':
		opts.EbpfSrcDir = optarg

	case 'e':
		if strings.EqualFold(optarg, "list") ||
			strings.EqualFold(optarg, "help") {
			fmt.Fprintln(self.stdout,
				"List of supported expressions: 'help', 'list', 'trace=set'")
			fmt.Fprintln(self.stdout,
				"For list of supported sets you should use 'trace=help' or 'trace=list'")
			return &ExitRequest{Code: 0}
		}

		if strings.EqualFold(optarg, "trace=help") ||
			strings.EqualFold(optarg, "trace=list") {
			txt.TraceSetList(self.stdout)
			fmt.Fprintln(self.stdout, "You can combine sets by using comma.")
			return &ExitRequest{Code: 0}
		}

		opts.Expr = optarg

	case 'l':
		if strings.EqualFold(optarg, "list") ||
			strings.EqualFold(optarg, "help") {
			fmt.Fprintln(self.stdout,
				"List of supported formats: 'bin', 'binary', 'hex', "+
					"'hex_raw', 'hex_sl', 'strace', 'list' & 'help'")
			return &ExitRequest{Code: 0}
		}

		opts.OutputFormatStr = optarg
		opts.OutputFormat = output.ParseFormat(optarg)

	case 's':
		opts.StringArgsMode = output.ParseStringArgsMode(optarg)

	case 'f':
		opts.FollowFork = FollowForkFull
		if hasArg {
			opts.SeparateLogs = true
		}
	}

	return nil
}

// Parse scans argv left to right, stopping at the first non option
// token. It returns the index of the first unconsumed argument and,
// when an informational or error path fired, a non nil ExitRequest.
// No option's effect is visible on opts unless its whole token parsed
// successfully.
func Parse(opts *Options, argv []string,
	stdout, stderr io.Writer) (int, *ExitRequest) {

	self := &parser{opts: opts, stdout: stdout, stderr: stderr}

	i := 0
	for i < len(argv) {
		token := argv[i]

		if token == "--" {
			i++
			break
		}

		// First non option token stops the scan.
		if len(token) < 2 || token[0] != '-' {
			break
		}

		var exit *ExitRequest
		if strings.HasPrefix(token, "--") {
			i, exit = self.parseLong(argv, i)
		} else {
			i, exit = self.parseShort(argv, i)
		}

		if exit != nil {
			return i, exit
		}
	}

	if i < len(argv) {
		opts.Command = true
	}

	return i, nil
}

// parseLong handles one "--name", "--name=value" or "--name value"
// token starting at argv[i]. Returns the index of the next unparsed
// token.
func (self *parser) parseLong(argv []string, i int) (int, *ExitRequest) {
	name, value, attached := strings.Cut(argv[i][2:], "=")
	i++

	spec, pres := lookupLong(name)
	if !pres {
		return i, self.unknownOption("--" + name)
	}

	switch spec.kind {
	case noArgument:
		if attached {
			return i, self.noArgumentAllowed(name)
		}
		return i, self.apply(spec.short, "", false)

	case requiredArgument:
		if !attached {
			if i >= len(argv) {
				return i, self.missingArgument()
			}
			value = argv[i]
			i++
		}
		return i, self.apply(spec.short, value, true)

	default: // optionalArgument
		if !attached && i < len(argv) && !strings.HasPrefix(argv[i], "-") {
			value = argv[i]
			attached = true
			i++
		}
		return i, self.apply(spec.short, value, attached)
	}
}

// parseShort handles one short option token, which may cluster
// several no-argument options ("-tX"). An option taking an argument
// consumes the rest of its token, or the following token.
func (self *parser) parseShort(argv []string, i int) (int, *ExitRequest) {
	token := argv[i][1:]
	i++

	for j := 0; j < len(token); j++ {
		c := token[j]

		spec, pres := lookupShort(c)
		if !pres {
			return i, self.unknownOption("-" + string(c))
		}

		switch spec.kind {
		case noArgument:
			exit := self.apply(c, "", false)
			if exit != nil {
				return i, exit
			}

		case requiredArgument:
			value := token[j+1:]
			if value == "" {
				if i >= len(argv) {
					return i, self.missingArgument()
				}
				value = argv[i]
				i++
			}
			return i, self.apply(c, value, true)

		default: // optionalArgument
			value := token[j+1:]
			hasArg := value != ""
			if !hasArg && i < len(argv) && !strings.HasPrefix(argv[i], "-") {
				value = argv[i]
				hasArg = true
				i++
			}
			return i, self.apply(c, value, hasArg)
		}
	}

	return i, nil
}
