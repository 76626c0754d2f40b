// Package txt holds the static help output of the vltrace CLI.
package txt

import (
	"fmt"
	"io"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
)

const helpText = `vltrace - syscall tracing tool based on eBPF

Usage: vltrace [options] [command [arg ...]]

Options:
  -t, --timestamp            include a timestamp in each line
  -X, --failed               trace failed syscalls only
  -d, --debug                enable debug output
  -r, --no-progress          do not print progress information
  -p, --pid <pid>            trace the process with this pid
  -o, --output <file>        log output to this file instead of stdout
  -l, --format <fmt>         output format, one of: bin, binary, hex,
                             hex_raw, hex_sl, strace
                             ('-l list' prints the supported formats)
  -s, --string-args <mode>   string argument reading mode: fast,
                             packed or full
  -e, --expr <expr>          filter expression, e.g. 'trace=file,net'
                             ('-e help' prints the supported syntax)
  -K, --hex-separator <ch>   field separator for the hex formats
  -f, --full-follow-fork [a] follow child processes; with an argument,
                             log each child to a separate file
  -N, --ebpf-src-dir <dir>   load the eBPF object from this directory
  -L, --list                 print traceable syscalls and exit
  -R, --ll-list              print the full low level syscall table
                             and exit
  -B, --builtin-list         print the builtin syscall table and exit
  -h, --help                 print this help and exit
`

// Help writes the full usage text.
func Help(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// TraceSetList writes the supported trace set names, one per line
// with the number of traceable members.
func TraceSetList(w io.Writer) {
	fmt.Fprintln(w, "Supported trace sets:")
	for _, name := range syscalls.Sets() {
		ids, _ := syscalls.LookupSet(name)
		fmt.Fprintf(w, "  %-8s (%d syscalls)\n", name, len(ids))
	}
}
