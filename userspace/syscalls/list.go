package syscalls

import (
	"fmt"
	"io"

	"golang.org/x/exp/slices"
)

func sortedIDs() []ID {
	res := make([]ID, 0, len(Core))
	for id := range Core {
		res = append(res, id)
	}
	slices.Sort(res)
	return res
}

// List writes one "number: name" line per table entry in syscall
// number order. A nil predicate lists the whole table, including
// entries without an eBPF handler.
func List(w io.Writer, pred func(Definition) bool) error {
	for _, id := range sortedIDs() {
		d := Core[id]
		if pred != nil && !pred(d) {
			continue
		}

		_, err := fmt.Fprintf(w, "%d: %s\n", d.ID, d.Name)
		if err != nil {
			return err
		}
	}
	return nil
}

// PrintBuiltinTable dumps the whole builtin table with per-entry
// details. Returns 1 on success and 0 when the table is unusable, the
// same contract the CLI's builtin-list exit code mapping relies on.
func PrintBuiltinTable(w io.Writer) int {
	if len(Core) == 0 {
		return 0
	}

	_, err := fmt.Fprintf(w, "%6s %-24s %5s %-9s %s\n",
		"NUM", "NAME", "NARGS", "TRACED", "SETS")
	if err != nil {
		return 0
	}

	for _, id := range sortedIDs() {
		d := Core[id]

		traced := "yes"
		if !d.Available {
			traced = "no"
		}

		sets := ""
		for i, s := range d.Sets {
			if i > 0 {
				sets += ","
			}
			sets += s
		}

		_, err := fmt.Fprintf(w, "%6d %-24s %5d %-9s %s\n",
			d.ID, d.Name, d.NArgs, traced, sets)
		if err != nil {
			return 0
		}
	}

	return 1
}
