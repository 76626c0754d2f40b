package syscalls

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	unknownSetError  = errors.New("unknown trace set")
	unknownExprError = errors.New("unsupported filter expression")
)

// Sets returns the names of all trace sets present in the builtin
// table, sorted.
func Sets() []string {
	tmp := make(map[string]bool)
	for _, d := range Core {
		for _, s := range d.Sets {
			tmp[s] = true
		}
	}

	res := make([]string, 0, len(tmp))
	for k := range tmp {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// LookupSet resolves a trace set name to the ids of its traceable
// members.
func LookupSet(name string) ([]ID, bool) {
	var res []ID
	for _, id := range sortedIDs() {
		d := Core[id]
		if d.Available && d.InSet(name) {
			res = append(res, id)
		}
	}

	if res == nil {
		return nil, false
	}
	return res, true
}

// ParseExpr resolves a filter expression of the form
// "trace=set[,set...]" to the syscall ids to trace. Sets combine by
// union.
func ParseExpr(expr string) ([]ID, error) {
	body, ok := strings.CutPrefix(expr, "trace=")
	if !ok {
		return nil, fmt.Errorf("%w: %q", unknownExprError, expr)
	}

	tmp := make(map[ID]bool)
	for _, name := range strings.Split(body, ",") {
		name = strings.TrimSpace(name)

		ids, pres := LookupSet(name)
		if !pres {
			return nil, fmt.Errorf("%w: %q", unknownSetError, name)
		}

		for _, id := range ids {
			tmp[id] = true
		}
	}

	res := make([]ID, 0, len(tmp))
	for id := range tmp {
		res = append(res, id)
	}
	slices.Sort(res)
	return res, nil
}
