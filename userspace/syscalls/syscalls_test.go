package syscalls

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/sys/unix"
	"gotest.tools/assert"
)

func TestListFiltersWithPredicate(t *testing.T) {
	var all, traced bytes.Buffer

	assert.NilError(t, List(&all, nil))
	assert.NilError(t, List(&traced, IsTraced))

	all_lines := strings.Split(strings.TrimSpace(all.String()), "\n")
	traced_lines := strings.Split(strings.TrimSpace(traced.String()), "\n")

	assert.Equal(t, len(all_lines), len(Core))
	assert.Assert(t, len(traced_lines) < len(all_lines))

	// ptrace has no handler so it only shows up in the full list.
	assert.Assert(t, strings.Contains(all.String(), " ptrace"))
	assert.Assert(t, !strings.Contains(traced.String(), " ptrace"))
}

func TestListIsSortedByNumber(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, List(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, lines[0], "0: read")
	assert.Equal(t, lines[1], "1: write")
}

func TestPrintBuiltinTable(t *testing.T) {
	var buf bytes.Buffer

	res := PrintBuiltinTable(&buf)
	assert.Equal(t, res, 1)

	out := buf.String()
	assert.Assert(t, strings.Contains(out, "NAME"))
	assert.Assert(t, strings.Contains(out, "execve"))
}

func TestLookupSet(t *testing.T) {
	ids, pres := LookupSet("net")
	assert.Assert(t, pres)
	assert.Assert(t, len(ids) > 0)

	for _, id := range ids {
		assert.Assert(t, Core[id].InSet("net"))
	}

	_, pres = LookupSet("no-such-set")
	assert.Assert(t, !pres)
}

func TestParseExpr(t *testing.T) {
	ids, err := ParseExpr("trace=file,net")
	assert.NilError(t, err)

	seen := make(map[ID]bool)
	for _, id := range ids {
		seen[id] = true
	}
	assert.Assert(t, seen[ID(unix.SYS_OPEN)])
	assert.Assert(t, seen[ID(unix.SYS_CONNECT)])

	// Union, no duplicates.
	assert.Equal(t, len(ids), len(seen))

	_, err = ParseExpr("pid=1")
	assert.ErrorContains(t, err, "unsupported filter expression")

	_, err = ParseExpr("trace=bogus")
	assert.ErrorContains(t, err, "unknown trace set")
}

func TestGetDefinitionByName(t *testing.T) {
	d, pres := GetDefinitionByName("openat")
	assert.Assert(t, pres)
	assert.Equal(t, d.ID, ID(unix.SYS_OPENAT))

	_, pres = GetDefinitionByName("not_a_syscall")
	assert.Assert(t, !pres)
}
