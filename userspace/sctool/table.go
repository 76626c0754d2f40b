package main

import (
	"encoding/json"
	"fmt"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Velocidex/ordereddict"
	"github.com/alecthomas/kingpin"
	"golang.org/x/exp/slices"
)

var (
	table_command = app.Command("table", "Dump the syscall table as JSON.")

	table_command_set = table_command.Flag(
		"set", "Only show members of this trace set").String()

	table_command_traced = table_command.Flag(
		"traced", "Only show traceable syscalls").Bool()
)

func getTableDict() *ordereddict.Dict {
	res := ordereddict.NewDict()

	ids := make([]syscalls.ID, 0, len(syscalls.Core))
	for id := range syscalls.Core {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		d := syscalls.Core[id]

		if *table_command_traced && !syscalls.IsTraced(d) {
			continue
		}

		if *table_command_set != "" && !d.InSet(*table_command_set) {
			continue
		}

		res.Set(d.Name, ordereddict.NewDict().
			Set("Id", int64(d.ID)).
			Set("NArgs", d.NArgs).
			Set("Sets", d.Sets).
			Set("Traced", d.Available))
	}

	return res
}

func doTable() {
	serialized, err := json.MarshalIndent(getTableDict(), " ", " ")
	kingpin.FatalIfError(err, "doTable")

	fmt.Println(string(serialized))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case table_command.FullCommand():
			doTable()
		default:
			return false
		}
		return true
	})
}
