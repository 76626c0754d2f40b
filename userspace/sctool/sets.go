package main

import (
	"encoding/json"
	"fmt"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/alecthomas/kingpin"
)

var (
	sets_command = app.Command("sets", "Dump trace set membership.")
)

func getSets() map[string][]string {
	sets := make(map[string][]string)

	for _, name := range syscalls.Sets() {
		ids, pres := syscalls.LookupSet(name)
		if !pres {
			continue
		}

		var members []string
		for _, id := range ids {
			members = append(members, syscalls.Core[id].Name)
		}
		sets[name] = members
	}
	return sets
}

func doSets() {
	serialized, err := json.MarshalIndent(getSets(), " ", " ")
	kingpin.FatalIfError(err, "doSets")

	fmt.Println(string(serialized))
}

func init() {
	command_handlers = append(command_handlers, func(command string) bool {
		switch command {
		case sets_command.FullCommand():
			doSets()
		default:
			return false
		}
		return true
	})
}
