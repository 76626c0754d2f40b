package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Global19-atlassian-net/vltrace/userspace/cliparser"
	"github.com/Global19-atlassian-net/vltrace/userspace/output"
	"github.com/Velocidex/ordereddict"
)

// eventSink routes decoded events to the right printer. With
// follow-fork separate-logs mode each traced pid gets its own output
// file, otherwise everything goes to one stream.
type eventSink struct {
	opts *cliparser.Options

	default_printer output.Printer

	per_pid map[int64]output.Printer
	closers []io.Closer
}

func newEventSink(opts *cliparser.Options) (*eventSink, error) {
	self := &eventSink{
		opts:    opts,
		per_pid: make(map[int64]output.Printer),
	}

	out := io.Writer(os.Stdout)
	if opts.OutputFile != "" {
		f, err := openOutput(opts.OutputFile)
		if err != nil {
			return nil, err
		}
		self.closers = append(self.closers, f)
		out = f
	}

	self.default_printer = output.NewPrinter(out, printerConfig(opts))
	return self, nil
}

func (self *eventSink) printerFor(event *ordereddict.Dict) (output.Printer, error) {
	if !self.opts.SeparateLogs || self.opts.OutputFile == "" {
		return self.default_printer, nil
	}

	system_any, pres := event.Get("System")
	if !pres {
		return self.default_printer, nil
	}

	system, ok := system_any.(*ordereddict.Dict)
	if !ok {
		return self.default_printer, nil
	}

	pid, pres := system.GetInt64("ProcessID")
	if !pres {
		return self.default_printer, nil
	}

	printer, pres := self.per_pid[pid]
	if pres {
		return printer, nil
	}

	f, err := openOutput(fmt.Sprintf("%s.%d", self.opts.OutputFile, pid))
	if err != nil {
		return nil, err
	}

	self.closers = append(self.closers, f)
	printer = output.NewPrinter(f, printerConfig(self.opts))
	self.per_pid[pid] = printer
	return printer, nil
}

func (self *eventSink) Print(event *ordereddict.Dict) error {
	printer, err := self.printerFor(event)
	if err != nil {
		return err
	}
	return printer.Print(event)
}

func (self *eventSink) Close() {
	for _, c := range self.closers {
		c.Close()
	}
}
