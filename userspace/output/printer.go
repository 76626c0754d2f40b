package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Velocidex/ordereddict"
)

// Printer renders one decoded syscall event. Implementations are not
// safe for concurrent use; the event loop is the only writer.
type Printer interface {
	Print(event *ordereddict.Dict) error
}

type Config struct {
	Format         Format
	Timestamp      bool
	FieldSeparator byte
}

func NewPrinter(w io.Writer, config Config) Printer {
	if config.FieldSeparator == 0 {
		config.FieldSeparator = ' '
	}

	switch config.Format {
	case FormatBin, FormatBinary:
		return &binPrinter{w: w}

	case FormatStrace:
		return &stracePrinter{w: w, config: config}

	default:
		return &hexPrinter{w: w, config: config}
	}
}

func systemPart(event *ordereddict.Dict) *ordereddict.Dict {
	system_any, pres := event.Get("System")
	if !pres {
		return ordereddict.NewDict()
	}

	system, ok := system_any.(*ordereddict.Dict)
	if !ok {
		return ordereddict.NewDict()
	}
	return system
}

func argsPart(event *ordereddict.Dict) *ordereddict.Dict {
	args_any, pres := event.Get("Args")
	if !pres {
		return ordereddict.NewDict()
	}

	args, ok := args_any.(*ordereddict.Dict)
	if !ok {
		return ordereddict.NewDict()
	}
	return args
}

func formatArg(value interface{}, hex bool) string {
	switch t := value.(type) {
	case string:
		return strconv.Quote(t)

	case []byte:
		return strconv.Quote(string(t))

	case uint64:
		if hex {
			return "0x" + strconv.FormatUint(t, 16)
		}
		return strconv.FormatUint(t, 10)

	default:
		return fmt.Sprintf("%v", t)
	}
}

// hexPrinter covers the hex, hex_raw and hex_sl formats: one event
// per line, fields joined with the configured separator, numeric
// arguments in hex. hex_raw skips syscall name resolution.
type hexPrinter struct {
	w      io.Writer
	config Config
}

func (self *hexPrinter) Print(event *ordereddict.Dict) error {
	system := systemPart(event)
	sep := string(self.config.FieldSeparator)

	line := ""
	if self.config.Timestamp {
		ts, pres := system.Get("Timestamp")
		if pres {
			if t, ok := ts.(time.Time); ok {
				line += strconv.FormatInt(t.UnixNano(), 10) + sep
			}
		}
	}

	pid, _ := system.GetInt64("ProcessID")
	line += strconv.FormatInt(pid, 10) + sep

	if self.config.Format == FormatHexRaw {
		id, _ := system.GetInt64("SyscallID")
		line += strconv.FormatInt(id, 10)
	} else {
		name, _ := system.GetString("SyscallName")
		line += name
	}

	args := argsPart(event)
	for _, k := range args.Keys() {
		v, _ := args.Get(k)
		line += sep + formatArg(v, true)
	}

	ret, _ := system.GetInt64("ReturnValue")
	line += sep + strconv.FormatInt(ret, 10)

	_, err := fmt.Fprintln(self.w, line)
	return err
}

// stracePrinter mimics the familiar strace line format:
//
//	[pid] name(arg, arg, ...) = ret
type stracePrinter struct {
	w      io.Writer
	config Config
}

func (self *stracePrinter) Print(event *ordereddict.Dict) error {
	system := systemPart(event)

	line := ""
	if self.config.Timestamp {
		ts, pres := system.Get("Timestamp")
		if pres {
			if t, ok := ts.(time.Time); ok {
				line += t.Format("15:04:05.000000") + " "
			}
		}
	}

	pid, _ := system.GetInt64("ProcessID")
	name, _ := system.GetString("SyscallName")
	line += "[" + strconv.FormatInt(pid, 10) + "] " + name + "("

	args := argsPart(event)
	for i, k := range args.Keys() {
		if i > 0 {
			line += ", "
		}
		v, _ := args.Get(k)
		line += formatArg(v, false)
	}

	ret, _ := system.GetInt64("ReturnValue")
	line += ") = " + strconv.FormatInt(ret, 10)

	_, err := fmt.Fprintln(self.w, line)
	return err
}

// binPrinter frames events as fixed little endian records for
// machine consumption.
type binPrinter struct {
	w io.Writer
}

func (self *binPrinter) Print(event *ordereddict.Dict) error {
	system := systemPart(event)

	pid, _ := system.GetInt64("ProcessID")
	id, _ := system.GetInt64("SyscallID")
	ret, _ := system.GetInt64("ReturnValue")

	var ts int64
	ts_any, pres := system.Get("Timestamp")
	if pres {
		if t, ok := ts_any.(time.Time); ok {
			ts = t.UnixNano()
		}
	}

	record := []int64{ts, pid, id, ret}
	return binary.Write(self.w, binary.LittleEndian, record)
}
