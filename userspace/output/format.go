// Package output owns the output side of vltrace: the output format
// and string-argument mode enums with their resolvers, and the event
// printers that turn decoded events into log lines.
package output

import "strings"

type Format int

const (
	FormatBin Format = iota
	FormatBinary
	FormatHex
	FormatHexRaw
	FormatHexSL
	FormatStrace
)

// SupportedFormats in the order the CLI help lists them.
var SupportedFormats = []string{
	"bin", "binary", "hex", "hex_raw", "hex_sl", "strace",
}

// ParseFormat maps a format name to its enum. Unknown names fall back
// to the default hex format.
func ParseFormat(name string) Format {
	switch strings.ToLower(name) {
	case "bin":
		return FormatBin
	case "binary":
		return FormatBinary
	case "hex":
		return FormatHex
	case "hex_raw":
		return FormatHexRaw
	case "hex_sl":
		return FormatHexSL
	case "strace":
		return FormatStrace
	default:
		return FormatHex
	}
}

func (self Format) String() string {
	switch self {
	case FormatBin:
		return "bin"
	case FormatBinary:
		return "binary"
	case FormatHexRaw:
		return "hex_raw"
	case FormatHexSL:
		return "hex_sl"
	case FormatStrace:
		return "strace"
	default:
		return "hex"
	}
}

type StringArgsMode int

const (
	// StringArgsFast truncates string arguments to one record.
	StringArgsFast StringArgsMode = iota

	// StringArgsPacked packs several short strings per record.
	StringArgsPacked

	// StringArgsFull reassembles long strings from multiple records.
	StringArgsFull
)

// ParseStringArgsMode maps a mode name to its enum, defaulting to the
// fast mode.
func ParseStringArgsMode(name string) StringArgsMode {
	switch strings.ToLower(name) {
	case "packed":
		return StringArgsPacked
	case "full":
		return StringArgsFull
	default:
		return StringArgsFast
	}
}

func (self StringArgsMode) String() string {
	switch self {
	case StringArgsPacked:
		return "packed"
	case StringArgsFull:
		return "full"
	default:
		return "fast"
	}
}
