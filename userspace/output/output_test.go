package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
)

func testEvent() *ordereddict.Dict {
	system := ordereddict.NewDict().
		Set("Timestamp", time.Unix(1700000000, 0)).
		Set("ProcessID", int64(1234)).
		Set("SyscallID", int64(2)).
		Set("SyscallName", "open").
		Set("ReturnValue", int64(3))

	args := ordereddict.NewDict().
		Set("pathname", "/etc/passwd").
		Set("flags", uint64(0)).
		Set("mode", uint64(0x1ed))

	return ordereddict.NewDict().
		Set("System", system).
		Set("Args", args)
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatStrace, ParseFormat("strace"))
	assert.Equal(t, FormatStrace, ParseFormat("STRACE"))
	assert.Equal(t, FormatHexSL, ParseFormat("hex_sl"))

	// Unknown names fall back to hex.
	assert.Equal(t, FormatHex, ParseFormat("something-else"))
}

func TestParseStringArgsMode(t *testing.T) {
	assert.Equal(t, StringArgsFull, ParseStringArgsMode("full"))
	assert.Equal(t, StringArgsPacked, ParseStringArgsMode("Packed"))
	assert.Equal(t, StringArgsFast, ParseStringArgsMode(""))
}

func TestHexPrinter(t *testing.T) {
	var buf bytes.Buffer

	p := NewPrinter(&buf, Config{Format: FormatHex})
	assert.NoError(t, p.Print(testEvent()))

	line := buf.String()
	assert.Contains(t, line, "1234 open")
	assert.Contains(t, line, `"/etc/passwd"`)
	assert.Contains(t, line, "0x1ed")
}

func TestHexPrinterSeparatorAndTimestamp(t *testing.T) {
	var buf bytes.Buffer

	p := NewPrinter(&buf, Config{
		Format:         FormatHex,
		Timestamp:      true,
		FieldSeparator: ';',
	})
	assert.NoError(t, p.Print(testEvent()))

	line := buf.String()
	assert.Contains(t, line, ";1234;open;")
	assert.Contains(t, line, "1700000000000000000;")
}

func TestHexRawPrinterKeepsNumericID(t *testing.T) {
	var buf bytes.Buffer

	p := NewPrinter(&buf, Config{Format: FormatHexRaw})
	assert.NoError(t, p.Print(testEvent()))

	assert.Contains(t, buf.String(), "1234 2")
	assert.NotContains(t, buf.String(), "open")
}

func TestStracePrinter(t *testing.T) {
	var buf bytes.Buffer

	p := NewPrinter(&buf, Config{Format: FormatStrace})
	assert.NoError(t, p.Print(testEvent()))

	assert.Equal(t,
		`[1234] open("/etc/passwd", 0, 493) = 3`+"\n",
		buf.String())
}

func TestBinPrinter(t *testing.T) {
	var buf bytes.Buffer

	p := NewPrinter(&buf, Config{Format: FormatBin})
	assert.NoError(t, p.Print(testEvent()))

	// Four fixed little endian int64 fields.
	assert.Equal(t, 32, buf.Len())
}
