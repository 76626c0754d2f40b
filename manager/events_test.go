package manager

import (
	"bytes"
	"encoding/binary"
	"os"
	"testing"
	"time"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func testTracer(t *testing.T) *Tracer {
	t.Helper()

	comms, err := newCommCache(16)
	require.NoError(t, err)

	return &Tracer{
		comms:         comms,
		boot_epoch_ns: uint64(time.Unix(1700000000, 0).UnixNano()),
	}
}

func encodeRecord(t *testing.T, eCtx eventContext, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, eCtx))
	buf.Write(payload)
	return buf.Bytes()
}

func systemOf(t *testing.T, event *ordereddict.Dict) *ordereddict.Dict {
	t.Helper()

	system_any, pres := event.Get("System")
	require.True(t, pres)
	return system_any.(*ordereddict.Dict)
}

func argsOf(t *testing.T, event *ordereddict.Dict) *ordereddict.Dict {
	t.Helper()

	args_any, pres := event.Get("Args")
	require.True(t, pres)
	return args_any.(*ordereddict.Dict)
}

func TestDecodeEvent(t *testing.T) {
	tracer := testTracer(t)

	raw := encodeRecord(t, eventContext{
		Ts:     1000,
		Pid:    uint32(os.Getpid()),
		Tid:    4321,
		ScID:   unix.SYS_READ,
		Retval: 512,
		Args:   [6]uint64{3, 0x7f0000001000, 4096},
	}, nil)

	event, id, err := tracer.decodeEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, syscalls.ID(unix.SYS_READ), id)

	system := systemOf(t, event)

	name, _ := system.GetString("SyscallName")
	assert.Equal(t, "read", name)

	ret, _ := system.GetInt64("ReturnValue")
	assert.Equal(t, int64(512), ret)

	pid, _ := system.GetInt64("ProcessID")
	assert.Equal(t, int64(os.Getpid()), pid)

	// Own pid resolves through /proc.
	comm, _ := system.GetString("ProcessName")
	assert.NotEmpty(t, comm)

	ts_any, pres := system.Get("Timestamp")
	require.True(t, pres)
	assert.Equal(t,
		time.Unix(1700000000, 1000).UnixNano(),
		ts_any.(time.Time).UnixNano())

	args := argsOf(t, event)
	assert.Equal(t, []string{"arg0", "arg1", "arg2"}, args.Keys())

	fd, _ := args.Get("arg0")
	assert.Equal(t, uint64(3), fd)
}

func TestDecodeEventPathPayload(t *testing.T) {
	tracer := testTracer(t)

	raw := encodeRecord(t, eventContext{
		ScID:   unix.SYS_OPEN,
		Retval: 5,
	}, append([]byte("/etc/hosts"), 0, 0))

	event, _, err := tracer.decodeEvent(raw)
	require.NoError(t, err)

	args := argsOf(t, event)
	path, pres := args.GetString("pathname")
	assert.True(t, pres)
	assert.Equal(t, "/etc/hosts", path)
}

func TestDecodeEventPacketPayload(t *testing.T) {
	tracer := testTracer(t)

	// Minimal IPv4 + UDP frame.
	payload := []byte{
		0x45, 0x00, 0x00, 0x1c, 0x00, 0x00, 0x00, 0x00,
		0x40, 0x11, 0x00, 0x00, 0x7f, 0x00, 0x00, 0x01,
		0x7f, 0x00, 0x00, 0x01,
		0x00, 0x35, 0x00, 0x35, 0x00, 0x08, 0x00, 0x00,
	}

	raw := encodeRecord(t, eventContext{
		ScID:   unix.SYS_SENDTO,
		Retval: int64(len(payload)),
	}, payload)

	event, _, err := tracer.decodeEvent(raw)
	require.NoError(t, err)

	args := argsOf(t, event)
	packet_any, pres := args.Get("packet")
	require.True(t, pres)

	packet := packet_any.(*ordereddict.Dict)
	_, pres = packet.Get("IPv4")
	assert.True(t, pres)
	_, pres = packet.Get("UDP")
	assert.True(t, pres)
}

// execve replaces the process image, the cached name from before the
// event must not survive the decode.
func TestDecodeEventExecveDropsCachedName(t *testing.T) {
	tracer := testTracer(t)

	pid := uint32(os.Getpid())
	tracer.comms.cache.Add(pid, "stale-name")

	raw := encodeRecord(t, eventContext{
		Pid:  pid,
		ScID: unix.SYS_EXECVE,
	}, nil)

	event, _, err := tracer.decodeEvent(raw)
	require.NoError(t, err)

	comm, _ := systemOf(t, event).GetString("ProcessName")
	assert.NotEqual(t, "stale-name", comm)
	assert.NotEmpty(t, comm)
}

func TestDecodeEventUnknownSyscall(t *testing.T) {
	tracer := testTracer(t)

	raw := encodeRecord(t, eventContext{ScID: 9999}, nil)

	_, _, err := tracer.decodeEvent(raw)
	assert.ErrorIs(t, err, unknownSyscallError)
}

func TestDecodeEventShortRecord(t *testing.T) {
	tracer := testTracer(t)

	_, _, err := tracer.decodeEvent(make([]byte, 10))
	assert.ErrorIs(t, err, recordTooShortError)
}
