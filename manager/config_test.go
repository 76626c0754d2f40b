package manager

import (
	"os"
	"testing"

	"github.com/Global19-atlassian-net/vltrace/userspace/cliparser"
	"github.com/Global19-atlassian-net/vltrace/userspace/output"
	"github.com/stretchr/testify/assert"
)

func TestConfigFromOptions(t *testing.T) {
	opts := cliparser.NewOptions()
	opts.Pid = 42
	opts.FailedOnly = true
	opts.FollowFork = cliparser.FollowForkFull
	opts.StringArgsMode = output.StringArgsFull
	opts.EbpfSrcDir = "/tmp/objs"

	config := NewConfigFromOptions(opts)
	assert.Equal(t, 42, config.Pid)
	assert.True(t, config.FailedOnly)
	assert.True(t, config.FollowFork)
	assert.Equal(t, output.StringArgsFull, config.StringArgs)
	assert.Equal(t, "/tmp/objs", config.EbpfSrcDir)
}

// The string args reading mode has to reach the eBPF side together
// with the pid and the flag bits.
func TestEbpfConfigCarriesStringArgsMode(t *testing.T) {
	obj := newEbpfConfig(Config{
		Pid:        42,
		FailedOnly: true,
		FollowFork: true,
		StringArgs: output.StringArgsPacked,
	})

	assert.Equal(t, uint32(os.Getpid()), obj.VltracePid)
	assert.Equal(t, uint32(42), obj.TracedPid)
	assert.Equal(t, configFlagFailedOnly|configFlagFollowFork, obj.Flags)
	assert.Equal(t, uint32(output.StringArgsPacked), obj.StringReadMode)

	// The default mode maps to zero.
	assert.Equal(t, uint32(0), newEbpfConfig(Config{}).StringReadMode)
}
