package manager

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Global19-atlassian-net/vltrace/userspace/syscalls"
	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sys/unix"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestListenerFeedFiltersSyscalls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newListener(ctx, ctx, []syscalls.ID{unix.SYS_OPEN})

	event := ordereddict.NewDict()

	done := make(chan *ordereddict.Dict, 2)
	go func() {
		for e := range l.output_chan {
			done <- e
		}
		close(done)
	}()

	// Not monitored, dropped without blocking.
	l.Feed(syscalls.ID(unix.SYS_READ), event)

	// Monitored, delivered.
	l.Feed(syscalls.ID(unix.SYS_OPEN), event)

	got := <-done
	assert.Equal(t, event, got)
	assert.Equal(t, 1, l.GetCount())

	l.Close()
	_, more := <-done
	assert.False(t, more)
}

func TestListenerEmptySelectionMonitorsAllTraceable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newListener(ctx, ctx, nil)
	defer l.Close()

	monitored := l.GetSyscalls()

	count := 0
	for _, d := range syscalls.Core {
		if d.Available {
			count++
		}
	}
	assert.Equal(t, count, len(monitored))
}

func TestListenerPrefilter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newListener(ctx, ctx, nil)
	defer l.Close()

	// No prefilter passes everything.
	assert.True(t, l.Prefilter([]byte{1}))

	l.SetPrefilter(func(in []byte) bool {
		return len(in) > 4
	})

	assert.False(t, l.Prefilter([]byte{1}))
	assert.True(t, l.Prefilter([]byte{1, 2, 3, 4, 5}))
	assert.Equal(t, 1, l.GetPrefilteredCount())
}

func TestListenerFeedAfterCloseDoesNotPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := newListener(ctx, ctx, nil)
	l.Close()
	l.Feed(syscalls.ID(unix.SYS_READ), ordereddict.NewDict())
}

// Closing must release a Feed blocked on the unbuffered channel even
// when no context was cancelled, otherwise teardown paths that close
// the listener before cancelling would hang.
func TestCloseUnblocksBlockedFeed(t *testing.T) {
	ctx := context.Background()
	l := newListener(ctx, ctx, []syscalls.ID{unix.SYS_OPEN})

	fed := make(chan struct{})
	go func() {
		l.Feed(syscalls.ID(unix.SYS_OPEN), ordereddict.NewDict())
		close(fed)
	}()

	// Nobody reads output_chan, let the Feed block on the send.
	time.Sleep(10 * time.Millisecond)

	l.Close()

	select {
	case <-fed:
	case <-time.After(time.Second):
		t.Fatal("Feed still blocked after Close")
	}

	_, more := <-l.output_chan
	assert.False(t, more)
}

func TestCommCache(t *testing.T) {
	cache, err := newCommCache(4)
	require.NoError(t, err)

	pid := uint32(os.Getpid())

	comm := cache.Get(pid)
	assert.NotEmpty(t, comm)

	// Second hit comes from the cache.
	assert.Equal(t, comm, cache.Get(pid))

	cache.Forget(pid)
	assert.Equal(t, comm, cache.Get(pid))

	// A pid that cannot exist resolves to the empty string.
	assert.Equal(t, "", cache.Get(1<<31))
}
