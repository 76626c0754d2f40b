package manager

import (
	"testing"

	"github.com/cilium/ebpf"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Log(format string, a ...interface{})   {}
func (nopLogger) Error(format string, a ...interface{}) {}
func (nopLogger) Warn(format string, a ...interface{})  {}
func (nopLogger) Debug(format string, a ...interface{}) {}

// A load that fails half way (e.g. a stale object missing one of the
// maps) leaves a collection behind with no event loop and no cancel.
// Close must still unload cleanly instead of panicking.
func TestCloseAfterPartialLoad(t *testing.T) {
	self := &Tracer{
		collection: &ebpf.Collection{},
		logger:     nopLogger{},
	}

	self.Close()

	assert.Nil(t, self.collection)
	assert.Nil(t, self.links)

	// Idempotent.
	self.Close()
}
