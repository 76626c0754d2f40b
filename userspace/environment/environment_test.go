package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKernelRelease(t *testing.T) {
	for release, expected := range map[string]string{
		"5.15.0-124-generic":  "5.15.0",
		"6.8.12":              "6.8.12",
		"4.4.0+":              "4.4.0",
		"6.1.55-1-lts":        "6.1.55",
		"5.10.0-0.deb11.2-rt": "5.10.0",
	} {
		v, err := parseKernelRelease(release)
		require.NoError(t, err, "release: %v", release)
		assert.Equal(t, expected, v.String(), "release: %v", release)
	}
}

func TestParseKernelReleaseInvalid(t *testing.T) {
	_, err := parseKernelRelease("not-a-version")
	assert.Error(t, err)
}

func TestKernelVersion(t *testing.T) {
	v, err := KernelVersion()
	require.NoError(t, err)
	assert.True(t, v.Major() >= 3)
}
