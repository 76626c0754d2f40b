package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestApplyFixups(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "gen", "a.go"),
		"//go:embed object.o\nvar data []byte\n")
	writeFile(t, filepath.Join(dir, "gen", "a_test.go"),
		"//go:embed object.o\n")

	writeFile(t, filepath.Join(dir, "fixups.yaml"), `
ExcludedFiles:
  - ".*_test\\.go$"
Fixups:
  - Desc: disable embedding
    Match: "//go:embed "
    Glob: "`+dir+`/gen/*.go"
    Replace: "//"
`)

	fixups, err := LoadFixups(filepath.Join(dir, "fixups.yaml"))
	require.NoError(t, err)

	require.NoError(t, fixups.Apply())

	changed, err := os.ReadFile(filepath.Join(dir, "gen", "a.go"))
	require.NoError(t, err)
	assert.Equal(t, "//object.o\nvar data []byte\n", string(changed))

	// Excluded files are untouched.
	untouched, err := os.ReadFile(filepath.Join(dir, "gen", "a_test.go"))
	require.NoError(t, err)
	assert.Equal(t, "//go:embed object.o\n", string(untouched))
}

func TestLoadFixupsBadRegex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "fixups.yaml"), `
ExcludedFiles:
  - "["
`)

	_, err := LoadFixups(filepath.Join(dir, "fixups.yaml"))
	assert.Error(t, err)
}
