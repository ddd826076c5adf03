package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFiles creates a temporary directory holding files, keyed by path
// relative to that directory, and returns its root. Contents are unindented
// so tests can keep HCL and YAML snippets indented.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(Unindent(content)+"\n"), 0o644))
	}
	return root
}
