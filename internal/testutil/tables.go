package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteCSV writes content to dir/name, creating parent directories, and
// returns the file's path.
func WriteCSV(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Tables writes every name -> content pair into a fresh temporary
// directory and returns it.
func Tables(t *testing.T, tables map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range tables {
		WriteCSV(t, dir, name, content)
	}
	return dir
}

// People is the table most tests query.
const People = "name,age,active\nAnn,30,true\nBob,12,false\nCid,45,true\n"
