package output

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memWith(t *testing.T, files map[string]string, order ...string) *MemSink {
	t.Helper()
	m := NewMemSink()
	for _, p := range order {
		w, err := m.Create(p)
		require.NoError(t, err)
		_, err = io.WriteString(w, files[p])
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
	return m
}

func TestMemSinkRejectsSecondCreate(t *testing.T) {
	m := NewMemSink()
	_, err := m.Create("a/b.c")
	require.NoError(t, err)
	_, err = m.Create("a/./b.c")
	assert.ErrorContains(t, err, "already written")
}

func TestFileSinkCommit(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "icc", "icc_a.c")
	b := filepath.Join(dir, "iccpkg", "exports", "gsk.def")
	m := memWith(t, map[string]string{a: "int a;\n", b: "EXPORTS\n"}, a, b)

	require.NoError(t, FileSink{}.Commit(m))

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "int a;\n", string(data))
	data, err = os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, "EXPORTS\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(a))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSinkCommitWritesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))

	a := filepath.Join(dir, "icc", "icc_a.c")
	require.NoError(t, os.MkdirAll(filepath.Dir(a), 0o755))
	require.NoError(t, os.WriteFile(a, []byte("old\n"), 0o644))
	b := filepath.Join(blocked, "icc_a.h")
	m := memWith(t, map[string]string{a: "new\n", b: "h\n"}, a, b)

	assert.Error(t, FileSink{}.Commit(m))

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	assert.Equal(t, "old\n", string(data))
	entries, err := os.ReadDir(filepath.Dir(a))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are removed")
}
