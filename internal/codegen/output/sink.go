// Package output provides the destinations generated artifacts are written to.
//
// Every artifact owns exactly one stream obtained from a Sink. Streams are
// closed once by their owner; the sink never shares a stream between paths.
package output

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Sink creates output streams for generated files.
type Sink interface {
	Create(path string) (io.WriteCloser, error)
}

// FileSink writes generated files to the local filesystem, creating parent
// directories on demand.
type FileSink struct{}

func (FileSink) Create(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

// Commit writes every file of m to the filesystem. Each file is first
// written to a temporary next to its destination; the temporaries are only
// renamed into place once all of them were written, and removed otherwise.
func (FileSink) Commit(m *MemSink) (err error) {
	type staged struct{ tmp, path string }
	var files []staged
	defer func() {
		if err != nil {
			for _, f := range files {
				_ = os.Remove(f.tmp)
			}
		}
	}()

	for _, path := range m.Paths() {
		data, _ := m.File(path)
		tmp, err := writeTemp(path, data)
		if err != nil {
			return err
		}
		files = append(files, staged{tmp: tmp, path: path})
	}
	for i, f := range files {
		if err := os.Rename(f.tmp, f.path); err != nil {
			files = files[i:]
			return fmt.Errorf("rename %s: %w", f.path, err)
		}
	}
	return nil
}

func writeTemp(path, data string) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	_, err = f.WriteString(data)
	if err == nil {
		err = f.Chmod(0o644)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return f.Name(), nil
}

// MemSink keeps generated files in memory. It is used for dry runs, verify
// and tests.
type MemSink struct {
	mu    sync.Mutex
	files map[string]*bytes.Buffer
	order []string
}

func NewMemSink() *MemSink {
	return &MemSink{files: make(map[string]*bytes.Buffer)}
}

func (m *MemSink) Create(path string) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		return nil, fmt.Errorf("create %s: already written in this run", path)
	}
	buf := &bytes.Buffer{}
	m.files[path] = buf
	m.order = append(m.order, path)
	return &memFile{buf: buf}, nil
}

// File returns the content written to path.
func (m *MemSink) File(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, ok := m.files[filepath.Clean(path)]
	if !ok {
		return "", false
	}
	return buf.String(), true
}

// Paths returns every written path in creation order.
func (m *MemSink) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

type memFile struct {
	buf    *bytes.Buffer
	closed bool
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.buf.Write(p)
}

func (f *memFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	return nil
}
