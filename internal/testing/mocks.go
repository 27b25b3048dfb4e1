// Package testing holds helpers shared by the generator tests.
package testing

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Alia5/iccgen/internal/codegen/output"
)

var ErrSinkFull = errors.New("mock sink: no more files allowed")

// NewLogger returns a debug level text logger writing into the returned buffer.
func NewLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// mockSink accepts a limited number of files and then fails every Create.
type mockSink struct {
	mu      sync.Mutex
	next    output.Sink
	allowed int
}

func (m *mockSink) Create(path string) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.allowed == 0 {
		return nil, ErrSinkFull
	}
	m.allowed--
	return m.next.Create(path)
}

// CreateMockSink returns a sink forwarding the first n files to next.
func CreateMockSink(t *testing.T, next output.Sink, n int) output.Sink {
	t.Helper()
	return &mockSink{next: next, allowed: n}
}
