package output

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Entry describes one file produced through a Recorder.
type Entry struct {
	Path   string `json:"path" yaml:"path" toml:"path"`
	Size   int64  `json:"size" yaml:"size" toml:"size"`
	Digest string `json:"blake2b" yaml:"blake2b" toml:"blake2b"`
}

// Recorder wraps a Sink and records the size and BLAKE2b-256 digest of every
// stream once it is closed.
type Recorder struct {
	next Sink

	mu      sync.Mutex
	entries []Entry
}

func NewRecorder(next Sink) *Recorder {
	return &Recorder{next: next}
}

func (r *Recorder) Create(path string) (io.WriteCloser, error) {
	w, err := r.next.Create(path)
	if err != nil {
		return nil, err
	}
	h, err := blake2b.New256(nil)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("init digest: %w", err)
	}
	return &recordedFile{path: path, w: w, h: h, rec: r}, nil
}

// Entries returns the closed files in the order they were closed.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

type recordedFile struct {
	path   string
	w      io.WriteCloser
	h      hash.Hash
	n      int64
	rec    *Recorder
	closed bool
}

func (f *recordedFile) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	f.h.Write(p[:n])
	f.n += int64(n)
	return n, err
}

func (f *recordedFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	if err := f.w.Close(); err != nil {
		return err
	}
	f.rec.add(Entry{Path: f.path, Size: f.n, Digest: hex.EncodeToString(f.h.Sum(nil))})
	return nil
}

// Digest returns the hex BLAKE2b-256 digest of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
