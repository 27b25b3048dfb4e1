package generator

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/Alia5/iccgen/internal/codegen/output"
	yaml "gopkg.in/yaml.v3"
)

var ErrStale = errors.New("generated files are stale")

// Manifest lists every generated file with its digest.
type Manifest struct {
	Version string         `yaml:"version"`
	Files   []output.Entry `yaml:"files"`
}

// Manifest returns the files of the run sorted by path.
func (r *Result) Manifest() Manifest {
	files := append([]output.Entry(nil), r.Entries...)
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return Manifest{Version: r.Version, Files: files}
}

func WriteManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return m, fmt.Errorf("read manifest: %w", err)
	}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// Diff returns the paths whose entry differs between m and other, or that
// only one of them lists, sorted.
func (m Manifest) Diff(other Manifest) []string {
	want := make(map[string]output.Entry, len(m.Files))
	for _, e := range m.Files {
		want[e.Path] = e
	}
	var diff []string
	for _, e := range other.Files {
		w, ok := want[e.Path]
		if !ok || w.Digest != e.Digest {
			diff = append(diff, e.Path)
		}
		delete(want, e.Path)
	}
	for p := range want {
		diff = append(diff, p)
	}
	sort.Strings(diff)
	return diff
}

// Verify compares the files of an in-memory run against their current
// content as returned by read. It returns the stale paths and ErrStale when
// any file is missing or differs.
func Verify(res *Result, read func(path string) ([]byte, error)) ([]string, error) {
	var stale []string
	for _, e := range res.Manifest().Files {
		data, err := read(e.Path)
		if errors.Is(err, os.ErrNotExist) {
			stale = append(stale, e.Path)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Path, err)
		}
		if output.Digest(data) != e.Digest {
			stale = append(stale, e.Path)
		}
	}
	if len(stale) > 0 {
		return stale, fmt.Errorf("%w: %d of %d", ErrStale, len(stale), len(res.Entries))
	}
	return nil, nil
}
