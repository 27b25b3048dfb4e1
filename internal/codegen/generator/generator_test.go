package generator

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/iccgen/internal/codegen/emit"
	"github.com/Alia5/iccgen/internal/codegen/output"
	icctest "github.com/Alia5/iccgen/internal/testing"
)

const functions = `PREFIX=N;
#! @brief Foo it;
0EPabcd int Foo(RSA *r);
0abef void Bar(void);
`

func writeInputs(t *testing.T, legacy string) Options {
	t.Helper()
	dir := t.TempDir()
	opts := Options{
		Functions:   icctest.WriteFile(t, dir, "functions.txt", functions),
		VersionFile: icctest.WriteFile(t, dir, "ICC_ver.txt", "8_9_10\r\nignored\n"),
		Layout:      emit.Layout{ICCDir: "icc", PkgDir: "iccpkg", TestDir: "icc_test"},
	}
	if legacy != "" {
		opts.Legacy = icctest.WriteFile(t, dir, "old_functions.txt", legacy)
	}
	return opts
}

func quietLogger(t *testing.T) *slog.Logger {
	logger, _ := icctest.NewLogger(t)
	return logger
}

func TestGenerate(t *testing.T) {
	opts := writeInputs(t, "PREFIX=C;\n0a int Foo(RSA *x);\n")
	sink := output.NewMemSink()

	res, err := New(opts, quietLogger(t)).Generate(sink)
	require.NoError(t, err)
	assert.Equal(t, "8_9_10", res.Version)
	assert.Len(t, res.Tables, len(emit.Specs()))

	for _, s := range emit.Specs() {
		_, ok := sink.File(opts.Layout.Path(s.Kind))
		assert.True(t, ok, s.Name)
	}
	// 12 artifacts, 9 icclib exports and 4 step library families of 16 files
	assert.Len(t, res.Entries, 12+9+4*16)
	assert.Len(t, sink.Paths(), len(res.Entries))

	wrap, _ := sink.File("iccpkg/gsk_wrap2_a.c")
	assert.Contains(t, wrap, "ICCC_Foo(wpcb->Cctx,r)")
	mk, _ := sink.File("iccpkg/muppet.mk")
	assert.Contains(t, mk, "$(OLD_ICC)")
}

func TestGenerateMissingInput(t *testing.T) {
	opts := writeInputs(t, "")
	opts.Functions = filepath.Join(t.TempDir(), "missing.txt")
	_, err := New(opts, quietLogger(t)).Generate(output.NewMemSink())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateParseError(t *testing.T) {
	opts := writeInputs(t, "")
	require.NoError(t, os.WriteFile(opts.Functions, []byte("0a int Foo(int a;\n"), 0o644))
	_, err := New(opts, quietLogger(t)).Generate(output.NewMemSink())
	assert.ErrorContains(t, err, opts.Functions)
}

func TestGenerateSinkFailure(t *testing.T) {
	opts := writeInputs(t, "")
	sink := icctest.CreateMockSink(t, output.NewMemSink(), 3)
	_, err := New(opts, quietLogger(t)).Generate(sink)
	assert.ErrorIs(t, err, icctest.ErrSinkFull)
	assert.ErrorContains(t, err, "generate icclib_a.h")
}

func TestSymbolTables(t *testing.T) {
	tables, err := New(writeInputs(t, ""), quietLogger(t)).SymbolTables()
	require.NoError(t, err)
	require.Len(t, tables, len(emit.Specs()))

	got := map[string][]string{}
	for _, tb := range tables {
		got[tb.Artifact] = tb.Names()
	}
	assert.Equal(t, []string{"Foo", "Bar"}, got["icc_a.c"])
	assert.Equal(t, []string{"Foo"}, got["icclib_a.c"])
	assert.Equal(t, []string{"Bar"}, got["icc_aux_a.c"])
	assert.Empty(t, got["muppet.mk"])
}

func TestSymbolTablesOfKinds(t *testing.T) {
	tables, err := New(writeInputs(t, ""), quietLogger(t)).SymbolTables(emit.LibSource, emit.ICCSource)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "icclib_a.c", tables[0].Artifact)
	assert.Equal(t, "icc_a.c", tables[1].Artifact)
}

func TestGenerateFiles(t *testing.T) {
	opts := writeInputs(t, "")
	out := t.TempDir()
	opts.Layout = emit.Layout{
		ICCDir:  filepath.Join(out, "icc"),
		PkgDir:  filepath.Join(out, "iccpkg"),
		TestDir: filepath.Join(out, "icc_test"),
	}
	res, err := New(opts, quietLogger(t)).GenerateFiles()
	require.NoError(t, err)

	stale, err := Verify(res, os.ReadFile)
	require.NoError(t, err)
	assert.Empty(t, stale)
}

func TestGenerateFilesAllOrNothing(t *testing.T) {
	opts := writeInputs(t, "")
	out := t.TempDir()
	blocked := filepath.Join(out, "blocked")
	require.NoError(t, os.WriteFile(blocked, nil, 0o644))
	opts.Layout = emit.Layout{
		ICCDir:  filepath.Join(out, "icc"),
		PkgDir:  filepath.Join(blocked, "iccpkg"),
		TestDir: filepath.Join(out, "icc_test"),
	}

	_, err := New(opts, quietLogger(t)).GenerateFiles()
	require.Error(t, err)

	var written []string
	_ = filepath.WalkDir(out, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.Type().IsRegular() && path != blocked {
			written = append(written, path)
		}
		return nil
	})
	assert.Empty(t, written)
}

func TestManifestDiff(t *testing.T) {
	m := Manifest{Files: []output.Entry{{Path: "a", Digest: "1"}, {Path: "b", Digest: "2"}, {Path: "c", Digest: "3"}}}
	other := Manifest{Files: []output.Entry{{Path: "d", Digest: "4"}, {Path: "b", Digest: "x"}, {Path: "a", Digest: "1"}}}

	assert.Empty(t, m.Diff(m))
	assert.Equal(t, []string{"b", "c", "d"}, m.Diff(other))
}

func TestManifestSortedAndRoundTrips(t *testing.T) {
	res, err := New(writeInputs(t, ""), quietLogger(t)).Generate(output.NewMemSink())
	require.NoError(t, err)

	m := res.Manifest()
	paths := make([]string, len(m.Files))
	for i, f := range m.Files {
		paths[i] = f.Path
	}
	assert.True(t, sort.StringsAreSorted(paths))

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, WriteManifest(path, m))
	back, err := ReadManifest(path)
	require.NoError(t, err)
	if diff := cmp.Diff(m, back); diff != "" {
		t.Errorf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestVerify(t *testing.T) {
	opts := writeInputs(t, "")
	out := t.TempDir()
	opts.Layout = emit.Layout{
		ICCDir:  filepath.Join(out, "icc"),
		PkgDir:  filepath.Join(out, "iccpkg"),
		TestDir: filepath.Join(out, "icc_test"),
	}
	g := New(opts, quietLogger(t))

	_, err := g.Generate(output.FileSink{})
	require.NoError(t, err)

	res, err := g.Generate(output.NewMemSink())
	require.NoError(t, err)
	stale, err := Verify(res, os.ReadFile)
	require.NoError(t, err)
	assert.Empty(t, stale)

	edited := opts.Layout.Path(emit.ICCSource)
	require.NoError(t, os.WriteFile(edited, []byte("/* edited */\n"), 0o644))
	removed := opts.Layout.Path(emit.OneScript)
	require.NoError(t, os.Remove(removed))

	stale, err = Verify(res, os.ReadFile)
	assert.ErrorIs(t, err, ErrStale)
	assert.ElementsMatch(t, []string{edited, removed}, stale)
}
