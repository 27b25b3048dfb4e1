// Package generator drives a complete generation run: it loads the
// declaration inputs, runs every artifact pass in order and records what
// was written.
package generator

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/iccgen/internal/codegen/common"
	"github.com/Alia5/iccgen/internal/codegen/emit"
	"github.com/Alia5/iccgen/internal/codegen/exports"
	"github.com/Alia5/iccgen/internal/codegen/output"
	"github.com/Alia5/iccgen/internal/codegen/registry"
)

// Options locate the inputs and outputs of a run.
type Options struct {
	Functions   string
	Legacy      string
	VersionFile string
	Layout      emit.Layout
}

type Generator struct {
	opts   Options
	logger *slog.Logger
}

func New(opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{opts: opts, logger: logger}
}

// Result describes a finished run.
type Result struct {
	Version string
	Entries []output.Entry
	Tables  []*emit.SymbolTable
}

// Load parses the inputs into a frozen snapshot.
func (g *Generator) Load() (*registry.Snapshot, error) {
	reg := registry.New(g.logger)

	g.logger.Debug("Loading declarations", "file", g.opts.Functions)
	if err := loadFile(g.opts.Functions, reg.Load); err != nil {
		return nil, err
	}
	g.logger.Info("Loaded declarations", "file", g.opts.Functions, "functions", reg.Len())

	if g.opts.Legacy != "" {
		g.logger.Debug("Loading legacy declarations", "file", g.opts.Legacy)
		if err := loadFile(g.opts.Legacy, reg.LoadLegacy); err != nil {
			return nil, err
		}
	}
	return reg.Freeze(), nil
}

func loadFile(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open declarations: %w", err)
	}
	defer f.Close()
	if err := load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Generate loads the inputs and writes every artifact through sink.
func (g *Generator) Generate(sink output.Sink) (*Result, error) {
	snap, err := g.Load()
	if err != nil {
		return nil, err
	}
	version, err := common.ReadICCVersion(g.opts.VersionFile)
	if err != nil {
		return nil, err
	}
	return Run(snap, version, g.opts.Layout, sink, g.logger)
}

// GenerateFiles generates in memory and only writes the files to disk once
// every pass succeeded.
func (g *Generator) GenerateFiles() (*Result, error) {
	mem := output.NewMemSink()
	res, err := g.Generate(mem)
	if err != nil {
		return nil, err
	}
	if err := (output.FileSink{}).Commit(mem); err != nil {
		return nil, err
	}
	return res, nil
}

// SymbolTables loads the inputs and returns the symbol tables of the given
// artifact kinds, or of every artifact when none is given, without writing
// anything.
func (g *Generator) SymbolTables(kinds ...emit.Kind) ([]*emit.SymbolTable, error) {
	snap, err := g.Load()
	if err != nil {
		return nil, err
	}
	if len(kinds) == 0 {
		for _, s := range emit.Specs() {
			kinds = append(kinds, s.Kind)
		}
	}
	tables := make([]*emit.SymbolTable, 0, len(kinds))
	for _, k := range kinds {
		tables = append(tables, emit.NewSymbolTable(snap, k))
	}
	return tables, nil
}

// Run writes every artifact of snap, in order, through sink.
func Run(snap *registry.Snapshot, version string, layout emit.Layout, sink output.Sink, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rec := output.NewRecorder(sink)
	ctx := &emit.Context{
		Snapshot:   snap,
		Version:    version,
		Logger:     logger,
		Aggregates: emit.NewAggregates(),
		Sink:       rec,
		Layout:     layout,
		Exporter:   exports.NewExporter(rec, logger),
	}

	logger.Info("Starting code generation", "functions", snap.Len(), "version", version, "namespaced", snap.Primary().Namespaced())
	res := &Result{Version: version}
	for _, a := range emit.All() {
		if err := emit.Run(ctx, a); err != nil {
			return nil, fmt.Errorf("generate %s: %w", a.Kind(), err)
		}
		table, _ := ctx.Aggregates.Table(a.Kind())
		res.Tables = append(res.Tables, table)
	}
	res.Entries = rec.Entries()
	logger.Info("Code generation complete", "files", len(res.Entries))
	return res, nil
}
