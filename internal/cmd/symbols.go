package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/Alia5/iccgen/internal/codegen/emit"
	"github.com/Alia5/iccgen/internal/codegen/generator"

	"github.com/olekukonko/tablewriter"
	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

type Symbols struct {
	Inputs   `embed:""`
	Artifact []string `help:"Only list these artifacts, by file name (e.g. icclib_a.c)" env:"ICCGEN_SYMBOLS_ARTIFACT"`
	Function string   `help:"Only list the call table slot of this function" env:"ICCGEN_SYMBOLS_FUNCTION"`
	Format   string   `help:"Output format" enum:"json,yaml,toml,table" default:"json" env:"ICCGEN_SYMBOLS_FORMAT"`
	Output   string   `help:"Destination file path (defaults to stdout)"`
}

// Run is called by Kong when the symbols command is executed.
func (s *Symbols) Run(logger *slog.Logger) error {
	kinds, err := parseKinds(s.Artifact)
	if err != nil {
		return err
	}
	tables, err := generator.New(s.options(), logger).SymbolTables(kinds...)
	if err != nil {
		return err
	}
	if s.Function != "" {
		if tables, err = slotsOf(tables, s.Function); err != nil {
			return err
		}
	}
	data, err := renderSymbols(tables, s.Format)
	if err != nil {
		return err
	}
	if s.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(s.Output, data, 0o644); err != nil {
		return err
	}
	logger.Info("Wrote symbol tables", "file", s.Output, "artifacts", len(tables))
	return nil
}

func parseKinds(names []string) ([]emit.Kind, error) {
	kinds := make([]emit.Kind, 0, len(names))
	for _, n := range names {
		k, ok := emit.ParseKind(n)
		if !ok {
			return nil, fmt.Errorf("unknown artifact %q", n)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// slotsOf reduces every table to the slot of one function, dropping the
// artifacts it is not a member of.
func slotsOf(tables []*emit.SymbolTable, name string) ([]*emit.SymbolTable, error) {
	var out []*emit.SymbolTable
	for _, t := range tables {
		i, ok := t.Index(name)
		if !ok {
			continue
		}
		out = append(out, &emit.SymbolTable{Artifact: t.Artifact, Symbols: []emit.Symbol{{Name: name, Index: i}}})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("function %q is not a member of any listed artifact", name)
	}
	return out, nil
}

type symbolDocument struct {
	Artifacts []emit.SymbolTable `json:"artifacts" yaml:"artifacts" toml:"artifacts"`
}

func renderSymbols(tables []*emit.SymbolTable, format string) ([]byte, error) {
	doc := symbolDocument{Artifacts: make([]emit.SymbolTable, 0, len(tables))}
	for _, t := range tables {
		doc.Artifacts = append(doc.Artifacts, *t)
	}
	if format == "table" {
		return renderSymbolTable(tables), nil
	}
	switch normalizeFormat(format) {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(doc)
	case "toml":
		return toml.Marshal(doc)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// renderSymbolTable lists every symbol as one row of a plain text table.
func renderSymbolTable(tables []*emit.SymbolTable) []byte {
	var data [][]string
	for _, t := range tables {
		for _, s := range t.Symbols {
			data = append(data, []string{t.Artifact, strconv.Itoa(s.Index), s.Name})
		}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"ARTIFACT", "INDEX", "NAME"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
	return buf.Bytes()
}
