package emit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/registry"
)

var ErrMissingAggregate = errors.New("aggregate not produced by an earlier pass")

// Symbol is one member of an artifact and its call table offset.
type Symbol struct {
	Name  string `json:"name" yaml:"name" toml:"name"`
	Index int    `json:"index" yaml:"index" toml:"index"`
}

// SymbolTable is the ordered member list of one artifact. It is built once
// per pass and shared by the emitter defining the call table and every
// consumer of its indices.
type SymbolTable struct {
	Artifact string   `json:"artifact" yaml:"artifact" toml:"artifact"`
	Symbols  []Symbol `json:"symbols" yaml:"symbols" toml:"symbols"`
}

// Members returns the declarations of snap belonging to kind, in registry order.
func Members(snap *registry.Snapshot, k Kind) []decl.Descriptor {
	letter := SpecOf(k).Member
	if letter == 0 {
		return nil
	}
	var out []decl.Descriptor
	for _, d := range snap.Functions() {
		if d.Flags.Member(letter) {
			out = append(out, d)
		}
	}
	return out
}

// NewSymbolTable numbers the members of kind from zero in registry order.
func NewSymbolTable(snap *registry.Snapshot, k Kind) *SymbolTable {
	t := &SymbolTable{Artifact: k.String(), Symbols: []Symbol{}}
	for _, d := range Members(snap, k) {
		t.Symbols = append(t.Symbols, Symbol{Name: d.Name, Index: len(t.Symbols)})
	}
	return t
}

func (t *SymbolTable) Len() int { return len(t.Symbols) }

func (t *SymbolTable) Names() []string {
	names := make([]string, len(t.Symbols))
	for i, s := range t.Symbols {
		names[i] = s.Name
	}
	return names
}

// Index returns the offset of the first member called name.
func (t *SymbolTable) Index(name string) (int, bool) {
	for _, s := range t.Symbols {
		if s.Name == name {
			return s.Index, true
		}
	}
	return 0, false
}

// EnumMember is the enumerator naming a call table offset.
func EnumMember(name string) string { return "indexOf_" + name }

// Enum renders the index enumeration: one member per symbol with its offset
// and a trailing indexOf_TableEnd sentinel.
func (t *SymbolTable) Enum(typeName string) string {
	var sb strings.Builder
	sb.WriteString("/*! @brief enum's for function table indices */\n")
	sb.WriteString("/* Offsets into the call table, in declaration order */\n")
	sb.WriteString("typedef enum\n{\n")
	for _, s := range t.Symbols {
		fmt.Fprintf(&sb, "\t%s = %d,\n", EnumMember(s.Name), s.Index)
	}
	fmt.Fprintf(&sb, "\t%s\n", EnumMember("TableEnd"))
	fmt.Fprintf(&sb, "} %s;\n", typeName)
	return sb.String()
}

// Aggregates carries values one pass produces for a later one.
type Aggregates struct {
	apiCount *int
	libCount *int
	libEnum  *string
	tables   map[Kind]*SymbolTable
}

func NewAggregates() *Aggregates {
	return &Aggregates{tables: make(map[Kind]*SymbolTable)}
}

// SetAPICount records the number of public API functions (icc_a.c members).
func (a *Aggregates) SetAPICount(n int) { a.apiCount = &n }

func (a *Aggregates) APICount() (int, error) {
	if a.apiCount == nil {
		return 0, fmt.Errorf("%w: API function count", ErrMissingAggregate)
	}
	return *a.apiCount, nil
}

// SetLibCount records the number of library functions (icclib_a.c members).
func (a *Aggregates) SetLibCount(n int) { a.libCount = &n }

func (a *Aggregates) LibCount() (int, error) {
	if a.libCount == nil {
		return 0, fmt.Errorf("%w: library function count", ErrMissingAggregate)
	}
	return *a.libCount, nil
}

// SetLibEnum records the library index enumeration text.
func (a *Aggregates) SetLibEnum(s string) { a.libEnum = &s }

func (a *Aggregates) LibEnum() (string, error) {
	if a.libEnum == nil {
		return "", fmt.Errorf("%w: library index enumeration", ErrMissingAggregate)
	}
	return *a.libEnum, nil
}

func (a *Aggregates) setTable(k Kind, t *SymbolTable) { a.tables[k] = t }

// Table returns the symbol table of a completed pass.
func (a *Aggregates) Table(k Kind) (*SymbolTable, bool) {
	t, ok := a.tables[k]
	return t, ok
}
