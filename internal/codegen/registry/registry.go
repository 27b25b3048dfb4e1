// Package registry collects the parsed declarations of the primary input in
// order and reconciles them against an optional legacy input.
//
// The registry is the only mutable state of a generation run. Once both
// inputs are loaded it is frozen into a Snapshot which the emitters share
// read only.
package registry

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Alia5/iccgen/internal/codegen/decl"
)

var ErrFrozen = errors.New("registry is frozen")

type Registry struct {
	logger *slog.Logger

	funcs     []decl.Descriptor
	byName    map[string]int
	primary   Namespace
	legacy    Namespace
	hasLegacy bool
	frozen    bool
}

func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:  logger,
		byName:  make(map[string]int),
		primary: DefaultNamespace(),
		legacy:  DefaultNamespace(),
	}
}

// Load parses the primary input and appends every declaration in file order.
func (r *Registry) Load(rd io.Reader) error {
	if r.frozen {
		return ErrFrozen
	}
	return r.scan(rd, &r.primary, func(d decl.Descriptor) {
		if prev, ok := r.byName[d.Name]; ok {
			r.logger.Warn("Duplicate declaration", "function", d.Name, "line", d.Line, "first", r.funcs[prev].Line)
		} else {
			r.byName[d.Name] = len(r.funcs)
		}
		r.funcs = append(r.funcs, d)
	})
}

// LoadLegacy parses the secondary input and tags every primary declaration
// with a compatible legacy counterpart. Mismatches are logged only.
func (r *Registry) LoadLegacy(rd io.Reader) error {
	if r.frozen {
		return ErrFrozen
	}
	r.hasLegacy = true
	return r.scan(rd, &r.legacy, func(d decl.Descriptor) {
		i, ok := r.byName[d.Name]
		if !ok {
			r.logger.Warn("Couldn't match legacy function", "function", d.Name, "line", d.Line)
			return
		}
		if err := Reconcile(r.funcs[i], d); err != nil {
			r.logger.Warn("Legacy function not reconciled", "function", d.Name, "line", d.Line, "error", err)
			return
		}
		r.funcs[i].Legacy = true
	})
}

func (r *Registry) scan(rd io.Reader, ns *Namespace, add func(decl.Descriptor)) error {
	records, err := decl.Split(rd)
	if err != nil {
		return err
	}
	p := decl.NewParser()
	for _, rec := range records {
		res, err := p.Parse(rec)
		if err != nil {
			return err
		}
		switch res.Kind {
		case decl.KindDirective:
			ns.Apply(res.Directive)
		case decl.KindDeclaration:
			add(res.Descriptor)
		case decl.KindFiller:
			r.logger.Debug("Skipping record", "record", rec.Text, "line", rec.Line)
		}
	}
	return nil
}

// Reconcile checks that legacy is call compatible with d: same arity and,
// per argument, equal types or either type mentioning void. Types are
// compared with their pointer declarators, so "char *a" and "char a" differ.
func Reconcile(d, legacy decl.Descriptor) error {
	if len(d.Args) != len(legacy.Args) {
		return fmt.Errorf("different number of arguments: %d != %d", len(d.Args), len(legacy.Args))
	}
	for i := range d.Args {
		a, b := d.Args[i].CType(), legacy.Args[i].CType()
		if a == b || strings.Contains(a, "void") || strings.Contains(b, "void") {
			continue
		}
		return fmt.Errorf("argument %d type mismatch: %q != %q", i, a, b)
	}
	return nil
}

func (r *Registry) Len() int { return len(r.funcs) }

// Freeze ends the parse phase. The registry rejects further input afterwards.
func (r *Registry) Freeze() *Snapshot {
	r.frozen = true
	funcs := make([]decl.Descriptor, len(r.funcs))
	for i, f := range r.funcs {
		funcs[i] = f.Clone()
	}
	return &Snapshot{
		funcs:     funcs,
		primary:   r.primary,
		legacy:    r.legacy,
		hasLegacy: r.hasLegacy,
	}
}

// Snapshot is the immutable result of the parse phase.
type Snapshot struct {
	funcs     []decl.Descriptor
	primary   Namespace
	legacy    Namespace
	hasLegacy bool
}

// NewSnapshot builds a snapshot directly, mostly for tests.
func NewSnapshot(funcs []decl.Descriptor, primary Namespace) *Snapshot {
	r := &Registry{funcs: funcs, primary: primary, legacy: DefaultNamespace()}
	return r.Freeze()
}

// Functions returns a copy of the declarations in registry order.
func (s *Snapshot) Functions() []decl.Descriptor {
	out := make([]decl.Descriptor, len(s.funcs))
	for i, f := range s.funcs {
		out[i] = f.Clone()
	}
	return out
}

func (s *Snapshot) Len() int { return len(s.funcs) }

func (s *Snapshot) Primary() Namespace { return s.primary }

func (s *Snapshot) Legacy() Namespace { return s.legacy }

// HasLegacy reports whether a legacy input was loaded.
func (s *Snapshot) HasLegacy() bool { return s.hasLegacy }
