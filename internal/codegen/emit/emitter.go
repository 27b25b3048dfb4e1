// Package emit generates the C sources, headers, build fragments and export
// files from a frozen declaration registry.
//
// Every artifact runs the same four phases, Preamble, Body per member,
// Postamble and Cleanup, exactly once and in that order. Artifacts only
// differ in what they write during each phase; the indirect call body shared
// by most of them lives in body.go.
package emit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Alia5/iccgen/internal/codegen/exports"
	"github.com/Alia5/iccgen/internal/codegen/output"
	"github.com/Alia5/iccgen/internal/codegen/registry"
)

var ErrPhaseOrder = errors.New("artifact phase out of order")

// Artifact is one generated file.
type Artifact interface {
	Kind() Kind
	Preamble(p *Pass) error
	Body(p *Pass, f Function) error
	Postamble(p *Pass) error
}

// ExtraCodeInFunction is implemented by artifacts adding statements after
// the indirect call inside the generated wrapper.
type ExtraCodeInFunction interface {
	ExtraCodeInFunction(p *Pass, f Function)
}

// ExtraFunction is implemented by artifacts emitting a companion function
// after each generated wrapper.
type ExtraFunction interface {
	ExtraFunction(p *Pass, f Function)
}

// Layout maps artifact directories to filesystem paths.
type Layout struct {
	ICCDir  string `json:"iccDir" yaml:"iccDir"`
	PkgDir  string `json:"pkgDir" yaml:"pkgDir"`
	TestDir string `json:"testDir" yaml:"testDir"`
}

func (l Layout) Dir(d Dir) string {
	switch d {
	case DirPkg:
		return l.PkgDir
	case DirTest:
		return l.TestDir
	default:
		return l.ICCDir
	}
}

// Path returns where an artifact of kind k is written.
func (l Layout) Path(k Kind) string {
	s := SpecOf(k)
	return filepath.Join(l.Dir(s.Dir), s.Name)
}

// Exporter writes one export family for a list of function names.
type Exporter interface {
	Write(family exports.Family, dir, version string, names []string) error
}

// Context is shared by all passes of one generation run.
type Context struct {
	Snapshot   *registry.Snapshot
	// Version is the ICC version stamped into the export files.
	Version    string
	Logger     *slog.Logger
	Aggregates *Aggregates
	Sink       output.Sink
	Layout     Layout
	Exporter   Exporter
}

func (c *Context) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// Pass is the state of one artifact while it is generated.
type Pass struct {
	*Writer
	Ctx    *Context
	Spec   Spec
	Table  *SymbolTable
	Logger *slog.Logger
}

// Namespace returns the primary namespace configuration.
func (p *Pass) Namespace() registry.Namespace { return p.Ctx.Snapshot.Primary() }

// Export writes an export family into the given layout directory.
func (p *Pass) Export(family exports.Family, dir Dir, sub string, names []string) error {
	if p.Ctx.Exporter == nil {
		return nil
	}
	if err := p.Ctx.Exporter.Write(family, filepath.Join(p.Ctx.Layout.Dir(dir), sub), p.Ctx.Version, names); err != nil {
		return fmt.Errorf("write %s exports: %w", family.Name, err)
	}
	return nil
}

type phase int

const (
	phaseOpen phase = iota
	phasePreamble
	phaseBody
	phasePostamble
	phaseClosed
)

var phaseNames = [...]string{"open", "preamble", "body", "postamble", "closed"}

func (ph phase) String() string { return phaseNames[ph] }

// Session drives one artifact through its phases and owns its stream.
type Session struct {
	art    Artifact
	pass   *Pass
	stream io.WriteCloser
	phase  phase
}

// Open creates the artifact stream and computes its symbol table.
func Open(ctx *Context, a Artifact) (*Session, error) {
	spec := SpecOf(a.Kind())
	path := ctx.Layout.Path(a.Kind())
	stream, err := ctx.Sink.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", spec.Name, err)
	}
	return &Session{
		art:    a,
		stream: stream,
		pass: &Pass{
			Writer: NewWriter(stream),
			Ctx:    ctx,
			Spec:   spec,
			Table:  NewSymbolTable(ctx.Snapshot, a.Kind()),
			Logger: ctx.logger().With("artifact", spec.Name),
		},
	}, nil
}

func (s *Session) Table() *SymbolTable { return s.pass.Table }

func (s *Session) advance(from []phase, to phase) error {
	for _, ph := range from {
		if s.phase == ph {
			s.phase = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s after %s in %s", ErrPhaseOrder, to, s.phase, s.pass.Spec.Name)
}

func (s *Session) check(err error) error {
	if err == nil {
		err = s.pass.Err()
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", s.pass.Spec.Name, s.phase, err)
	}
	return nil
}

func (s *Session) Preamble() error {
	if err := s.advance([]phase{phaseOpen}, phasePreamble); err != nil {
		return err
	}
	return s.check(s.art.Preamble(s.pass))
}

func (s *Session) Body(f Function) error {
	if err := s.advance([]phase{phasePreamble, phaseBody}, phaseBody); err != nil {
		return err
	}
	return s.check(s.art.Body(s.pass, f))
}

func (s *Session) Postamble() error {
	if err := s.advance([]phase{phasePreamble, phaseBody}, phasePostamble); err != nil {
		return err
	}
	return s.check(s.art.Postamble(s.pass))
}

// Cleanup closes the stream. It runs once; later calls are no-ops.
func (s *Session) Cleanup() error {
	if s.phase == phaseClosed {
		return nil
	}
	s.phase = phaseClosed
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.pass.Spec.Name, err)
	}
	return nil
}

// Run generates one artifact completely and records its symbol table in the
// context aggregates.
func Run(ctx *Context, a Artifact) (err error) {
	s, err := Open(ctx, a)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Cleanup(); err == nil {
			err = cerr
		}
	}()

	s.pass.Logger.Debug("Generating artifact", "members", s.Table().Len())
	if err := s.Preamble(); err != nil {
		return err
	}
	for i, d := range Members(ctx.Snapshot, a.Kind()) {
		if err := s.Body(NewFunction(d, i, s.pass.Spec.Flags)); err != nil {
			return err
		}
	}
	if err := s.Postamble(); err != nil {
		return err
	}
	ctx.Aggregates.setTable(a.Kind(), s.Table())
	s.pass.Logger.Info("Generated artifact", "file", ctx.Layout.Path(a.Kind()), "members", s.Table().Len(), "bytes", s.pass.Written())
	return nil
}
