package decl

import "strings"

// Arg is one positional argument of a declaration.
//
// Declarator keeps the argument as written after its base type, so "char *b"
// is Type "char" and Declarator "*b", and a function pointer argument keeps its
// whole parameter list in the declarator.
type Arg struct {
	Type       string `json:"type" yaml:"type"`
	Declarator string `json:"declarator" yaml:"declarator"`
}

// VoidArg is the pseudo argument standing for an empty parameter list.
var VoidArg = Arg{Declarator: "void"}

func (a Arg) IsVoid() bool { return a.Declarator == "void" }

// Name returns the bare identifier used when forwarding the argument.
func (a Arg) Name() string {
	n := strings.TrimLeft(a.Declarator, "*")
	if strings.HasPrefix(n, "(*") {
		if end := strings.IndexByte(n, ')'); end > 2 {
			n = n[2:end]
		}
		n = strings.TrimLeft(n, "*")
	}
	if i := strings.IndexByte(n, '['); i >= 0 {
		n = n[:i]
	}
	return strings.TrimSpace(n)
}

// CType returns the complete type with the identifier removed,
// e.g. "char *" for "char *b" or "int (*)(int a)" for "int (*cb)(int a)".
func (a Arg) CType() string {
	d := a.Declarator
	if strings.HasPrefix(d, "(") {
		if end := strings.IndexByte(d, ')'); end >= 0 {
			return a.Type + " (*)" + d[end+1:]
		}
		return a.Type
	}
	stars := len(d) - len(strings.TrimLeft(d, "*"))
	if stars == 0 {
		return a.Type
	}
	return a.Type + " " + strings.Repeat("*", stars)
}

// Decl renders the argument declaration using typ in place of the parsed type.
func (a Arg) Decl(typ string) string {
	return typ + " " + a.Declarator
}

// Descriptor is one parsed function declaration.
type Descriptor struct {
	Name       string `json:"name" yaml:"name"`
	ReturnType string `json:"returnType" yaml:"returnType"`
	Args       []Arg  `json:"args" yaml:"args"`
	Flags      Flags  `json:"-" yaml:"-"`
	Modifiers  string `json:"modifiers" yaml:"modifiers"`
	APILevel   int    `json:"apiLevel" yaml:"apiLevel"`
	Doc        Doc    `json:"-" yaml:"-"`
	Legacy     bool   `json:"legacy" yaml:"legacy"`
	Line       int    `json:"line" yaml:"line"`
}

// HasArgs reports whether the parameter list is anything other than the void sentinel.
func (d *Descriptor) HasArgs() bool {
	return len(d.Args) > 0 && !d.Args[0].IsVoid()
}

// Params returns the arguments without the void sentinel.
func (d *Descriptor) Params() []Arg {
	if !d.HasArgs() {
		return nil
	}
	return d.Args
}

func (d *Descriptor) ReturnsVoid() bool { return d.ReturnType == "void" }

func (d *Descriptor) ReturnsPointer() bool { return strings.Contains(d.ReturnType, "*") }

func (d *Descriptor) Has(f Flag) bool { return d.Flags.Has(f) }

// Clone returns a deep copy.
func (d Descriptor) Clone() Descriptor {
	d.Args = append([]Arg(nil), d.Args...)
	d.Doc = d.Doc.Clone()
	return d
}
