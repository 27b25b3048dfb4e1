package emit

import (
	"strconv"
	"strings"

	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/namespace"
)

const (
	ICCContext = "ICC_CTX *pcb"
	LibContext = "ICClib *pcb"
)

// Function is a descriptor as seen by one artifact: its member index and the
// types rewritten for that artifact.
type Function struct {
	decl.Descriptor
	Index int
	Ret   string
	Types []string
}

// NewFunction derives the view of d for an artifact with the given flags.
func NewFunction(d decl.Descriptor, index int, flags Flags) Function {
	f := Function{Descriptor: d, Index: index, Ret: d.ReturnType, Types: make([]string, len(d.Args))}
	for i, a := range d.Args {
		f.Types[i] = a.Type
	}
	if flags.NamespaceTypes {
		f.Ret = namespace.Type(f.Ret)
		for i := range f.Types {
			if f.Types[i] != "" {
				f.Types[i] = namespace.Type(f.Types[i])
			}
		}
	}
	return f
}

func (f Function) ReturnsVoid() bool { return f.Ret == "void" }

func (f Function) ReturnsPointer() bool { return strings.Contains(f.Ret, "*") }

// TypedefName is the function pointer type used for indirect calls.
func (f Function) TypedefName() string { return "fptr_" + f.Name }

func (f Function) params() string {
	var parts []string
	for i, a := range f.Args {
		if a.IsVoid() {
			continue
		}
		parts = append(parts, a.Decl(f.Types[i]))
	}
	return strings.Join(parts, ",")
}

// Prototype renders the function head without a trailing ';'. ctx is the
// implicit context parameter, or empty.
func (f Function) Prototype(prefix, ctx string) string {
	var sb strings.Builder
	sb.WriteString(f.Ret)
	sb.WriteByte(' ')
	if ctx == ICCContext {
		sb.WriteString("ICC_LINKAGE ")
	}
	sb.WriteString(namespace.Symbol(prefix, f.Name))
	sb.WriteByte('(')
	sb.WriteString(ctx)
	switch {
	case ctx != "" && f.HasArgs():
		sb.WriteByte(',')
		sb.WriteString(f.params())
	case ctx == "" && !f.HasArgs():
		sb.WriteString("void")
	case ctx == "":
		sb.WriteString(f.params())
	}
	sb.WriteByte(')')
	return sb.String()
}

// MacroPrototype renders the head of the context free "ef" variant.
func (f Function) MacroPrototype() string {
	args := f.params()
	if !f.HasArgs() {
		args = "void"
	}
	return f.Ret + " " + namespace.Symbol("ef", f.Name) + "(" + args + ")"
}

// Typedef renders the function pointer typedef. withCtx prepends an opaque
// context parameter.
func (f Function) Typedef(withCtx bool) string {
	var sb strings.Builder
	sb.WriteString("typedef ")
	sb.WriteString(f.Ret)
	sb.WriteString(" (*")
	sb.WriteString(f.TypedefName())
	sb.WriteString(")(")
	if withCtx {
		sb.WriteString("void *pcb")
		if f.HasArgs() {
			sb.WriteByte(',')
		}
	}
	switch {
	case f.HasArgs():
		sb.WriteString(f.params())
	case !withCtx:
		sb.WriteString("void")
	}
	sb.WriteString(");\n")
	return sb.String()
}

// CallList renders the forwarded arguments, bare names only, preceded by ctx
// when it is not empty.
func (f Function) CallList(ctx string) string {
	names := make([]string, 0, len(f.Args)+1)
	if ctx != "" {
		names = append(names, ctx)
	}
	for _, a := range f.Params() {
		names = append(names, a.Name())
	}
	return strings.Join(names, ",")
}

// FailureValue is the value returned when the call could not be made:
// NULL for pointers, ICC_FAILURE cast to the return type otherwise, and
// nothing for void.
func (f Function) FailureValue() string {
	switch {
	case f.ReturnsVoid():
		return ""
	case f.ReturnsPointer():
		return "NULL"
	default:
		return "(" + f.Ret + ")ICC_FAILURE"
	}
}

// CastFailureValue is FailureValue with pointers cast as well.
func (f Function) CastFailureValue() string {
	if f.ReturnsPointer() {
		return "(" + f.Ret + ")NULL"
	}
	return f.FailureValue()
}

// ReturnTemp declares the return value temporary, preset to the failure value.
func (f Function) ReturnTemp() string {
	if f.ReturnsVoid() {
		return ""
	}
	return "\t" + f.Ret + " temp =  " + f.FailureValue() + ";\n"
}

// Return renders the final return statement.
func (f Function) Return() string {
	if f.ReturnsVoid() {
		return "\treturn;\n"
	}
	return "\treturn temp;\n"
}

func (f Function) indexString() string { return strconv.Itoa(f.Index) }
