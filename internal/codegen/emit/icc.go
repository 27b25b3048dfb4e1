package emit

import (
	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/namespace"
)

// ICCSourceArtifact writes icc_a.c, the public API wrappers dispatching
// through the ICC context call table.
type ICCSourceArtifact struct{}

func (ICCSourceArtifact) Kind() Kind { return ICCSource }

func (ICCSourceArtifact) Preamble(p *Pass) error {
	p.WriteString("\n#if defined(ICC)\n")
	p.WriteString(basePreamble())
	return nil
}

func (a ICCSourceArtifact) Body(p *Pass, f Function) error {
	// SetValue is written by hand; only its call type is generated.
	if f.Name == "SetValue" {
		p.WriteString(f.Typedef(true))
		return nil
	}
	p.WriteString(f.Typedef(f.Has(decl.UsesContext)))
	p.WriteString(Comment(f, p.Spec.Flags))

	var callCtx string
	if f.Has(decl.UsesContext) {
		callCtx = "(void*)pcb->funcs"
	}
	WriteIndirect(p, a, f, IndirectShape{
		Prefix:      p.Namespace().ICCPrefix,
		Context:     ICCContext,
		Table:       "(*(pcb->funcs))",
		CallContext: callCtx,
	})
	return nil
}

func (ICCSourceArtifact) Postamble(p *Pass) error {
	p.WriteString("\n#endif /* defined(ICC) */\n")
	p.WriteString(p.Table.Enum("ICC_FUNCTION_ENUM"))
	p.WriteString(basePostamble())
	p.Ctx.Aggregates.SetAPICount(p.Table.Len())
	return nil
}

// ICCHeaderArtifact writes icc_a.h, the public prototypes and the
// namespacing defines mapping ICC_<name> to the prefixed symbols.
type ICCHeaderArtifact struct{}

func (ICCHeaderArtifact) Kind() Kind { return ICCHeader }

func (ICCHeaderArtifact) Preamble(p *Pass) error {
	n, err := p.Ctx.Aggregates.APICount()
	if err != nil {
		return err
	}
	p.WriteString(basePreamble())
	p.WriteString("/** \\file icc_a.h\n" +
		"* Function prototypes for the ICC API (ICCSDK).\n" +
		"* This file is autogenerated and should only be included via icc.h.\n" +
		"*/\n\n")
	p.Printf("\n#define NUM_ICCFUNCTIONS %d\n\n", n)
	p.WriteString("#if !defined(ICCLIB)\n")
	return nil
}

func (ICCHeaderArtifact) Body(p *Pass, f Function) error {
	if f.Has(decl.JavaOnly) {
		return nil
	}
	prefix := p.Namespace().ICCPrefix
	p.WriteString("/*! \\sa " + namespace.Symbol(prefix, f.Name) + "*/\n")
	WriteMacroAlias(p, "ICC_", prefix, f.Name)
	writePrototype(p, f, prefix, ICCContext)
	return nil
}

func (ICCHeaderArtifact) Postamble(p *Pass) error {
	ns := p.Namespace()
	if ns.Namespaced() {
		writeInitFunctions(p, ns.Prefix, true)
	}
	writeMiscDefines(p)
	p.WriteString(basePostamble())
	p.WriteString("#endif /*!defined(ICCLIB) */\n")
	return nil
}

// writePrototype writes the legacy marker, the documentation and the
// prototype of f.
func writePrototype(p *Pass, f Function, prefix, ctx string) {
	if f.Legacy {
		p.WriteString("/* This function exists in the older ICC version */\n")
	}
	p.WriteString(Comment(f, p.Spec.Flags))
	p.WriteString(f.Prototype(prefix, ctx))
	p.WriteString(";\n\n")
}
