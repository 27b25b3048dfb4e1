package emit

import (
	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/exports"
)

// LibSourceArtifact writes icclib_a.c: the internal wrappers, the context
// free "ef" variants and the global call table bound to the crypto library.
type LibSourceArtifact struct{}

func (LibSourceArtifact) Kind() Kind { return LibSource }

func (LibSourceArtifact) Preamble(p *Pass) error {
	p.WriteString(basePreamble())
	return nil
}

func (a LibSourceArtifact) Body(p *Pass, f Function) error {
	usesCtx := f.Has(decl.UsesContext)
	p.WriteString(f.Typedef(usesCtx))
	p.WriteString(Comment(f, p.Spec.Flags))

	var callCtx string
	if usesCtx {
		callCtx = "(void*)pcb"
	}
	WriteIndirect(p, a, f, IndirectShape{
		Prefix:      p.Namespace().METAPrefix,
		Context:     LibContext,
		Table:       "pcb->funcs",
		CallContext: callCtx,
		FIPSGuard:   usesCtx,
		WarnVoid:    true,
	})
	return nil
}

// ExtraFunction writes the "ef" variant of functions flagged F. It calls
// through the global table since no context exists during startup or inside
// library callbacks.
func (LibSourceArtifact) ExtraFunction(p *Pass, f Function) {
	if !f.Has(decl.MacroFunction) {
		return
	}
	p.WriteString("/*\n * This version of the previous function is used internally,\n" +
		" * either during startup\n" +
		" * or by an OpenSSL callback function when ICC contexts are\n" +
		" * unavailable.\n" +
		" */\n")
	p.WriteString(f.MacroPrototype())
	p.WriteString("\n{\n")
	p.WriteString(f.ReturnTemp())

	var ctx string
	if f.Has(decl.UsesContext) {
		ctx = "NULL"
	}
	writeCall(p, f, "(("+f.TypedefName()+")Global.funcs["+f.indexString()+"].func)", ctx, "\t")
	p.WriteString(f.Return())
	p.WriteString("}\n\n")
}

func (LibSourceArtifact) Postamble(p *Pass) error {
	writeGlobalStructure(p)
	writeDefaultTable(p, "icclib", "ICCGlobal_default", "NUM_ICCLIBFUNCTIONS")
	p.WriteString(basePostamble())

	p.Ctx.Aggregates.SetLibCount(p.Table.Len())
	p.Ctx.Aggregates.SetLibEnum(p.Table.Enum("META_FUNCTION_ENUM"))
	return nil
}

// LibHeaderArtifact writes icclib_a.h: the library context types, the
// internal prototypes and the call table enumeration produced by icclib_a.c.
// It also writes the icclib export files.
type LibHeaderArtifact struct{}

func (LibHeaderArtifact) Kind() Kind { return LibHeader }

func (LibHeaderArtifact) Preamble(p *Pass) error {
	n, err := p.Ctx.Aggregates.LibCount()
	if err != nil {
		return err
	}
	p.WriteString(basePreamble())
	p.WriteString("\n/* Avoid symbol clashes between namespaced ICC's */\n" +
		"\n#define ICC_SCCSInfo ICC" + p.Namespace().Prefix + "_SCCSInfo\n\n")
	// one extra slot for the {NULL,NULL} terminator of the global table
	p.Printf("\n#define NUM_ICCLIBFUNCTIONS %d\n\n", n+1)
	p.WriteString(libGlobalTypes)
	return nil
}

func (LibHeaderArtifact) Body(p *Pass, f Function) error {
	writePrototype(p, f, p.Namespace().METAPrefix, LibContext)
	return nil
}

func (LibHeaderArtifact) Postamble(p *Pass) error {
	enum, err := p.Ctx.Aggregates.LibEnum()
	if err != nil {
		return err
	}
	p.WriteString(enum)
	p.WriteString("\n")
	writeLibInit(p)
	p.WriteString(basePostamble())
	return p.Export(exports.ICC(p.Namespace().IsFIPS()), DirICC, "exports", nil)
}
