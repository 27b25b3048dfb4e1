package emit

import (
	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/exports"
)

// AuxSourceArtifact writes icc_aux_a.c. The auxiliary API only comes from a
// non-FIPS instance, so it dispatches through a fixed table populated at
// startup rather than through the context.
type AuxSourceArtifact struct{}

func (AuxSourceArtifact) Kind() Kind { return AuxSource }

func (AuxSourceArtifact) Preamble(p *Pass) error {
	p.WriteString("\n#if defined(ICC_AUX)\n")
	p.WriteString(basePreamble())
	p.WriteString("\n#endif /* defined(ICC_AUX) */\n")
	return nil
}

func (AuxSourceArtifact) Body(p *Pass, f Function) error {
	usesCtx := f.Has(decl.UsesContext)
	p.WriteString(f.Typedef(usesCtx))
	p.WriteString(Comment(f, p.Spec.Flags))
	var callCtx string
	if usesCtx {
		callCtx = "(void*)pcb->funcs"
	}
	WriteTableSlot(p, f, "ICC_", ICCContext, "funcs", callCtx)
	return nil
}

func (AuxSourceArtifact) Postamble(p *Pass) error {
	p.Printf("\n#define NUM_ICC_AUXFUNCTIONS %d\n\n", p.Table.Len())
	writeDefaultTable(p, "ICC_AUX", "ICC_AUXGlobal_default", "NUM_ICC_AUXFUNCTIONS")
	p.WriteString(p.Table.Enum("ICC_AUX_FUNCTION_ENUM"))
	p.WriteString(basePostamble())
	return nil
}

// AuxHeaderArtifact writes icc_aux_a.h with the auxiliary prototypes, numbered
// after the public API.
type AuxHeaderArtifact struct{}

func (AuxHeaderArtifact) Kind() Kind { return AuxHeader }

func (AuxHeaderArtifact) Preamble(p *Pass) error {
	n, err := p.Ctx.Aggregates.APICount()
	if err != nil {
		return err
	}
	p.WriteString(basePreamble())
	p.WriteString("/** \\file icc_aux_a.h\n" +
		"* Function prototypes for the ICC extended API.\n" +
		"* This file is autogenerated and should only be included via icc_aux.h.\n" +
		"*/\n\n")
	p.Printf("\n#define NUM_NON_AUXFUNCTIONS %d\n\n", n)
	p.WriteString("#if !defined(ICC_AUX_H)\n")
	return nil
}

func (AuxHeaderArtifact) Body(p *Pass, f Function) error {
	if f.Index == 0 {
		p.Printf("#define FIRST_AUX_NAME \"%s\"\n", f.Name)
	}
	p.WriteString(Comment(f, p.Spec.Flags))
	p.WriteString(f.Prototype("ICC_", ICCContext))
	p.WriteString(";\n\n")
	return nil
}

func (AuxHeaderArtifact) Postamble(p *Pass) error {
	p.WriteString(basePostamble())
	p.WriteString("#endif /*!defined(ICC_AUX_H) */\n")
	return p.Export(exports.AUX(), DirPkg, "exports", p.Table.Names())
}

// All returns every artifact in generation order. Later artifacts consume the
// aggregates produced by earlier ones.
func All() []Artifact {
	return []Artifact{
		ICCSourceArtifact{},
		ICCHeaderArtifact{},
		LibSourceArtifact{},
		LibHeaderArtifact{},
		PkgSourceArtifact{},
		PkgHeaderArtifact{},
		GSKWrapperArtifact{},
		MuppetMakeArtifact{},
		OneScriptArtifact{},
		AuxSourceArtifact{},
		AuxHeaderArtifact{},
		JavaHeaderArtifact{},
	}
}
