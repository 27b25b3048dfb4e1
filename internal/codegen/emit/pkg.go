package emit

import (
	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/exports"
)

// PkgSourceArtifact writes iccpkg_a.c, the un-namespaced ICC_ wrappers of
// the packaging library.
type PkgSourceArtifact struct{}

func (PkgSourceArtifact) Kind() Kind { return PkgSource }

func (PkgSourceArtifact) Preamble(p *Pass) error {
	p.WriteString(basePreamble())
	return nil
}

func (a PkgSourceArtifact) Body(p *Pass, f Function) error {
	usesCtx := f.Has(decl.UsesContext)
	p.WriteString(f.Typedef(usesCtx))
	p.WriteString(Comment(f, p.Spec.Flags))

	var callCtx string
	if usesCtx {
		callCtx = "(void*)pcb->funcs"
	}
	WriteIndirect(p, a, f, IndirectShape{
		Prefix:      "ICC_",
		Context:     ICCContext,
		Table:       "(*(pcb->funcs))",
		CallContext: callCtx,
	})
	return nil
}

func (PkgSourceArtifact) Postamble(p *Pass) error {
	p.WriteString(p.Table.Enum("ICC_FUNCTION_ENUM"))
	p.WriteString(basePostamble())
	return nil
}

// PkgHeaderArtifact writes iccpkg_a.h, the public prototypes of the
// packaging library.
type PkgHeaderArtifact struct{}

func (PkgHeaderArtifact) Kind() Kind { return PkgHeader }

func (PkgHeaderArtifact) Preamble(p *Pass) error {
	p.WriteString(basePreamble())
	p.WriteString("/*! \\file icc_a.h\n" +
		"* Function prototypes for the ICC API (ICCSDK)\n" +
		"* This file is autogenerated and should only be included via icc.h\n" +
		"*/\n\n")
	writeInitFunctions(p, "", false)
	p.WriteString(gskPathFunctions)
	return nil
}

func (PkgHeaderArtifact) Body(p *Pass, f Function) error {
	if f.Has(decl.JavaOnly) {
		return nil
	}
	p.WriteString(Comment(f, p.Spec.Flags))
	p.WriteString(f.Prototype("ICC_", ICCContext))
	p.WriteString(";\n\n")
	return nil
}

func (PkgHeaderArtifact) Postamble(p *Pass) error {
	p.WriteString(basePostamble())
	return nil
}

// skipInWrapper are entry points the wrapper implements by hand.
var skipInWrapper = map[string]bool{
	"Init":     true,
	"InitW":    true,
	"SetValue": true,
	"Attach":   true,
	"Cleanup":  true,
}

// GSKWrapperArtifact writes gsk_wrap2_a.c. Each ICC_ entry point forwards to
// whichever namespaced ICC instance is loaded.
type GSKWrapperArtifact struct{}

func (GSKWrapperArtifact) Kind() Kind { return GSKWrapper }

func (GSKWrapperArtifact) Preamble(p *Pass) error {
	p.WriteString(basePreamble())
	switch {
	case p.Namespace().IsFIPS():
		p.WriteString("#define HAVE_C_ICC 1\n")
	case p.Ctx.Snapshot.HasLegacy():
		p.WriteString("#define HAVE_C_ICC 1\n")
		p.WriteString("#define HAVE_N_ICC 1\n")
	default:
		p.WriteString("#define HAVE_N_ICC 1\n")
	}
	return nil
}

func (GSKWrapperArtifact) Body(p *Pass, f Function) error {
	if skipInWrapper[f.Name] {
		return nil
	}
	primary := p.Namespace().ICCPrefix
	legacy := p.Ctx.Snapshot.Legacy().ICCPrefix

	// icc.h cannot be included for both instances, so declare what is called.
	p.WriteString(f.Prototype(primary, ICCContext) + ";\n")
	if f.Legacy {
		p.WriteString(f.Prototype(legacy, ICCContext) + ";\n")
	}
	p.WriteString(Comment(f, p.Spec.Flags))
	WriteDualContext(p, f, primary, legacy, p.Namespace().IsFIPS())
	return nil
}

func (GSKWrapperArtifact) Postamble(p *Pass) error {
	p.WriteString(basePostamble())
	names := p.Table.Names()
	for _, e := range []struct {
		family exports.Family
		sub    string
	}{
		{exports.GSK(), "exports"},
		{exports.GSKCompat(), "exports_old"},
		{exports.JGSK(), "exports"},
	} {
		if err := p.Export(e.family, DirPkg, e.sub, names); err != nil {
			return err
		}
	}
	return nil
}

// MuppetMakeArtifact writes muppet.mk, the make switches selecting the old
// ICC partner and the FIPS build.
type MuppetMakeArtifact struct{}

func (MuppetMakeArtifact) Kind() Kind { return MuppetMake }

func (MuppetMakeArtifact) Preamble(p *Pass) error {
	if p.Ctx.Snapshot.HasLegacy() {
		p.WriteString("MUPPET\t=\t $(OLD_ICC)/iccsdk/$(ICCLIB)\n")
	} else {
		p.WriteString("MUPPET\t=\n")
	}
	if p.Namespace().IsFIPS() {
		p.WriteString("IS_FIPS\t=\t1\n")
	} else {
		p.WriteString("IS_FIPS\t=\n")
	}
	return nil
}

func (MuppetMakeArtifact) Body(*Pass, Function) error { return nil }

func (MuppetMakeArtifact) Postamble(*Pass) error { return nil }

// OneScriptArtifact writes one.sh, enabling the GSkit-Crypto tests when an
// old ICC is packaged alongside.
type OneScriptArtifact struct{}

func (OneScriptArtifact) Kind() Kind { return OneScript }

func (OneScriptArtifact) Preamble(p *Pass) error {
	if p.Ctx.Snapshot.HasLegacy() {
		p.WriteString("# Enable tests of GSkit-Crypto components\nGSKIT=\"yes\"; export GSKIT\n")
	} else {
		p.WriteString("# Disable tests of GSkit-Crypto components\n#GSKIT=\"yes\"; export GSKIT\n")
	}
	return nil
}

func (OneScriptArtifact) Body(*Pass, Function) error { return nil }

func (OneScriptArtifact) Postamble(*Pass) error { return nil }

// javaExtras are the hand written entry points renamed for the Java binding.
var javaExtras = []string{
	"Init",
	"GenerateRandomSeed",
	"GetValue",
	"HKDF",
	"HKDF_Expand",
	"HKDF_Extract",
	"MemCheck_start",
	"MemCheck_stop",
}

// JavaHeaderArtifact writes jcc_a.h, renaming ICC_ entry points to JCC_ for
// the Java step library.
type JavaHeaderArtifact struct{}

func (JavaHeaderArtifact) Kind() Kind { return JavaHeader }

func (JavaHeaderArtifact) Preamble(p *Pass) error {
	p.WriteString("/*! \\file jcc_a.h\n" +
		"* Function prototypes for the ICC API (ICCSDK) - JCEPlus version \n" +
		"* This file is autogenerated and should be included prior to icc.h\n" +
		"*/\n\n")
	p.WriteString("#if defined(_WIN32)\n#  define ICC_InitW JCC_InitW\n#endif\n")
	for _, name := range javaExtras {
		WriteMacroAlias(p, "ICC_", "JCC_", name)
	}
	return nil
}

func (JavaHeaderArtifact) Body(p *Pass, f Function) error {
	WriteMacroAlias(p, "ICC_", "JCC_", f.Name)
	return nil
}

func (JavaHeaderArtifact) Postamble(p *Pass) error {
	p.WriteString(basePostamble())
	return nil
}
