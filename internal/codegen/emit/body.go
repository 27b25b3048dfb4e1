package emit

import (
	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/namespace"
)

const fipsErrorGuard = " && !((pcb->flags & ICC_FIPS_FLAG) && error_state)"

// IndirectShape parameterises the shared indirect call body.
type IndirectShape struct {
	Prefix  string
	Context string
	// Table is the call table expression indexed by the member offset.
	Table string
	// CallContext is forwarded ahead of the arguments, or empty.
	CallContext string
	// FIPSGuard refuses error sensitive calls while the context is in a FIPS
	// error state.
	FIPSGuard bool
	// WarnVoid logs error sensitive functions that cannot report failure.
	WarnVoid bool
}

// WriteIndirect emits a wrapper forwarding to the call table slot of f.
func WriteIndirect(p *Pass, a Artifact, f Function, sh IndirectShape) {
	td := f.TypedefName()

	p.WriteString(f.Prototype(sh.Prefix, sh.Context))
	p.WriteString("\n{\n")
	p.WriteString(f.ReturnTemp())
	p.WriteString("\t/* Note PCB is always checked for NULL in the calling function */\n")
	p.WriteString("\tif (NULL != pcb->funcs) {\n")
	p.Printf("\t\t%s tempf = (%s)%s[%d].func;\n", td, td, sh.Table, f.Index)
	p.WriteString("\t\tif( NULL != tempf")
	if sh.FIPSGuard && f.Has(decl.ErrorSensitive) {
		p.WriteString(fipsErrorGuard)
	}
	p.WriteString(" ) {\n")
	writeCall(p, f, "(tempf)", sh.CallContext, "\t\t\t")
	if h, ok := a.(ExtraCodeInFunction); ok {
		h.ExtraCodeInFunction(p, f)
	}
	p.WriteString("\t\t}\n")
	if sh.WarnVoid {
		warnVoid(p, f)
	}
	p.WriteString("\t}\n")
	p.WriteString(f.Return())
	p.WriteString("}\n\n")
	if h, ok := a.(ExtraFunction); ok {
		h.ExtraFunction(p, f)
	}
}

// writeCall emits "[temp = ]callee(args);".
func writeCall(p *Pass, f Function, callee, ctx, indent string) {
	p.WriteString(indent)
	if !f.ReturnsVoid() {
		p.WriteString("temp = ")
	}
	p.WriteString(callee)
	p.WriteString("(")
	p.WriteString(f.CallList(ctx))
	p.WriteString(");\n")
}

func warnVoid(p *Pass, f Function) {
	if f.Has(decl.ErrorSensitive) && f.ReturnsVoid() {
		p.Logger.Warn("Error sensitive function has a void return, failures will be silent", "function", f.Name)
	}
}

// WriteTableSlot emits a wrapper reading its slot from a fixed, context free
// table that may not be populated yet.
func WriteTableSlot(p *Pass, f Function, prefix, ctx, table, callCtx string) {
	td := f.TypedefName()

	p.WriteString(f.Prototype(prefix, ctx))
	p.WriteString("\n{\n")
	p.WriteString(f.ReturnTemp())
	p.Printf("\t%s tempf = NULL;\n", td)
	p.Printf("\tif(NULL != %s) {\n", table)
	p.Printf("\t\ttempf = (%s)%s[%d].func;\n", td, table, f.Index)
	p.WriteString("\t}\n")
	p.WriteString("\t\tif( NULL != tempf ) {\n")
	writeCall(p, f, "(tempf)", callCtx, "\t\t\t")
	p.WriteString("\t\t}\n")
	p.WriteString(f.Return())
	p.WriteString("}\n\n")
}

// WriteMacroAlias emits "#define <from><name> <to><name>".
func WriteMacroAlias(p *Pass, from, to, name string) {
	p.Printf("#define %s %s\n", namespace.Symbol(from, name), namespace.Symbol(to, name))
}

// WriteDualContext emits a wrapper probing two namespaced library instances.
// A FIPS build only has the FIPS instance (Cctx). Otherwise the non-FIPS
// instance (Nctx) is tried first and the legacy instance second, if the
// function exists there.
func WriteDualContext(p *Pass, f Function, primary, legacy string, fips bool) {
	call := func(prefix, ctx string) {
		p.Printf("\t\tif(NULL != wpcb->%s) {\n", ctx)
		p.WriteString("\t\t\t")
		if !f.ReturnsVoid() {
			p.WriteString("return ")
		}
		p.Printf("%s(%s);", namespace.Symbol(prefix, f.Name), f.CallList("wpcb->"+ctx))
		p.WriteString("\n\t\t}\n")
	}

	p.WriteString(f.Prototype("ICC_", ICCContext))
	p.WriteString("\n{")
	p.WriteString("\n\tWICC_CTX *wpcb = (WICC_CTX *)pcb;\n")
	if f.Name == "GetValue" || f.Name == "GetStatus" {
		p.WriteString(statusPrefill)
	}
	p.WriteString("\n\tif(NULL != wpcb) {\n")
	switch {
	case fips:
		call(primary, "Cctx")
	case f.Legacy:
		call(primary, "Nctx")
		call(legacy, "Cctx")
	default:
		call(primary, "Nctx")
		if !f.ReturnsVoid() && !f.ReturnsPointer() {
			p.Printf("\t\treturn (%s)ICC_NOT_IMPLEMENTED;\n", f.Ret)
		}
	}
	p.WriteString("\t}\n")
	if f.ReturnsVoid() {
		p.WriteString("\treturn;\n")
	} else {
		p.Printf("\treturn %s;\n", f.CastFailureValue())
	}
	p.WriteString("}\n\n")
}

const statusPrefill = "\tif(NULL != status) {\n" +
	"\t\tstatus->majRC = ICC_ERROR;\n" +
	"\t\tstatus->minRC = ICC_NOT_INITIALIZED;\n" +
	"\t\tstrncpy(status->desc,\"ICC is not initialized (gsk_wrap2.c)\",ICC_DESCLENGTH-1);\n" +
	"\t}"
