package emit

import (
	"strings"

	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/namespace"
)

const (
	iccContextParam = " *  @param pcb ICC context pointer returned by a sucessful call to ICC_Init\n"
	libContextParam = " *  @param pcb OpenSSL Library context pointer. This parameter is never exposed in public API's\n"

	fipsCallbackNote = " *\n * @note this function supports the FIPS algorithm callback function" +
		" \n * IF FIPS is enabled and the callback has been set in the ICC_CTX" +
		" \n * a 1 will be returned by the callback prior to return for a FIPS algorithm properly configured, 0 otherwise\n"

	legacyWarning = " *  @note WARNING! This function is not implemented by all ICC contexts.\n"
)

// returnCodes trigger a cross reference to the return code enumeration when
// mentioned in the @return section.
var returnCodes = []string{"ICC_OSSL_FAILURE", "ICC_OSSL_OK", "ICC_FAILURE", "ICC_NOT_IMPLEMENTED"}

// Comment renders the documentation block of f for an artifact, or nothing
// when f carries no documentation.
func Comment(f Function, flags Flags) string {
	if f.Doc.Empty() {
		return ""
	}
	rules := flags.Doc

	var ctxParam string
	switch rules.Context {
	case ContextDocICC:
		ctxParam = iccContextParam
	case ContextDocLib:
		ctxParam = libContextParam
	}

	s := "/*!\n" + f.Doc.Body(ctxParam)
	if rules.CrossRef {
		s += " *\n * <b>Indirect call to:</b> \\ref " + f.Name + "()\n"
	}
	if rules.FIPSNote && f.Has(decl.FIPSCallback) {
		s += fipsCallbackNote
	}
	if rules.CommentTypes {
		s = namespace.Comment(s)
	}

	notInLegacy := rules.LegacyCheck && !f.Legacy
	if i := strings.Index(s, "@return"); i > 0 {
		at := i + len("@return")
		s = s[:at] + returnExtra(f, flags, notInLegacy) + s[at:]
	}
	if notInLegacy {
		s += legacyWarning
	}
	s = seeReturnCodes(s)
	return s + "*/\n"
}

// returnExtra documents the failure values the generated wrapper adds.
func returnExtra(f Function, flags Flags, notInLegacy bool) string {
	if !(flags.RequiresICCContext || flags.RequiresLibContext) || f.ReturnsVoid() {
		return ""
	}
	var s string
	if f.ReturnsPointer() {
		if f.Has(decl.ErrorSensitive) {
			s += "\n *  NULL if a FIPS mode error occured,"
		}
		if notInLegacy {
			s += "\n *  NULL if the API is not supported by an older ICC instance,"
		}
		return s
	}
	if f.Has(decl.ErrorSensitive) {
		s += "\n *  ICC_FAILURE if a FIPS mode error occured,"
	}
	if notInLegacy {
		s += "\n *  ICC_NOT_IMPLEMENTED if not supported by an older ICC instance,"
	}
	return s
}

func seeReturnCodes(s string) string {
	from := max(strings.Index(s, "@return"), 0)
	for _, rc := range returnCodes {
		if i := strings.Index(s[from:], rc); i >= 0 && from+i > 0 {
			last := strings.LastIndexByte(s, '\n')
			return s[:last] + "\n *  @see ICC_RC_ENUM\n" + s[last+1:]
		}
	}
	return s
}
