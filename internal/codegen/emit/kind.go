package emit

import "fmt"

// Kind identifies one generated artifact.
type Kind int

const (
	ICCSource Kind = iota
	ICCHeader
	LibSource
	LibHeader
	PkgSource
	PkgHeader
	GSKWrapper
	MuppetMake
	OneScript
	AuxSource
	AuxHeader
	JavaHeader
)

// Dir is the output directory an artifact is written to.
type Dir int

const (
	DirICC Dir = iota
	DirPkg
	DirTest
)

// Prefix selects which configured symbol prefix an artifact defines.
type Prefix int

const (
	PrefixNone Prefix = iota
	PrefixICC
	PrefixMETA
)

// ContextDoc selects the @param row spliced in for the implicit context argument.
type ContextDoc int

const (
	ContextDocNone ContextDoc = iota
	ContextDocICC
	ContextDocLib
)

// Flags is the fixed structural bundle of an artifact.
type Flags struct {
	Header bool
	Prefix Prefix
	// RequiresICCContext and RequiresLibContext tell which context handle the
	// generated functions receive.
	RequiresICCContext bool
	RequiresLibContext bool
	// PassesLibContext forwards the call table to callees flagged P.
	PassesLibContext bool
	// NamespaceTypes rewrites argument and return types with namespace.Type.
	NamespaceTypes bool
	Doc            DocRules
}

// DocRules controls how documentation comments are rendered.
type DocRules struct {
	Context      ContextDoc
	CrossRef     bool
	FIPSNote     bool
	CommentTypes bool
	LegacyCheck  bool
}

// Spec is the static description of an artifact kind.
type Spec struct {
	Kind   Kind
	Name   string
	Dir    Dir
	Member byte
	Flags  Flags
}

var (
	publicFlags = Flags{
		Prefix:             PrefixICC,
		RequiresICCContext: true,
		PassesLibContext:   true,
	}
	libFlags = Flags{
		Prefix:             PrefixMETA,
		RequiresLibContext: true,
	}
)

func with(f Flags, fn func(*Flags)) Flags {
	fn(&f)
	return f
}

var specs = []Spec{
	{ICCSource, "icc_a.c", DirICC, 'a', with(publicFlags, func(f *Flags) {
		f.NamespaceTypes = true
		f.Doc = DocRules{Context: ContextDocICC, CrossRef: true, FIPSNote: true}
	})},
	{ICCHeader, "icc_a.h", DirICC, 'b', with(publicFlags, func(f *Flags) {
		f.Header = true
		f.NamespaceTypes = true
		f.Doc = DocRules{Context: ContextDocICC, CrossRef: true, FIPSNote: true}
	})},
	{LibSource, "icclib_a.c", DirICC, 'c', with(libFlags, func(f *Flags) {
		f.Doc = DocRules{Context: ContextDocLib, CrossRef: true}
	})},
	{LibHeader, "icclib_a.h", DirICC, 'd', with(libFlags, func(f *Flags) {
		f.Header = true
		f.Doc = DocRules{Context: ContextDocLib, CrossRef: true}
	})},
	{PkgSource, "iccpkg_a.c", DirPkg, 'a', with(publicFlags, func(f *Flags) {
		f.NamespaceTypes = true
		f.Doc = DocRules{Context: ContextDocICC, CommentTypes: true}
	})},
	{PkgHeader, "iccpkg_a.h", DirPkg, 'b', with(publicFlags, func(f *Flags) {
		f.Header = true
		f.NamespaceTypes = true
		f.Doc = DocRules{Context: ContextDocICC, LegacyCheck: true}
	})},
	{GSKWrapper, "gsk_wrap2_a.c", DirPkg, 'b', with(publicFlags, func(f *Flags) {
		f.NamespaceTypes = true
		f.Doc = DocRules{Context: ContextDocICC, CommentTypes: true}
	})},
	{MuppetMake, "muppet.mk", DirPkg, 0, Flags{}},
	{OneScript, "one.sh", DirTest, 0, Flags{}},
	{AuxSource, "icc_aux_a.c", DirPkg, 'e', publicFlags},
	{AuxHeader, "icc_aux_a.h", DirPkg, 'f', with(libFlags, func(f *Flags) {
		f.Header = true
	})},
	{JavaHeader, "jcc_a.h", DirPkg, 'b', with(libFlags, func(f *Flags) {
		f.Header = true
		f.Doc = DocRules{Context: ContextDocLib, LegacyCheck: true}
	})},
}

// Specs returns the static description of every artifact kind in generation order.
func Specs() []Spec {
	return append([]Spec(nil), specs...)
}

func SpecOf(k Kind) Spec {
	if k < 0 || int(k) >= len(specs) {
		panic(fmt.Sprintf("emit: unknown artifact kind %d", int(k)))
	}
	return specs[k]
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(specs) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return specs[k].Name
}

// ParseKind looks a kind up by its file name.
func ParseKind(name string) (Kind, bool) {
	for _, s := range specs {
		if s.Name == name {
			return s.Kind, true
		}
	}
	return 0, false
}
