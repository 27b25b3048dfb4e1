package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/iccgen/internal/codegen/decl"
	"github.com/Alia5/iccgen/internal/codegen/output"
	"github.com/Alia5/iccgen/internal/codegen/registry"
)

func mustFunction(t *testing.T, s string, flags Flags) Function {
	t.Helper()
	d, err := decl.ParseDeclaration(s)
	require.NoError(t, err)
	return NewFunction(d, 3, flags)
}

func TestFailureValues(t *testing.T) {
	cases := []struct {
		decl, failure, cast, temp string
	}{
		{"0a int Foo(int a)", "(int)ICC_FAILURE", "(int)ICC_FAILURE", "\tint temp =  (int)ICC_FAILURE;\n"},
		{"0a unsigned char *Foo(int a)", "NULL", "(unsigned char *)NULL", "\tunsigned char * temp =  NULL;\n"},
		{"0a void Foo(int a)", "", "", ""},
	}
	for _, c := range cases {
		f := mustFunction(t, c.decl, Flags{})
		assert.Equal(t, c.failure, f.FailureValue(), c.decl)
		assert.Equal(t, c.cast, f.CastFailureValue(), c.decl)
		assert.Equal(t, c.temp, f.ReturnTemp(), c.decl)
	}
}

func TestPrototypes(t *testing.T) {
	f := mustFunction(t, "0a int Foo(RSA *r,const char *name)", Flags{NamespaceTypes: true})
	assert.Equal(t, "int ICC_LINKAGE ICCN_Foo(ICC_CTX *pcb,ICC_RSA *r,const char *name)", f.Prototype("ICCN_", ICCContext))
	assert.Equal(t, "int NN_Foo(ICClib *pcb,ICC_RSA *r,const char *name)", f.Prototype("NN_", LibContext))
	assert.Equal(t, "int Foo(ICC_RSA *r,const char *name)", f.Prototype("", ""))
	assert.Equal(t, "int efFoo(ICC_RSA *r,const char *name)", f.MacroPrototype())
	assert.Equal(t, "typedef int (*fptr_Foo)(void *pcb,ICC_RSA *r,const char *name);\n", f.Typedef(true))
	assert.Equal(t, "typedef int (*fptr_Foo)(ICC_RSA *r,const char *name);\n", f.Typedef(false))
	assert.Equal(t, "pcb,r,name", f.CallList("pcb"))

	v := mustFunction(t, "0a void Bar(void)", Flags{})
	assert.Equal(t, "void Bar(void)", v.Prototype("", ""))
	assert.Equal(t, "void ICC_LINKAGE ICC_Bar(ICC_CTX *pcb)", v.Prototype("ICC_", ICCContext))
	assert.Equal(t, "void efBar(void)", v.MacroPrototype())
	assert.Equal(t, "typedef void (*fptr_Bar)(void *pcb);\n", v.Typedef(true))
	assert.Equal(t, "typedef void (*fptr_Bar)(void);\n", v.Typedef(false))
	assert.Equal(t, "", v.CallList(""))
	assert.Equal(t, "\treturn;\n", v.Return())
}

func TestTypesUntouchedWithoutNamespacing(t *testing.T) {
	f := mustFunction(t, "0a RSA *Foo(RSA *r)", Flags{})
	assert.Equal(t, "RSA *", f.Ret)
	assert.Equal(t, []string{"RSA"}, f.Types)

	f = mustFunction(t, "0a RSA *Foo(RSA *r)", Flags{NamespaceTypes: true})
	assert.Equal(t, "ICC_RSA *", f.Ret)
	assert.Equal(t, []string{"ICC_RSA"}, f.Types)
}

func documented(t *testing.T, doc []string, s string) Function {
	t.Helper()
	p := decl.NewParser()
	for _, l := range doc {
		_, err := p.Parse(decl.Record{Text: "#!" + l, Line: 1})
		require.NoError(t, err)
	}
	res, err := p.Parse(decl.Record{Text: s, Line: 2})
	require.NoError(t, err)
	return NewFunction(res.Descriptor, 0, Flags{})
}

func TestCommentEmptyDoc(t *testing.T) {
	f := mustFunction(t, "0a int Foo(void)", Flags{})
	assert.Empty(t, Comment(f, SpecOf(ICCSource).Flags))
}

func TestCommentLibContext(t *testing.T) {
	f := documented(t, []string{" @brief b", " @param x y", " @return 1"}, "0Ec int Foo(int x)")
	got := Comment(f, SpecOf(LibSource).Flags)
	assert.Equal(t, "/*!\n"+
		" *  @brief b\n"+
		libContextParam+
		" *  @param x y\n"+
		" *  @return\n *  ICC_FAILURE if a FIPS mode error occured, 1\n"+
		" *\n * <b>Indirect call to:</b> \\ref Foo()\n"+
		" *  @see ICC_RC_ENUM\n"+
		"*/\n", got)
}

func TestCommentFIPSNote(t *testing.T) {
	f := documented(t, []string{" @brief b"}, "0Ca int Foo(void)")
	assert.Contains(t, Comment(f, SpecOf(ICCSource).Flags), fipsCallbackNote)
	assert.NotContains(t, Comment(f, SpecOf(LibSource).Flags), fipsCallbackNote)
}

func TestCommentTypesRewritten(t *testing.T) {
	f := documented(t, []string{" @brief frees an RSA key"}, "0a void Foo(void)")
	assert.Contains(t, Comment(f, SpecOf(PkgSource).Flags), "frees an ICC_RSA key")
	assert.Contains(t, Comment(f, SpecOf(ICCSource).Flags), "frees an RSA key")
}

func TestCommentLegacyCheck(t *testing.T) {
	f := documented(t, []string{" @brief b", " @return a pointer"}, "0b char *Foo(void)")
	got := Comment(f, SpecOf(PkgHeader).Flags)
	assert.Contains(t, got, "@return\n *  NULL if the API is not supported by an older ICC instance, a pointer\n")
	assert.True(t, strings.HasSuffix(got, legacyWarning+"*/\n"))

	f.Legacy = true
	got = Comment(f, SpecOf(PkgHeader).Flags)
	assert.NotContains(t, got, "older ICC")
	assert.NotContains(t, got, legacyWarning)
}

func TestCommentSeeReturnCodes(t *testing.T) {
	f := documented(t, []string{" @brief b", " @return ICC_OSSL_SUCCESS"}, "0a int Foo(void)")
	assert.NotContains(t, Comment(f, SpecOf(ICCHeader).Flags), "@see ICC_RC_ENUM")

	f = documented(t, []string{" @brief b", " @return ICC_OK or ICC_NOT_IMPLEMENTED"}, "0a int Foo(void)")
	assert.True(t, strings.HasSuffix(Comment(f, SpecOf(ICCHeader).Flags), " *  @see ICC_RC_ENUM\n*/\n"))
}

func TestSymbolTable(t *testing.T) {
	reg := registry.New(nil)
	require.NoError(t, reg.Load(strings.NewReader("0ab int A(void);\n0b int B(void);\n0a int C(void);\n")))
	snap := reg.Freeze()

	a := NewSymbolTable(snap, ICCSource)
	assert.Equal(t, []string{"A", "C"}, a.Names())
	i, ok := a.Index("C")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = a.Index("B")
	assert.False(t, ok)
	for _, s := range a.Symbols {
		j, ok := a.Index(s.Name)
		require.True(t, ok)
		assert.Equal(t, s.Index, j)
	}

	enum := a.Enum("X_ENUM")
	assert.Equal(t, a.Len()+1, strings.Count(enum, "indexOf_"))
	assert.Contains(t, enum, "\tindexOf_C = 1,\n\tindexOf_TableEnd\n} X_ENUM;\n")

	empty := NewSymbolTable(snap, MuppetMake)
	assert.Equal(t, 0, empty.Len())
	assert.NotNil(t, empty.Symbols)
}

func TestAggregatesMissing(t *testing.T) {
	a := NewAggregates()
	_, err := a.APICount()
	assert.ErrorIs(t, err, ErrMissingAggregate)
	_, err = a.LibCount()
	assert.ErrorIs(t, err, ErrMissingAggregate)
	_, err = a.LibEnum()
	assert.ErrorIs(t, err, ErrMissingAggregate)

	a.SetAPICount(0)
	n, err := a.APICount()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func newSession(t *testing.T) (*Session, *output.MemSink) {
	t.Helper()
	reg := registry.New(nil)
	require.NoError(t, reg.Load(strings.NewReader("0a int A(void);\n")))
	sink := output.NewMemSink()
	ctx := &Context{
		Snapshot:   reg.Freeze(),
		Aggregates: NewAggregates(),
		Sink:       sink,
		Layout:     Layout{ICCDir: "icc"},
	}
	s, err := Open(ctx, PkgSourceArtifact{})
	require.NoError(t, err)
	return s, sink
}

func TestPhaseOrder(t *testing.T) {
	s, _ := newSession(t)
	f := Function{Descriptor: decl.Descriptor{Name: "A", ReturnType: "int", Args: []decl.Arg{decl.VoidArg}}, Ret: "int", Types: []string{""}}

	assert.ErrorIs(t, s.Body(f), ErrPhaseOrder)
	assert.ErrorIs(t, s.Postamble(), ErrPhaseOrder)
	require.NoError(t, s.Preamble())
	assert.ErrorIs(t, s.Preamble(), ErrPhaseOrder)
	require.NoError(t, s.Body(f))
	require.NoError(t, s.Postamble())
	assert.ErrorIs(t, s.Body(f), ErrPhaseOrder)
	require.NoError(t, s.Cleanup())
	require.NoError(t, s.Cleanup())
	assert.ErrorIs(t, s.Preamble(), ErrPhaseOrder)
}

func TestPostambleWithoutMembers(t *testing.T) {
	s, sink := newSession(t)
	require.NoError(t, s.Preamble())
	require.NoError(t, s.Postamble())
	require.NoError(t, s.Cleanup())
	got, ok := sink.File("iccpkg_a.c")
	require.True(t, ok)
	assert.Contains(t, got, "indexOf_TableEnd")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, assert.AnError }

func TestWriterStickyError(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.WriteString("a")
	w.Printf("%d", 1)
	assert.ErrorIs(t, w.Err(), assert.AnError)
	assert.Zero(t, w.Written())
}

func TestExpandPrefix(t *testing.T) {
	assert.Equal(t, "int ICCN_Init(void);", expandPrefix("N", "int ICC@Prefix@_Init(void);"))
	assert.Equal(t, "/*! \\sa ICCN_Init */\n#define ICC_Init ICCN_Init\n",
		expandPrefix("N", "#define ICC_Init ICC@Prefix@_Init\n"))
	assert.Equal(t, "no marker", expandPrefix("N", "no marker"))
}

func TestParseKind(t *testing.T) {
	for _, s := range Specs() {
		k, ok := ParseKind(s.Name)
		require.True(t, ok)
		assert.Equal(t, s.Kind, k)
		assert.Equal(t, s.Name, k.String())
	}
	_, ok := ParseKind("nope.c")
	assert.False(t, ok)
}

func TestMembershipRoundTrip(t *testing.T) {
	reg := registry.New(nil)
	require.NoError(t, reg.Load(strings.NewReader("0ab int Foo(int a);\n0cdef int Other(void);\n")))
	snap := reg.Freeze()

	for _, s := range Specs() {
		want := s.Member == 'a' || s.Member == 'b'
		_, got := NewSymbolTable(snap, s.Kind).Index("Foo")
		assert.Equal(t, want, got, s.Name)
	}
}
