package decl_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/iccgen/internal/codegen/decl"
)

func TestParseDeclaration(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantReturn string
		wantArgs   []decl.Arg
		wantFlags  string
	}{
		{
			name:       "plain and pointer args",
			input:      "0ab void Foo(int a, char *b)",
			wantName:   "Foo",
			wantReturn: "void",
			wantArgs:   []decl.Arg{{Type: "int", Declarator: "a"}, {Type: "char", Declarator: "*b"}},
			wantFlags:  "ab",
		},
		{
			name:       "void sentinel",
			input:      "0EF int Bar(void)",
			wantName:   "Bar",
			wantReturn: "int",
			wantArgs:   []decl.Arg{decl.VoidArg},
			wantFlags:  "EF",
		},
		{
			name:       "empty list is void",
			input:      "1a int Baz()",
			wantName:   "Baz",
			wantReturn: "int",
			wantArgs:   []decl.Arg{decl.VoidArg},
			wantFlags:  "a",
		},
		{
			name:       "pointer return on name",
			input:      "0abcd const EVP_MD *EVP_get_digestbyname(const char *name)",
			wantName:   "EVP_get_digestbyname",
			wantReturn: "const EVP_MD *",
			wantArgs:   []decl.Arg{{Type: "const char", Declarator: "*name"}},
			wantFlags:  "abcd",
		},
		{
			name:       "double pointer return",
			input:      "0a char **Names(void)",
			wantName:   "Names",
			wantReturn: "char **",
			wantArgs:   []decl.Arg{decl.VoidArg},
			wantFlags:  "a",
		},
		{
			name:       "function pointer argument",
			input:      "0EPab int RSA_gen(RSA *rsa, int (*cb)(int a, int b), void *arg)",
			wantName:   "RSA_gen",
			wantReturn: "int",
			wantArgs: []decl.Arg{
				{Type: "RSA", Declarator: "*rsa"},
				{Type: "int", Declarator: "(*cb)(int a, int b)"},
				{Type: "void", Declarator: "*arg"},
			},
			wantFlags: "EPab",
		},
		{
			name:       "unknown letters ignored",
			input:      "0aXyZ int Q(int x)",
			wantName:   "Q",
			wantReturn: "int",
			wantArgs:   []decl.Arg{{Type: "int", Declarator: "x"}},
			wantFlags:  "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decl.ParseDeclaration(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name)
			assert.Equal(t, tt.wantReturn, d.ReturnType)
			assert.Equal(t, tt.wantArgs, d.Args)
			assert.Equal(t, tt.wantFlags, d.Flags.String())
		})
	}
}

func TestFooProperties(t *testing.T) {
	d, err := decl.ParseDeclaration("0ab void Foo(int a, char *b)")
	require.NoError(t, err)

	require.Len(t, d.Args, 2)
	assert.Equal(t, "int", d.Args[0].CType())
	assert.Equal(t, "a", d.Args[0].Name())
	assert.Equal(t, "char *", d.Args[1].CType())
	assert.Equal(t, "b", d.Args[1].Name())

	assert.True(t, d.Flags.Member('a'))
	assert.True(t, d.Flags.Member('b'))
	for _, f := range []decl.Flag{decl.ErrorSensitive, decl.MacroFunction, decl.UsesContext, decl.Redirect, decl.JavaOnly, decl.FIPSCallback} {
		assert.False(t, d.Has(f))
	}
	for _, l := range []byte("cdef") {
		assert.False(t, d.Flags.Member(l), "member %c", l)
	}
}

func TestBarProperties(t *testing.T) {
	d, err := decl.ParseDeclaration("0EF int Bar(void)")
	require.NoError(t, err)

	assert.True(t, d.Has(decl.ErrorSensitive))
	assert.True(t, d.Has(decl.MacroFunction))
	assert.False(t, d.Has(decl.UsesContext))
	require.Len(t, d.Args, 1)
	assert.Equal(t, "void", d.Args[0].Name())
	assert.Equal(t, "", d.Args[0].Type)
	assert.False(t, d.HasArgs())
	assert.Nil(t, d.Params())
}

func TestArgName(t *testing.T) {
	tests := map[string]string{
		"a":                   "a",
		"*b":                  "b",
		"**pp":                "pp",
		"(*cb)(int a, int b)": "cb",
		"buf[16]":             "buf",
	}
	for declarator, want := range tests {
		assert.Equal(t, want, decl.Arg{Type: "int", Declarator: declarator}.Name(), declarator)
	}
}

func TestArgCType(t *testing.T) {
	assert.Equal(t, "unsigned char **", decl.Arg{Type: "unsigned char", Declarator: "**out"}.CType())
	assert.Equal(t, "int (*)(int a)", decl.Arg{Type: "int", Declarator: "(*cb)(int a)"}.CType())
}

func TestParseDeclarationErrors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"0a int Foo(int a", decl.ErrMismatchedParens},
		{"0a int Foo(int (*cb)(int a)", decl.ErrMismatchedParens},
		{"0a Foo", decl.ErrMalformedDeclaration},
		{"0a Foo(int a)", decl.ErrMalformedDeclaration},
		{"0a int *(void)", decl.ErrMalformedDeclaration},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := decl.ParseDeclaration(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSplit(t *testing.T) {
	in := "PREFIX=C;\n#! @brief one;\n\n0a int A(void);\n  ;0b void B(int x);trailing words"
	recs, err := decl.Split(strings.NewReader(in))
	require.NoError(t, err)

	var texts []string
	for _, r := range recs {
		texts = append(texts, r.Text)
	}
	assert.Equal(t, []string{"PREFIX=C", "#! @brief one", "0a int A(void)", "0b void B(int x)"}, texts)
	assert.Equal(t, []int{1, 2, 4, 5}, []int{recs[0].Line, recs[1].Line, recs[2].Line, recs[3].Line})
}

func TestSplitTruncated(t *testing.T) {
	_, err := decl.Split(strings.NewReader("0a int A(void);\n0a int B(int x)"))
	require.Error(t, err)
	assert.ErrorIs(t, err, decl.ErrUnexpectedEOF)

	var pe *decl.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Line)
}

func TestParserRecords(t *testing.T) {
	p := decl.NewParser()

	res, err := p.Parse(decl.Record{Text: "PREFIX=N", Line: 1})
	require.NoError(t, err)
	assert.Equal(t, decl.KindDirective, res.Kind)
	assert.Equal(t, decl.Directive{Key: decl.DirectivePrefix, Value: "N"}, res.Directive)

	res, err = p.Parse(decl.Record{Text: "OPENSSLPREFIX=ossl_", Line: 2})
	require.NoError(t, err)
	assert.Equal(t, decl.Directive{Key: decl.DirectiveOpenSSLPrefix, Value: "ossl_"}, res.Directive)

	res, err = p.Parse(decl.Record{Text: "not a declaration", Line: 3})
	require.NoError(t, err)
	assert.Equal(t, decl.KindFiller, res.Kind)

	res, err = p.Parse(decl.Record{})
	require.NoError(t, err)
	assert.Equal(t, decl.KindFiller, res.Kind)

	_, err = p.Parse(decl.Record{Text: "0a int Broken(int (a", Line: 7})
	var pe *decl.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 7, pe.Line)
	assert.ErrorIs(t, err, decl.ErrMismatchedParens)
}

func TestParserDocComments(t *testing.T) {
	p := decl.NewParser()
	feed := func(text string) decl.Result {
		t.Helper()
		res, err := p.Parse(decl.Record{Text: text, Line: 1})
		require.NoError(t, err)
		return res
	}

	feed("#! @brief Frees a thing")
	feed("#! @param a the thing")
	feed("#! @param b another")
	feed("filler is not a comment")
	feed("#! @return nothing")
	res := feed("0ab void Foo(int a, char *b)")

	doc := res.Descriptor.Doc
	assert.Equal(t, []string{" @brief Frees a thing", " @param a the thing", " @param b another", " @return nothing"}, doc.Lines)
	require.True(t, doc.HasContext)
	assert.Equal(t, 1, doc.ContextAt)

	// consumed by the declaration
	res = feed("0a int Next(void)")
	assert.True(t, res.Descriptor.Doc.Empty())

	// a plain comment discards pending documentation
	feed("#! @brief dropped")
	feed("# plain")
	res = feed("0a int Last(void)")
	assert.True(t, res.Descriptor.Doc.Empty())
}

func TestDocBody(t *testing.T) {
	var d decl.Doc
	d.Add(" @brief x")
	d.Add(" @param a y")
	d.Add(" @param b z")

	got := d.Body(" *  @param pcb ctx\n")
	assert.Equal(t, " *  @brief x\n *  @param pcb ctx\n *  @param a y\n *  @param b z\n", got)

	var noBrief decl.Doc
	noBrief.Add(" @param a y")
	assert.False(t, noBrief.HasContext)
	assert.Equal(t, " *  @param a y\n", noBrief.Body(" *  @param pcb ctx\n"))
}

func TestFlagsMember(t *testing.T) {
	f := decl.ParseFlags("cf")
	assert.True(t, f.Member('c'))
	assert.True(t, f.Member('f'))
	assert.False(t, f.Member('a'))
	assert.False(t, f.Member('z'))
	assert.Equal(t, "cf", f.String())
}
