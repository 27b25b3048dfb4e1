// Package decl parses the declaration list (functions.txt) into function
// descriptors.
//
// The input is a stream of ';' terminated records. A record is a directive
// (PREFIX=, OPENSSLPREFIX=), a comment ("#", or "#!" for documentation), a
// declaration starting with an api level digit, or filler that is skipped.
package decl

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMismatchedParens     = errors.New("mismatched parenthesis")
	ErrMalformedDeclaration = errors.New("malformed declaration")
	ErrUnexpectedEOF        = errors.New("unexpected end of input")
)

// ParseError is a fatal error located at one input record.
type ParseError struct {
	Line   int
	Record string
	Err    error
}

func (e *ParseError) Error() string {
	rec := e.Record
	if len(rec) > 60 {
		rec = rec[:60] + "..."
	}
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, rec)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Record is one trimmed, non-empty record and the line it starts on.
type Record struct {
	Text string
	Line int
}

// Split reads r to the end and splits it into records. Text following the
// last terminator is dropped unless it looks like a declaration, in which
// case the input was truncated and ErrUnexpectedEOF is returned.
func Split(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read declarations: %w", err)
	}
	src := string(data)

	var records []Record
	line := 1
	for {
		end := strings.IndexByte(src, ';')
		chunk := src
		if end >= 0 {
			chunk = src[:end]
		}
		lead := len(chunk) - len(strings.TrimLeft(chunk, " \t\r\n"))
		text := strings.TrimSpace(chunk)
		start := line + strings.Count(chunk[:lead], "\n")
		line += strings.Count(chunk, "\n")

		if end < 0 {
			if text != "" && isDigit(text[0]) {
				return records, &ParseError{Line: start, Record: text, Err: ErrUnexpectedEOF}
			}
			return records, nil
		}
		if text != "" {
			records = append(records, Record{Text: text, Line: start})
		}
		src = src[end+1:]
	}
}

// Kind classifies a parsed record.
type Kind int

const (
	KindFiller Kind = iota
	KindComment
	KindDirective
	KindDeclaration
)

func (k Kind) String() string {
	switch k {
	case KindComment:
		return "comment"
	case KindDirective:
		return "directive"
	case KindDeclaration:
		return "declaration"
	default:
		return "filler"
	}
}

// Directive is a KEY=value record.
type Directive struct {
	Key   string
	Value string
}

const (
	DirectivePrefix        = "PREFIX"
	DirectiveOpenSSLPrefix = "OPENSSLPREFIX"
)

type Result struct {
	Kind       Kind
	Directive  Directive
	Descriptor Descriptor
}

// Parser turns records into results. It carries the documentation collected
// from "#!" records until the next declaration consumes it.
type Parser struct {
	doc Doc
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse classifies and parses one record. Only structural errors in a
// declaration are returned; everything unrecognised is reported as filler.
func (p *Parser) Parse(rec Record) (Result, error) {
	s := rec.Text
	for _, key := range []string{DirectivePrefix, DirectiveOpenSSLPrefix} {
		if v, ok := strings.CutPrefix(s, key+"="); ok {
			return Result{Kind: KindDirective, Directive: Directive{Key: key, Value: v}}, nil
		}
	}

	if strings.HasPrefix(s, "#") {
		if strings.HasPrefix(s, "#!") && len(s) > 2 {
			p.doc.Add(s[2:])
		} else {
			p.doc = Doc{}
		}
		return Result{Kind: KindComment}, nil
	}

	if s == "" || !isDigit(s[0]) {
		return Result{Kind: KindFiller}, nil
	}

	d, err := ParseDeclaration(s)
	if err != nil {
		return Result{}, &ParseError{Line: rec.Line, Record: s, Err: err}
	}
	d.Line = rec.Line
	d.Doc = p.doc
	p.doc = Doc{}
	return Result{Kind: KindDeclaration, Descriptor: d}, nil
}

// ParseDeclaration parses "<level><flags> <type> [*]<name>(<args>)".
func ParseDeclaration(s string) (Descriptor, error) {
	var d Descriptor

	sep := strings.IndexAny(s, " \t")
	if sep < 0 || !isDigit(s[0]) {
		return d, fmt.Errorf("%w: missing modifier token", ErrMalformedDeclaration)
	}
	d.Modifiers = s[:sep]
	d.APILevel = int(s[0] - '0')
	d.Flags = ParseFlags(d.Modifiers[1:])

	rest := strings.TrimSpace(s[sep:])
	open := strings.IndexByte(rest, '(')
	if open < 0 {
		return d, fmt.Errorf("%w: no argument list", ErrMalformedDeclaration)
	}
	head := strings.Fields(rest[:open])
	if len(head) < 2 {
		return d, fmt.Errorf("%w: expected return type and name", ErrMalformedDeclaration)
	}
	d.ReturnType = strings.Join(head[:len(head)-1], " ")
	d.Name = head[len(head)-1]
	if stars := len(d.Name) - len(strings.TrimLeft(d.Name, "*")); stars > 0 {
		d.Name = d.Name[stars:]
		d.ReturnType += " " + strings.Repeat("*", stars)
	}
	if d.Name == "" {
		return d, fmt.Errorf("%w: empty function name", ErrMalformedDeclaration)
	}

	end, err := matchParen(rest, open)
	if err != nil {
		return d, err
	}
	d.Args = splitArgs(rest[open+1 : end])
	return d, nil
}

// matchParen returns the index of the ')' closing the '(' at open.
func matchParen(s string, open int) (int, error) {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return -1, ErrMismatchedParens
}

// splitArgs splits an argument list on top level commas.
func splitArgs(list string) []Arg {
	if strings.TrimSpace(list) == "" {
		return []Arg{VoidArg}
	}
	var args []Arg
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, parseArg(list[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, parseArg(list[start:]))
}

// parseArg splits one argument into base type and declarator. The declarator
// is the last token, or everything from the first '(' for function pointers.
func parseArg(s string) Arg {
	s = strings.TrimSpace(s)
	if p := strings.IndexByte(s, '('); p >= 0 {
		return Arg{
			Type:       strings.Join(strings.Fields(s[:p]), " "),
			Declarator: strings.Join(strings.Fields(s[p:]), " "),
		}
	}
	f := strings.Fields(s)
	if len(f) == 0 {
		return Arg{}
	}
	return Arg{
		Type:       strings.Join(f[:len(f)-1], " "),
		Declarator: f[len(f)-1],
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
