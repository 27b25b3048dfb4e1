package registry

import (
	"strings"

	"github.com/Alia5/iccgen/internal/codegen/decl"
)

// Namespace is the prefix configuration of one input file.
type Namespace struct {
	// Prefix is the raw PREFIX= value, e.g. "N" or "C".
	Prefix string `json:"prefix" yaml:"prefix" toml:"prefix"`
	// ICCPrefix prefixes public API symbols: "ICC" + Prefix + "_".
	ICCPrefix string `json:"iccPrefix" yaml:"iccPrefix" toml:"iccPrefix"`
	// METAPrefix prefixes internal library symbols: Prefix + Prefix + "_".
	METAPrefix string `json:"metaPrefix" yaml:"metaPrefix" toml:"metaPrefix"`
	// OpenSSLPrefix prefixes the underlying library symbols.
	OpenSSLPrefix string `json:"opensslPrefix" yaml:"opensslPrefix" toml:"opensslPrefix"`
}

func DefaultNamespace() Namespace {
	return Namespace{ICCPrefix: "ICC_"}
}

// Apply updates the namespace from a directive record.
func (n *Namespace) Apply(d decl.Directive) {
	switch d.Key {
	case decl.DirectivePrefix:
		n.Prefix = d.Value
		n.ICCPrefix = "ICC" + d.Value + "_"
		n.METAPrefix = d.Value + d.Value + "_"
	case decl.DirectiveOpenSSLPrefix:
		n.OpenSSLPrefix = d.Value
	}
}

// Namespaced reports whether a PREFIX= directive set a non-empty prefix.
func (n Namespace) Namespaced() bool { return n.Prefix != "" }

// IsFIPS reports whether the prefix selects the FIPS build of the library.
func (n Namespace) IsFIPS() bool { return strings.Contains(n.Prefix, "C") }
