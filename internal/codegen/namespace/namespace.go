// Package namespace rewrites library type names and symbols so several
// library instances can coexist in one process.
package namespace

import "strings"

// TypePrefix is inserted in front of library type stems. Data types are not
// namespaced with the configured symbol prefix.
const TypePrefix = "ICC_"

// Stems lists the opaque library type stems, longest first so a stem never
// matches inside a longer one.
var Stems = []string{
	"PKCS8_PRIV_KEY_INFO",
	"EC_builtin_curve",
	"ECDSA_METHOD",
	"ECDH_METHOD",
	"ASN1_OBJECT",
	"X509_ALGOR",
	"ECDSA_SIG",
	"EC_METHOD",
	"EC_POINT",
	"EC_GROUP",
	"PRNG_CTX",
	"AES_GCM",
	"DSA_SIG",
	"EC_KEY",
	"BIGNUM",
	"PRNG",
	"CMAC",
	"HMAC",
	"KDF",
	"DES",
	"DSA",
	"EVP",
	"RSA",
	"BN",
	"DH",
}

// Type prefixes the first stem (in Stems order) found in s. Only that one
// occurrence is rewritten, and a stem already carrying the prefix is left
// alone.
func Type(s string) string {
	for _, stem := range Stems {
		i := strings.Index(s, stem)
		if i < 0 {
			continue
		}
		if strings.HasSuffix(s[:i], TypePrefix) {
			return s
		}
		return s[:i] + TypePrefix + s[i:]
	}
	return s
}

// Comment prefixes every stem in free text that follows a space, excluding a
// match at the very start of the text.
func Comment(s string) string {
	for _, stem := range Stems {
		word := " " + stem
		for {
			i := strings.LastIndex(s, word)
			if i <= 0 {
				break
			}
			s = s[:i+1] + TypePrefix + s[i+1:]
		}
	}
	return s
}

// Symbol joins a configured symbol prefix and a function name.
func Symbol(prefix, name string) string {
	return prefix + name
}
