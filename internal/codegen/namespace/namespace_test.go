package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{"EVP_MD_CTX", "ICC_EVP_MD_CTX"},
		{"const EVP_MD", "const ICC_EVP_MD"},
		{"EC_KEY", "ICC_EC_KEY"},
		{"ECDSA_SIG", "ICC_ECDSA_SIG"},
		{"PKCS8_PRIV_KEY_INFO", "ICC_PKCS8_PRIV_KEY_INFO"},
		// only the first stem in priority order is rewritten
		{"RSA_DH_pair", "ICC_RSA_DH_pair"},
		{"DH_RSA", "DH_ICC_RSA"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Type(tt.in))
		})
	}
}

func TestTypeIdempotent(t *testing.T) {
	for _, in := range []string{"EVP_CIPHER_CTX", "const EC_GROUP", "BIGNUM", "PRNG_CTX", "unsigned char", "AES_GCM_CTX"} {
		once := Type(in)
		assert.Equal(t, once, Type(once), in)
	}
	assert.Equal(t, "ICC_EVP_PKEY", Type("ICC_EVP_PKEY"))
}

func TestComment(t *testing.T) {
	in := " * @param key an EVP_PKEY and an RSA key\n * @return BIGNUM\n"
	want := " * @param key an ICC_EVP_PKEY and an ICC_RSA key\n * @return ICC_BIGNUM\n"
	assert.Equal(t, want, Comment(in))
	assert.Equal(t, want, Comment(want))

	// a stem at the very start of the text is not a word match
	assert.Equal(t, " RSA", Comment(" RSA"))
	assert.Equal(t, "x ICC_RSA", Comment("x RSA"))
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "ICCN_RSA_new", Symbol("ICCN_", "RSA_new"))
	assert.Equal(t, "RSA_new", Symbol("", "RSA_new"))
}
