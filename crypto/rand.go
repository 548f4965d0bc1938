package crypto

import (
	"crypto/rand"
	"math/big"
)

const (
	AlphanumericAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// UrlSafeAlphabet is the 64 symbol alphabet of nanoid style identifiers.
	UrlSafeAlphabet = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"

	// tokenLength gives ~126 bits of entropy with UrlSafeAlphabet.
	tokenLength = 21
)

// RandomString returns a string of length characters drawn uniformly from
// alphabet using crypto/rand. It panics if alphabet is empty or the system
// random source fails.
func RandomString(length int, alphabet string) string {
	if len(alphabet) == 0 {
		panic("crypto: empty alphabet")
	}

	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: random source failed: " + err.Error())
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// NewVerificationToken returns a compact random identifier used once as the
// email verification lookup key.
func NewVerificationToken() string {
	return RandomString(tokenLength, UrlSafeAlphabet)
}

// NewRecoveryPassword returns a generated plaintext password for the forget
// password flow.
func NewRecoveryPassword() string {
	return RandomString(tokenLength, UrlSafeAlphabet)
}
