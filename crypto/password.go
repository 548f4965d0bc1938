package crypto

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the bcrypt input limit in bytes.
const MaxPasswordLength = 72

// DummyHash returns a bcrypt hash of the default cost matching no password
// a caller knows. Comparing against it when there is no account to check
// costs the same time as a real comparison.
var DummyHash = sync.OnceValue(func() string {
	hash, err := GenerateHash(RandomString(32, UrlSafeAlphabet))
	if err != nil {
		panic(err)
	}
	return hash
})

// CheckPassword compares a bcrypt hashed password with its possible plaintext equivalent
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateHash creates a bcrypt hash from a password using reasonable default cost
func GenerateHash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hashedBytes), err
}
