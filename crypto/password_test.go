package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerateAndCheckPassword(t *testing.T) {
	password := "my_super_secret_password"

	hash, err := GenerateHash(password)
	if err != nil {
		t.Fatalf("GenerateHash() error = %v", err)
	}

	if hash == password {
		t.Fatal("GenerateHash() returned the plaintext")
	}

	if !CheckPassword(password, hash) {
		t.Error("CheckPassword() = false, want true")
	}

	if CheckPassword("wrong_password", hash) {
		t.Error("CheckPassword() = true, want false")
	}
}

func TestGenerateHash_Salted(t *testing.T) {
	a, _ := GenerateHash("same")
	b, _ := GenerateHash("same")
	if a == b {
		t.Error("two hashes of the same password are equal")
	}
}

func TestGenerateHash_TooLong(t *testing.T) {
	if _, err := GenerateHash(strings.Repeat("x", MaxPasswordLength+1)); err == nil {
		t.Error("GenerateHash() expected error for password over the bcrypt limit")
	}
}

func TestCheckPassword_InvalidHash(t *testing.T) {
	if CheckPassword("password", "not-a-bcrypt-hash") {
		t.Error("CheckPassword() = true for malformed hash")
	}
}

func TestDummyHash(t *testing.T) {
	hash := DummyHash()
	if hash != DummyHash() {
		t.Error("DummyHash() changed between calls")
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("DummyHash() is not a bcrypt hash: %v", err)
	}
	if cost != bcrypt.DefaultCost {
		t.Errorf("cost = %d, want %d as for real passwords", cost, bcrypt.DefaultCost)
	}
	for _, guess := range []string{"", "password", UrlSafeAlphabet[:32]} {
		if CheckPassword(guess, hash) {
			t.Errorf("DummyHash() matches %q", guess)
		}
	}
}
