package crypto

import (
	"testing"
	"time"
)

func BenchmarkNewJwtSigningKey(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = NewJwtSigningKeyWithCredentials(testEmail, testPasswordHash, testSecret)
	}
}

func BenchmarkNewJwtSessionToken(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = NewJwtSessionToken("user-test-123", testEmail, testPasswordHash, testSecret, time.Hour)
	}
}

func BenchmarkParseJwt(b *testing.B) {
	token, err := NewJwtSessionToken("user-test-123", testEmail, testPasswordHash, testSecret, time.Hour)
	if err != nil {
		b.Fatalf("failed to create token: %v", err)
	}
	key, _ := NewJwtSigningKeyWithCredentials(testEmail, testPasswordHash, testSecret)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseJwt(token, key)
	}
}
