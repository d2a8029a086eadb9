package token

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateToken_Format(t *testing.T) {
	tok, err := GenerateToken()

	assert.NoError(t, err)
	assert.Len(t, tok, 64)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}$`), tok)
}

func TestGenerateToken_NoCollisions(t *testing.T) {
	seen := make(map[string]bool, 1000)

	for i := 0; i < 1000; i++ {
		tok, err := GenerateToken()
		assert.NoError(t, err)
		assert.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}

func TestGenerateOTP_Format(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)

	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		assert.NoError(t, err)
		assert.Regexp(t, re, otp)
	}
}
