package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateToken returns a 64-character lowercase hex string built from 32
// random bytes, used as an opaque bearer credential for password resets.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateOTP returns a zero-padded 6-digit code derived from 3 random
// bytes reduced mod 1,000,000. 2^24 is not a multiple of 1e6, so low codes
// are very slightly overrepresented; kept as-is for compatibility.
func GenerateOTP() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	n := (uint32(buf[0])<<16 | uint32(buf[1])<<8 | uint32(buf[2])) % 1000000
	return fmt.Sprintf("%06d", n), nil
}
