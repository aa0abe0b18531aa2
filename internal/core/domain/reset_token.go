package domain

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const (
	// DefaultResetTokenTTL bounds how long a reset link stays usable.
	DefaultResetTokenTTL = time.Hour

	resetTokenBytes = 32
)

// ResetToken is the server-side half of a pending password reset. The
// plaintext is only ever handed to the user; storage sees the hash.
type ResetToken struct {
	Hash      string
	ExpiresAt time.Time
}

// NewResetToken draws 256 bits from crypto/rand and returns the hex plaintext
// together with its hash and expiry.
func NewResetToken(now time.Time, ttl time.Duration) (string, ResetToken, error) {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}

	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", ResetToken{}, fmt.Errorf("generate reset token: %w", err)
	}
	plaintext := hex.EncodeToString(buf)

	return plaintext, ResetToken{
		Hash:      HashResetToken(plaintext),
		ExpiresAt: now.Add(ttl).UTC(),
	}, nil
}

// HashResetToken returns the hex SHA-256 digest of a plaintext token.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// ValidAt reports whether the token is still usable at now. The boundary
// itself is already expired.
func (t ResetToken) ValidAt(now time.Time) bool {
	return t.Hash != "" && now.Before(t.ExpiresAt)
}

// NormalizeEmail trims and lowercases an account identifier.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
