package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	plain, tok, err := NewResetToken(now, 0)
	require.NoError(t, err)

	assert.Len(t, plain, 64)
	assert.NotEqual(t, plain, tok.Hash)
	assert.Equal(t, HashResetToken(plain), tok.Hash)
	assert.Equal(t, now.Add(DefaultResetTokenTTL), tok.ExpiresAt)
}

func TestNewResetToken_Unique(t *testing.T) {
	now := time.Now()
	a, _, err := NewResetToken(now, time.Hour)
	require.NoError(t, err)
	b, _, err := NewResetToken(now, time.Hour)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestResetToken_ValidAt(t *testing.T) {
	expiry := time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC)
	tok := ResetToken{Hash: HashResetToken("abc"), ExpiresAt: expiry}

	assert.True(t, tok.ValidAt(expiry.Add(-time.Nanosecond)))
	assert.False(t, tok.ValidAt(expiry), "boundary must be expired")
	assert.False(t, tok.ValidAt(expiry.Add(time.Second)))
	assert.False(t, ResetToken{ExpiresAt: expiry}.ValidAt(expiry.Add(-time.Hour)))
}

func TestHashResetToken_KnownVector(t *testing.T) {
	// sha256("abc")
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		HashResetToken("abc"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM \n"))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUser_PendingReset(t *testing.T) {
	u := &User{}
	_, ok := u.PendingReset()
	assert.False(t, ok)

	exp := time.Now().Add(time.Hour)
	u.ResetTokenHash = "h"
	u.ResetTokenExpiry = &exp
	tok, ok := u.PendingReset()
	require.True(t, ok)
	assert.Equal(t, "h", tok.Hash)
	assert.Equal(t, exp, tok.ExpiresAt)
}

func TestCheckPassword(t *testing.T) {
	assert.ErrorIs(t, CheckPassword("abc"), ErrWeakPassword)
	assert.ErrorIs(t, CheckPassword("ééé"), ErrWeakPassword)
	assert.NoError(t, CheckPassword("ééééé€"))
	assert.NoError(t, CheckPassword(strings.Repeat("a", MaxPasswordBytes)))
	assert.ErrorIs(t, CheckPassword(strings.Repeat("a", MaxPasswordBytes+1)), ErrPasswordTooLong)
	// 25 three-byte runes: long enough in characters, too long for bcrypt.
	assert.ErrorIs(t, CheckPassword(strings.Repeat("€", 25)), ErrPasswordTooLong)
}
