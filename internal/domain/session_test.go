package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSession(t *testing.T) {
	s := NewSession("sess-abc", 42, "hash", "127.0.0.1", 24*time.Hour)

	assert.Equal(t, "sess-abc", s.ID)
	assert.Equal(t, int64(42), s.ReaderID)
	assert.Equal(t, "hash", s.TokenHash)
	assert.Equal(t, 24*time.Hour, s.ExpiresAt.Sub(s.CreatedAt))
	assert.Equal(t, s.CreatedAt, s.LastSeenAt)
}

func TestSession_IsExpired(t *testing.T) {
	s := NewSession("sess-abc", 1, "hash", "", time.Hour)

	assert.False(t, s.IsExpired(s.CreatedAt))
	assert.False(t, s.IsExpired(s.ExpiresAt.Add(-time.Second)))
	assert.True(t, s.IsExpired(s.ExpiresAt))
	assert.True(t, s.IsExpired(s.ExpiresAt.Add(time.Hour)))
}

func TestSession_TouchDoesNotExtendExpiry(t *testing.T) {
	s := NewSession("sess-abc", 1, "hash", "", time.Hour)
	expires := s.ExpiresAt

	later := s.CreatedAt.Add(30 * time.Minute)
	s.Touch(later)

	assert.Equal(t, later, s.LastSeenAt)
	assert.Equal(t, expires, s.ExpiresAt)
}

func TestReader_HasActiveResetToken(t *testing.T) {
	now := time.Now()
	future := now.Add(15 * time.Minute)
	past := now.Add(-time.Minute)

	tests := []struct {
		name   string
		reader Reader
		want   bool
	}{
		{"no token", Reader{}, false},
		{"active token", Reader{ResetTokenHash: "h", ResetTokenExpires: &future}, true},
		{"expired token", Reader{ResetTokenHash: "h", ResetTokenExpires: &past}, false},
		{"hash without expiry", Reader{ResetTokenHash: "h"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reader.HasActiveResetToken(now))
		})
	}
}

func TestReader_Profile(t *testing.T) {
	r := &Reader{
		ID:           7,
		Name:         "Ada",
		Email:        "Ada@Example.com",
		PasswordHash: "secret",
		Interests:    nil,
	}

	p := r.Profile()
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "Ada", p.Name)
	assert.NotNil(t, p.Interests, "nil interests serialize as empty list")

	assert.Equal(t, "ada@example.com", r.EmailLower())
}
