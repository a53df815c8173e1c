// Package domain holds the core types of the application, independent of
// storage or transport.
package domain

import (
	"time"

	"github.com/booknotesapp/booknotes-server/internal/normalize"
)

// Reader represents a registered account. A reader owns a shelf of books and
// a public profile with their interests.
type Reader struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // Display form, original casing preserved
	PasswordHash string    `json:"-"`     // Stored hashed, never serialized
	Interests    []string  `json:"interests"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Password-reset state. At most one outstanding token per reader; issuing
	// a new one replaces the old.
	ResetTokenHash    string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
}

// EmailLower returns the canonical lookup form of the reader's email.
func (r *Reader) EmailLower() string {
	return normalize.Email(r.Email)
}

// HasActiveResetToken reports whether the reader has an unexpired reset token.
func (r *Reader) HasActiveResetToken(now time.Time) bool {
	return r.ResetTokenHash != "" && r.ResetTokenExpires != nil && now.Before(*r.ResetTokenExpires)
}

// Profile is the public view of a reader: everything except credentials and
// reset state.
type Profile struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Interests []string  `json:"interests"`
	JoinedAt  time.Time `json:"joined_at"`
}

// Profile returns the reader's public profile.
func (r *Reader) Profile() Profile {
	interests := r.Interests
	if interests == nil {
		interests = []string{}
	}
	return Profile{
		ID:        r.ID,
		Name:      r.Name,
		Interests: interests,
		JoinedAt:  r.CreatedAt,
	}
}
