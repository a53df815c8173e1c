package domain

import "time"

// Session is an authenticated browser session. The cookie carries an opaque
// token; only its hash is stored. Expiry is absolute from creation and is not
// extended by activity.
type Session struct {
	ID         string    `json:"id"` // Prefixed nanoid, e.g. "sess-V1StGXR8_Z5jdHi6B-myT"
	ReaderID   int64     `json:"reader_id"`
	TokenHash  string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	IPAddress  string    `json:"ip_address,omitempty"`
}

// NewSession creates a session for a reader with an absolute lifetime.
func NewSession(id string, readerID int64, tokenHash, ipAddress string, maxAge time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		ReaderID:   readerID,
		TokenHash:  tokenHash,
		CreatedAt:  now,
		ExpiresAt:  now.Add(maxAge),
		LastSeenAt: now,
		IPAddress:  ipAddress,
	}
}

// IsExpired reports whether the session has passed its absolute expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Touch records activity without extending expiry.
func (s *Session) Touch(now time.Time) {
	s.LastSeenAt = now
}
