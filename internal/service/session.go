package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/auth"
	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/id"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// SessionService manages opaque cookie sessions. Tokens are random bytes
// handed to the browser; only their hashes ever reach the database.
type SessionService struct {
	store  store.Store
	logger *slog.Logger
	maxAge time.Duration
}

// NewSessionService creates a new session service.
func NewSessionService(st store.Store, maxAge time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		store:  st,
		logger: logger,
		maxAge: maxAge,
	}
}

// MaxAge returns the absolute session lifetime. Handlers use it for cookie
// Max-Age so the cookie and the row expire together.
func (s *SessionService) MaxAge() time.Duration {
	return s.maxAge
}

// Create opens a new session for a reader and returns the opaque token for
// the cookie. The token itself is never stored.
func (s *SessionService) Create(ctx context.Context, readerID int64, ipAddress string) (string, error) {
	token, err := auth.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	sessionID, err := id.Generate("sess")
	if err != nil {
		return "", fmt.Errorf("generate session ID: %w", err)
	}

	session := domain.NewSession(sessionID, readerID, auth.HashToken(token), ipAddress, s.maxAge)
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session created",
		"session_id", sessionID,
		"reader_id", readerID,
	)

	return token, nil
}

// Resolve maps a cookie token to the reader who owns it. Expired sessions
// are deleted on sight. Activity is recorded but never extends expiry.
func (s *SessionService) Resolve(ctx context.Context, token string) (*domain.Reader, error) {
	tokenHash := auth.HashToken(token)

	session, err := s.store.GetSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.UnknownIdentity("session not recognized")
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	now := time.Now()
	if session.IsExpired(now) {
		if err := s.store.DeleteSessionByTokenHash(ctx, tokenHash); err != nil && !domainerrors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to delete expired session",
				"session_id", session.ID,
				"error", err,
			)
		}
		return nil, domainerrors.TokenExpired("session expired")
	}

	// Best effort; a failed touch shouldn't fail the request.
	if err := s.store.TouchSession(ctx, session.ID, now); err != nil {
		s.logger.Warn("failed to touch session",
			"session_id", session.ID,
			"error", err,
		)
	}

	reader, err := s.store.GetReader(ctx, session.ReaderID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Account deleted out from under the session.
			return nil, domainerrors.UnknownIdentity("account no longer exists")
		}
		return nil, fmt.Errorf("get reader: %w", err)
	}

	return reader, nil
}

// Delete revokes the session behind a cookie token. Deleting an already-gone
// session is not an error; logout is idempotent.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	err := s.store.DeleteSessionByTokenHash(ctx, auth.HashToken(token))
	if err != nil && !domainerrors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session a reader holds. Called after a password
// reset so stolen cookies stop working.
func (s *SessionService) RevokeAll(ctx context.Context, readerID int64) error {
	if err := s.store.DeleteReaderSessions(ctx, readerID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return nil
}

// CleanupExpired removes expired session rows. Run periodically.
func (s *SessionService) CleanupExpired(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		return 0, fmt.Errorf("cleanup sessions: %w", err)
	}
	if n > 0 {
		s.logger.Info("cleaned up expired sessions", "count", n)
	}
	return n, nil
}

// StartCleanup runs CleanupExpired on an interval until ctx is canceled.
func (s *SessionService) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.CleanupExpired(ctx); err != nil {
				s.logger.Error("session cleanup failed", "error", err)
			}
		}
	}
}
