package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/auth"
	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/mail"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// ResetService implements the password-reset flow: request a mailed link,
// validate its token, and complete the reset.
type ResetService struct {
	store    store.Store
	sessions *SessionService
	mailer   mail.Mailer
	logger   *slog.Logger
	ttl      time.Duration
	baseURL  string
}

// NewResetService creates a new password-reset service.
func NewResetService(
	st store.Store,
	sessions *SessionService,
	mailer mail.Mailer,
	ttl time.Duration,
	baseURL string,
	logger *slog.Logger,
) *ResetService {
	return &ResetService{
		store:    st,
		sessions: sessions,
		mailer:   mailer,
		logger:   logger,
		ttl:      ttl,
		baseURL:  baseURL,
	}
}

// CompleteRequest contains the reset form data.
type CompleteRequest struct {
	Token           string `json:"-"`
	Password        string `json:"password" validate:"required,min=8,max=1024"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	IPAddress       string `json:"-"` // Extracted from request by handler
}

// Request issues a reset token for the account behind an email and mails the
// link. An unknown address is reported as not found; no token is issued.
// A new request replaces any outstanding token.
func (s *ResetService) Request(ctx context.Context, email string) error {
	reader, err := s.store.GetReaderByEmail(ctx, email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("no account with that email")
		}
		return fmt.Errorf("lookup reader: %w", err)
	}

	token, err := auth.GenerateToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.ttl)
	if err := s.store.SetResetToken(ctx, reader.ID, auth.HashToken(token), expiresAt); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	resetURL := s.baseURL + "/reset-password/" + token
	if err := s.mailer.SendPasswordReset(ctx, reader.Email, resetURL); err != nil {
		return fmt.Errorf("mail reset link: %w", err)
	}

	s.logger.Info("reset token issued", "reader_id", reader.ID)
	return nil
}

// Validate checks a reset token and returns the reader it belongs to.
// Unknown and expired tokens produce distinct errors so the reset page can
// offer a fresh request on expiry.
func (s *ResetService) Validate(ctx context.Context, token string) (*domain.Reader, error) {
	if token == "" {
		return nil, domainerrors.InvalidCredential("invalid reset link")
	}

	reader, err := s.store.GetReaderByResetTokenHash(ctx, auth.HashToken(token))
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredential("invalid reset link")
		}
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}

	if !reader.HasActiveResetToken(time.Now()) {
		return nil, domainerrors.TokenExpired("reset link has expired")
	}

	return reader, nil
}

// Complete sets a new password for the reader behind a valid token. The
// token is consumed atomically with the password change, every open session
// is revoked, and a fresh session is opened so the reader lands signed in.
func (s *ResetService) Complete(ctx context.Context, req CompleteRequest) (*AuthResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	reader, err := s.Validate(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	tokenHash := auth.HashToken(req.Token)
	if err := s.store.ConsumeResetToken(ctx, reader.ID, tokenHash, passwordHash); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			// Consumed or replaced between Validate and here.
			return nil, domainerrors.InvalidCredential("invalid reset link")
		}
		return nil, fmt.Errorf("consume reset token: %w", err)
	}

	if err := s.sessions.RevokeAll(ctx, reader.ID); err != nil {
		// Password already changed; log and move on.
		s.logger.Warn("failed to revoke sessions after reset",
			"reader_id", reader.ID,
			"error", err,
		)
	}

	token, err := s.sessions.Create(ctx, reader.ID, req.IPAddress)
	if err != nil {
		return nil, err
	}

	s.logger.Info("password reset completed", "reader_id", reader.ID)
	return &AuthResponse{Reader: reader, SessionToken: token}, nil
}
