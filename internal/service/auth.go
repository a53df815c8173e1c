package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/booknotesapp/booknotes-server/internal/auth"
	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// AuthService handles account creation and login. Session management is
// delegated to SessionService.
type AuthService struct {
	store    store.Store
	sessions *SessionService
	logger   *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(st store.Store, sessions *SessionService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    st,
		sessions: sessions,
		logger:   logger,
	}
}

// RegisterRequest contains signup form data.
type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=1024"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	IPAddress       string `json:"-"` // Extracted from request by handler
}

// LoginRequest contains login form credentials.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"` // Extracted from request by handler
}

// AuthResponse contains the authenticated reader and their session token.
// The token goes into the session cookie and is never persisted as-is.
type AuthResponse struct {
	Reader       *domain.Reader
	SessionToken string
}

// Register creates a new account and logs the reader straight in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	// Validate request
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	// Hash password
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	reader := &domain.Reader{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Interests:    []string{},
	}

	if err := s.store.CreateReader(ctx, reader); err != nil {
		if domainerrors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.AlreadyExists("email already in use")
		}
		return nil, fmt.Errorf("create reader: %w", err)
	}

	token, err := s.sessions.Create(ctx, reader.ID, req.IPAddress)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reader registered",
		"reader_id", reader.ID,
		"email", reader.EmailLower(),
	)

	return &AuthResponse{Reader: reader, SessionToken: token}, nil
}

// Login authenticates a reader and opens a session.
// Unknown email and wrong password produce the same error, so the login form
// doesn't reveal which addresses are registered.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	// Validate request
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	reader, err := s.store.GetReaderByEmail(ctx, req.Email)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.InvalidCredential("invalid email or password")
		}
		return nil, fmt.Errorf("lookup reader: %w", err)
	}

	valid, err := auth.VerifyPassword(reader.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, domainerrors.InvalidCredential("invalid email or password")
	}

	token, err := s.sessions.Create(ctx, reader.ID, req.IPAddress)
	if err != nil {
		return nil, err
	}

	s.logger.Info("reader logged in", "reader_id", reader.ID)

	return &AuthResponse{Reader: reader, SessionToken: token}, nil
}

// LoginFederated logs in a reader identified by a verified external identity
// provider. A first-time federated login creates the account with a sentinel
// password, so local login on it is impossible until a password reset.
func (s *AuthService) LoginFederated(ctx context.Context, name, email, ipAddress string) (*AuthResponse, error) {
	if email == "" {
		return nil, domainerrors.Validation("identity provider returned no email")
	}

	reader, err := s.store.GetReaderByEmail(ctx, email)
	if err != nil && !domainerrors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup reader: %w", err)
	}

	if reader == nil {
		sentinel, err := auth.SentinelPassword()
		if err != nil {
			return nil, fmt.Errorf("generate sentinel password: %w", err)
		}

		if name == "" {
			name = email
		}
		reader = &domain.Reader{
			Name:         name,
			Email:        email,
			PasswordHash: sentinel,
			Interests:    []string{},
		}

		if err := s.store.CreateReader(ctx, reader); err != nil {
			if domainerrors.Is(err, store.ErrAlreadyExists) {
				// Raced with a concurrent signup for the same email.
				reader, err = s.store.GetReaderByEmail(ctx, email)
				if err != nil {
					return nil, fmt.Errorf("lookup reader after race: %w", err)
				}
			} else {
				return nil, fmt.Errorf("create reader: %w", err)
			}
		} else {
			s.logger.Info("reader created via federated login",
				"reader_id", reader.ID,
				"email", reader.EmailLower(),
			)
		}
	}

	token, err := s.sessions.Create(ctx, reader.ID, ipAddress)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Reader: reader, SessionToken: token}, nil
}

// Logout revokes the session behind a cookie token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}
