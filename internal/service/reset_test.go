package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
)

// resetTokenFromMail extracts the token from a captured reset link.
func resetTokenFromMail(t *testing.T, m capturedMail) string {
	t.Helper()
	const prefix = "http://localhost:8080/reset-password/"
	require.True(t, strings.HasPrefix(m.ResetURL, prefix), "unexpected reset URL: %s", m.ResetURL)
	return strings.TrimPrefix(m.ResetURL, prefix)
}

func TestResetRequest(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.register(t, "Ada", "Ada@Example.com", "password123")

	require.NoError(t, env.reset.Request(ctx, "ada@example.com"))

	sent := env.mailer.last(t)
	// Mail goes to the stored display address.
	assert.Equal(t, "Ada@Example.com", sent.To)
	assert.NotEmpty(t, resetTokenFromMail(t, sent))
}

func TestResetRequest_UnknownEmail(t *testing.T) {
	env := setupServices(t)

	// Explicit not found, and no token mailed.
	err := env.reset.Request(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
	assert.Empty(t, env.mailer.sent)
}

func TestResetFlow(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	registered := env.register(t, "Ada", "ada@example.com", "oldpassword1")

	require.NoError(t, env.reset.Request(ctx, "ada@example.com"))
	token := resetTokenFromMail(t, env.mailer.last(t))

	// The mailed token validates to the right account.
	reader, err := env.reset.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.Reader.ID, reader.ID)

	completed, err := env.reset.Complete(ctx, CompleteRequest{
		Token:           token,
		Password:        "newpassword1",
		ConfirmPassword: "newpassword1",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.Reader.ID, completed.Reader.ID)

	// Old password is dead, new one works.
	_, err = env.auth.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "oldpassword1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)

	_, err = env.auth.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "newpassword1"})
	assert.NoError(t, err)

	// The reset revoked the signup session but opened a fresh one.
	_, err = env.sessions.Resolve(ctx, registered.SessionToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnknownIdentity)

	reader, err = env.sessions.Resolve(ctx, completed.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, registered.Reader.ID, reader.ID)

	// The token is single use.
	_, err = env.reset.Complete(ctx, CompleteRequest{Token: token, Password: "thirdpassword1", ConfirmPassword: "thirdpassword1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)
}

func TestResetValidate_BadTokens(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.reset.Validate(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)

	_, err = env.reset.Validate(ctx, "made-up-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)
}

func TestResetValidate_Expired(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.register(t, "Ada", "ada@example.com", "password123")

	// A service with a negative TTL mints tokens that are already expired.
	expired := NewResetService(env.store, env.sessions, env.mailer, -time.Minute, "http://localhost:8080", discardLogger())
	require.NoError(t, expired.Request(ctx, "ada@example.com"))
	token := resetTokenFromMail(t, env.mailer.last(t))

	_, err := env.reset.Validate(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// Completion is refused too.
	_, err = env.reset.Complete(ctx, CompleteRequest{Token: token, Password: "newpassword1", ConfirmPassword: "newpassword1"})
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)
}

func TestResetRequest_ReplacesOutstandingToken(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.register(t, "Ada", "ada@example.com", "password123")

	require.NoError(t, env.reset.Request(ctx, "ada@example.com"))
	first := resetTokenFromMail(t, env.mailer.last(t))

	require.NoError(t, env.reset.Request(ctx, "ada@example.com"))
	second := resetTokenFromMail(t, env.mailer.last(t))
	require.NotEqual(t, first, second)

	// Only the latest token is live.
	_, err := env.reset.Validate(ctx, first)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredential)

	_, err = env.reset.Validate(ctx, second)
	assert.NoError(t, err)
}

func TestResetComplete_BadInput(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	env.register(t, "Ada", "ada@example.com", "password123")
	require.NoError(t, env.reset.Request(ctx, "ada@example.com"))
	token := resetTokenFromMail(t, env.mailer.last(t))

	_, err := env.reset.Complete(ctx, CompleteRequest{Token: token, Password: "short", ConfirmPassword: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = env.reset.Complete(ctx, CompleteRequest{Token: token, Password: "newpassword1", ConfirmPassword: "different1"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	// A failed attempt doesn't burn the token.
	_, err = env.reset.Validate(ctx, token)
	assert.NoError(t, err)
}
