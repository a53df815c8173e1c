package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
)

func TestSessionResolve(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	resp := env.register(t, "Ada", "ada@example.com", "password123")

	reader, err := env.sessions.Resolve(ctx, resp.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, resp.Reader.ID, reader.ID)

	// A made-up token is not recognized.
	_, err = env.sessions.Resolve(ctx, "bogus-token")
	assert.ErrorIs(t, err, domainerrors.ErrUnknownIdentity)
}

func TestSessionResolve_Expired(t *testing.T) {
	// A service with an already-negative lifetime creates sessions that are
	// expired on arrival.
	env := setupServices(t)
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	shortSessions := NewSessionService(env.store, -time.Minute, logger)

	resp := env.register(t, "Ada", "ada@example.com", "password123")

	token, err := shortSessions.Create(ctx, resp.Reader.ID, "")
	require.NoError(t, err)

	_, err = shortSessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrTokenExpired)

	// The expired session was deleted on sight; a retry no longer finds it.
	_, err = shortSessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrUnknownIdentity)
}

func TestSessionRevokeAll(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	resp := env.register(t, "Ada", "ada@example.com", "password123")

	second, err := env.sessions.Create(ctx, resp.Reader.ID, "")
	require.NoError(t, err)

	require.NoError(t, env.sessions.RevokeAll(ctx, resp.Reader.ID))

	for _, token := range []string{resp.SessionToken, second} {
		_, err := env.sessions.Resolve(ctx, token)
		assert.ErrorIs(t, err, domainerrors.ErrUnknownIdentity)
	}
}

func TestSessionCleanupExpired(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	resp := env.register(t, "Ada", "ada@example.com", "password123")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	shortSessions := NewSessionService(env.store, -time.Minute, logger)
	_, err := shortSessions.Create(ctx, resp.Reader.ID, "")
	require.NoError(t, err)

	n, err := env.sessions.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// The live signup session survives.
	_, err = env.sessions.Resolve(ctx, resp.SessionToken)
	assert.NoError(t, err)
}
