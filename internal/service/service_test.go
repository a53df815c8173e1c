package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/booknotesapp/booknotes-server/internal/mail"
	"github.com/booknotesapp/booknotes-server/internal/store"
	"github.com/booknotesapp/booknotes-server/internal/store/sqlite"
)

// testEnv bundles services wired to a temporary SQLite store.
type testEnv struct {
	store    store.Store
	sessions *SessionService
	auth     *AuthService
	readers  *ReaderService
	books    *BookService
	reset    *ResetService
	mailer   *captureMailer
}

// captureMailer records reset mails instead of sending them.
type captureMailer struct {
	mu   sync.Mutex
	sent []capturedMail
}

type capturedMail struct {
	To       string
	ResetURL string
}

func (m *captureMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedMail{To: to, ResetURL: resetURL})
	return nil
}

func (m *captureMailer) last(t *testing.T) capturedMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "expected at least one mail")
	return m.sent[len(m.sent)-1]
}

var _ mail.Mailer = (*captureMailer)(nil)

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupServices creates all services with temporary storage for testing.
func setupServices(t *testing.T) *testEnv {
	t.Helper()

	logger := discardLogger()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	mailer := &captureMailer{}
	sessions := NewSessionService(st, 24*time.Hour, logger)

	return &testEnv{
		store:    st,
		sessions: sessions,
		auth:     NewAuthService(st, sessions, logger),
		readers:  NewReaderService(st, logger),
		books:    NewBookService(st, nil, logger),
		reset:    NewResetService(st, sessions, mailer, 15*time.Minute, "http://localhost:8080", logger),
		mailer:   mailer,
	}
}

// register creates an account through the real signup path.
func (env *testEnv) register(t *testing.T, name, email, password string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return resp
}
