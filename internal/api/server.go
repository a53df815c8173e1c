// Package api provides the HTTP server and handlers for the BookNotes application.
package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/booknotesapp/booknotes-server/internal/config"
	"github.com/booknotesapp/booknotes-server/internal/http/response"
	"github.com/booknotesapp/booknotes-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService   *service.AuthService
	sessions      *service.SessionService
	readerService *service.ReaderService
	bookService   *service.BookService
	resetService  *service.ResetService
	oauth         *GoogleOAuth // nil disables federated login
	router        *chi.Mux
	logger        *slog.Logger
	secureCookies bool
	corsOrigins   []string
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	sessions *service.SessionService,
	readerService *service.ReaderService,
	bookService *service.BookService,
	resetService *service.ResetService,
	oauth *GoogleOAuth,
	cfg *config.Config,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:   authService,
		sessions:      sessions,
		readerService: readerService,
		bookService:   bookService,
		resetService:  resetService,
		oauth:         oauth,
		router:        chi.NewRouter(),
		logger:        logger,
		secureCookies: cfg.Auth.SecureCookies,
		corsOrigins:   cfg.Server.AllowedOrigins,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// CORS only matters when a front-end is served from another origin.
	if len(s.corsOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.corsOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Every request resolves its session cookie, so handlers can ask who's
	// browsing without each one touching the cookie jar.
	s.router.Use(s.withSession)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// Public pages.
	s.router.Get("/", s.handleHome)
	s.router.Get("/explore", s.handleExplore)
	s.router.Get("/users/{id}", s.handleReaderDetail)

	// Auth pages and actions.
	s.router.Get("/signup", s.handleAuthPage)
	s.router.Post("/signup", s.handleSignup)
	s.router.Get("/login", s.handleAuthPage)
	s.router.Post("/login", s.handleLogin)
	s.router.Post("/logout", s.handleLogout)

	// Password reset.
	s.router.Get("/forgot-password", s.handleAuthPage)
	s.router.Post("/forgot-password", s.handleForgotPassword)
	s.router.Get("/reset-password/{token}", s.handleResetPage)
	s.router.Post("/reset-password/{token}", s.handleResetComplete)

	// Federated login.
	if s.oauth != nil {
		s.router.Get("/auth/google", s.handleOAuthStart)
		s.router.Get("/auth/google/callback", s.handleOAuthCallback)
	}

	// Book actions (owner only).
	s.router.Route("/books", func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/", s.handleAddBook)
		r.Post("/{id}/edit", s.handleEditBook)
		r.Post("/{id}/delete", s.handleDeleteBook)
	})

	// Profile actions.
	s.router.With(s.requireAuth).Post("/users/{id}/interests", s.handleUpdateInterests)
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}

// parsePage reads the 1-based page number from the query string.
// Anything unparseable falls back to page 1.
func parsePage(r *http.Request) int {
	pageStr := r.URL.Query().Get("page")
	if pageStr == "" {
		return 1
	}
	page, err := strconv.Atoi(pageStr)
	if err != nil {
		return 1
	}
	return page
}

// parseID reads an int64 path parameter. Returns 0 when missing or invalid.
func parseID(r *http.Request, name string) int64 {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
