package api

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/booknotesapp/booknotes-server/internal/config"
	"github.com/booknotesapp/booknotes-server/internal/http/response"
)

// oauthStateCookieName holds the CSRF nonce for the OAuth round trip.
const oauthStateCookieName = "booknotes_oauth_state"

// GoogleOAuth drives the federated login round trip against Google.
type GoogleOAuth struct {
	config      *oauth2.Config
	userInfoURL string
}

// NewGoogleOAuth creates the OAuth client, or nil when no client credentials
// are configured.
func NewGoogleOAuth(cfg *config.Config) *GoogleOAuth {
	if !cfg.Google.Enabled() {
		return nil
	}

	return &GoogleOAuth{
		config: &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.Server.BaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}
}

// googleUserInfo is the slice of the userinfo payload we care about.
type googleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// fetchUserInfo exchanges the callback code and fetches the verified
// identity behind it.
func (g *GoogleOAuth) fetchUserInfo(ctx context.Context, code string) (*googleUserInfo, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := g.config.Client(ctx, token).Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo failed: status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.UnmarshalRead(resp.Body, &info); err != nil {
		return nil, fmt.Errorf("parse userinfo: %w", err)
	}
	return &info, nil
}

// handleOAuthStart redirects to Google's consent screen with a fresh state
// nonce pinned in a cookie.
func (s *Server) handleOAuthStart(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, s.oauth.config.AuthCodeURL(state), http.StatusSeeOther)
}

// handleOAuthCallback finishes the round trip: verify state, exchange the
// code, and log the reader in (creating the account on first visit).
func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(oauthStateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		response.BadRequest(w, "OAuth state mismatch", s.logger)
		return
	}

	// Burn the nonce.
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		response.BadRequest(w, "missing authorization code", s.logger)
		return
	}

	info, err := s.oauth.fetchUserInfo(r.Context(), code)
	if err != nil {
		s.logger.Error("OAuth callback failed", "error", err)
		response.Unauthorized(w, "federated login failed", s.logger)
		return
	}

	resp, err := s.authService.LoginFederated(r.Context(), info.Name, info.Email, r.RemoteAddr)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.setSessionCookie(w, resp.SessionToken, s.sessions.MaxAge())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
