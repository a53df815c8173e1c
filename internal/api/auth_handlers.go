package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/http/response"
	"github.com/booknotesapp/booknotes-server/internal/service"
)

// flashRedirect recovers a form failure locally: the error's message becomes
// a flash and the browser goes back to the named page. Non-domain errors are
// genuine server failures and fall through to HandleError.
func (s *Server) flashRedirect(w http.ResponseWriter, r *http.Request, err error, target string) {
	var derr *domainerrors.Error
	if domainerrors.As(err, &derr) {
		setFlash(w, derr.Message)
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}
	response.HandleError(w, err, s.logger)
}

// readerPath is the detail page for a reader.
func readerPath(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}

// authPage is the JSON state behind the signup/login/forgot-password pages:
// whether someone is already signed in, any pending notice, and whether the
// federated login button should render.
type authPage struct {
	Authenticated  bool   `json:"authenticated"`
	ReaderID       int64  `json:"reader_id,omitempty"`
	Flash          string `json:"flash,omitempty"`
	FederatedLogin bool   `json:"federated_login"`
}

// handleAuthPage serves the state for the public auth pages.
func (s *Server) handleAuthPage(w http.ResponseWriter, r *http.Request) {
	page := authPage{
		Flash:          takeFlash(w, r),
		FederatedLogin: s.oauth != nil,
	}
	if reader := currentReader(r.Context()); reader != nil {
		page.Authenticated = true
		page.ReaderID = reader.ID
	}
	response.Success(w, page, s.logger)
}

// handleSignup creates an account from the signup form and signs the new
// reader in. Bad input flashes back to the form; a taken email flashes to
// the login page instead, since that reader already has an account.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	resp, err := s.authService.Register(r.Context(), service.RegisterRequest{
		Name:            r.PostFormValue("name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		IPAddress:       r.RemoteAddr,
	})
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			s.flashRedirect(w, r, err, "/login")
			return
		}
		s.flashRedirect(w, r, err, "/signup")
		return
	}

	s.setSessionCookie(w, resp.SessionToken, s.sessions.MaxAge())
	setFlash(w, "Welcome to Book Notes, "+resp.Reader.Name)
	http.Redirect(w, r, readerPath(resp.Reader.ID), http.StatusSeeOther)
}

// handleLogin authenticates the login form and opens a session. Failures of
// any flavor flash back to the login page.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	resp, err := s.authService.Login(r.Context(), service.LoginRequest{
		Email:     r.PostFormValue("email"),
		Password:  r.PostFormValue("password"),
		IPAddress: r.RemoteAddr,
	})
	if err != nil {
		s.flashRedirect(w, r, err, "/login")
		return
	}

	s.setSessionCookie(w, resp.SessionToken, s.sessions.MaxAge())
	http.Redirect(w, r, readerPath(resp.Reader.ID), http.StatusSeeOther)
}

// handleLogout revokes the current session. Safe to call anonymous; logout
// is idempotent.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := s.authService.Logout(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("logout failed", "error", err)
		}
	}

	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleForgotPassword issues a reset token and mails the link. An
// unregistered email is an explicit not found.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	email := r.PostFormValue("email")
	if email == "" {
		response.BadRequest(w, "email is required", s.logger)
		return
	}

	if err := s.resetService.Request(r.Context(), email); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	setFlash(w, "A reset link is on its way, check your inbox")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// resetPage is the JSON state behind the reset-password form.
type resetPage struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
	Flash string `json:"flash,omitempty"`
}

// handleResetPage validates the mailed token before showing the form. A dead
// or expired link flashes an error and sends the reader back to re-request.
func (s *Server) handleResetPage(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	reader, err := s.resetService.Validate(r.Context(), token)
	if err != nil {
		s.flashRedirect(w, r, err, "/forgot-password")
		return
	}

	response.Success(w, resetPage{
		Valid: true,
		Email: reader.Email,
		Flash: takeFlash(w, r),
	}, s.logger)
}

// handleResetComplete sets the new password and signs the reader straight in
// on their fresh session. A bad password pair flashes back to the form; a
// token that died in the meantime flashes back to re-request.
func (s *Server) handleResetComplete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	token := chi.URLParam(r, "token")
	resp, err := s.resetService.Complete(r.Context(), service.CompleteRequest{
		Token:           token,
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
		IPAddress:       r.RemoteAddr,
	})
	if err != nil {
		if domainerrors.Is(err, domainerrors.ErrValidation) {
			s.flashRedirect(w, r, err, "/reset-password/"+token)
			return
		}
		s.flashRedirect(w, r, err, "/forgot-password")
		return
	}

	s.setSessionCookie(w, resp.SessionToken, s.sessions.MaxAge())
	setFlash(w, "Password updated")
	http.Redirect(w, r, readerPath(resp.Reader.ID), http.StatusSeeOther)
}
