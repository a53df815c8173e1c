package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/http/response"
)

// homePage is the signed-in reader's shelf, or a landing marker for
// anonymous visitors.
type homePage struct {
	Authenticated bool           `json:"authenticated"`
	Reader        *domain.Profile `json:"reader,omitempty"`
	Books         []*domain.Book `json:"books,omitempty"`
	Flash         string         `json:"flash,omitempty"`
}

// handleHome serves the home page: the reader's own shelf when signed in.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	flash := takeFlash(w, r)

	reader := currentReader(r.Context())
	if reader == nil {
		response.Success(w, homePage{Flash: flash}, s.logger)
		return
	}

	books, err := s.readerService.Shelf(r.Context(), reader.ID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	profile := reader.Profile()
	response.Success(w, homePage{
		Authenticated: true,
		Reader:        &profile,
		Books:         books,
		Flash:         flash,
	}, s.logger)
}

// handleExplore serves one page of the community listing.
func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	page, err := s.readerService.Explore(r.Context(), parsePage(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, page, s.logger)
}

// handleReaderDetail serves a reader's public page. IsOwner reflects the
// viewer, so the front-end knows whether to render edit controls.
func (s *Server) handleReaderDetail(w http.ResponseWriter, r *http.Request) {
	readerID := parseID(r, "id")
	if readerID == 0 {
		response.BadRequest(w, "invalid reader ID", s.logger)
		return
	}

	detail, err := s.readerService.Detail(r.Context(), readerID, currentReaderID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, detail, s.logger)
}

// handleUpdateInterests replaces the signed-in reader's interests. The path
// names whose profile changes; a mismatch with the session identity is a
// hard 403.
func (s *Server) handleUpdateInterests(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	readerID := parseID(r, "id")
	if readerID == 0 {
		response.BadRequest(w, "invalid reader ID", s.logger)
		return
	}

	_, err := s.readerService.UpdateInterests(
		r.Context(),
		currentReaderID(r.Context()),
		readerID,
		r.PostFormValue("interests"),
	)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	setFlash(w, "Interests updated")
	http.Redirect(w, r, "/users/"+chi.URLParam(r, "id"), http.StatusSeeOther)
}
