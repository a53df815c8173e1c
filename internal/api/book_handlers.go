package api

import (
	"net/http"

	"github.com/booknotesapp/booknotes-server/internal/http/response"
	"github.com/booknotesapp/booknotes-server/internal/service"
)

// handleAddBook shelves a new book for the signed-in reader. Bad input
// flashes back to the shelf.
func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	book, err := s.bookService.Add(r.Context(), currentReaderID(r.Context()), service.BookRequest{
		Title:     r.PostFormValue("title"),
		Author:    r.PostFormValue("author"),
		CatalogID: r.PostFormValue("external_catalog_id"),
		Rating:    r.PostFormValue("rating"),
		Review:    r.PostFormValue("review"),
	})
	if err != nil {
		s.flashRedirect(w, r, err, "/")
		return
	}

	setFlash(w, "Added "+book.Title)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleEditBook updates the rating and review on one of the signed-in
// reader's books. Edits aimed at someone else's book change nothing and
// still redirect; the shelf simply shows no difference.
func (s *Server) handleEditBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		response.BadRequest(w, "invalid form data", s.logger)
		return
	}

	bookID := parseID(r, "id")
	if bookID == 0 {
		response.BadRequest(w, "invalid book ID", s.logger)
		return
	}

	err := s.bookService.Update(
		r.Context(),
		currentReaderID(r.Context()),
		bookID,
		r.PostFormValue("rating"),
		r.PostFormValue("review"),
	)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDeleteBook removes one of the signed-in reader's books. Same
// ownership semantics as edit.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID := parseID(r, "id")
	if bookID == 0 {
		response.BadRequest(w, "invalid book ID", s.logger)
		return
	}

	if err := s.bookService.Delete(r.Context(), currentReaderID(r.Context()), bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
