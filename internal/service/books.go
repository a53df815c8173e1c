package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/booknotesapp/booknotes-server/internal/catalog"
	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// BookService manages a reader's shelf: adding, editing, and deleting
// reviewed books, plus catalog matching for cover art.
type BookService struct {
	store   store.Store
	catalog *catalog.Client // nil disables catalog matching
	logger  *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(st store.Store, cat *catalog.Client, logger *slog.Logger) *BookService {
	return &BookService{
		store:   st,
		catalog: cat,
		logger:  logger,
	}
}

// BookRequest contains the add-book form data. Rating arrives as the raw
// form string; it is clamped, not validated.
type BookRequest struct {
	Title     string `json:"title" validate:"required,max=500"`
	Author    string `json:"author" validate:"max=200"`
	CatalogID string `json:"external_catalog_id" validate:"max=100"`
	Rating    string `json:"rating"`
	Review    string `json:"review"`
}

// Add shelves a new book for a reader. The catalog lookup is best effort; a
// dead or absent catalog never blocks the add.
func (s *BookService) Add(ctx context.Context, readerID int64, req BookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	book := &domain.Book{
		ReaderID:      readerID,
		Title:         req.Title,
		Author:        req.Author,
		Rating:        domain.ClampRating(req.Rating),
		ReviewComment: domain.TruncateReview(req.Review),
	}

	book.CatalogID = req.CatalogID
	if book.CatalogID == "" {
		book.CatalogID = s.lookupCatalogID(ctx, req.Title)
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book added",
		"book_id", book.ID,
		"reader_id", readerID,
	)
	return book, nil
}

// Update edits a book's rating and review, scoped to its owner. Title and
// author are fixed at add time. An update that targets someone else's book
// (or a missing one) matches zero rows and is reported as success; nothing
// changed, and the form flow has nothing useful to do with the distinction.
func (s *BookService) Update(ctx context.Context, readerID, bookID int64, rating, review string) error {
	if err := s.store.UpdateOwnedBook(ctx, bookID, readerID,
		domain.ClampRating(rating), domain.TruncateReview(review)); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			s.logger.Debug("update matched no owned book",
				"book_id", bookID,
				"reader_id", readerID,
			)
			return nil
		}
		return fmt.Errorf("update book: %w", err)
	}

	s.logger.Info("book updated",
		"book_id", bookID,
		"reader_id", readerID,
	)
	return nil
}

// Delete removes a book, scoped to its owner. Same zero-row semantics as
// Update.
func (s *BookService) Delete(ctx context.Context, readerID, bookID int64) error {
	if err := s.store.DeleteOwnedBook(ctx, bookID, readerID); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			s.logger.Debug("delete matched no owned book",
				"book_id", bookID,
				"reader_id", readerID,
			)
			return nil
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.logger.Info("book deleted",
		"book_id", bookID,
		"reader_id", readerID,
	)
	return nil
}

// BackfillCatalogIDs matches books with no catalog entry against the
// external catalog. Returns how many books were matched. Used by the
// backfill command and safe to re-run; already-matched books are skipped.
func (s *BookService) BackfillCatalogIDs(ctx context.Context) (int, error) {
	if s.catalog == nil {
		return 0, domainerrors.Validation("catalog client not configured")
	}

	books, err := s.store.ListBooksMissingCatalogID(ctx)
	if err != nil {
		return 0, fmt.Errorf("list unmatched books: %w", err)
	}

	matched := 0
	for _, book := range books {
		volume, err := s.catalog.BestMatch(ctx, book.Title)
		if err != nil {
			s.logger.Warn("catalog lookup failed",
				"book_id", book.ID,
				"title", book.Title,
				"error", err,
			)
			continue
		}
		if volume == nil {
			continue
		}

		if err := s.store.SetBookCatalogID(ctx, book.ID, volume.ID); err != nil {
			s.logger.Warn("failed to store catalog match",
				"book_id", book.ID,
				"error", err,
			)
			continue
		}
		matched++
	}

	s.logger.Info("catalog backfill complete",
		"candidates", len(books),
		"matched", matched,
	)
	return matched, nil
}

// lookupCatalogID finds the best catalog match for a title, or empty when
// the catalog is unavailable or has no match.
func (s *BookService) lookupCatalogID(ctx context.Context, title string) string {
	if s.catalog == nil {
		return ""
	}

	volume, err := s.catalog.BestMatch(ctx, title)
	if err != nil {
		s.logger.Warn("catalog lookup failed",
			"title", title,
			"error", err,
		)
		return ""
	}
	if volume == nil {
		return ""
	}
	return volume.ID
}
