package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/normalize"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// TopBooksCount is how many of a reader's highest-rated books appear on
// their explore card.
const TopBooksCount = 4

// ReaderService serves reader profiles, the explore listing, and interests
// editing.
type ReaderService struct {
	store  store.Store
	logger *slog.Logger
}

// NewReaderService creates a new reader service.
func NewReaderService(st store.Store, logger *slog.Logger) *ReaderService {
	return &ReaderService{store: st, logger: logger}
}

// ReaderSummary is one reader's card on the explore page.
type ReaderSummary struct {
	domain.Profile
	BookCount int            `json:"book_count"`
	TopBooks  []*domain.Book `json:"top_books"`
}

// Explore returns one page of the community listing, oldest accounts first,
// each with their highest-rated books.
func (s *ReaderService) Explore(ctx context.Context, page int) (*store.PaginatedResult[ReaderSummary], error) {
	params := store.PageParams{Page: page, PerPage: store.DefaultPerPage}
	params.Validate()

	readers, err := s.store.ListReaders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list readers: %w", err)
	}

	summaries := make([]ReaderSummary, 0, len(readers.Items))
	for _, reader := range readers.Items {
		count, err := s.store.CountBooksByReader(ctx, reader.ID)
		if err != nil {
			return nil, fmt.Errorf("count books for reader %d: %w", reader.ID, err)
		}

		top, err := s.store.TopBooksByReader(ctx, reader.ID, TopBooksCount)
		if err != nil {
			return nil, fmt.Errorf("top books for reader %d: %w", reader.ID, err)
		}
		if top == nil {
			top = []*domain.Book{}
		}

		summaries = append(summaries, ReaderSummary{
			Profile:   reader.Profile(),
			BookCount: count,
			TopBooks:  top,
		})
	}

	result := store.NewPaginatedResult(summaries, params, readers.Total)
	return &result, nil
}

// ReaderDetail is a reader's public page: profile plus full shelf.
type ReaderDetail struct {
	domain.Profile
	Books   []*domain.Book `json:"books"`
	IsOwner bool           `json:"is_owner"`
}

// Detail returns a reader's page. viewerID is the requesting reader, or zero
// for anonymous visitors; IsOwner drives whether edit controls render.
func (s *ReaderService) Detail(ctx context.Context, readerID, viewerID int64) (*ReaderDetail, error) {
	reader, err := s.store.GetReader(ctx, readerID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("reader %d not found", readerID)
		}
		return nil, fmt.Errorf("get reader: %w", err)
	}

	books, err := s.store.ListBooksByReader(ctx, readerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}

	return &ReaderDetail{
		Profile: reader.Profile(),
		Books:   books,
		IsOwner: viewerID == readerID,
	}, nil
}

// Shelf returns the reader's own books, highest rated first. Backs the home
// page for a signed-in reader.
func (s *ReaderService) Shelf(ctx context.Context, readerID int64) ([]*domain.Book, error) {
	books, err := s.store.ListBooksByReader(ctx, readerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []*domain.Book{}
	}
	return books, nil
}

// UpdateInterests replaces a reader's interests. Only the profile owner may
// edit; a mismatched identity is an explicit authorization failure rather
// than a silent no-op, because the path names whose profile is changing.
func (s *ReaderService) UpdateInterests(ctx context.Context, identityID, readerID int64, raw string) ([]string, error) {
	if identityID != readerID {
		return nil, domainerrors.Forbidden("cannot edit another reader's interests")
	}

	interests := normalize.SplitInterests(raw)
	if err := s.store.UpdateReaderInterests(ctx, readerID, interests); err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("reader %d not found", readerID)
		}
		return nil, fmt.Errorf("update interests: %w", err)
	}

	s.logger.Info("interests updated",
		"reader_id", readerID,
		"count", len(interests),
	)
	return interests, nil
}
