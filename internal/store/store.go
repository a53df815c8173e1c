package store

import (
	"context"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error

	// Readers
	CreateReader(ctx context.Context, reader *domain.Reader) error
	GetReader(ctx context.Context, id int64) (*domain.Reader, error)
	GetReaderByEmail(ctx context.Context, email string) (*domain.Reader, error)
	ListReaders(ctx context.Context, params PageParams) (*PaginatedResult[*domain.Reader], error)
	CountReaders(ctx context.Context) (int, error)
	UpdateReaderInterests(ctx context.Context, readerID int64, interests []string) error

	// Password reset
	SetResetToken(ctx context.Context, readerID int64, tokenHash string, expiresAt time.Time) error
	GetReaderByResetTokenHash(ctx context.Context, tokenHash string) (*domain.Reader, error)
	ConsumeResetToken(ctx context.Context, readerID int64, tokenHash, newPasswordHash string) error

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	ListBooksByReader(ctx context.Context, readerID int64) ([]*domain.Book, error)
	TopBooksByReader(ctx context.Context, readerID int64, limit int) ([]*domain.Book, error)
	CountBooksByReader(ctx context.Context, readerID int64) (int, error)
	UpdateOwnedBook(ctx context.Context, bookID, readerID int64, rating int, review string) error
	DeleteOwnedBook(ctx context.Context, id, readerID int64) error
	ListBooksMissingCatalogID(ctx context.Context) ([]*domain.Book, error)
	SetBookCatalogID(ctx context.Context, id int64, catalogID string) error

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	TouchSession(ctx context.Context, id string, lastSeenAt time.Time) error
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error
	DeleteReaderSessions(ctx context.Context, readerID int64) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
