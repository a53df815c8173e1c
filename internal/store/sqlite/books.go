package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, reader_id, title, author, catalog_id, rating, review_comment,
	created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		author    sql.NullString
		catalogID sql.NullString
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&b.ID,
		&b.ReaderID,
		&b.Title,
		&author,
		&catalogID,
		&b.Rating,
		&b.ReviewComment,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if author.Valid {
		b.Author = author.String
	}
	if catalogID.Valid {
		b.CatalogID = catalogID.String
	}

	// Parse timestamps.
	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateBook inserts a new book and fills in the generated ID.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO books (reader_id, title, author, catalog_id, rating, review_comment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ReaderID,
		book.Title,
		nullString(book.Author),
		nullString(book.CatalogID),
		book.Rating,
		book.ReviewComment,
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		return err
	}

	book.ID, err = result.LastInsertId()
	return err
}

// GetBook retrieves a book by ID regardless of owner.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return book, nil
}

// ListBooksByReader returns all of a reader's books, highest rated first.
// Ties keep shelving order.
func (s *Store) ListBooksByReader(ctx context.Context, readerID int64) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE reader_id = ?
		 ORDER BY rating DESC, id ASC`, readerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooks(rows)
}

// TopBooksByReader returns the reader's highest-rated books, up to limit.
func (s *Store) TopBooksByReader(ctx context.Context, readerID int64, limit int) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE reader_id = ?
		 ORDER BY rating DESC, id ASC LIMIT ?`, readerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooks(rows)
}

// CountBooksByReader returns how many books a reader has shelved.
func (s *Store) CountBooksByReader(ctx context.Context, readerID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM books WHERE reader_id = ?`, readerID).Scan(&count)
	return count, err
}

// UpdateOwnedBook updates a book's rating and review, scoped to its owner.
// The WHERE clause carries both id and reader_id so a non-owner's update
// matches zero rows. Returns store.ErrNotFound in that case.
func (s *Store) UpdateOwnedBook(ctx context.Context, bookID, readerID int64, rating int, review string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			rating = ?,
			review_comment = ?,
			updated_at = ?
		WHERE id = ? AND reader_id = ?`,
		rating,
		review,
		formatTime(time.Now()),
		bookID,
		readerID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteOwnedBook deletes a book, scoped to its owner.
// Returns store.ErrNotFound if the book does not exist or belongs to another reader.
func (s *Store) DeleteOwnedBook(ctx context.Context, id, readerID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM books WHERE id = ? AND reader_id = ?`, id, readerID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListBooksMissingCatalogID returns books with no catalog match yet,
// oldest first, for the backfill job.
func (s *Store) ListBooksMissingCatalogID(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE catalog_id IS NULL OR catalog_id = ''
		 ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBooks(rows)
}

// SetBookCatalogID records the external catalog match for a book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) SetBookCatalogID(ctx context.Context, id int64, catalogID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET catalog_id = ?, updated_at = ? WHERE id = ?`,
		nullString(catalogID), formatTime(time.Now()), id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// collectBooks drains a result set into a book slice.
func collectBooks(rows *sql.Rows) ([]*domain.Book, error) {
	var books []*domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
