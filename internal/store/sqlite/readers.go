package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/normalize"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

// readerColumns is the ordered list of columns selected in reader queries.
// Must match the scan order in scanReader.
const readerColumns = `id, name, email, password_hash, interests,
	reset_token_hash, reset_token_expires, created_at, updated_at`

// scanReader scans a sql.Row (or sql.Rows via its Scan method) into a domain.Reader.
func scanReader(scanner interface{ Scan(dest ...any) error }) (*domain.Reader, error) {
	var r domain.Reader

	var (
		interests         string
		resetTokenHash    sql.NullString
		resetTokenExpires sql.NullString
		createdAt         string
		updatedAt         string
	)

	err := scanner.Scan(
		&r.ID,
		&r.Name,
		&r.Email,
		&r.PasswordHash,
		&interests,
		&resetTokenHash,
		&resetTokenExpires,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Interests, err = unmarshalStrings(interests)
	if err != nil {
		return nil, err
	}

	if resetTokenHash.Valid {
		r.ResetTokenHash = resetTokenHash.String
	}
	r.ResetTokenExpires, err = parseNullableTime(resetTokenExpires)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// CreateReader inserts a new reader and fills in the generated ID.
// Returns store.ErrAlreadyExists if the email is already registered.
func (s *Store) CreateReader(ctx context.Context, reader *domain.Reader) error {
	interests, err := marshalStrings(reader.Interests)
	if err != nil {
		return err
	}

	now := time.Now()
	if reader.CreatedAt.IsZero() {
		reader.CreatedAt = now
	}
	reader.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO readers (name, email, email_lower, password_hash, interests, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		reader.Name,
		reader.Email,
		reader.EmailLower(),
		reader.PasswordHash,
		interests,
		formatTime(reader.CreatedAt),
		formatTime(reader.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	reader.ID, err = result.LastInsertId()
	return err
}

// GetReader retrieves a reader by ID.
// Returns store.ErrNotFound if the reader does not exist.
func (s *Store) GetReader(ctx context.Context, id int64) (*domain.Reader, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readerColumns+` FROM readers WHERE id = ?`, id)

	reader, err := scanReader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// GetReaderByEmail retrieves a reader by email, matched case-insensitively.
// Returns store.ErrNotFound if no reader has that email.
func (s *Store) GetReaderByEmail(ctx context.Context, email string) (*domain.Reader, error) {
	emailLower := normalize.Email(email)

	row := s.db.QueryRowContext(ctx,
		`SELECT `+readerColumns+` FROM readers WHERE email_lower = ?`, emailLower)

	reader, err := scanReader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// ListReaders returns one page of readers ordered by ID ascending, oldest
// accounts first.
func (s *Store) ListReaders(ctx context.Context, params store.PageParams) (*store.PaginatedResult[*domain.Reader], error) {
	params.Validate()

	total, err := s.CountReaders(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+readerColumns+` FROM readers ORDER BY id ASC LIMIT ? OFFSET ?`,
		params.PerPage, params.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readers []*domain.Reader
	for rows.Next() {
		reader, err := scanReader(rows)
		if err != nil {
			return nil, err
		}
		readers = append(readers, reader)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := store.NewPaginatedResult(readers, params, total)
	return &result, nil
}

// CountReaders returns the total number of readers.
func (s *Store) CountReaders(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM readers`).Scan(&count)
	return count, err
}

// UpdateReaderInterests replaces a reader's interests.
// Returns store.ErrNotFound if the reader does not exist.
func (s *Store) UpdateReaderInterests(ctx context.Context, readerID int64, interests []string) error {
	encoded, err := marshalStrings(interests)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE readers SET interests = ?, updated_at = ? WHERE id = ?`,
		encoded, formatTime(time.Now()), readerID)
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

// SetResetToken stores a reset token hash and expiry on a reader, replacing
// any outstanding token.
// Returns store.ErrNotFound if the reader does not exist.
func (s *Store) SetResetToken(ctx context.Context, readerID int64, tokenHash string, expiresAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE readers SET reset_token_hash = ?, reset_token_expires = ?, updated_at = ?
		WHERE id = ?`,
		tokenHash, formatTime(expiresAt), formatTime(time.Now()), readerID)
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

// GetReaderByResetTokenHash retrieves the reader holding a reset token hash.
// Expiry is not checked here; callers decide what an expired token means.
// Returns store.ErrNotFound if no reader holds the token.
func (s *Store) GetReaderByResetTokenHash(ctx context.Context, tokenHash string) (*domain.Reader, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+readerColumns+` FROM readers WHERE reset_token_hash = ?`, tokenHash)

	reader, err := scanReader(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return reader, nil
}

// ConsumeResetToken sets a new password hash and clears the reset token in a
// single conditional update. The update only applies while the stored token
// hash still matches and is unexpired, so a token can be consumed at most
// once and never after its deadline.
// Returns store.ErrNotFound if the token was consumed, replaced, or expired.
func (s *Store) ConsumeResetToken(ctx context.Context, readerID int64, tokenHash, newPasswordHash string) error {
	now := time.Now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE readers SET
			password_hash = ?,
			reset_token_hash = NULL,
			reset_token_expires = NULL,
			updated_at = ?
		WHERE id = ? AND reset_token_hash = ? AND reset_token_expires > ?`,
		newPasswordHash, formatTime(now), readerID, tokenHash, formatTime(now))
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
