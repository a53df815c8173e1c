package domain

import (
	"strconv"
	"strings"
	"time"
)

const (
	// RatingMin and RatingMax bound a book rating.
	RatingMin = 0
	RatingMax = 10

	// ReviewWordLimit caps how many words of a review are kept.
	ReviewWordLimit = 100
)

// Book is a reviewed book on a reader's shelf. Books always belong to exactly
// one reader; two readers reviewing the same title hold two independent rows.
type Book struct {
	ID       int64  `json:"id"`
	ReaderID int64  `json:"reader_id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`

	// CatalogID identifies the matching volume in the external book catalog,
	// used to derive a cover thumbnail. Empty when no match was found yet.
	CatalogID string `json:"catalog_id,omitempty"`

	Rating        int       `json:"rating"` // 0-10
	ReviewComment string    `json:"review_comment"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ThumbnailURL returns the cover image URL for the book's catalog volume, or
// empty when the book has no catalog match.
func (b *Book) ThumbnailURL() string {
	if b.CatalogID == "" {
		return ""
	}
	return "https://books.google.com/books/content?id=" + b.CatalogID +
		"&printsec=frontcover&img=1&zoom=1&source=gbs_api"
}

// ClampRating parses a submitted rating and clamps it to the valid range.
// Non-numeric input is treated as zero rather than rejected; the form's
// number input makes that an edge case not worth a validation round-trip.
func ClampRating(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return RatingMin
	}
	if n < RatingMin {
		return RatingMin
	}
	if n > RatingMax {
		return RatingMax
	}
	return n
}

// TruncateReview keeps the first ReviewWordLimit words of a review, joined by
// single spaces. Shorter reviews come back whitespace-normalized.
func TruncateReview(raw string) string {
	words := strings.Fields(raw)
	if len(words) > ReviewWordLimit {
		words = words[:ReviewWordLimit]
	}
	return strings.Join(words, " ")
}
