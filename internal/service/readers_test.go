package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
)

func TestExplore(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	// 7 readers: pages of 5 make 2 pages.
	var firstID int64
	for i := 0; i < 7; i++ {
		resp := env.register(t, fmt.Sprintf("Reader %d", i), fmt.Sprintf("r%d@example.com", i), "password123")
		if i == 0 {
			firstID = resp.Reader.ID
		}
	}

	// Give the first reader 6 books so the card shows only the top 4.
	for i := 0; i <= 5; i++ {
		_, err := env.books.Add(ctx, firstID, BookRequest{
			Title:  fmt.Sprintf("Book %d", i),
			Rating: fmt.Sprintf("%d", i),
		})
		require.NoError(t, err)
	}

	page1, err := env.readers.Explore(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, page1.Items, 5)
	assert.Equal(t, 7, page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	assert.True(t, page1.HasNext())

	first := page1.Items[0]
	assert.Equal(t, "Reader 0", first.Name)
	assert.Equal(t, 6, first.BookCount)
	require.Len(t, first.TopBooks, TopBooksCount)
	assert.Equal(t, 5, first.TopBooks[0].Rating, "highest rated first")

	// Readers with no books get an empty card, not nil.
	assert.NotNil(t, page1.Items[1].TopBooks)
	assert.Empty(t, page1.Items[1].TopBooks)

	page2, err := env.readers.Explore(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, page2.Items, 2)
	assert.False(t, page2.HasNext())

	// Out-of-range page numbers clamp to the first page.
	pageNeg, err := env.readers.Explore(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, pageNeg.Page)
}

func TestDetail(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	owner := env.register(t, "Ada", "ada@example.com", "password123")
	visitor := env.register(t, "Grace", "grace@example.com", "password123")

	_, err := env.books.Add(ctx, owner.Reader.ID, BookRequest{Title: "Dune", Rating: "9"})
	require.NoError(t, err)

	// Owner sees their own page with edit rights.
	asOwner, err := env.readers.Detail(ctx, owner.Reader.ID, owner.Reader.ID)
	require.NoError(t, err)
	assert.True(t, asOwner.IsOwner)
	assert.Len(t, asOwner.Books, 1)

	// Another reader sees the same page without edit rights.
	asVisitor, err := env.readers.Detail(ctx, owner.Reader.ID, visitor.Reader.ID)
	require.NoError(t, err)
	assert.False(t, asVisitor.IsOwner)

	// Anonymous visitors pass a zero viewer ID.
	asAnon, err := env.readers.Detail(ctx, owner.Reader.ID, 0)
	require.NoError(t, err)
	assert.False(t, asAnon.IsOwner)

	_, err = env.readers.Detail(ctx, 9999, 0)
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestShelf(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	reader := env.register(t, "Ada", "ada@example.com", "password123")

	shelf, err := env.readers.Shelf(ctx, reader.Reader.ID)
	require.NoError(t, err)
	assert.NotNil(t, shelf)
	assert.Empty(t, shelf)

	_, err = env.books.Add(ctx, reader.Reader.ID, BookRequest{Title: "Low", Rating: "2"})
	require.NoError(t, err)
	_, err = env.books.Add(ctx, reader.Reader.ID, BookRequest{Title: "High", Rating: "9"})
	require.NoError(t, err)

	shelf, err = env.readers.Shelf(ctx, reader.Reader.ID)
	require.NoError(t, err)
	require.Len(t, shelf, 2)
	assert.Equal(t, "High", shelf[0].Title)
}

func TestUpdateInterests(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	ada := env.register(t, "Ada", "ada@example.com", "password123")
	grace := env.register(t, "Grace", "grace@example.com", "password123")

	got, err := env.readers.UpdateInterests(ctx, ada.Reader.ID, ada.Reader.ID, " sci-fi, history ,sci-fi,")
	require.NoError(t, err)
	assert.Equal(t, []string{"sci-fi", "history"}, got)

	detail, err := env.readers.Detail(ctx, ada.Reader.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"sci-fi", "history"}, detail.Interests)

	// Editing someone else's interests is an explicit authorization failure.
	_, err = env.readers.UpdateInterests(ctx, grace.Reader.ID, ada.Reader.ID, "hijacked")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	detail, err = env.readers.Detail(ctx, ada.Reader.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"sci-fi", "history"}, detail.Interests, "forbidden edit must not apply")

	// Clearing works.
	got, err = env.readers.UpdateInterests(ctx, ada.Reader.ID, ada.Reader.ID, "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
