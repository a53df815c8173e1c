package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := NewClient(logger)
	client.SetBaseURL(server.URL)
	return client
}

func TestSearchByTitle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "intitle:The Hobbit", r.URL.Query().Get("q"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"totalItems": 2,
			"items": [
				{
					"id": "pD6arNyKyi8C",
					"volumeInfo": {
						"title": "The Hobbit",
						"authors": ["J.R.R. Tolkien", "Someone Else"],
						"description": "<p>A <b>hobbit</b> goes on an adventure.</p>"
					}
				},
				{
					"id": "second",
					"volumeInfo": {"title": "The Hobbit Companion"}
				}
			]
		}`))
	})

	results, err := client.SearchByTitle(context.Background(), "The Hobbit")
	require.NoError(t, err)
	require.Len(t, results, 2)

	first := results[0]
	assert.Equal(t, "pD6arNyKyi8C", first.ID)
	assert.Equal(t, "The Hobbit", first.Title)
	assert.Equal(t, "J.R.R. Tolkien", first.Author, "first author wins")
	// HTML descriptions come back as markdown.
	assert.NotContains(t, first.Description, "<p>")
	assert.Contains(t, first.Description, "hobbit")

	assert.Equal(t, "", results[1].Author)
}

func TestSearchByTitle_APIFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.SearchByTitle(context.Background(), "anything")
	assert.Error(t, err)
}

func TestBestMatch(t *testing.T) {
	t.Run("returns top result", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"totalItems": 1, "items": [{"id": "top", "volumeInfo": {"title": "Top"}}]}`))
		})

		match, err := client.BestMatch(context.Background(), "Top")
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, "top", match.ID)
	})

	t.Run("nil when no match", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"totalItems": 0}`))
		})

		match, err := client.BestMatch(context.Background(), "Nonexistent")
		require.NoError(t, err)
		assert.Nil(t, match)
	})
}

func TestVolume_ThumbnailURL(t *testing.T) {
	v := &Volume{ID: "pD6arNyKyi8C"}
	assert.Equal(t,
		"https://books.google.com/books/content?id=pD6arNyKyi8C&printsec=frontcover&img=1&zoom=1&source=gbs_api",
		v.ThumbnailURL())

	empty := &Volume{}
	assert.Equal(t, "", empty.ThumbnailURL())
}

func TestHTMLToMarkdown(t *testing.T) {
	assert.Equal(t, "plain text", htmlToMarkdown("plain text"))
	assert.Equal(t, "", htmlToMarkdown(""))

	got := htmlToMarkdown("<p>Hello <strong>world</strong></p>")
	assert.NotContains(t, got, "<p>")
	assert.Contains(t, got, "Hello")
}
