package catalog

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const searchLimit = 5

// SearchByTitle searches the catalog for volumes with a matching title.
// Results come back in the API's relevance order.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]Volume, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	// Build search URL. The intitle: qualifier restricts matching to titles.
	params := url.Values{}
	params.Set("q", "intitle:"+strings.TrimSpace(title))
	params.Set("maxResults", fmt.Sprintf("%d", searchLimit))

	searchURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("searching catalog",
		"title", title,
		"url", searchURL,
	)

	// Make request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	// Parse response
	var searchResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("catalog search results",
		"title", title,
		"count", searchResp.TotalItems,
	)

	results := make([]Volume, 0, len(searchResp.Items))
	for i := range searchResp.Items {
		item := &searchResp.Items[i]

		var author string
		if len(item.VolumeInfo.Authors) > 0 {
			author = item.VolumeInfo.Authors[0]
		}

		results = append(results, Volume{
			ID:          item.ID,
			Title:       item.VolumeInfo.Title,
			Author:      author,
			Description: htmlToMarkdown(item.VolumeInfo.Description),
		})
	}

	return results, nil
}

// BestMatch returns the top search result for a title, or nil when the
// catalog has no match.
func (c *Client) BestMatch(ctx context.Context, title string) (*Volume, error) {
	results, err := c.SearchByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// containsHTML checks if a string appears to contain HTML markup.
func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// htmlToMarkdown converts HTML content to Markdown.
// If the input doesn't contain HTML, it's returned unchanged.
func htmlToMarkdown(s string) string {
	if s == "" || !containsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		// If conversion fails, return the original string
		return s
	}

	return strings.TrimSpace(markdown)
}
