package catalog

// Volume is a matched catalog entry for a book.
type Volume struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"` // Markdown
}

// ThumbnailURL returns the front-cover image URL for the volume.
func (v *Volume) ThumbnailURL() string {
	if v.ID == "" {
		return ""
	}
	return "https://books.google.com/books/content?id=" + v.ID +
		"&printsec=frontcover&img=1&zoom=1&source=gbs_api"
}

// volumesResponse mirrors the wire format of the volumes endpoint.
type volumesResponse struct {
	TotalItems int          `json:"totalItems"`
	Items      []volumeItem `json:"items"`
}

type volumeItem struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
}
