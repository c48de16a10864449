// Package domain holds the core data types shared across the bot.
package domain

// Book is a raw catalog record as returned by the book search provider.
// The JSON shape mirrors the provider wire format and the persisted cache
// layout, so the struct is stored and transported as-is.
type Book struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo carries the displayable part of a catalog record.
type VolumeInfo struct {
	Title       string     `json:"title,omitempty"`
	Authors     []string   `json:"authors,omitempty"`
	PageCount   int        `json:"pageCount,omitempty"`
	Description string     `json:"description,omitempty"`
	ImageLinks  ImageLinks `json:"imageLinks,omitempty"`
}

// ImageLinks holds cover image URLs for a catalog record.
type ImageLinks struct {
	Thumbnail string `json:"thumbnail,omitempty"`
}

// CoverURL returns the thumbnail URL, empty when the record has no cover.
func (b Book) CoverURL() string {
	return b.VolumeInfo.ImageLinks.Thumbnail
}

// HasCover reports whether the record carries a displayable cover image.
func (b Book) HasCover() bool {
	return b.CoverURL() != ""
}
