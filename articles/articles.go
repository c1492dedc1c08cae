// Package articles covers the /articles surface of the portal API.
package articles

import (
	"time"

	"github.com/beritahub/go-portal-client/categories"
	"github.com/beritahub/go-portal-client/users"
)

// Article as the API serves it. Author and Category are expansions the
// server joins in; they may be absent on some listings.
type Article struct {
	ID         string               `json:"id"`
	Title      string               `json:"title"`
	Content    string               `json:"content"`
	ImageURL   string               `json:"imageUrl,omitempty"`
	CategoryID string               `json:"categoryId"`
	Author     *users.User          `json:"User,omitempty"`
	Category   *categories.Category `json:"Category,omitempty"`
	CreatedAt  time.Time            `json:"createdAt,omitempty"`
	UpdatedAt  time.Time            `json:"updatedAt,omitempty"`
}

// Byline returns the display name of the author, or "Anonim" when the
// server did not join one in.
func (a *Article) Byline() string {
	if name := a.Author.DisplayName(); name != "" {
		return name
	}
	return "Anonim"
}

// Draft is the authoring form for creating or editing an article. Image is
// optional; when nil the server keeps the existing one.
type Draft struct {
	Title      string
	Content    string
	CategoryID string
	Image      *Image
}

// Image is an article image upload.
type Image struct {
	Name    string
	Content []byte
}
