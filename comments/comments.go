// Package comments covers the /comments surface of the portal API.
package comments

import (
	"time"

	"github.com/beritahub/go-portal-client/users"
)

// Comment as the API serves it, with the author joined in.
type Comment struct {
	ID        string      `json:"id"`
	ArticleID string      `json:"articleId"`
	Content   string      `json:"content"`
	Author    *users.User `json:"User,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt,omitempty"`
}
