// Package categories covers the /categories surface of the portal API.
package categories

// Category is a news category.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
