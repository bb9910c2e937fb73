// Package gallery implements the image-bearing gallery resources (arts,
// portfolio items). Both share one record shape and one storage layout, so a
// single repository/service/handler triplet is instantiated per resource
// instead of duplicating route modules.
package gallery

import (
	"errors"
	"time"
)

// Item represents one gallery record: a piece of art or a portfolio item.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ItemUpdate carries the fields of a partial update. Nil fields are left
// untouched; the repository forwards exactly what the caller supplied.
type ItemUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

// ErrNotFound is returned when an item does not exist.
var ErrNotFound = errors.New("item not found")
