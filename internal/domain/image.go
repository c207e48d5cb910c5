package domain

import "time"

// Image records a file uploaded to the external image host. Exactly one of
// UserID, ProductID or CategoryID is set; the exclusivity is enforced by the
// image service, not by a storage constraint.
type Image struct {
	ID         int64     `json:"id" db:"id"`
	URL        string    `json:"url" db:"url"`
	PublicID   string    `json:"public_id" db:"public_id"`
	UserID     *int64    `json:"user_id,omitempty" db:"user_id"`
	ProductID  *int64    `json:"product_id,omitempty" db:"product_id"`
	CategoryID *int64    `json:"category_id,omitempty" db:"category_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
