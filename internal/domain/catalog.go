package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Category represents a product category. Names are unique across all
// categories; the name is the join key for resolve-or-create.
type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Image     *string   `json:"image,omitempty" db:"image"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Spec is a single name/value specification pair. Pairs are stored as an
// ordered list, not a map, so insertion order survives round-trips.
type Spec struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StringList is a []string persisted as a JSONB column.
type StringList []string

// Value implements driver.Valuer. The value is returned as a string and cast
// to jsonb in SQL, since the pgx stdlib driver sends []byte as bytea.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// SpecList is an ordered []Spec persisted as a JSONB column.
type SpecList []Spec

// Value implements driver.Valuer
func (l SpecList) Value() (driver.Value, error) {
	if l == nil {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *SpecList) Scan(src interface{}) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into SpecList", src)
	}
}

// Product represents a catalog product. OldPrice always holds the price
// immediately prior to the most recent price change, or nil if the price has
// never changed since creation.
type Product struct {
	ID             int64      `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Price          float64    `json:"price" db:"price"`
	OldPrice       *float64   `json:"old_price,omitempty" db:"old_price"`
	CategoryID     int64      `json:"category_id" db:"category_id"`
	Color          *string    `json:"color,omitempty" db:"color"`
	Colors         StringList `json:"colors,omitempty" db:"colors"`
	Rating         *float64   `json:"rating,omitempty" db:"rating"`
	ReviewCount    *int       `json:"review_count,omitempty" db:"review_count"`
	Description    *string    `json:"description,omitempty" db:"description"`
	Image          *string    `json:"image,omitempty" db:"image"`
	Features       StringList `json:"features,omitempty" db:"features"`
	Specifications SpecList   `json:"specifications,omitempty" db:"specifications"`
	Tags           StringList `json:"tags,omitempty" db:"tags"`
	InStock        bool       `json:"in_stock" db:"in_stock"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
