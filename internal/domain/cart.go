package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// CartItem is a denormalized snapshot of a listing at add-time. Prices do not
// sync with later listing edits.
type CartItem struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	ImageURL  string  `json:"imageUrl"`
	Quantity  int     `json:"quantity"`
}

// CartItems stores the cart's line array as a JSON document column.
type CartItems []CartItem

// Scan implements sql.Scanner for reading from DB (json column).
func (ci *CartItems) Scan(value interface{}) error {
	if value == nil {
		*ci = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ci)
	case string:
		return json.Unmarshal([]byte(v), ci)
	default:
		return errors.New("unsupported type for CartItems")
	}
}

// Value implements driver.Valuer for writing to DB.
func (ci CartItems) Value() (driver.Value, error) {
	if ci == nil {
		return "[]", nil
	}
	b, err := json.Marshal(ci)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Total sums price x quantity over all lines.
func (ci CartItems) Total() float64 {
	var total float64
	for _, it := range ci {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// Cart is the per-identity cart document, keyed by the owner's user id.
// Last write wins at the store layer; no concurrency token.
type Cart struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Items     CartItems `gorm:"column:items;type:json;not null" json:"items"`
	CreatedAt time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Cart) TableName() string {
	return "Carts"
}
