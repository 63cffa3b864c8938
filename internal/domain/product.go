package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Condition is the listing condition scale.
type Condition string

const (
	ConditionPoor      Condition = "poor"
	ConditionOkay      Condition = "okay"
	ConditionExcellent Condition = "excellent"
)

// ValidCondition reports whether s is one of the allowed condition values.
func ValidCondition(s string) bool {
	switch Condition(s) {
	case ConditionPoor, ConditionOkay, ConditionExcellent:
		return true
	}
	return false
}

// Product is a listing document. The image URL must point at a previously
// uploaded Cloudinary asset; owner fields are denormalized from the profile.
type Product struct {
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey" json:"product_id"`
	Title         string    `gorm:"column:title;not null" json:"title"`
	Price         float64   `gorm:"column:price;type:decimal(18,2);not null" json:"price"`
	Description   string    `gorm:"column:description;not null" json:"description"`
	ImageURL      string    `gorm:"column:image_url;not null" json:"imageUrl"`
	Location      string    `gorm:"column:location;not null" json:"location"`
	Category      string    `gorm:"column:category;not null" json:"category"`
	Condition     Condition `gorm:"column:condition;type:varchar(20);not null" json:"condition"`
	ConditionNote string    `gorm:"column:condition_note" json:"condition_note"`
	OwnerID       uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index" json:"owner_id"`
	OwnerName     string    `gorm:"column:owner_name" json:"owner_name"`
	OwnerEmail    string    `gorm:"column:owner_email" json:"owner_email"`
	CreatedAt     time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (Product) TableName() string {
	return "Products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ProductID == uuid.Nil {
		p.ProductID = uuid.New()
	}
	return nil
}
