package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the identity profile document. Seller starts false and flips only
// when Stripe reports the transfers capability as active.
type User struct {
	UserID          uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname        string    `gorm:"column:fullname;not null" json:"fullname"`
	Email           string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash    string    `gorm:"column:password_hash;not null" json:"-"`
	Seller          bool      `gorm:"column:seller;not null;default:false" json:"seller"`
	StripeAccountID *string   `gorm:"column:stripe_account_id" json:"stripe_account_id"`
	CreatedAt       time.Time `gorm:"column:createdAt" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"column:updatedAt" json:"updatedAt"`
}

func (User) TableName() string {
	return "Users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
