package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductEvent is the listing audit trail: one row per create, update, or
// delete, written in the same transaction as the listing change.
type ProductEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ProductID uuid.UUID      `gorm:"column:product_id;type:uuid;not null" json:"product_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	ActorID   uuid.UUID      `gorm:"column:actor_id;type:uuid;not null" json:"actor_id"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (ProductEvent) TableName() string {
	return "ProductEvents"
}

func (pe *ProductEvent) BeforeCreate(tx *gorm.DB) error {
	if pe.EventID == uuid.Nil {
		pe.EventID = uuid.New()
	}
	return nil
}
