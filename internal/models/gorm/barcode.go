package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Barcode is a physical ID inventory unit. An assigned barcode must carry a
// member link; an available one must not. Allocation always claims the
// oldest available row first so the order of intake is auditable.
type Barcode struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Code      string    `gorm:"column:code;uniqueIndex" json:"code"`
	State     int       `gorm:"column:state;default:1" json:"state"`
	MemberID  *string   `gorm:"column:member_id;type:uuid;index" json:"memberId,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Barcode) TableName() string {
	return "barcodes"
}

func (b *Barcode) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
