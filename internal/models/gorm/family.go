package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Family records spouse and dependents data, portal-owned like Profile.
type Family struct {
	ID         string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	MemberID   string    `gorm:"column:member_id;type:uuid;index" json:"memberId"`
	SpouseName string    `gorm:"column:spouse_name" json:"spouseName"`
	Dependents int       `gorm:"column:dependents;default:0" json:"dependents"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Family) TableName() string {
	return "families"
}

func (f *Family) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
