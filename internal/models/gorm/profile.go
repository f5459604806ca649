package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile holds contact and demographic facts. Members edit these through
// the portal after activation, so the local side treats them as read-mostly.
type Profile struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	MemberID  string    `gorm:"column:member_id;type:uuid;index" json:"memberId"`
	Gender    string    `gorm:"column:gender" json:"gender"`
	OnReserve bool      `gorm:"column:on_reserve;default:false" json:"onReserve"`
	Community string    `gorm:"column:community" json:"community"`
	Address   string    `gorm:"column:address" json:"address"`
	Phone     string    `gorm:"column:phone" json:"phone"`
	Email     string    `gorm:"column:email" json:"email"`
	ImageURL  string    `gorm:"column:image_url" json:"imageUrl"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
