package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is the authoritative registry record for a First Nation member.
// Profile and Family contents are portal-owned once the member is activated;
// everything else is edited locally.
type Member struct {
	ID           string    `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	FirstName    string    `gorm:"column:first_name" json:"firstName"`
	LastName     string    `gorm:"column:last_name" json:"lastName"`
	Birthdate    time.Time `gorm:"column:birthdate" json:"birthdate"`
	TNumber      string    `gorm:"column:t_number;uniqueIndex" json:"tNumber"`
	Deceased     bool      `gorm:"column:deceased;default:false" json:"deceased"`
	PortalStatus string    `gorm:"column:portal_status;default:NONE" json:"portalStatus"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Relationships
	Profiles []Profile `gorm:"foreignKey:MemberID" json:"profiles,omitempty"`
	Barcodes []Barcode `gorm:"foreignKey:MemberID" json:"barcodes,omitempty"`
	Families []Family  `gorm:"foreignKey:MemberID" json:"families,omitempty"`
}

// TableName specifies the table name for GORM
func (Member) TableName() string {
	return "members"
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
