package repositories

import (
	"context"
	"fmt"

	gormModels "first-nation/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type FamilyRepository struct {
	db *gorm.DB
}

func NewFamilyRepository(db *gorm.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// UpdateFields overwrites the given columns on the member's family record
func (r *FamilyRepository) UpdateFields(ctx context.Context, memberID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&gormModels.Family{}).
		Where("member_id = ?", memberID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update family: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("family for member %s: %w", memberID, ErrNotFound)
	}
	return nil
}

// Count returns the total number of family rows
func (r *FamilyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.Family{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count families: %w", err)
	}
	return count, nil
}
