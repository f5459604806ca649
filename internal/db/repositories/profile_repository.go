package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "first-nation/registry/internal/models/gorm"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByMemberID returns the member's profile row
func (r *ProfileRepository) GetByMemberID(ctx context.Context, memberID string) (*gormModels.Profile, error) {
	var profile gormModels.Profile

	err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("profile for member %s: %w", memberID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return &profile, nil
}

// UpdateFields overwrites the given columns on the member's profile. Pulled
// portal data and local PATCHes both funnel through here, so applying the
// same field map twice always lands in the same state.
func (r *ProfileRepository) UpdateFields(ctx context.Context, memberID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&gormModels.Profile{}).
		Where("member_id = ?", memberID).
		Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("profile for member %s: %w", memberID, ErrNotFound)
	}
	return nil
}

// Count returns the total number of profile rows
func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gormModels.Profile{}).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}
