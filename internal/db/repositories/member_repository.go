package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/logging"
	gormModels "first-nation/registry/internal/models/gorm"

	"gorm.io/gorm"
)

// MemberRepository owns member persistence plus the barcode allocation and
// release rules that must stay inside the member's own transaction.
type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// CreateWithBarcode inserts the member and binds the oldest available
// barcode to it within one transaction. Allocation is best effort: an empty
// pool still creates the member. Two concurrent creations can never claim
// the same barcode because the claim re-checks the availability predicate in
// the UPDATE itself and inspects rows affected.
func (r *MemberRepository) CreateWithBarcode(ctx context.Context, member *gormModels.Member) (*gormModels.Member, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("t_number %s: %w", member.TNumber, ErrDuplicateIdentifier)
			}
			return fmt.Errorf("failed to insert member: %w", err)
		}

		for {
			var candidate gormModels.Barcode
			err := tx.
				Where("state = ? AND member_id IS NULL", constants.BarcodeStateAvailable).
				Order("created_at ASC, id ASC").
				First(&candidate).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Pool exhausted: a normal outcome, not a failure
				logging.Info("Member created without barcode",
					"member_id", member.ID,
					"t_number", member.TNumber,
				)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to select available barcode: %w", err)
			}

			res := tx.Model(&gormModels.Barcode{}).
				Where("id = ? AND state = ? AND member_id IS NULL",
					candidate.ID, constants.BarcodeStateAvailable).
				Updates(map[string]any{
					"state":     constants.BarcodeStateAssigned,
					"member_id": member.ID,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to assign barcode %s: %w", candidate.Code, res.Error)
			}
			if res.RowsAffected == 1 {
				return nil
			}
			// Lost the race for this row; retry with the next oldest
		}
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, member.ID)
}

// GetByID loads a member with all relations preloaded
func (r *MemberRepository) GetByID(ctx context.Context, id string) (*gormModels.Member, error) {
	var member gormModels.Member

	err := r.db.WithContext(ctx).
		Preload("Profiles").
		Preload("Barcodes").
		Preload("Families").
		Where("id = ?", id).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch member: %w", err)
	}

	return &member, nil
}

// GetByIDs loads the given members with relations; missing ids are simply
// absent from the result so callers can report them per item.
func (r *MemberRepository) GetByIDs(ctx context.Context, ids []string) ([]gormModels.Member, error) {
	var members []gormModels.Member

	err := r.db.WithContext(ctx).
		Preload("Profiles").
		Preload("Barcodes").
		Preload("Families").
		Where("id IN ?", ids).
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members: %w", err)
	}

	return members, nil
}

// FindIDByRef resolves a member id from a pulled record's identity: direct
// member id when present, t_number otherwise.
func (r *MemberRepository) FindIDByRef(ctx context.Context, memberID, tNumber string) (string, error) {
	query := r.db.WithContext(ctx).Model(&gormModels.Member{})

	ref := memberID
	switch {
	case memberID != "":
		query = query.Where("id = ?", memberID)
	case tNumber != "":
		ref = tNumber
		query = query.Where("t_number = ?", tNumber)
	default:
		return "", fmt.Errorf("record carries no member identity: %w", ErrNotFound)
	}

	var id string
	err := query.Limit(1).Pluck("id", &id).Error
	if err != nil {
		return "", fmt.Errorf("failed to resolve member: %w", err)
	}
	if id == "" {
		return "", fmt.Errorf("member %s: %w", ref, ErrNotFound)
	}
	return id, nil
}

// ListPage returns one page of members ordered by creation time. A non-nil
// since narrows to members updated at or after that instant. Relations are
// preloaded only when asked, to keep member-only pushes lean.
func (r *MemberRepository) ListPage(ctx context.Context, offset, limit int, since *time.Time, withRelations bool) ([]gormModels.Member, error) {
	query := r.db.WithContext(ctx).Preload("Barcodes")
	if withRelations {
		query = query.Preload("Profiles").Preload("Families")
	}
	if since != nil {
		query = query.Where("updated_at >= ?", *since)
	}

	var members []gormModels.Member
	err := query.
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return members, nil
}

// UpdateFields applies an allow-listed column map to one member
func (r *MemberRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&gormModels.Member{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("member %s: %w", id, ErrDuplicateIdentifier)
		}
		return fmt.Errorf("failed to update member: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("member %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteWithBarcodeRelease removes a member after returning all of its
// barcodes to the available pool, in the same transaction, so no barcode is
// ever left assigned without a member link.
func (r *MemberRepository) DeleteWithBarcodeRelease(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member gormModels.Member
		if err := tx.Where("id = ?", id).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("member %s: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to fetch member: %w", err)
		}

		err := tx.Model(&gormModels.Barcode{}).
			Where("member_id = ?", id).
			Updates(map[string]any{
				"state":     constants.BarcodeStateAvailable,
				"member_id": nil,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to release barcodes: %w", err)
		}

		if err := tx.Where("member_id = ?", id).Delete(&gormModels.Profile{}).Error; err != nil {
			return fmt.Errorf("failed to delete profiles: %w", err)
		}
		if err := tx.Where("member_id = ?", id).Delete(&gormModels.Family{}).Error; err != nil {
			return fmt.Errorf("failed to delete families: %w", err)
		}

		if err := tx.Delete(&member).Error; err != nil {
			return fmt.Errorf("failed to delete member: %w", err)
		}
		return nil
	})
}

// CountByPortalStatus groups member counts by activation state
func (r *MemberRepository) CountByPortalStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		PortalStatus string
		Count        int64
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&gormModels.Member{}).
		Select("portal_status, COUNT(*) as count").
		Group("portal_status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.PortalStatus] = r.Count
	}
	return counts, nil
}

// LatestUpdate returns the most recent member updated_at, or nil when the
// registry is empty.
func (r *MemberRepository) LatestUpdate(ctx context.Context) (*time.Time, error) {
	var member gormModels.Member

	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch latest update: %w", err)
	}

	return &member.UpdatedAt, nil
}
