package repositories

import (
	"context"
	"errors"
	"fmt"

	"first-nation/registry/internal/constants"
	gormModels "first-nation/registry/internal/models/gorm"

	"gorm.io/gorm"
)

// BarcodeRepository manages the barcode inventory outside of allocation;
// allocation itself lives in MemberRepository so it shares the member's
// transaction.
type BarcodeRepository struct {
	db *gorm.DB
}

func NewBarcodeRepository(db *gorm.DB) *BarcodeRepository {
	return &BarcodeRepository{db: db}
}

// AddInventory registers new physical barcodes as available stock. The
// whole intake is one transaction: a duplicate code rejects the batch.
func (r *BarcodeRepository) AddInventory(ctx context.Context, codes []string) ([]gormModels.Barcode, error) {
	barcodes := make([]gormModels.Barcode, 0, len(codes))
	for _, code := range codes {
		barcodes = append(barcodes, gormModels.Barcode{
			Code:  code,
			State: constants.BarcodeStateAvailable,
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range barcodes {
			if err := tx.Create(&barcodes[i]).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("barcode %s: %w", barcodes[i].Code, ErrDuplicateIdentifier)
				}
				return fmt.Errorf("failed to insert barcode: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return barcodes, nil
}

// CountByState returns available and assigned counts for the status report
func (r *BarcodeRepository) CountByState(ctx context.Context) (available int64, assigned int64, err error) {
	err = r.db.WithContext(ctx).
		Model(&gormModels.Barcode{}).
		Where("state = ?", constants.BarcodeStateAvailable).
		Count(&available).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count available barcodes: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&gormModels.Barcode{}).
		Where("state = ?", constants.BarcodeStateAssigned).
		Count(&assigned).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count assigned barcodes: %w", err)
	}

	return available, assigned, nil
}
