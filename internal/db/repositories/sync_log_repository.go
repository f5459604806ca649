package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// SyncLogRepository writes audit rows for every sync run through sqlx.
type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{
		db: db,
	}
}

func (r *SyncLogRepository) Record(ctx context.Context, log *entities.SyncLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.NamedExecContext(ctx, constants.InsertSyncLog, log)
	return err
}

// GetLastSyncTime returns when the given direction/model last completed
// successfully, or nil when it never has. Incremental runs use this as
// their default since-cutoff.
func (r *SyncLogRepository) GetLastSyncTime(ctx context.Context, direction, model string) (*time.Time, error) {
	var createdAt time.Time

	err := r.db.QueryRowxContext(ctx, constants.GetLastSyncTime, direction, model).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &createdAt, nil
}
