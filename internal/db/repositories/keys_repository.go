package repositories

import (
	"context"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

// KeysRepo looks up service API keys for the auth middleware.
type KeysRepo struct {
	db *sqlx.DB
}

func NewApiKeysRepo(db *sqlx.DB) *KeysRepo {
	return &KeysRepo{db}
}

func (r *KeysRepo) GetStatus(ctx context.Context, key string) (*entities.ApiKey, error) {
	var keyRes entities.ApiKey

	err := r.db.QueryRowxContext(ctx, constants.GetStatusByApiKey, key).StructScan(&keyRes)
	if err != nil {
		return nil, err
	}

	return &keyRes, nil
}
