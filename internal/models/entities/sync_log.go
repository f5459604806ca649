package entities

import "time"

// SyncLog is one audit row per sync run, written through sqlx.
type SyncLog struct {
	ID        int64     `db:"id"`
	Direction string    `db:"direction"`
	Operation string    `db:"operation"`
	Model     string    `db:"model"`
	Processed int       `db:"processed"`
	Failed    int       `db:"failed"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
