package constants

const (
	GetStatusByApiKey = `
	SELECT id, status FROM api_keys WHERE id = $1
	`

	InsertSyncLog = `
	INSERT INTO sync_logs (direction, operation, model, processed, failed, status, created_at)
	VALUES (:direction, :operation, :model, :processed, :failed, :status, :created_at)
	`

	GetLastSyncTime = `
	SELECT created_at FROM sync_logs
	WHERE direction = $1 AND model = $2 AND status IN ('ok', 'partial')
	ORDER BY created_at DESC LIMIT 1
	`
)
