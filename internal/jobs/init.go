package jobs

import (
	"context"
	"time"

	"first-nation/registry/internal/common"
	"first-nation/registry/internal/services"
)

// InitializeJobs initializes and starts all background jobs
func InitializeJobs(
	ctx context.Context,
	push *services.PushService,
	pull *services.PullService,
	auditor services.SyncAuditor,
	cache common.CacheInterface,
) *PortalSyncJob {
	// Portal sync runs every hour
	portalSyncJob := NewPortalSyncJob(push, pull, auditor, cache, 1*time.Hour)

	// Start scheduled sync job in background
	go portalSyncJob.RunScheduled(ctx)

	return portalSyncJob
}
