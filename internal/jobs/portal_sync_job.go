package jobs

import (
	"context"
	"log"
	"time"

	"first-nation/registry/internal/common"
	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/models/dtos"
	"first-nation/registry/internal/services"
)

const syncLockKey = "jobs:portal_sync:running"

// PortalSyncJob runs the routine portal synchronization: an incremental
// member-only push followed by a pull of member-edited profile and family
// data. Relations never ride along on the scheduled push so portal-side
// edits cannot be clobbered by the clock.
type PortalSyncJob struct {
	push     *services.PushService
	pull     *services.PullService
	auditor  services.SyncAuditor
	cache    common.CacheInterface
	interval time.Duration
}

// NewPortalSyncJob creates a new portal sync job instance
func NewPortalSyncJob(
	push *services.PushService,
	pull *services.PullService,
	auditor services.SyncAuditor,
	cache common.CacheInterface,
	interval time.Duration,
) *PortalSyncJob {
	return &PortalSyncJob{
		push:     push,
		pull:     pull,
		auditor:  auditor,
		cache:    cache,
		interval: interval,
	}
}

// Run executes one full sync cycle
func (j *PortalSyncJob) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[PortalSyncJob] Starting portal sync at %s", start.Format(time.RFC3339))

	// Cross-run guard: skip when another instance holds the lock
	if j.cache != nil {
		if _, running := j.cache.Get(syncLockKey); running {
			log.Printf("[PortalSyncJob] Another sync run is in progress, skipping")
			return nil
		}
		j.cache.Set(syncLockKey, true, j.interval)
		defer j.cache.Delete(syncLockKey)
	}

	since := j.lastPushTime(ctx)

	var pushErr error
	if since == nil {
		log.Printf("[PortalSyncJob] No previous push recorded, running full member-only push")
		result, err := j.push.PushMembersOnly(ctx, 100)
		pushErr = err
		if result != nil {
			log.Printf("[PortalSyncJob] Push completed: processed=%d failed=%d excluded=%d",
				result.Processed, result.Failed, result.Excluded)
		}
	} else {
		log.Printf("[PortalSyncJob] Incremental member-only push since %s", since.Format(time.RFC3339))
		result, err := j.push.PushIncremental(ctx, *since, false, 100)
		pushErr = err
		if result != nil {
			log.Printf("[PortalSyncJob] Push completed: processed=%d failed=%d excluded=%d",
				result.Processed, result.Failed, result.Excluded)
		}
	}
	if pushErr != nil {
		log.Printf("[PortalSyncJob] Push error: %v", pushErr)
		// A failed push does not block pulling member edits
	}

	pullResult, pullErr := j.pullMemberEdits(ctx)
	if pullResult != nil {
		log.Printf("[PortalSyncJob] Pull completed: processed=%d failed=%d",
			pullResult.Processed, pullResult.Failed)
	}
	if pullErr != nil {
		log.Printf("[PortalSyncJob] Pull error: %v", pullErr)
	}

	log.Printf("[PortalSyncJob] Completed portal sync in %s", time.Since(start).Truncate(time.Millisecond))

	if pushErr != nil {
		return pushErr
	}
	return pullErr
}

// pullMemberEdits pulls profile then family edits, each from its own last
// successful cutoff. Cutoffs advance independently, so a model whose pull
// failed outright re-covers its missed window on the next cycle.
func (j *PortalSyncJob) pullMemberEdits(ctx context.Context) (*dtos.SyncResult, error) {
	profiles, profErr := j.pull.PullProfileUpdates(ctx, j.lastPullTime(ctx, constants.SyncModelProfile))
	families, famErr := j.pull.PullFamilyUpdates(ctx, j.lastPullTime(ctx, constants.SyncModelFamily))

	result := profiles
	if result == nil {
		result = families
	} else if families != nil {
		result.Merge(families)
	}

	if profErr != nil {
		return result, profErr
	}
	return result, famErr
}

func (j *PortalSyncJob) lastPullTime(ctx context.Context, model string) *time.Time {
	since, err := j.auditor.GetLastSyncTime(ctx, constants.SyncDirectionPull, model)
	if err != nil {
		log.Printf("[PortalSyncJob] Error reading last pull time for %s: %v. Pulling everything.", model, err)
		return nil
	}
	return since
}

func (j *PortalSyncJob) lastPushTime(ctx context.Context) *time.Time {
	lastSync, err := j.auditor.GetLastSyncTime(ctx, constants.SyncDirectionPush, constants.SyncModelMember)
	if err != nil {
		log.Printf("[PortalSyncJob] Error reading last push time: %v. Running full push.", err)
		return nil
	}
	return lastSync
}

// shouldRunInitialSync checks if enough time has passed since the last run.
func (j *PortalSyncJob) shouldRunInitialSync(ctx context.Context) bool {
	lastSync := j.lastPushTime(ctx)
	if lastSync == nil {
		log.Printf("[PortalSyncJob] No previous sync found. Running initial sync.")
		return true
	}

	elapsed := time.Since(*lastSync)
	if elapsed > j.interval {
		log.Printf("[PortalSyncJob] Last sync was %s ago (> %s). Running sync.",
			elapsed.Truncate(time.Minute), j.interval)
		return true
	}

	log.Printf("[PortalSyncJob] Last sync was %s ago (< %s). Skipping initial sync.",
		elapsed.Truncate(time.Minute), j.interval)
	return false
}

// RunScheduled runs the portal sync job on a fixed interval
func (j *PortalSyncJob) RunScheduled(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	if j.shouldRunInitialSync(ctx) {
		if err := j.Run(ctx); err != nil {
			log.Printf("[PortalSyncJob] Error in initial run: %v", err)
		}
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[PortalSyncJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[PortalSyncJob] Shutting down scheduled sync")
			return
		}
	}
}
