package api

import (
	"encoding/json"
	"net/http"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/models/dtos"
)

// PushSyncHandler handles POST /api/v1/sync/push
//
// The request type selects the push policy; see dtos.PushType*.
func (h *Handlers) PushSyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.PushRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		push := h.deps.Services.Push
		ctx := r.Context()
		started := time.Now()

		var result *dtos.SyncResult
		var err error

		switch req.Type {
		case dtos.PushTypeSingle:
			if req.MemberID == "" {
				respondWithError(w, http.StatusBadRequest, "memberId is required for a single push")
				return
			}
			result, err = push.PushSingle(ctx, req.MemberID)

		case dtos.PushTypeBatch:
			if len(req.MemberIDs) == 0 {
				respondWithError(w, http.StatusBadRequest, "memberIds is required for a batch push")
				return
			}
			result, err = push.PushBatch(ctx, req.MemberIDs)

		case dtos.PushTypeFull:
			result, err = push.PushFull(ctx, req.BatchSize)

		case dtos.PushTypeIncremental:
			if req.Since == nil {
				respondWithError(w, http.StatusBadRequest, "since is required for an incremental push")
				return
			}
			result, err = push.PushIncremental(ctx, *req.Since, req.IncludeRelations, req.BatchSize)

		case dtos.PushTypeMemberOnly:
			result, err = push.PushMembersOnly(ctx, req.BatchSize)

		default:
			respondWithError(w, http.StatusBadRequest, "unknown push type: "+req.Type)
			return
		}

		if err != nil {
			if m := h.deps.Metrics; m != nil {
				m.SyncErrorsTotal.WithLabelValues(constants.SyncDirectionPush).Inc()
			}
			respondWithServiceError(w, err)
			return
		}

		h.recordPushMetrics(req.Type, result, time.Since(started))
		respondWithSuccess(w, http.StatusOK, result)
	}
}

func (h *Handlers) recordPushMetrics(pushType string, result *dtos.SyncResult, elapsed time.Duration) {
	m := h.deps.Metrics
	if m == nil || result == nil {
		return
	}
	m.MembersPushedTotal.WithLabelValues(pushType).Add(float64(result.Processed))
	m.SyncErrorsTotal.WithLabelValues(constants.SyncDirectionPush).Add(float64(result.Failed))
	m.MembersExcludedTotal.Add(float64(result.Excluded))
	m.SyncRunDuration.WithLabelValues("push_" + pushType).Observe(elapsed.Seconds())
}

// PullSyncHandler handles POST /api/v1/sync/pull
func (h *Handlers) PullSyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.PullRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		pull := h.deps.Services.Pull
		ctx := r.Context()
		started := time.Now()

		var result *dtos.SyncResult
		var err error

		switch req.Type {
		case dtos.PullTypeProfile:
			result, err = pull.PullProfileUpdates(ctx, req.Since)
		case dtos.PullTypeFamily:
			result, err = pull.PullFamilyUpdates(ctx, req.Since)
		case dtos.PullTypeAll, "":
			result, err = pull.PullAllUpdates(ctx, req.Since)
		default:
			respondWithError(w, http.StatusBadRequest, "unknown pull type: "+req.Type)
			return
		}

		if err != nil {
			if m := h.deps.Metrics; m != nil {
				m.SyncErrorsTotal.WithLabelValues(constants.SyncDirectionPull).Inc()
			}
			// A mid-run failure still carries partial progress worth returning
			if result != nil && result.Total > 0 {
				h.recordPullMetrics(req.Type, result, time.Since(started))
				respondWithSuccess(w, http.StatusOK, result)
				return
			}
			respondWithServiceError(w, err)
			return
		}

		h.recordPullMetrics(req.Type, result, time.Since(started))
		respondWithSuccess(w, http.StatusOK, result)
	}
}

func (h *Handlers) recordPullMetrics(pullType string, result *dtos.SyncResult, elapsed time.Duration) {
	m := h.deps.Metrics
	if m == nil || result == nil {
		return
	}
	if pullType == "" {
		pullType = dtos.PullTypeAll
	}
	m.RecordsPulledTotal.WithLabelValues(pullType).Add(float64(result.Processed))
	m.SyncErrorsTotal.WithLabelValues(constants.SyncDirectionPull).Add(float64(result.Failed))
	m.SyncRunDuration.WithLabelValues("pull_" + pullType).Observe(elapsed.Seconds())
}

// SyncStatusHandler handles GET /api/v1/sync/status
func (h *Handlers) SyncStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.deps.Services.Status.GetStatus(r.Context())
		if err != nil {
			respondWithServiceError(w, err)
			return
		}
		if m := h.deps.Metrics; m != nil {
			m.BarcodesAvailable.Set(float64(status.Local.BarcodesAvailable))
			m.BarcodesAssigned.Set(float64(status.Local.BarcodesAssigned))
		}
		respondWithSuccess(w, http.StatusOK, status)
	}
}
