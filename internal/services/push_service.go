package services

import (
	"context"
	"sync"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/logging"
	"first-nation/registry/internal/models/dtos"
	"first-nation/registry/internal/models/entities"
	gormModels "first-nation/registry/internal/models/gorm"
	"first-nation/registry/internal/providers"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize = 100

	// pushParallelism bounds concurrent chunk pushes so a full sync
	// cannot overwhelm the portal.
	pushParallelism = 2
)

// SyncAuditor records audit rows for sync runs. Nil is tolerated so tests
// can skip auditing.
type SyncAuditor interface {
	Record(ctx context.Context, log *entities.SyncLog) error
	GetLastSyncTime(ctx context.Context, direction, model string) (*time.Time, error)
}

// PushService projects local member state to the member portal. Every
// policy is idempotent: records always travel as UPSERT items, so re-runs
// update in place instead of duplicating.
type PushService struct {
	portal  providers.PortalAPI
	members *repositories.MemberRepository
	audit   SyncAuditor
	now     func() time.Time
}

func NewPushService(portal providers.PortalAPI, members *repositories.MemberRepository, audit SyncAuditor) *PushService {
	return &PushService{
		portal:  portal,
		members: members,
		audit:   audit,
		now:     time.Now,
	}
}

// PushSingle pushes one member with all relations
func (s *PushService) PushSingle(ctx context.Context, memberID string) (*dtos.SyncResult, error) {
	if err := s.requireConfigured(); err != nil {
		return nil, err
	}

	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	result := s.pushChunk(ctx, []gormModels.Member{*member}, true)
	s.recordAudit(ctx, dtos.PushTypeSingle, result)
	return result, nil
}

// PushBatch pushes an explicit list of members. Missing ids and remote
// per-item rejections are collected as error entries; they never abort the
// rest of the batch.
func (s *PushService) PushBatch(ctx context.Context, memberIDs []string) (*dtos.SyncResult, error) {
	if err := s.requireConfigured(); err != nil {
		return nil, err
	}

	members, err := s.members.GetByIDs(ctx, memberIDs)
	if err != nil {
		return nil, err
	}

	result := s.pushChunk(ctx, members, true)

	found := make(map[string]bool, len(members))
	for _, m := range members {
		found[m.ID] = true
	}
	for i, id := range memberIDs {
		if !found[id] {
			result.Total++
			result.Failed++
			result.Errors = append(result.Errors, dtos.SyncItemError{
				Index:     i,
				Operation: constants.SyncOpUpsert,
				Model:     constants.SyncModelMember,
				Error:     "member not found locally: " + id,
			})
		}
	}

	s.recordAudit(ctx, dtos.PushTypeBatch, result)
	return result, nil
}

// PushFull pushes every member, relations included, in pages of batchSize
func (s *PushService) PushFull(ctx context.Context, batchSize int) (*dtos.SyncResult, error) {
	return s.pushPaged(ctx, nil, true, batchSize, dtos.PushTypeFull)
}

// PushIncremental pushes members updated at or after since. Relations are
// optional so a routine run can avoid clobbering portal-owned profile and
// family edits.
func (s *PushService) PushIncremental(ctx context.Context, since time.Time, includeRelations bool, batchSize int) (*dtos.SyncResult, error) {
	return s.pushPaged(ctx, &since, includeRelations, batchSize, dtos.PushTypeIncremental)
}

// PushMembersOnly pushes core member and barcode data for everyone,
// deliberately excluding Profile and Family. This is the safe default that
// can never overwrite member-entered portal data.
func (s *PushService) PushMembersOnly(ctx context.Context, batchSize int) (*dtos.SyncResult, error) {
	return s.pushPaged(ctx, nil, false, batchSize, dtos.PushTypeMemberOnly)
}

// pushPaged walks the member table page by page, pushing chunks with
// bounded parallelism. One chunk failing, or timing out, leaves the other
// chunks' progress intact.
func (s *PushService) pushPaged(ctx context.Context, since *time.Time, withRelations bool, batchSize int, op string) (*dtos.SyncResult, error) {
	if err := s.requireConfigured(); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	total := &dtos.SyncResult{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(pushParallelism)

	offset := 0
	for {
		page, err := s.members.ListPage(ctx, offset, batchSize, since, withRelations)
		if err != nil {
			_ = g.Wait()
			return total, err
		}
		if len(page) == 0 {
			break
		}

		chunk := page
		g.Go(func() error {
			res := s.pushChunk(gctx, chunk, withRelations)
			mu.Lock()
			total.Merge(res)
			mu.Unlock()
			return nil
		})

		if len(page) < batchSize {
			break
		}
		offset += batchSize
	}
	_ = g.Wait()

	s.recordAudit(ctx, op, total)
	return total, nil
}

// pushChunk filters eligibility, serializes one wire batch and maps the
// portal's per-item receipt back onto members.
func (s *PushService) pushChunk(ctx context.Context, members []gormModels.Member, withProfileFamily bool) *dtos.SyncResult {
	result := &dtos.SyncResult{Total: len(members)}

	eligible := make([]gormModels.Member, 0, len(members))
	for _, m := range members {
		if ageAt(m.Birthdate, s.now()) < constants.PushEligibilityAge {
			result.Excluded++
			continue
		}
		eligible = append(eligible, m)
	}
	if len(eligible) == 0 {
		return result
	}

	var items []dtos.SyncItem
	var itemOwner []int
	for i := range eligible {
		for _, item := range memberItems(&eligible[i], withProfileFamily) {
			items = append(items, item)
			itemOwner = append(itemOwner, i)
		}
	}

	batch := &dtos.SyncBatch{
		SyncID:    uuid.NewString(),
		Timestamp: s.now().UTC(),
		Source:    "master",
		Items:     items,
	}

	receipt, err := s.portal.PushBatch(ctx, batch)
	if err != nil {
		// The whole chunk failed; attribute the error once and move on
		result.Failed = len(eligible)
		result.Errors = append(result.Errors, dtos.SyncItemError{
			Index:     0,
			Operation: constants.SyncOpUpsert,
			Model:     constants.SyncModelMember,
			Error:     err.Error(),
		})
		logging.WithSync(batch.SyncID, constants.SyncDirectionPush, constants.SyncModelMember).
			Errorw("Push chunk failed",
				"members", len(eligible),
				"error", err.Error(),
			)
		return result
	}

	failedMembers := make(map[int]bool)
	for _, e := range receipt.Errors {
		if e.Index >= 0 && e.Index < len(itemOwner) {
			owner := itemOwner[e.Index]
			if failedMembers[owner] {
				continue
			}
			failedMembers[owner] = true
			result.Errors = append(result.Errors, dtos.SyncItemError{
				Index:     owner,
				Operation: e.Operation,
				Model:     e.Model,
				Error:     e.Error,
			})
		} else {
			result.Errors = append(result.Errors, e)
		}
	}
	result.Failed = len(failedMembers)
	result.Processed = len(eligible) - result.Failed

	return result
}

func (s *PushService) requireConfigured() error {
	if s.portal.IsConfigured() {
		return nil
	}
	return &providers.PortalError{
		Code:    constants.ErrCodeNotConfigured,
		Message: constants.GetErrorMessage(constants.ErrCodeNotConfigured),
	}
}

func (s *PushService) recordAudit(ctx context.Context, op string, res *dtos.SyncResult) {
	if s.audit == nil {
		return
	}

	status := "ok"
	if res.Failed > 0 {
		status = "partial"
		if res.Processed == 0 {
			status = "error"
		}
	}

	log := &entities.SyncLog{
		Direction: constants.SyncDirectionPush,
		Operation: op,
		Model:     constants.SyncModelMember,
		Processed: res.Processed,
		Failed:    res.Failed,
		Status:    status,
	}
	if err := s.audit.Record(ctx, log); err != nil {
		logging.Warn("Failed to record sync audit row", "error", err.Error())
	}
}

// memberItems serializes one member into wire items. Barcode state always
// travels with the member; Profile and Family only when asked.
func memberItems(m *gormModels.Member, withProfileFamily bool) []dtos.SyncItem {
	items := []dtos.SyncItem{{
		Operation: constants.SyncOpUpsert,
		Model:     constants.SyncModelMember,
		ID:        m.ID,
		Data: dtos.MemberSyncData{
			ID:           m.ID,
			FirstName:    m.FirstName,
			LastName:     m.LastName,
			Birthdate:    m.Birthdate.Format(birthdateLayout),
			TNumber:      m.TNumber,
			Deceased:     m.Deceased,
			PortalStatus: m.PortalStatus,
		},
	}}

	for _, b := range m.Barcodes {
		data := dtos.BarcodeSyncData{
			ID:    b.ID,
			Code:  b.Code,
			State: b.State,
		}
		if b.MemberID != nil {
			data.MemberID = *b.MemberID
		}
		items = append(items, dtos.SyncItem{
			Operation: constants.SyncOpUpsert,
			Model:     constants.SyncModelBarcode,
			ID:        b.ID,
			Data:      data,
		})
	}

	if withProfileFamily {
		for _, p := range m.Profiles {
			items = append(items, dtos.SyncItem{
				Operation: constants.SyncOpUpsert,
				Model:     constants.SyncModelProfile,
				ID:        p.ID,
				Data: dtos.ProfileSyncData{
					ID:        p.ID,
					MemberID:  p.MemberID,
					Gender:    p.Gender,
					OnReserve: p.OnReserve,
					Community: p.Community,
					Address:   p.Address,
					Phone:     p.Phone,
					Email:     p.Email,
					ImageURL:  p.ImageURL,
				},
			})
		}
		for _, f := range m.Families {
			items = append(items, dtos.SyncItem{
				Operation: constants.SyncOpUpsert,
				Model:     constants.SyncModelFamily,
				ID:        f.ID,
				Data: dtos.FamilySyncData{
					ID:         f.ID,
					MemberID:   f.MemberID,
					SpouseName: f.SpouseName,
					Dependents: f.Dependents,
				},
			})
		}
	}

	return items
}

// ageAt computes full years of age at the given instant, birthday-aware so
// the 18th birthday itself counts as eligible.
func ageAt(birthdate, at time.Time) int {
	years := at.Year() - birthdate.Year()
	if years < 0 {
		return 0
	}
	if birthdate.AddDate(years, 0, 0).After(at) {
		years--
	}
	return years
}
