package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/models/dtos"
	gormModels "first-nation/registry/internal/models/gorm"
	"first-nation/registry/internal/providers"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Mock portal with overridable behaviour per test
type mockPortal struct {
	configured bool
	pushFn     func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error)
	pullFn     func(ctx context.Context, model string, since *time.Time, cursor string) (*dtos.PullPage, error)
	statusFn   func(ctx context.Context) (*dtos.PortalStatus, error)
}

func (m *mockPortal) PushBatch(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
	if m.pushFn == nil {
		return &dtos.PushReceipt{SyncID: batch.SyncID, Processed: len(batch.Items), Total: len(batch.Items)}, nil
	}
	return m.pushFn(ctx, batch)
}

func (m *mockPortal) PullRecords(ctx context.Context, model string, since *time.Time, cursor string) (*dtos.PullPage, error) {
	if m.pullFn == nil {
		return &dtos.PullPage{}, nil
	}
	return m.pullFn(ctx, model, since, cursor)
}

func (m *mockPortal) GetStatus(ctx context.Context) (*dtos.PortalStatus, error) {
	if m.statusFn == nil {
		return &dtos.PortalStatus{Healthy: true}, nil
	}
	return m.statusFn(ctx)
}

func (m *mockPortal) IsConfigured() bool {
	return m.configured
}

func setupServiceDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&gormModels.Member{},
		&gormModels.Profile{},
		&gormModels.Family{},
		&gormModels.Barcode{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

// seedAdult inserts a member born well before the eligibility cutoff.
// CreatedAt is staggered so ListPage ordering stays deterministic.
func seedAdult(t *testing.T, db *gorm.DB, tNumber string, seq int) *gormModels.Member {
	return seedMemberBorn(t, db, tNumber, seq, time.Date(1985, 3, 10, 0, 0, 0, 0, time.UTC))
}

func seedMemberBorn(t *testing.T, db *gorm.DB, tNumber string, seq int, birthdate time.Time) *gormModels.Member {
	member := &gormModels.Member{
		FirstName: "Member",
		LastName:  fmt.Sprintf("Num%d", seq),
		Birthdate: birthdate,
		TNumber:   tNumber,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Minute),
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to seed member %s: %v", tNumber, err)
	}
	return member
}

func newTestPushService(db *gorm.DB, portal providers.PortalAPI) *PushService {
	svc := NewPushService(portal, repositories.NewMemberRepository(db), nil)
	return svc
}

func TestPushService_EligibilityBoundary(t *testing.T) {
	db := setupServiceDB(t)

	// Fixed clock: 2026-08-31. Born 2008-08-31 turns 18 today; born
	// 2008-09-01 is still 17 until tomorrow.
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	eligible := seedMemberBorn(t, db, "T000001", 0, time.Date(2008, 8, 31, 0, 0, 0, 0, time.UTC))
	minor := seedMemberBorn(t, db, "T000002", 1, time.Date(2008, 9, 1, 0, 0, 0, 0, time.UTC))

	var pushed []dtos.SyncItem
	portal := &mockPortal{
		configured: true,
		pushFn: func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
			pushed = append(pushed, batch.Items...)
			return &dtos.PushReceipt{Processed: len(batch.Items), Total: len(batch.Items)}, nil
		},
	}

	svc := newTestPushService(db, portal)
	svc.now = func() time.Time { return now }

	result, err := svc.PushBatch(context.Background(), []string{eligible.ID, minor.ID})
	if err != nil {
		t.Fatalf("PushBatch failed: %v", err)
	}

	if result.Processed != 1 || result.Excluded != 1 || result.Failed != 0 || result.Total != 2 {
		t.Errorf("Expected processed=1 excluded=1 failed=0 total=2, got %+v", result)
	}

	for _, item := range pushed {
		data, ok := item.Data.(dtos.MemberSyncData)
		if item.Model == constants.SyncModelMember && ok && data.TNumber == minor.TNumber {
			t.Error("Minor must never reach the wire")
		}
	}
}

func TestPushService_MembersOnlyExcludesRelations(t *testing.T) {
	db := setupServiceDB(t)

	member := seedAdult(t, db, "T000001", 0)
	if err := db.Create(&gormModels.Profile{MemberID: member.ID, Community: "Treaty 6"}).Error; err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}
	if err := db.Create(&gormModels.Family{MemberID: member.ID, Dependents: 2}).Error; err != nil {
		t.Fatalf("Failed to seed family: %v", err)
	}
	if err := db.Create(&gormModels.Barcode{
		Code:     "BC-001",
		State:    constants.BarcodeStateAssigned,
		MemberID: &member.ID,
	}).Error; err != nil {
		t.Fatalf("Failed to seed barcode: %v", err)
	}

	var mu sync.Mutex
	var batches []*dtos.SyncBatch
	portal := &mockPortal{
		configured: true,
		pushFn: func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
			mu.Lock()
			batches = append(batches, batch)
			mu.Unlock()
			return &dtos.PushReceipt{Processed: len(batch.Items), Total: len(batch.Items)}, nil
		},
	}

	svc := newTestPushService(db, portal)
	result, err := svc.PushMembersOnly(context.Background(), 10)
	if err != nil {
		t.Fatalf("PushMembersOnly failed: %v", err)
	}
	if result.Processed != 1 {
		t.Fatalf("Expected 1 processed member, got %d", result.Processed)
	}

	models := map[string]int{}
	for _, batch := range batches {
		if batch.Source != "master" {
			t.Errorf("Expected source master, got %s", batch.Source)
		}
		for _, item := range batch.Items {
			if item.Operation != constants.SyncOpUpsert {
				t.Errorf("Expected UPSERT, got %s", item.Operation)
			}
			models[item.Model]++
		}
	}

	if models[constants.SyncModelMember] != 1 || models[constants.SyncModelBarcode] != 1 {
		t.Errorf("Expected one member and one barcode item, got %v", models)
	}
	if models[constants.SyncModelProfile] != 0 || models[constants.SyncModelFamily] != 0 {
		t.Errorf("Member-only push leaked relation items: %v", models)
	}
}

func TestPushService_BatchPartialFailure(t *testing.T) {
	db := setupServiceDB(t)

	ids := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		m := seedAdult(t, db, fmt.Sprintf("T00000%d", i), i)
		ids = append(ids, m.ID)
	}

	portal := &mockPortal{
		configured: true,
		pushFn: func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
			// Remote rejects the third item, accepts the rest
			return &dtos.PushReceipt{
				Processed: len(batch.Items) - 1,
				Failed:    1,
				Total:     len(batch.Items),
				Errors: []dtos.SyncItemError{{
					Index:     2,
					Operation: constants.SyncOpUpsert,
					Model:     constants.SyncModelMember,
					Error:     "duplicate t_number on portal",
				}},
			}, nil
		},
	}

	svc := newTestPushService(db, portal)
	result, err := svc.PushBatch(context.Background(), ids)
	if err != nil {
		t.Fatalf("PushBatch failed: %v", err)
	}

	if result.Processed != 4 || result.Failed != 1 || result.Total != 5 {
		t.Errorf("Expected processed=4 failed=1 total=5, got %+v", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Error != "duplicate t_number on portal" {
		t.Errorf("Expected the remote rejection surfaced once, got %+v", result.Errors)
	}
}

func TestPushService_BatchReportsMissingIDs(t *testing.T) {
	db := setupServiceDB(t)
	member := seedAdult(t, db, "T000001", 0)

	svc := newTestPushService(db, &mockPortal{configured: true})
	result, err := svc.PushBatch(context.Background(), []string{member.ID, "no-such-id"})
	if err != nil {
		t.Fatalf("PushBatch failed: %v", err)
	}

	if result.Processed != 1 || result.Failed != 1 || result.Total != 2 {
		t.Errorf("Expected processed=1 failed=1 total=2, got %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Expected one error entry, got %d", len(result.Errors))
	}
}

func TestPushService_NotConfigured(t *testing.T) {
	db := setupServiceDB(t)
	seedAdult(t, db, "T000001", 0)

	svc := newTestPushService(db, &mockPortal{configured: false})

	_, err := svc.PushFull(context.Background(), 100)
	if providers.ErrorCode(err) != constants.ErrCodeNotConfigured {
		t.Errorf("Expected NOT_CONFIGURED error, got %v", err)
	}

	if _, err := svc.PushSingle(context.Background(), "anything"); providers.ErrorCode(err) != constants.ErrCodeNotConfigured {
		t.Errorf("Expected NOT_CONFIGURED error, got %v", err)
	}
}

func TestPushService_FullPushChunks(t *testing.T) {
	db := setupServiceDB(t)
	for i := 0; i < 5; i++ {
		seedAdult(t, db, fmt.Sprintf("T00000%d", i), i)
	}

	var mu sync.Mutex
	var batchSizes []int
	portal := &mockPortal{
		configured: true,
		pushFn: func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
			mu.Lock()
			batchSizes = append(batchSizes, len(batch.Items))
			mu.Unlock()
			return &dtos.PushReceipt{Processed: len(batch.Items), Total: len(batch.Items)}, nil
		},
	}

	svc := newTestPushService(db, portal)
	result, err := svc.PushFull(context.Background(), 2)
	if err != nil {
		t.Fatalf("PushFull failed: %v", err)
	}

	if result.Processed != 5 || result.Total != 5 || result.Failed != 0 {
		t.Errorf("Expected all 5 processed, got %+v", result)
	}
	if len(batchSizes) != 3 {
		t.Errorf("Expected 3 chunks for 5 members at batch size 2, got %d", len(batchSizes))
	}
	items := 0
	for _, n := range batchSizes {
		items += n
	}
	if items != 5 {
		t.Errorf("Expected 5 wire items total, got %d", items)
	}
}

func TestPushService_ChunkFailureDoesNotPoisonOthers(t *testing.T) {
	db := setupServiceDB(t)
	for i := 0; i < 5; i++ {
		seedAdult(t, db, fmt.Sprintf("T00000%d", i), i)
	}

	portal := &mockPortal{
		configured: true,
		pushFn: func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
			for _, item := range batch.Items {
				if data, ok := item.Data.(dtos.MemberSyncData); ok && data.TNumber == "T000002" {
					return nil, &providers.PortalError{
						Code:    constants.ErrCodeNetworkUnreachable,
						Message: "connection reset",
					}
				}
			}
			return &dtos.PushReceipt{Processed: len(batch.Items), Total: len(batch.Items)}, nil
		},
	}

	svc := newTestPushService(db, portal)
	result, err := svc.PushFull(context.Background(), 2)
	if err != nil {
		t.Fatalf("PushFull failed: %v", err)
	}

	// The chunk holding T000002 carries two members; both count as failed,
	// the remaining three chunks' members go through.
	if result.Processed != 3 || result.Failed != 2 || result.Total != 5 {
		t.Errorf("Expected processed=3 failed=2 total=5, got %+v", result)
	}
}

func TestPushService_IncrementalSinceFilter(t *testing.T) {
	db := setupServiceDB(t)

	stale := seedAdult(t, db, "T000001", 0)
	db.Model(stale).UpdateColumn("updated_at", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	seedAdult(t, db, "T000002", 1)

	var mu sync.Mutex
	var tNumbers []string
	portal := &mockPortal{
		configured: true,
		pushFn: func(ctx context.Context, batch *dtos.SyncBatch) (*dtos.PushReceipt, error) {
			mu.Lock()
			for _, item := range batch.Items {
				if data, ok := item.Data.(dtos.MemberSyncData); ok {
					tNumbers = append(tNumbers, data.TNumber)
				}
			}
			mu.Unlock()
			return &dtos.PushReceipt{Processed: len(batch.Items), Total: len(batch.Items)}, nil
		},
	}

	svc := newTestPushService(db, portal)
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.PushIncremental(context.Background(), since, false, 100)
	if err != nil {
		t.Fatalf("PushIncremental failed: %v", err)
	}

	if result.Total != 1 || result.Processed != 1 {
		t.Errorf("Expected only the fresh member, got %+v", result)
	}
	if len(tNumbers) != 1 || tNumbers[0] != "T000002" {
		t.Errorf("Expected T000002 on the wire, got %v", tNumbers)
	}
}

func TestAgeAt(t *testing.T) {
	birthdate := time.Date(2008, 2, 29, 0, 0, 0, 0, time.UTC)

	// Leap-day birthday: Mar 1 of a non-leap year counts as past the birthday
	if got := ageAt(birthdate, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)); got != 18 {
		t.Errorf("Expected 18 on Mar 1, got %d", got)
	}
	if got := ageAt(birthdate, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)); got != 17 {
		t.Errorf("Expected 17 on Feb 28, got %d", got)
	}
}
