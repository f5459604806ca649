package services

import (
	"context"
	"errors"
	"testing"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/models/dtos"
	gormModels "first-nation/registry/internal/models/gorm"

	"gorm.io/gorm"
)

func newTestMemberService(db *gorm.DB) *MemberService {
	return NewMemberService(
		repositories.NewMemberRepository(db),
		repositories.NewProfileRepository(db),
	)
}

func TestMemberService_CreateMember(t *testing.T) {
	db := setupServiceDB(t)
	if err := db.Create(&gormModels.Barcode{Code: "BC-001", State: constants.BarcodeStateAvailable}).Error; err != nil {
		t.Fatalf("Failed to seed barcode: %v", err)
	}

	svc := newTestMemberService(db)
	created, err := svc.CreateMember(context.Background(), &dtos.CreateMemberRequest{
		FirstName: "Alice",
		LastName:  "Cardinal",
		Birthdate: "1990-06-15",
		TNumber:   "T000001",
	})
	if err != nil {
		t.Fatalf("CreateMember failed: %v", err)
	}

	if created.ID == "" {
		t.Error("Expected an id assigned")
	}
	if created.PortalStatus != constants.PortalStatusNone {
		t.Errorf("Expected new members to start with no portal access, got %s", created.PortalStatus)
	}
	if len(created.Barcodes) != 1 || created.Barcodes[0].Code != "BC-001" {
		t.Error("Expected the available barcode bound at creation")
	}
}

func TestMemberService_CreateMember_Validation(t *testing.T) {
	db := setupServiceDB(t)
	svc := newTestMemberService(db)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dtos.CreateMemberRequest
	}{
		{"missing name", dtos.CreateMemberRequest{LastName: "Cardinal", Birthdate: "1990-06-15", TNumber: "T1"}},
		{"missing t_number", dtos.CreateMemberRequest{FirstName: "Alice", LastName: "Cardinal", Birthdate: "1990-06-15"}},
		{"bad birthdate", dtos.CreateMemberRequest{FirstName: "Alice", LastName: "Cardinal", Birthdate: "15/06/1990", TNumber: "T1"}},
	}

	for _, tc := range cases {
		if _, err := svc.CreateMember(ctx, &tc.req); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestMemberService_PatchMember(t *testing.T) {
	db := setupServiceDB(t)
	member := seedAdult(t, db, "T000001", 0)

	svc := newTestMemberService(db)
	ctx := context.Background()

	status := constants.PortalStatusActivated
	deceased := true
	if err := svc.PatchMember(ctx, member.ID, &dtos.MemberPatch{
		PortalStatus: &status,
		Deceased:     &deceased,
	}); err != nil {
		t.Fatalf("PatchMember failed: %v", err)
	}

	var updated gormModels.Member
	if err := db.First(&updated, "id = ?", member.ID).Error; err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if updated.PortalStatus != constants.PortalStatusActivated || !updated.Deceased {
		t.Errorf("Expected patch applied, got %+v", updated)
	}
	// Untouched fields stay put
	if updated.FirstName != member.FirstName {
		t.Error("Expected first name untouched")
	}

	bad := "not-a-date"
	if err := svc.PatchMember(ctx, member.ID, &dtos.MemberPatch{Birthdate: &bad}); err == nil {
		t.Error("Expected invalid birthdate rejected")
	}
}

func TestMemberService_PatchProfile(t *testing.T) {
	db := setupServiceDB(t)
	member := seedAdult(t, db, "T000001", 0)
	if err := db.Create(&gormModels.Profile{MemberID: member.ID, Phone: "old"}).Error; err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}

	svc := newTestMemberService(db)
	phone := "555-0001"
	if err := svc.PatchProfile(context.Background(), member.ID, &dtos.ProfilePatch{Phone: &phone}); err != nil {
		t.Fatalf("PatchProfile failed: %v", err)
	}

	var profile gormModels.Profile
	if err := db.Where("member_id = ?", member.ID).First(&profile).Error; err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if profile.Phone != "555-0001" {
		t.Errorf("Expected phone updated, got %s", profile.Phone)
	}

	if err := svc.PatchProfile(context.Background(), "no-such-member", &dtos.ProfilePatch{Phone: &phone}); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown member, got %v", err)
	}
}

func TestMemberService_DeleteMember(t *testing.T) {
	db := setupServiceDB(t)
	member := seedAdult(t, db, "T000001", 0)

	svc := newTestMemberService(db)
	if err := svc.DeleteMember(context.Background(), member.ID); err != nil {
		t.Fatalf("DeleteMember failed: %v", err)
	}

	if _, err := svc.GetMember(context.Background(), member.ID); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("Expected member gone, got %v", err)
	}
}
