package services

import (
	"context"
	"fmt"
	"time"

	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/logging"
	"first-nation/registry/internal/models/dtos"
	gormModels "first-nation/registry/internal/models/gorm"
)

const birthdateLayout = "2006-01-02"

// MemberService fronts member CRUD for the web layer: creation runs the
// barcode allocator, deletion releases inventory, and mutation goes through
// typed field masks only.
type MemberService struct {
	members  *repositories.MemberRepository
	profiles *repositories.ProfileRepository
}

func NewMemberService(members *repositories.MemberRepository, profiles *repositories.ProfileRepository) *MemberService {
	return &MemberService{
		members:  members,
		profiles: profiles,
	}
}

// CreateMember validates the request and creates the member, binding an
// available barcode when inventory allows.
func (s *MemberService) CreateMember(ctx context.Context, req *dtos.CreateMemberRequest) (*gormModels.Member, error) {
	if req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("first and last name are required")
	}
	if req.TNumber == "" {
		return nil, fmt.Errorf("t_number is required")
	}

	birthdate, err := time.Parse(birthdateLayout, req.Birthdate)
	if err != nil {
		return nil, fmt.Errorf("invalid birthdate %q, expected YYYY-MM-DD", req.Birthdate)
	}

	member := &gormModels.Member{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Birthdate: birthdate,
		TNumber:   req.TNumber,
		Deceased:  req.Deceased,
	}

	created, err := s.members.CreateWithBarcode(ctx, member)
	if err != nil {
		return nil, err
	}

	logging.Info("Member created",
		"member_id", created.ID,
		"t_number", created.TNumber,
		"barcode_assigned", len(created.Barcodes) > 0,
	)
	return created, nil
}

// GetMember loads one member with relations
func (s *MemberService) GetMember(ctx context.Context, id string) (*gormModels.Member, error) {
	return s.members.GetByID(ctx, id)
}

// DeleteMember removes the member and returns its barcodes to the pool
func (s *MemberService) DeleteMember(ctx context.Context, id string) error {
	if err := s.members.DeleteWithBarcodeRelease(ctx, id); err != nil {
		return err
	}
	logging.Info("Member deleted, barcodes released", "member_id", id)
	return nil
}

// PatchMember applies an allow-listed update to core member fields
func (s *MemberService) PatchMember(ctx context.Context, id string, patch *dtos.MemberPatch) error {
	fields := make(map[string]any)
	if patch.FirstName != nil {
		fields["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		fields["last_name"] = *patch.LastName
	}
	if patch.Birthdate != nil {
		birthdate, err := time.Parse(birthdateLayout, *patch.Birthdate)
		if err != nil {
			return fmt.Errorf("invalid birthdate %q, expected YYYY-MM-DD", *patch.Birthdate)
		}
		fields["birthdate"] = birthdate
	}
	if patch.Deceased != nil {
		fields["deceased"] = *patch.Deceased
	}
	if patch.PortalStatus != nil {
		fields["portal_status"] = *patch.PortalStatus
	}

	return s.members.UpdateFields(ctx, id, fields)
}

// PatchProfile applies the member-facing profile mask. Everything outside
// the mask belongs to the sync engine and cannot be reached from here.
func (s *MemberService) PatchProfile(ctx context.Context, memberID string, patch *dtos.ProfilePatch) error {
	return s.profiles.UpdateFields(ctx, memberID, patch.Fields())
}
