package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/logging"
	"first-nation/registry/internal/models/dtos"
	"first-nation/registry/internal/models/entities"
	"first-nation/registry/internal/providers"
)

// PullService applies member-edited portal data back onto local rows. Only
// the allow-listed Profile and Family fields can be touched; the pull path
// can never create or delete local records.
type PullService struct {
	portal   providers.PortalAPI
	members  *repositories.MemberRepository
	profiles *repositories.ProfileRepository
	families *repositories.FamilyRepository
	audit    SyncAuditor
}

func NewPullService(
	portal providers.PortalAPI,
	members *repositories.MemberRepository,
	profiles *repositories.ProfileRepository,
	families *repositories.FamilyRepository,
	audit SyncAuditor,
) *PullService {
	return &PullService{
		portal:   portal,
		members:  members,
		profiles: profiles,
		families: families,
		audit:    audit,
	}
}

// PullProfileUpdates fetches all profile edits since the cutoff and applies
// them locally.
func (s *PullService) PullProfileUpdates(ctx context.Context, since *time.Time) (*dtos.SyncResult, error) {
	if err := s.requireConfigured(); err != nil {
		return nil, err
	}
	result, err := s.pullModel(ctx, constants.PullModelProfile, since)
	if err != nil {
		return result, err
	}
	s.recordAudit(ctx, dtos.PullTypeProfile, constants.SyncModelProfile, result)
	return result, nil
}

// PullFamilyUpdates fetches all family edits since the cutoff and applies
// them locally.
func (s *PullService) PullFamilyUpdates(ctx context.Context, since *time.Time) (*dtos.SyncResult, error) {
	if err := s.requireConfigured(); err != nil {
		return nil, err
	}
	result, err := s.pullModel(ctx, constants.PullModelFamily, since)
	if err != nil {
		return result, err
	}
	s.recordAudit(ctx, dtos.PullTypeFamily, constants.SyncModelFamily, result)
	return result, nil
}

// PullAllUpdates runs the profile pull then the family pull and merges the
// outcomes. A failing profile pull does not stop the family pull.
func (s *PullService) PullAllUpdates(ctx context.Context, since *time.Time) (*dtos.SyncResult, error) {
	if err := s.requireConfigured(); err != nil {
		return nil, err
	}

	profiles, profErr := s.pullModel(ctx, constants.PullModelProfile, since)
	s.recordAudit(ctx, dtos.PullTypeProfile, constants.SyncModelProfile, profiles)

	families, famErr := s.pullModel(ctx, constants.PullModelFamily, since)
	s.recordAudit(ctx, dtos.PullTypeFamily, constants.SyncModelFamily, families)

	profiles.Merge(families)
	if profErr != nil {
		return profiles, profErr
	}
	return profiles, famErr
}

// pullModel drains the cursor chain for one model. A transport error mid
// chain keeps the progress made on earlier pages.
func (s *PullService) pullModel(ctx context.Context, model string, since *time.Time) (*dtos.SyncResult, error) {
	result := &dtos.SyncResult{}

	cursor := ""
	for {
		page, err := s.portal.PullRecords(ctx, model, since, cursor)
		if err != nil {
			logging.Error("Pull page failed",
				"model", model,
				"cursor", cursor,
				"error", err.Error(),
			)
			return result, err
		}

		for _, raw := range page.Items {
			result.Total++
			if err := s.applyItem(ctx, model, raw); err != nil {
				result.Failed++
				result.Errors = append(result.Errors, dtos.SyncItemError{
					Index:     result.Total - 1,
					Operation: constants.SyncOpUpdate,
					Model:     model,
					Error:     err.Error(),
				})
				continue
			}
			result.Processed++
		}

		if !page.Pagination.HasMore {
			break
		}
		next := page.Pagination.NextCursor
		if next == "" || next == cursor {
			// hasMore with no advancing cursor would re-request the same
			// page forever; treat it as a broken response and stop.
			return result, &providers.PortalError{
				Code:    constants.ErrCodeMalformedResponse,
				Message: constants.GetErrorMessage(constants.ErrCodeMalformedResponse),
				Details: "pagination for model " + model + " did not advance past cursor \"" + cursor + "\"",
			}
		}
		cursor = next
	}

	return result, nil
}

// applyItem decodes one pulled record and overwrites the local row's
// allow-listed fields. Records with no resolvable local member are an error,
// never a create.
func (s *PullService) applyItem(ctx context.Context, model string, raw json.RawMessage) error {
	switch model {
	case constants.PullModelProfile:
		var p dtos.PulledProfile
		if err := json.Unmarshal(raw, &p); err != nil {
			return &providers.PortalError{
				Code:    constants.ErrCodeInvalidDataFormat,
				Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
				Err:     err,
			}
		}
		memberID, err := s.resolveMember(ctx, p.MemberID, p.TNumber)
		if err != nil {
			return err
		}
		return s.profiles.UpdateFields(ctx, memberID, pulledProfileFields(&p))

	case constants.PullModelFamily:
		var f dtos.PulledFamily
		if err := json.Unmarshal(raw, &f); err != nil {
			return &providers.PortalError{
				Code:    constants.ErrCodeInvalidDataFormat,
				Message: constants.GetErrorMessage(constants.ErrCodeInvalidDataFormat),
				Err:     err,
			}
		}
		memberID, err := s.resolveMember(ctx, f.MemberID, f.TNumber)
		if err != nil {
			return err
		}
		return s.families.UpdateFields(ctx, memberID, pulledFamilyFields(&f))
	}

	return &providers.PortalError{
		Code:    constants.ErrCodeInvalidDataFormat,
		Message: "unknown pull model " + model,
	}
}

func (s *PullService) resolveMember(ctx context.Context, memberID, tNumber string) (string, error) {
	id, err := s.members.FindIDByRef(ctx, memberID, tNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", &providers.PortalError{
				Code:    constants.ErrCodeNotFound,
				Message: constants.GetErrorMessage(constants.ErrCodeNotFound),
				Err:     err,
			}
		}
		return "", err
	}
	return id, nil
}

func (s *PullService) requireConfigured() error {
	if s.portal.IsConfigured() {
		return nil
	}
	return &providers.PortalError{
		Code:    constants.ErrCodeNotConfigured,
		Message: constants.GetErrorMessage(constants.ErrCodeNotConfigured),
	}
}

func (s *PullService) recordAudit(ctx context.Context, op, model string, res *dtos.SyncResult) {
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
		Direction: constants.SyncDirectionPull,
		Operation: op,
		Model:     model,
		Processed: res.Processed,
		Failed:    res.Failed,
		Status:    status,
	}
	if err := s.audit.Record(ctx, log); err != nil {
		logging.Warn("Failed to record sync audit row", "error", err.Error())
	}
}

func pulledProfileFields(p *dtos.PulledProfile) map[string]any {
	fields := make(map[string]any)
	if p.Gender != nil {
		fields["gender"] = *p.Gender
	}
	if p.OnReserve != nil {
		fields["on_reserve"] = *p.OnReserve
	}
	if p.Community != nil {
		fields["community"] = *p.Community
	}
	if p.Address != nil {
		fields["address"] = *p.Address
	}
	if p.Phone != nil {
		fields["phone"] = *p.Phone
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.ImageURL != nil {
		fields["image_url"] = *p.ImageURL
	}
	return fields
}

func pulledFamilyFields(f *dtos.PulledFamily) map[string]any {
	fields := make(map[string]any)
	if f.SpouseName != nil {
		fields["spouse_name"] = *f.SpouseName
	}
	if f.Dependents != nil {
		fields["dependents"] = *f.Dependents
	}
	return fields
}
