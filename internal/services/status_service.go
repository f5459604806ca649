package services

import (
	"context"
	"time"

	"first-nation/registry/internal/common"
	"first-nation/registry/internal/constants"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/logging"
	"first-nation/registry/internal/models/dtos"
	"first-nation/registry/internal/providers"
)

const (
	statusCacheKey = "sync:status"
	statusCacheTTL = 30 * time.Second
)

// StatusService assembles the operator-facing sync snapshot. Portal trouble
// degrades the report instead of failing it; local stats always come back.
type StatusService struct {
	portal   providers.PortalAPI
	members  *repositories.MemberRepository
	profiles *repositories.ProfileRepository
	families *repositories.FamilyRepository
	barcodes *repositories.BarcodeRepository
	cache    common.CacheInterface
}

func NewStatusService(
	portal providers.PortalAPI,
	members *repositories.MemberRepository,
	profiles *repositories.ProfileRepository,
	families *repositories.FamilyRepository,
	barcodes *repositories.BarcodeRepository,
	cache common.CacheInterface,
) *StatusService {
	return &StatusService{
		portal:   portal,
		members:  members,
		profiles: profiles,
		families: families,
		barcodes: barcodes,
		cache:    cache,
	}
}

// GetStatus returns the combined local and portal snapshot, cached briefly
// so a status dashboard cannot hammer the portal probe.
func (s *StatusService) GetStatus(ctx context.Context) (*dtos.SyncStatus, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(statusCacheKey); found {
			// A redis-backed cache may hand back a JSON roundtrip instead of
			// the original struct; recompute in that case.
			if status, ok := cached.(*dtos.SyncStatus); ok {
				return status, nil
			}
		}
	}

	local, err := s.localStats(ctx)
	if err != nil {
		return nil, err
	}

	status := &dtos.SyncStatus{
		Local:       *local,
		Portal:      s.probePortal(ctx),
		GeneratedAt: time.Now().UTC(),
	}

	if s.cache != nil {
		s.cache.Set(statusCacheKey, status, statusCacheTTL)
	}
	return status, nil
}

func (s *StatusService) localStats(ctx context.Context) (*dtos.LocalStats, error) {
	byStatus, err := s.members.CountByPortalStatus(ctx)
	if err != nil {
		return nil, err
	}
	// Zero-fill so every lifecycle state shows up in the report
	for _, st := range []string{constants.PortalStatusNone, constants.PortalStatusPending, constants.PortalStatusActivated} {
		if _, ok := byStatus[st]; !ok {
			byStatus[st] = 0
		}
	}

	profiles, err := s.profiles.Count(ctx)
	if err != nil {
		return nil, err
	}
	families, err := s.families.Count(ctx)
	if err != nil {
		return nil, err
	}
	available, assigned, err := s.barcodes.CountByState(ctx)
	if err != nil {
		return nil, err
	}
	lastUpdate, err := s.members.LatestUpdate(ctx)
	if err != nil {
		return nil, err
	}

	return &dtos.LocalStats{
		MembersByStatus:   byStatus,
		Profiles:          profiles,
		Families:          families,
		BarcodesAvailable: available,
		BarcodesAssigned:  assigned,
		LastMemberUpdate:  lastUpdate,
	}, nil
}

func (s *StatusService) probePortal(ctx context.Context) dtos.PortalProbe {
	if !s.portal.IsConfigured() {
		return dtos.PortalProbe{
			Configured: false,
			Connected:  false,
			Message:    constants.GetErrorMessage(constants.ErrCodeNotConfigured),
		}
	}

	remote, err := s.portal.GetStatus(ctx)
	if err != nil {
		logging.Warn("Portal status probe failed", "error", err.Error())
		return dtos.PortalProbe{
			Configured: true,
			Connected:  false,
			Message:    err.Error(),
		}
	}

	return dtos.PortalProbe{
		Configured: true,
		Connected:  true,
		Status:     remote,
	}
}
