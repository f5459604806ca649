package api

import (
	"first-nation/registry/internal/common"
	"first-nation/registry/internal/config"
	"first-nation/registry/internal/db"
	"first-nation/registry/internal/db/repositories"
	"first-nation/registry/internal/logging"
	"first-nation/registry/internal/metrics"
	"first-nation/registry/internal/providers"
	"first-nation/registry/internal/services"
)

type Repositories struct {
	Members  *repositories.MemberRepository
	Barcodes *repositories.BarcodeRepository
	Profiles *repositories.ProfileRepository
	Families *repositories.FamilyRepository
	SyncLogs *repositories.SyncLogRepository
	Keys     *repositories.KeysRepo
}

type Services struct {
	Member *services.MemberService
	Push   *services.PushService
	Pull   *services.PullService
	Status *services.StatusService
	Cache  common.CacheInterface
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Portal   providers.PortalAPI
	Metrics  *metrics.MetricsRegistry
}

func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Members:  repositories.NewMemberRepository(db.PgDB),
		Barcodes: repositories.NewBarcodeRepository(db.PgDB),
		Profiles: repositories.NewProfileRepository(db.PgDB),
		Families: repositories.NewFamilyRepository(db.PgDB),
		SyncLogs: repositories.NewSyncLogRepository(db.DB),
		Keys:     repositories.NewApiKeysRepo(db.DB),
	}

	var cacheSvc common.CacheInterface
	if cfg.Redis.Host != "" {
		redisCache, err := common.NewRedisCacheService(cfg.Redis)
		if err != nil {
			logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err.Error())
			cacheSvc = common.NewCacheService(60, 120)
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = common.NewCacheService(60, 120)
	}

	portal := providers.NewPortalProvider(cfg.Portal)

	svcs := &Services{
		Member: services.NewMemberService(repos.Members, repos.Profiles),
		Push:   services.NewPushService(portal, repos.Members, repos.SyncLogs),
		Pull:   services.NewPullService(portal, repos.Members, repos.Profiles, repos.Families, repos.SyncLogs),
		Status: services.NewStatusService(portal, repos.Members, repos.Profiles, repos.Families, repos.Barcodes, cacheSvc),
		Cache:  cacheSvc,
	}

	return &Dependencies{
		Config:   cfg,
		Repo:     repos,
		Services: svcs,
		Portal:   portal,
		Metrics:  metricsReg,
	}, nil
}
