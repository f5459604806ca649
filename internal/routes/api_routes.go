package routes

import (
	"github.com/go-chi/chi/v5"

	"first-nation/registry/internal/api"
	"first-nation/registry/internal/metrics"
	"first-nation/registry/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, metricsReg *metrics.MetricsRegistry, handlers *api.Handlers, deps *api.Dependencies) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))
		v1.Use(middleware.AuthMiddleware(deps.Repo.Keys, deps.Config.JWTSecret))

		// Sync engine surface
		v1.Route("/sync", func(sync chi.Router) {
			sync.Post("/push", handlers.PushSyncHandler())
			sync.Post("/pull", handlers.PullSyncHandler())
			sync.Get("/status", handlers.SyncStatusHandler())
		})

		// Member management requires staff-level access
		v1.Group(func(staff chi.Router) {
			staff.Use(middleware.RequireMemberAccess)

			staff.Post("/members", handlers.CreateMemberHandler())
			staff.Get("/members/{id}", handlers.GetMemberHandler())
			staff.Delete("/members/{id}", handlers.DeleteMemberHandler())
			staff.Patch("/members/{id}", handlers.PatchMemberHandler())
			staff.Patch("/members/{id}/profile", handlers.PatchProfileHandler())

			staff.Post("/barcodes", handlers.AddBarcodesHandler())
		})
	})
}
