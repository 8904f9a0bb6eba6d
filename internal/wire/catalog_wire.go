package wire

import (
	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Catalog is read-only over HTTP; rows are seeded by migration.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, repo.User, log))

		// GET /api/services - service menu
		r.Get("/api/services", catalogHandler.List)

		// GET /api/services/{id}
		r.Get("/api/services/{id}", catalogHandler.Get)
	})
}
