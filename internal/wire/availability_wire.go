package wire

import (
	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAvailability(
	r chi.Router,
	availabilityHandler *adaptor.AvailabilityHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// GET /api/availabilities - public browse; a staff session widens the filter
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, repo.User, log))

		r.Get("/api/availabilities", availabilityHandler.List)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/availabilities", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/admin/availabilities - publish a new slot
		r.Post("/", availabilityHandler.Create)

		// DELETE /api/admin/availabilities/{id} - remove an unreferenced slot
		r.Delete("/{id}", availabilityHandler.Delete)
	})
}
