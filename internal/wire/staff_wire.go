package wire

import (
	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireStaff(
	r chi.Router,
	staffHandler *adaptor.StaffHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, repo.User, log))

		// GET /api/staff - active staff members
		r.Get("/api/staff", staffHandler.List)

		// GET /api/staff/{id}
		r.Get("/api/staff/{id}", staffHandler.Get)
	})

	// ==================== ADMIN ROUTES ====================
	// Staff records shape who can take bookings; mutation is admin-only.
	r.Route("/api/admin/staff", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		// POST /api/admin/staff - register a staff member
		r.Post("/", staffHandler.Create)

		// PUT /api/admin/staff/{id} - update details or toggle active
		r.Put("/{id}", staffHandler.Update)
	})
}
