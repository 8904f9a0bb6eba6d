package wire

import (
	"salon-booking/internal/adaptor"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Guests act through the booking's public id plus their email/token
	// pair; no account is involved.
	r.Post("/api/bookings", bookingHandler.Reserve)
	r.Post("/api/bookings/{publicID}/submit-payment-proof", bookingHandler.SubmitProof)
	r.Post("/api/bookings/{publicID}/track-status", bookingHandler.TrackStatus)

	// Cancellation is shared: anonymous guests must prove identity in the
	// body, while a valid staff session bypasses the identity gate.
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(repo.Session, repo.User, log))

		r.Post("/api/bookings/{publicID}/cancel", bookingHandler.Cancel)
	})

	// ==================== STAFF ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// POST /api/bookings/{publicID}/verify-payment - approve or reject proof
		r.Post("/api/bookings/{publicID}/verify-payment", bookingHandler.Verify)

		// POST /api/bookings/{publicID}/complete - mark service rendered
		r.Post("/api/bookings/{publicID}/complete", bookingHandler.Complete)
	})

	// ==================== ADMIN CONSOLE ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// GET /api/admin/bookings - list with status filter and paging
		r.Get("/", bookingHandler.ListBookings)

		// GET /api/admin/bookings/{publicID} - full workflow record
		r.Get("/{publicID}", bookingHandler.GetBooking)

		// POST /api/admin/bookings/sweep - run the expiration sweep now
		r.Post("/sweep", bookingHandler.Sweep)
	})
}
