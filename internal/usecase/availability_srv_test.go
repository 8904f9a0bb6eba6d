package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"salon-booking/internal/dto/request"

	"go.uber.org/zap"
)

func newAvailabilityEnv() (*testEnv, AvailabilityService) {
	env := newTestEnv()
	return env, NewAvailabilityService(env.repo, zap.NewNop())
}

func TestCreateAvailabilityRejectsOverlap(t *testing.T) {
	env, svc := newAvailabilityEnv()
	slot := env.seedSlot()

	// Interval straddling the seeded slot's start.
	req := &request.CreateAvailabilityRequest{
		StaffID:   slot.StaffID.String(),
		ServiceID: slot.ServiceID.String(),
		StartTime: slot.StartTime.Add(-30 * time.Minute),
		EndTime:   slot.StartTime.Add(30 * time.Minute),
	}

	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed for overlapping slot", err)
	}
}

func TestCreateAvailabilityBackToBackAllowed(t *testing.T) {
	env, svc := newAvailabilityEnv()
	slot := env.seedSlot()

	// Half-open intervals: a slot starting exactly at the previous end
	// does not overlap.
	req := &request.CreateAvailabilityRequest{
		StaffID:   slot.StaffID.String(),
		ServiceID: slot.ServiceID.String(),
		StartTime: slot.EndTime,
		EndTime:   slot.EndTime.Add(time.Hour),
	}

	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("back-to-back slot rejected: %v", err)
	}
	if resp.ID == "" || resp.CreatedAt.IsZero() {
		t.Errorf("created slot missing identity fields: %+v", resp)
	}
	if resp.IsBooked {
		t.Error("new slot must start open")
	}
}

func TestDeleteAvailabilityRefusedWhenReferenced(t *testing.T) {
	env, svc := newAvailabilityEnv()
	slot := env.seedSlot()
	booking := env.reserve(t, slot)

	err := svc.Delete(context.Background(), slot.ID.String())
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}

	// Even after cancellation the slot stays, as booking history.
	if _, err := env.payment.Cancel(context.Background(), booking.PublicID.String(), GuestCaller{}, &request.CancelBookingRequest{
		CustomerEmail: booking.CustomerEmail,
		GuestToken:    booking.GuestToken.String(),
	}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if err := svc.Delete(context.Background(), slot.ID.String()); !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed after cancel", err)
	}
}

func TestDeleteUnreferencedAvailability(t *testing.T) {
	env, svc := newAvailabilityEnv()
	slot := env.seedSlot()

	if err := svc.Delete(context.Background(), slot.ID.String()); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if stored, _ := env.slots.FindByID(context.Background(), slot.ID); stored != nil {
		t.Error("slot still present after delete")
	}
}

func TestPublicListRestrictedToOpenSlots(t *testing.T) {
	env, svc := newAvailabilityEnv()
	open := env.seedSlot()
	booked := env.seedSlot()
	env.reserve(t, booked)

	slots, err := svc.List(context.Background(), GuestCaller{}, &request.ListAvailabilityRequest{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if len(slots) != 1 || slots[0].ID != open.ID.String() {
		t.Fatalf("public list = %d slots, want only the open one", len(slots))
	}

	// A privileged caller asking for booked slots sees the claimed one.
	staffView, err := svc.List(context.Background(), staffCaller(), &request.ListAvailabilityRequest{IsBooked: "true"})
	if err != nil {
		t.Fatalf("List privileged: %v", err)
	}
	if len(staffView) != 1 || staffView[0].ID != booked.ID.String() {
		t.Fatalf("privileged booked list = %d slots, want the booked one", len(staffView))
	}
}
