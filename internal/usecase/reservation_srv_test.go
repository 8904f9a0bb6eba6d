package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/dto/request"
	"salon-booking/pkg/notifier"

	"github.com/google/uuid"
)

func reserveRequest(slot *entity.Availability) *request.ReserveSlotRequest {
	return &request.ReserveSlotRequest{
		CustomerName:   "Juan Dela Cruz",
		CustomerEmail:  "juan@example.com",
		CustomerPhone:  "09171234567",
		ServiceID:      slot.ServiceID.String(),
		StaffID:        slot.StaffID.String(),
		AvailabilityID: slot.ID.String(),
	}
}

func TestReserveCreatesAwaitingPaymentBooking(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	resp, err := env.reservation.Reserve(context.Background(), reserveRequest(slot))
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if resp.Status != string(entity.BookingStatusAwaitingPayment) {
		t.Errorf("status = %q, want awaiting_payment", resp.Status)
	}
	if resp.GuestToken == "" {
		t.Error("guest token missing from creation response")
	}
	if resp.PaymentExpiresAt == nil {
		t.Fatal("payment deadline missing")
	}
	wantDeadline := time.Now().Add(30 * time.Minute)
	if diff := resp.PaymentExpiresAt.Sub(wantDeadline); diff < -time.Minute || diff > time.Minute {
		t.Errorf("deadline %v not ~30m from now", resp.PaymentExpiresAt)
	}

	stored, _ := env.slots.FindByID(context.Background(), slot.ID)
	if !stored.IsBooked {
		t.Error("slot not marked booked")
	}

	if ev, ok := env.notify.last(); !ok || ev.Event != notifier.EventBookingCreated {
		t.Errorf("notification = %+v, want booking_created", ev)
	}
}

func TestReserveBookedSlotConflicts(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()
	env.reserve(t, slot)

	_, err := env.reservation.Reserve(context.Background(), reserveRequest(slot))
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveAgainAfterCancellation(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()
	first := env.reserve(t, slot)

	if _, err := env.payment.Cancel(context.Background(), first.PublicID.String(), GuestCaller{}, &request.CancelBookingRequest{
		CustomerEmail: first.CustomerEmail,
		GuestToken:    first.GuestToken.String(),
	}); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// The released slot is open again; a fresh booking may claim it even
	// though the cancelled one still references it as history.
	second := env.reserve(t, slot)
	if second.ID == first.ID {
		t.Fatal("re-reservation must create a new booking")
	}
	if second.AvailabilityID != slot.ID {
		t.Errorf("second booking slot = %s, want %s", second.AvailabilityID, slot.ID)
	}

	claimed, _ := env.slots.FindByID(context.Background(), slot.ID)
	if !claimed.IsBooked {
		t.Error("slot not re-claimed by the second booking")
	}
	if got := storedBooking(t, env, first.ID).Status; got != entity.BookingStatusCancelled {
		t.Errorf("first booking status = %q, want cancelled", got)
	}
}

func TestReserveRaceAdmitsExactlyOne(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.reservation.Reserve(context.Background(), reserveRequest(slot))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrSlotUnavailable):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
}

func TestReservePastSlotUnavailable(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	env.slots.mu.Lock()
	env.slots.byID[slot.ID].StartTime = time.Now().Add(-time.Hour)
	env.slots.mu.Unlock()

	_, err := env.reservation.Reserve(context.Background(), reserveRequest(slot))
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveInactiveStaffRejected(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	env.staff.mu.Lock()
	env.staff.byID[slot.StaffID].IsActive = false
	env.staff.mu.Unlock()

	_, err := env.reservation.Reserve(context.Background(), reserveRequest(slot))
	if !errors.Is(err, ErrInactiveResource) {
		t.Fatalf("err = %v, want ErrInactiveResource", err)
	}

	stored, _ := env.slots.FindByID(context.Background(), slot.ID)
	if stored.IsBooked {
		t.Error("failed reservation must not claim the slot")
	}
}

func TestReserveInactiveServiceRejected(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	env.services.mu.Lock()
	env.services.byID[slot.ServiceID].IsActive = false
	env.services.mu.Unlock()

	_, err := env.reservation.Reserve(context.Background(), reserveRequest(slot))
	if !errors.Is(err, ErrInactiveResource) {
		t.Fatalf("err = %v, want ErrInactiveResource", err)
	}
}

func TestReserveDeclaredIDsMustMatchSlot(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	req := reserveRequest(slot)
	req.StaffID = uuid.NewString()

	_, err := env.reservation.Reserve(context.Background(), req)
	if !errors.Is(err, ErrMismatch) {
		t.Fatalf("err = %v, want ErrMismatch", err)
	}
}

func TestReserveUnknownSlot(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	req := reserveRequest(slot)
	req.AvailabilityID = uuid.NewString()

	_, err := env.reservation.Reserve(context.Background(), req)
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestReserveValidation(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()

	req := reserveRequest(slot)
	req.CustomerEmail = "not-an-email"

	_, err := env.reservation.Reserve(context.Background(), req)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}
