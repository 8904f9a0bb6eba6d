package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/dto/request"
)

func TestSweepReclaimsOnlyOverdueAwaiting(t *testing.T) {
	env := newTestEnv()

	overdueSlot := env.seedSlot()
	overdue := env.reserve(t, overdueSlot)
	forceDeadline(env, overdue.ID, time.Now().Add(-time.Minute))

	freshSlot := env.seedSlot()
	fresh := env.reserve(t, freshSlot)

	submittedSlot := env.seedSlot()
	submitted := env.reserve(t, submittedSlot)
	req, proof := proofRequest(submitted)
	if _, err := env.payment.SubmitProof(context.Background(), submitted.PublicID.String(), req, proof); err != nil {
		t.Fatalf("SubmitProof: %v", err)
	}
	// Even with a lapsed deadline, a submitted proof shields the booking
	// from the sweep.
	forceDeadline(env, submitted.ID, time.Now().Add(-time.Minute))

	expired, err := env.sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if expired != 1 {
		t.Fatalf("expired = %d, want 1", expired)
	}

	if got := storedBooking(t, env, overdue.ID).Status; got != entity.BookingStatusCancelled {
		t.Errorf("overdue booking status = %q, want cancelled", got)
	}
	if got := storedBooking(t, env, fresh.ID).Status; got != entity.BookingStatusAwaitingPayment {
		t.Errorf("fresh booking status = %q, want awaiting_payment", got)
	}
	if got := storedBooking(t, env, submitted.ID).Status; got != entity.BookingStatusPaymentSubmitted {
		t.Errorf("submitted booking status = %q, want payment_submitted", got)
	}

	freed, _ := env.slots.FindByID(context.Background(), overdueSlot.ID)
	if freed.IsBooked {
		t.Error("overdue slot not released")
	}
	held, _ := env.slots.FindByID(context.Background(), freshSlot.ID)
	if !held.IsBooked {
		t.Error("fresh slot must stay booked")
	}
}

func TestSweepIdempotent(t *testing.T) {
	env := newTestEnv()
	booking := env.reserve(t, env.seedSlot())
	forceDeadline(env, booking.ID, time.Now().Add(-time.Minute))

	if n, err := env.sweeper.Sweep(context.Background()); err != nil || n != 1 {
		t.Fatalf("first sweep = (%d, %v), want (1, nil)", n, err)
	}
	if n, err := env.sweeper.Sweep(context.Background()); err != nil || n != 0 {
		t.Fatalf("second sweep = (%d, %v), want (0, nil)", n, err)
	}
}

func TestSweepConcurrentRunsExpireOnce(t *testing.T) {
	env := newTestEnv()
	booking := env.reserve(t, env.seedSlot())
	forceDeadline(env, booking.ID, time.Now().Add(-time.Minute))

	const runs = 8
	var wg sync.WaitGroup
	counts := make([]int, runs)

	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts[i], _ = env.sweeper.Sweep(context.Background())
		}(i)
	}
	wg.Wait()

	total := 0
	for _, n := range counts {
		total += n
	}
	if total != 1 {
		t.Fatalf("total expired across concurrent sweeps = %d, want 1", total)
	}
}

func TestSweepRaceWithCancelLeavesSlotFree(t *testing.T) {
	env := newTestEnv()
	slot := env.seedSlot()
	booking := env.reserve(t, slot)
	forceDeadline(env, booking.ID, time.Now().Add(-time.Minute))

	cancelReq := &request.CancelBookingRequest{
		CustomerEmail: booking.CustomerEmail,
		GuestToken:    booking.GuestToken.String(),
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		env.sweeper.Sweep(context.Background())
	}()
	go func() {
		defer wg.Done()
		env.payment.Cancel(context.Background(), booking.PublicID.String(), GuestCaller{}, cancelReq)
	}()
	wg.Wait()

	// Whichever side wins, the end state is the same: cancelled booking,
	// free slot, exactly once.
	if got := storedBooking(t, env, booking.ID).Status; got != entity.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", got)
	}
	freed, _ := env.slots.FindByID(context.Background(), slot.ID)
	if freed.IsBooked {
		t.Error("slot must be free after racing sweep and cancel")
	}
}
