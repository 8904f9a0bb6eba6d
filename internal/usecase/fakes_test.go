package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"salon-booking/internal/data/entity"
	"salon-booking/internal/data/repository"
	"salon-booking/pkg/database"
	"salon-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakeTxManager serializes every transaction behind one mutex, which is
// how the row locks behave for operations touching the same rows.
type fakeTxManager struct {
	mu sync.Mutex
}

func (t *fakeTxManager) WithTx(ctx context.Context, fn func(q database.Querier) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(nil)
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func cloneAvailability(a *entity.Availability) *entity.Availability {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// ==================== BOOKING FAKE ====================

type fakeBookingRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{byID: make(map[uuid.UUID]*entity.Booking)}
}

func (r *fakeBookingRepo) CreateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.AvailabilityID == booking.AvailabilityID && b.Status != entity.BookingStatusCancelled {
			return fmt.Errorf("availability %s already referenced", booking.AvailabilityID)
		}
	}
	r.byID[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneBooking(r.byID[id]), nil
}

func (r *fakeBookingRepo) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.PublicID == publicID {
			return cloneBooking(b), nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.byID {
		if status == "" || b.Status == status {
			out = append(out, cloneBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Count(ctx context.Context, status entity.BookingStatus) (int64, error) {
	list, _ := r.List(ctx, status, 0, 0)
	return int64(len(list)), nil
}

func (r *fakeBookingRepo) ExistsForAvailability(ctx context.Context, availabilityID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.AvailabilityID == availabilityID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) LockByPublicIDTx(ctx context.Context, q database.Querier, publicID uuid.UUID) (*entity.Booking, error) {
	return r.FindByPublicID(ctx, publicID)
}

func (r *fakeBookingRepo) LockByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeBookingRepo) UpdateTx(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[booking.ID]; !ok {
		return fmt.Errorf("booking %s not found", booking.ID)
	}
	r.byID[booking.ID] = cloneBooking(booking)
	return nil
}

func (r *fakeBookingRepo) PaymentReferenceInUseTx(ctx context.Context, q database.Querier, method entity.PaymentMethod, reference string, exclude uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.byID {
		if b.ID == exclude || b.Status == entity.BookingStatusCancelled {
			continue
		}
		if b.PaymentMethod == method && b.PaymentReference == reference && reference != "" {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindExpiredAwaitingIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []uuid.UUID
	for _, b := range r.byID {
		if b.Status == entity.BookingStatusAwaitingPayment && b.PaymentWindowExpired(now) {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

// ==================== AVAILABILITY FAKE ====================

type fakeAvailabilityRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Availability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{byID: make(map[uuid.UUID]*entity.Availability)}
}

func (r *fakeAvailabilityRepo) Create(ctx context.Context, slot *entity.Availability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[slot.ID] = cloneAvailability(slot)
	return nil
}

func (r *fakeAvailabilityRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAvailability(r.byID[id]), nil
}

func (r *fakeAvailabilityRepo) List(ctx context.Context, filter repository.AvailabilityFilter) ([]*entity.Availability, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	var out []*entity.Availability
	for _, a := range r.byID {
		if filter.StaffID != uuid.Nil && a.StaffID != filter.StaffID {
			continue
		}
		if filter.ServiceID != uuid.Nil && a.ServiceID != filter.ServiceID {
			continue
		}
		if filter.Booked != nil && a.IsBooked != *filter.Booked {
			continue
		}
		if filter.FutureOnly && !a.StartTime.After(now) {
			continue
		}
		out = append(out, cloneAvailability(a))
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return fmt.Errorf("availability %s not found", id)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeAvailabilityRepo) HasOverlap(ctx context.Context, staffID uuid.UUID, start, end time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.StaffID == staffID && a.StartTime.Before(end) && a.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeAvailabilityRepo) LockByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Availability, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeAvailabilityRepo) MarkBookedTx(ctx context.Context, q database.Querier, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("availability %s not found", id)
	}
	a.IsBooked = true
	return nil
}

func (r *fakeAvailabilityRepo) ReleaseSlotTx(ctx context.Context, q database.Querier, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok && a.IsBooked {
		a.IsBooked = false
	}
	return nil
}

// ==================== STAFF / SERVICE FAKES ====================

type fakeStaffRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{byID: make(map[uuid.UUID]*entity.Staff)}
}

func (r *fakeStaffRepo) Create(ctx context.Context, staff *entity.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *staff
	r.byID[staff.ID] = &c
	return nil
}

func (r *fakeStaffRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *fakeStaffRepo) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Staff, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeStaffRepo) FindByEmail(ctx context.Context, email string) (*entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.byID {
		if s.Email == email {
			c := *s
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeStaffRepo) List(ctx context.Context, includeInactive bool) ([]*entity.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Staff
	for _, s := range r.byID {
		if !includeInactive && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, staff *entity.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[staff.ID]; !ok {
		return fmt.Errorf("staff %s not found", staff.ID)
	}
	c := *staff
	r.byID[staff.ID] = &c
	return nil
}

type fakeServiceRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entity.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{byID: make(map[uuid.UUID]*entity.Service)}
}

func (r *fakeServiceRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r *fakeServiceRepo) FindByIDTx(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.Service, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeServiceRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Service
	for _, s := range r.byID {
		if activeOnly && !s.IsActive {
			continue
		}
		c := *s
		out = append(out, &c)
	}
	return out, nil
}

// ==================== NOTIFIER / BLOB FAKES ====================

type recordedEvent struct {
	BookingID uuid.UUID
	Event     string
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Notify(bookingID uuid.UUID, event string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{BookingID: bookingID, Event: event})
}

func (n *recordingNotifier) last() (recordedEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return recordedEvent{}, false
	}
	return n.events[len(n.events)-1], true
}

type fakeBlobStore struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (s *fakeBlobStore) Save(filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", s.err
	}
	ref := fmt.Sprintf("blob-%d-%s", len(s.saved), filename)
	s.saved = append(s.saved, ref)
	return ref, nil
}

// ==================== TEST ENVIRONMENT ====================

type testEnv struct {
	repo     *repository.Repository
	bookings *fakeBookingRepo
	slots    *fakeAvailabilityRepo
	staff    *fakeStaffRepo
	services *fakeServiceRepo
	notify   *recordingNotifier
	blobs    *fakeBlobStore
	config   *utils.Config

	reservation ReservationService
	payment     PaymentWorkflowService
	sweeper     SweeperService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings: newFakeBookingRepo(),
		slots:    newFakeAvailabilityRepo(),
		staff:    newFakeStaffRepo(),
		services: newFakeServiceRepo(),
		notify:   &recordingNotifier{},
		blobs:    &fakeBlobStore{},
		config: &utils.Config{
			Booking: utils.BookingConfig{
				PaymentTimeoutMinutes: 30,
				SweepIntervalMinutes:  5,
			},
		},
	}

	env.repo = &repository.Repository{
		Staff:        env.staff,
		Service:      env.services,
		Availability: env.slots,
		Booking:      env.bookings,
		Tx:           &fakeTxManager{},
	}

	log := zap.NewNop()
	env.reservation = NewReservationService(env.repo, env.config, env.notify, log)
	env.payment = NewPaymentWorkflowService(env.repo, env.blobs, env.notify, log)
	env.sweeper = NewSweeperService(env.repo, env.notify, log)

	return env
}

// seedSlot registers an active staff member, an active service and an
// open slot starting in an hour.
func (env *testEnv) seedSlot() *entity.Availability {
	now := time.Now()

	staff := &entity.Staff{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		FullName: "Maria Santos",
		Email:    "maria@example.com",
		IsActive: true,
	}
	env.staff.Create(context.Background(), staff)

	service := &entity.Service{
		Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Name:            "Haircut",
		DurationMinutes: 60,
		Price:           500,
		IsActive:        true,
	}
	env.services.mu.Lock()
	env.services.byID[service.ID] = service
	env.services.mu.Unlock()

	slot := &entity.Availability{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		StaffID:    staff.ID,
		ServiceID:  service.ID,
		StartTime:  now.Add(time.Hour),
		EndTime:    now.Add(2 * time.Hour),
	}
	env.slots.Create(context.Background(), slot)

	return slot
}

// reserve creates a booking on the given slot through the reservation
// service and returns the created booking entity.
func (env *testEnv) reserve(t *testing.T, slot *entity.Availability) *entity.Booking {
	t.Helper()

	resp, err := env.reservation.Reserve(context.Background(), reserveRequest(slot))
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	publicID := uuid.MustParse(resp.PublicID)
	booking, err := env.bookings.FindByPublicID(context.Background(), publicID)
	if err != nil || booking == nil {
		t.Fatalf("booking not stored after reserve: %v", err)
	}
	return booking
}
