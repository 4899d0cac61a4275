package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const travelDate = "2025-03-14"

func TestCreateBookingUpdatesAvailability(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	b, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 1, 2))
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, []int{1, 2}, b.SeatNumbers)
	assert.Equal(t, []string{"L1", "L2"}, b.SeatNumbersDisplay)
	assert.Equal(t, "Mumbai", b.From)
	assert.Equal(t, "Pune", b.To)
	assert.Equal(t, "22:00", b.Time)

	avail := f.inventory.GetAvailability(ctx, "bus-1", travelDate, 10)
	assert.Equal(t, models.Availability{OccupiedSeats: 2, AvailableSeats: 8}, avail)
}

func TestCreateBookingConflictDoesNotMutate(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 20))
	ctx := context.Background()

	_, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 3, 4, 5))
	require.NoError(t, err)
	before := f.store.Raw()

	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "b@x.com", 5, 6))
	require.Error(t, err)

	var conflict domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, []int{5}, conflict.Seats)
	assert.Equal(t, before, f.store.Raw())
}

func TestDoubleBookingSameSeat(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	_, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 5))
	require.NoError(t, err)
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 5))
	assert.True(t, domain.IsConflict(err))

	doc := f.repo.Load(ctx)
	count := 0
	for _, b := range doc.Bookings {
		for _, n := range b.SeatNumbers {
			if n == 5 {
				count++
			}
		}
	}
	assert.Equal(t, 1, count)
}

func TestSameSeatOtherDateOrBus(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10), testBus("bus-2", 10))
	ctx := context.Background()

	_, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 5))
	require.NoError(t, err)
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", "2025-03-15", "a@x.com", 5))
	require.NoError(t, err)
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-2", travelDate, "a@x.com", 5))
	require.NoError(t, err)
}

func TestCreateBookingKeepsRecordSorted(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 30))
	ctx := context.Background()

	_, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 9, 2))
	require.NoError(t, err)
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "b@x.com", 7, 1))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 7, 9}, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *models.BookingRequest)
	}{
		{"no bus", func(r *models.BookingRequest) { r.BusID = " " }},
		{"bad date", func(r *models.BookingRequest) { r.Date = "14/03/2025" }},
		{"no seats", func(r *models.BookingRequest) { r.SeatNumbers = nil }},
		{"zero seat", func(r *models.BookingRequest) { r.SeatNumbers = []int{0} }},
		{"duplicate seat", func(r *models.BookingRequest) { r.SeatNumbers = []int{2, 2} }},
		{"seat beyond bus", func(r *models.BookingRequest) { r.SeatNumbers = []int{11} }},
		{"label mismatch", func(r *models.BookingRequest) { r.SeatNumbersDisplay = []string{"L1", "L2"} }},
		{"no email", func(r *models.BookingRequest) { r.UserEmail = "" }},
		{"bad email", func(r *models.BookingRequest) { r.UserEmail = "nobody" }},
		{"no payment", func(r *models.BookingRequest) { r.PaymentMethod = "" }},
		{"negative amount", func(r *models.BookingRequest) { r.TotalAmount = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := bookingRequest("bus-1", travelDate, "a@x.com", 1)
			tt.mutate(&req)
			_, err := f.ledger.CreateBooking(ctx, req)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}
	assert.Empty(t, f.repo.Load(ctx).Bookings)
}

func TestCreateBookingUnknownBus(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	_, err := f.ledger.CreateBooking(context.Background(), bookingRequest("bus-404", travelDate, "a@x.com", 1))
	assert.True(t, domain.IsNotFound(err))
}

func TestCreateBookingDefaultsDateToToday(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	b, err := f.ledger.CreateBooking(context.Background(), bookingRequest("bus-1", "", "a@x.com", 1))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", b.Date)
}

func TestCreateBookingNormalizesEmail(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	b, err := f.ledger.CreateBooking(context.Background(), bookingRequest("bus-1", travelDate, "  Rider@Example.COM ", 1))
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", b.UserEmail)
}

func TestCreateBookingSurvivesFailedSave(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	f.store.FailWrites = errors.New("quota exceeded")

	b, err := f.ledger.CreateBooking(context.Background(), bookingRequest("bus-1", travelDate, "a@x.com", 1))
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Empty(t, f.repo.Load(context.Background()).Bookings)
}

func TestCreateThenCancelRoundTrip(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 20))
	ctx := context.Background()

	_, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "b@x.com", 1, 8))
	require.NoError(t, err)
	b, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 3, 4))
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 4, 8}, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))

	cancelled, err := f.ledger.CancelBooking(ctx, b.ID, "A@X.com")
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, b.ID, cancelled.ID)

	assert.Equal(t, []int{1, 8}, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))

	// released seats can be booked again
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "c@x.com", 3))
	require.NoError(t, err)
}

func TestCancelAlreadyCancelled(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	b, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 2))
	require.NoError(t, err)
	_, err = f.ledger.CancelBooking(ctx, b.ID, "a@x.com")
	require.NoError(t, err)

	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "c@x.com", 2, 3))
	require.NoError(t, err)
	before := f.inventory.GetBookedSeats(ctx, "bus-1", travelDate)
	raw := f.store.Raw()

	_, err = f.ledger.CancelBooking(ctx, b.ID, "a@x.com")
	assert.True(t, domain.IsAlreadyCancelled(err))
	assert.Equal(t, before, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))
	assert.Equal(t, raw, f.store.Raw())
}

func TestCancelChecksOwnership(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	b, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 2))
	require.NoError(t, err)

	_, err = f.ledger.CancelBooking(ctx, b.ID, "mallory@x.com")
	assert.True(t, domain.IsNotFound(err))
	_, err = f.ledger.CancelBooking(ctx, "bkg-missing", "a@x.com")
	assert.True(t, domain.IsNotFound(err))
	_, err = f.ledger.CancelBooking(ctx, "", "a@x.com")
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, []int{2}, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))
}

func TestCancelLegacyLowercaseStatus(t *testing.T) {
	f := newFixture(t)
	f.store.SetRaw([]byte(`{"buses":[],"seatAvailability":[{"busId":"bus-1","date":"2025-03-14","bookedSeatNumbers":[4]}],
		"bookings":[{"id":"bkg-old","busId":"bus-1","date":"2025-03-14","seatNumbers":[4],"userEmail":"a@x.com","paymentMethod":"UPI - GPay","totalAmount":500,"status":"cancelled","createdAt":"2025-01-01T00:00:00Z"}],"version":1}`))

	_, err := f.ledger.CancelBooking(context.Background(), "bkg-old", "a@x.com")
	assert.True(t, domain.IsAlreadyCancelled(err))
}

func TestListBookingsForUser(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	first, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 1))
	require.NoError(t, err)
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "b@x.com", 2))
	require.NoError(t, err)
	second, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 3))
	require.NoError(t, err)

	got := f.ledger.ListBookingsForUser(ctx, "A@x.com")
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	assert.Empty(t, f.ledger.ListBookingsForUser(ctx, ""))
	assert.Empty(t, f.ledger.ListBookingsForUser(ctx, "nobody@x.com"))
}

func TestGetBookingForUser(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))
	ctx := context.Background()

	b, err := f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 1))
	require.NoError(t, err)

	got, err := f.ledger.GetBookingForUser(ctx, b.ID, "A@X.COM")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = f.ledger.GetBookingForUser(ctx, b.ID, "b@x.com")
	assert.True(t, domain.IsNotFound(err))
}

func TestConcurrentBookingsNeverDoubleSell(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 30), testBus("bus-2", 30))
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// two buses interleave so writes to different records race too
			busID := "bus-1"
			if i%2 == 1 {
				busID = "bus-2"
			}
			_, err := f.ledger.CreateBooking(ctx, bookingRequest(busID, travelDate, "a@x.com", 7, 8+i))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.True(t, domain.IsConflict(err), "unexpected error %v", err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 2, successes)
	doc := f.repo.Load(ctx)
	assert.Len(t, doc.Bookings, 2)
	assert.Len(t, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate), 2)
	assert.Len(t, f.inventory.GetBookedSeats(ctx, "bus-2", travelDate), 2)
}

func TestLockTimeoutSurfacesAsInternal(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 10))

	release, err := f.ledger.Locker.Acquire(context.Background(), defaultLockKey)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = f.ledger.CreateBooking(ctx, bookingRequest("bus-1", travelDate, "a@x.com", 1))
	assert.True(t, domain.IsInternal(err))
}

func TestGenerateBookingID(t *testing.T) {
	now := time.UnixMilli(1741942800123)
	id := GenerateBookingID(now)

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "bkg", parts[0])
	assert.Equal(t, "1741942800123", parts[1])
	assert.Len(t, parts[2], 7)
	assert.NotEqual(t, id, GenerateBookingID(now))
}

func TestLedgerWithoutInjectedLocker(t *testing.T) {
	store := repositories.NewMemoryDocumentRepo()
	repo := repositories.DocumentRepo{Store: store}
	require.NoError(t, CatalogService{Repo: repo}.SetBuses(context.Background(), []models.Bus{testBus("bus-1", 3)}))

	b, err := LedgerService{Repo: repo}.CreateBooking(context.Background(), bookingRequest("bus-1", travelDate, "a@x.com", 3))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(b.ID, "bkg-"))
	assert.Equal(t, []string{"U3"}, b.SeatNumbersDisplay)
}
