package services

import (
	"context"
	"errors"
	"testing"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(f *fixture, n gateway.Notifier) BookingService {
	return BookingService{Ledger: f.ledger, Catalog: f.catalog, Notifier: n}
}

func TestCheckoutPricesAndNotifies(t *testing.T) {
	bus := testBus("bus-1", 30)
	bus.Price = 650
	f := newFixture(t, bus)
	notifier := &gateway.NotifierMock{}
	svc := newBookingService(f, notifier)

	b, err := svc.Checkout(context.Background(), "A@x.com", CheckoutInput{
		BusID:         "bus-1",
		Date:          travelDate,
		Seats:         []string{"L1", "u3"},
		PaymentMethod: "upi",
		UpiApp:        "gpay",
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, b.SeatNumbers)
	assert.Equal(t, []string{"L1", "U3"}, b.SeatNumbersDisplay)
	assert.Equal(t, 1300.0, b.TotalAmount)
	assert.Equal(t, "UPI - Google Pay", b.PaymentMethod)
	assert.Equal(t, "a@x.com", b.UserEmail)

	require.Len(t, notifier.Confirmed, 1)
	assert.Equal(t, models.BookingNotice{
		BusID:     "bus-1",
		From:      "Mumbai",
		To:        "Pune",
		Date:      travelDate,
		Time:      "22:00",
		Seat:      "L1, U3",
		BookingID: b.ID,
		UserEmail: "a@x.com",
	}, notifier.Confirmed[0])
}

func TestCheckoutRejectsBeforeLedger(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 30))
	notifier := &gateway.NotifierMock{}
	svc := newBookingService(f, notifier)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, "a@x.com", CheckoutInput{BusID: "bus-1", Seats: []string{"X9"}, PaymentMethod: "credit"})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Checkout(ctx, "a@x.com", CheckoutInput{BusID: "bus-1", Seats: []string{"L1"}, PaymentMethod: "cash"})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Checkout(ctx, "a@x.com", CheckoutInput{BusID: "bus-9", Seats: []string{"L1"}, PaymentMethod: "credit"})
	assert.True(t, domain.IsNotFound(err))

	assert.Empty(t, f.repo.Load(ctx).Bookings)
	assert.Empty(t, notifier.Confirmed)
}

func TestNotificationFailureKeepsBooking(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 30))
	notifier := &gateway.NotifierMock{Err: errors.New("webhook down")}
	svc := newBookingService(f, notifier)
	ctx := context.Background()

	b, err := svc.Checkout(ctx, "a@x.com", CheckoutInput{BusID: "bus-1", Date: travelDate, Seats: []string{"L2"}, PaymentMethod: "debit"})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))

	cancelled, err := svc.Cancel(ctx, "a@x.com", b.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.IsCancelled())
	assert.Empty(t, f.inventory.GetBookedSeats(ctx, "bus-1", travelDate))
	assert.Len(t, notifier.Cancelled, 1)
}

func TestCancelDoesNotNotifyOnError(t *testing.T) {
	f := newFixture(t, testBus("bus-1", 30))
	notifier := &gateway.NotifierMock{}
	svc := newBookingService(f, notifier)

	_, err := svc.Cancel(context.Background(), "a@x.com", "bkg-none")
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, notifier.Cancelled)
}
