package services

import (
	"context"
	"time"

	"journeycompass/internal/domain/models"
	"journeycompass/internal/gateway"
	"journeycompass/internal/metrics"
	"journeycompass/internal/utils"

	"go.uber.org/zap"
)

// CheckoutInput is what the storefront submits when the rider pays.
type CheckoutInput struct {
	BusID         string
	Date          string
	Seats         []string
	PaymentMethod string
	UpiApp        string
}

// BookingService runs checkout and cancellation end to end: it prices the
// seats, writes the ledger and then sends the best-effort notices.
type BookingService struct {
	Ledger    LedgerService
	Catalog   CatalogService
	Fallback  []models.Bus
	Notifier  gateway.Notifier
	RequestID string
	Log       *zap.Logger

	// NotifyTimeout bounds each notice; the ledger write has already happened.
	NotifyTimeout time.Duration
}

func (s BookingService) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// Checkout books the selected seat labels for userEmail.
func (s BookingService) Checkout(ctx context.Context, userEmail string, in CheckoutInput) (models.Booking, error) {
	numbers, display, err := SeatNumbersFromLabels(in.Seats)
	if err != nil {
		return models.Booking{}, err
	}
	method, err := PaymentMethodLabel(in.PaymentMethod, in.UpiApp)
	if err != nil {
		return models.Booking{}, err
	}
	bus, err := s.Catalog.FindBus(ctx, in.BusID, s.Fallback)
	if err != nil {
		return models.Booking{}, err
	}

	booking, err := s.Ledger.CreateBooking(ctx, models.BookingRequest{
		BusID:              bus.ID,
		From:               bus.From,
		To:                 bus.To,
		Date:               in.Date,
		Time:               bus.DepartureTime,
		SeatNumbers:        numbers,
		SeatNumbersDisplay: display,
		UserEmail:          userEmail,
		PaymentMethod:      method,
		TotalAmount:        QuoteFare(bus, len(numbers)),
	})
	if err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.log(), s.RequestID, "booking", "checkout", "booking_id="+booking.ID)

	s.notify(ctx, "confirmed", booking)
	return booking, nil
}

// Cancel cancels the caller's booking and sends the cancellation notice.
func (s BookingService) Cancel(ctx context.Context, userEmail, bookingID string) (models.Booking, error) {
	booking, err := s.Ledger.CancelBooking(ctx, bookingID, userEmail)
	if err != nil {
		return models.Booking{}, err
	}
	utils.LogEvent(s.log(), s.RequestID, "booking", "cancel", "booking_id="+booking.ID)

	s.notify(ctx, "cancelled", booking)
	return booking, nil
}

func (s BookingService) notify(ctx context.Context, kind string, b models.Booking) {
	if s.Notifier == nil {
		return
	}
	timeout := s.NotifyTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	// a client that hangs up after the write must not cancel the notice
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	notice := models.NoticeFor(b)
	var err error
	switch kind {
	case "cancelled":
		err = s.Notifier.NotifyBookingCancelled(nctx, notice)
	default:
		err = s.Notifier.NotifyBookingConfirmed(nctx, notice)
	}
	if err != nil {
		metrics.NotificationsFailed.WithLabelValues(channelOf(s.Notifier), kind).Inc()
		s.log().Warn("booking notice not delivered",
			zap.String("booking_id", b.ID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
}

func channelOf(n gateway.Notifier) string {
	switch n.(type) {
	case *gateway.WebhookNotifier:
		return "webhook"
	case *gateway.KafkaNotifier:
		return "kafka"
	case gateway.MultiNotifier:
		return "multi"
	default:
		return "other"
	}
}
