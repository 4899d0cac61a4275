package gateway

import (
	"context"
	"errors"

	"journeycompass/internal/domain/models"
)

// Notifier delivers booking notices. Delivery is best-effort: callers log a
// failure and move on, the ledger is never rolled back.
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, notice models.BookingNotice) error
	NotifyBookingCancelled(ctx context.Context, notice models.BookingNotice) error
}

// MultiNotifier fans a notice out to every channel and joins the failures.
type MultiNotifier []Notifier

func (m MultiNotifier) NotifyBookingConfirmed(ctx context.Context, notice models.BookingNotice) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBookingConfirmed(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiNotifier) NotifyBookingCancelled(ctx context.Context, notice models.BookingNotice) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyBookingCancelled(ctx, notice); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NopNotifier drops every notice.
type NopNotifier struct{}

func (NopNotifier) NotifyBookingConfirmed(context.Context, models.BookingNotice) error { return nil }
func (NopNotifier) NotifyBookingCancelled(context.Context, models.BookingNotice) error { return nil }
