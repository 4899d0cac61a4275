package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/locks"
	"journeycompass/internal/metrics"
	"journeycompass/internal/repositories"
	"journeycompass/internal/utils"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// LedgerService creates, cancels and lists bookings. Every write re-reads the
// document under the document lock and persists booking and seat record in a
// single save.
type LedgerService struct {
	Repo    repositories.DocumentRepo
	Locker  locks.Locker
	LockKey string
	Now     func() time.Time
	NewID   func() string
	Log     *zap.Logger
}

func (s LedgerService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return utils.NowUTC()
}

func (s LedgerService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return GenerateBookingID(s.now())
}

func (s LedgerService) log() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

// CreateBooking confirms the requested seats or fails with a ConflictError
// when any of them is already booked for that bus and date.
func (s LedgerService) CreateBooking(ctx context.Context, req models.BookingRequest) (models.Booking, error) {
	req, err := s.normalizeRequest(req)
	if err != nil {
		return models.Booking{}, err
	}

	var booking models.Booking
	err = withDocumentLock(ctx, s.Locker, s.LockKey, func() error {
		doc, err := s.Repo.LoadForWrite(ctx)
		if err != nil {
			return err
		}

		bus, ok := doc.FindBus(req.BusID)
		if !ok {
			return domain.NotFoundError{Resource: "bus"}
		}
		if out := lo.Filter(req.SeatNumbers, func(n int, _ int) bool { return n > bus.TotalSeats }); len(out) > 0 {
			return domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("seat %d does not exist on this bus", out[0])}
		}

		booked := bookedSeatsIn(doc, req.BusID, req.Date)
		if taken := lo.Intersect(booked, req.SeatNumbers); len(taken) > 0 {
			sort.Ints(taken)
			metrics.BookingConflicts.Inc()
			return domain.ConflictError{
				Resource: "seat",
				Msg:      "one or more seats are no longer available",
				Seats:    taken,
			}
		}

		booking = models.Booking{
			ID:                 s.newID(),
			BusID:              req.BusID,
			From:               lo.Ternary(req.From != "", req.From, bus.From),
			To:                 lo.Ternary(req.To != "", req.To, bus.To),
			Date:               req.Date,
			Time:               lo.Ternary(req.Time != "", req.Time, bus.DepartureTime),
			SeatNumbers:        req.SeatNumbers,
			SeatNumbersDisplay: req.SeatNumbersDisplay,
			UserEmail:          req.UserEmail,
			PaymentMethod:      req.PaymentMethod,
			TotalAmount:        req.TotalAmount,
			Status:             models.BookingStatusConfirmed,
			CreatedAt:          s.now(),
		}
		doc.Bookings = append(doc.Bookings, booking)

		merged := lo.Uniq(append(booked, req.SeatNumbers...))
		sort.Ints(merged)
		if idx := doc.FindAvailability(req.BusID, req.Date); idx >= 0 {
			doc.SeatAvailability[idx].BookedSeatNumbers = merged
		} else {
			doc.SeatAvailability = append(doc.SeatAvailability, models.SeatAvailability{
				BusID:             req.BusID,
				Date:              req.Date,
				BookedSeatNumbers: merged,
			})
		}

		if !s.Repo.Save(ctx, doc) {
			s.log().Warn("booking confirmed but not persisted", zap.String("booking_id", booking.ID))
		}
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	metrics.BookingsCreated.Inc()
	s.log().Info("booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("bus_id", booking.BusID),
		zap.String("date", booking.Date),
		zap.Ints("seats", booking.SeatNumbers),
	)
	return booking, nil
}

// CancelBooking releases exactly the seats of the caller's booking.
func (s LedgerService) CancelBooking(ctx context.Context, bookingID, userEmail string) (models.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "booking id is required"}
	}

	var cancelled models.Booking
	err := withDocumentLock(ctx, s.Locker, s.LockKey, func() error {
		doc, err := s.Repo.LoadForWrite(ctx)
		if err != nil {
			return err
		}

		_, idx, found := lo.FindIndexOf(doc.Bookings, func(b models.Booking) bool {
			return b.ID == bookingID && utils.SameEmail(b.UserEmail, userEmail)
		})
		if !found {
			return domain.NotFoundError{Resource: "booking"}
		}
		if doc.Bookings[idx].IsCancelled() {
			return domain.AlreadyCancelledError{BookingID: bookingID}
		}

		doc.Bookings[idx].Status = models.BookingStatusCancelled
		cancelled = doc.Bookings[idx]

		if r := doc.FindAvailability(cancelled.BusID, cancelled.Date); r >= 0 {
			doc.SeatAvailability[r].BookedSeatNumbers = lo.Without(doc.SeatAvailability[r].BookedSeatNumbers, cancelled.SeatNumbers...)
		}

		if !s.Repo.Save(ctx, doc) {
			s.log().Warn("booking cancelled but not persisted", zap.String("booking_id", bookingID))
		}
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	metrics.BookingsCancelled.Inc()
	s.log().Info("booking cancelled",
		zap.String("booking_id", cancelled.ID),
		zap.String("bus_id", cancelled.BusID),
		zap.String("date", cancelled.Date),
	)
	return cancelled, nil
}

// ListBookingsForUser returns the user's bookings, most recent first.
func (s LedgerService) ListBookingsForUser(ctx context.Context, userEmail string) []models.Booking {
	if utils.NormalizeEmail(userEmail) == "" {
		return []models.Booking{}
	}
	doc := s.Repo.Load(ctx)
	out := lo.Filter(doc.Bookings, func(b models.Booking, _ int) bool {
		return utils.SameEmail(b.UserEmail, userEmail)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// GetBookingForUser fetches one booking owned by the user.
func (s LedgerService) GetBookingForUser(ctx context.Context, bookingID, userEmail string) (models.Booking, error) {
	doc := s.Repo.Load(ctx)
	b, ok := lo.Find(doc.Bookings, func(b models.Booking) bool {
		return b.ID == strings.TrimSpace(bookingID) && utils.SameEmail(b.UserEmail, userEmail)
	})
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

func (s LedgerService) normalizeRequest(req models.BookingRequest) (models.BookingRequest, error) {
	req.BusID = strings.TrimSpace(req.BusID)
	if req.BusID == "" {
		return req, domain.ValidationError{Field: "busId", Msg: "bus id is required"}
	}

	date, err := utils.DateKey(req.Date, s.now())
	if err != nil {
		return req, domain.ValidationError{Field: "date", Msg: "date must be YYYY-MM-DD", Err: err}
	}
	req.Date = date

	if len(req.SeatNumbers) == 0 {
		return req, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	for _, n := range req.SeatNumbers {
		if n <= 0 {
			return req, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("invalid seat number %d", n)}
		}
	}
	if dup := lo.FindDuplicates(req.SeatNumbers); len(dup) > 0 {
		return req, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("seat %d requested twice", dup[0])}
	}
	req.SeatNumbers = append([]int(nil), req.SeatNumbers...)

	switch {
	case len(req.SeatNumbersDisplay) == 0:
		req.SeatNumbersDisplay = lo.Map(req.SeatNumbers, func(n int, _ int) string { return SeatLabelFor(n) })
	case len(req.SeatNumbersDisplay) != len(req.SeatNumbers):
		return req, domain.ValidationError{Field: "seatNumbersDisplay", Msg: "one label per seat is required"}
	default:
		req.SeatNumbersDisplay = append([]string(nil), req.SeatNumbersDisplay...)
	}

	req.UserEmail = utils.NormalizeEmail(req.UserEmail)
	if req.UserEmail == "" || !strings.Contains(req.UserEmail, "@") {
		return req, domain.ValidationError{Field: "userEmail", Msg: "a valid email is required"}
	}

	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if req.PaymentMethod == "" {
		return req, domain.ValidationError{Field: "paymentMethod", Msg: "payment method is required"}
	}
	if req.TotalAmount < 0 {
		return req, domain.ValidationError{Field: "totalAmount", Msg: "amount cannot be negative"}
	}

	req.From = strings.TrimSpace(req.From)
	req.To = strings.TrimSpace(req.To)
	req.Time = strings.TrimSpace(req.Time)
	return req, nil
}

// GenerateBookingID returns "bkg-<unix-ms>-<7 base36 chars>".
func GenerateBookingID(now time.Time) string {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 7)
	base := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			// crypto/rand does not fail on supported platforms; fall back to the clock
			n = big.NewInt(now.UnixNano() % int64(len(alphabet)))
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return "bkg-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}
