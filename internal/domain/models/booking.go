package models

import (
	"encoding/json"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// UnmarshalJSON accepts the lowercase spellings older documents carry.
func (s *BookingStatus) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*s = NormalizeStatus(raw)
	return nil
}

func NormalizeStatus(raw string) BookingStatus {
	v := strings.TrimSpace(raw)
	switch strings.ToUpper(v) {
	case string(BookingStatusConfirmed):
		return BookingStatusConfirmed
	case string(BookingStatusCancelled):
		return BookingStatusCancelled
	default:
		return BookingStatus(v)
	}
}

// Booking is immutable once written except for Status.
type Booking struct {
	ID                 string        `json:"id"`
	BusID              string        `json:"busId"`
	From               string        `json:"from,omitempty"`
	To                 string        `json:"to,omitempty"`
	Date               string        `json:"date"`
	Time               string        `json:"time,omitempty"`
	SeatNumbers        []int         `json:"seatNumbers"`
	SeatNumbersDisplay []string      `json:"seatNumbersDisplay,omitempty"`
	UserEmail          string        `json:"userEmail"`
	PaymentMethod      string        `json:"paymentMethod"`
	TotalAmount        float64       `json:"totalAmount"`
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
}

func (b Booking) IsCancelled() bool {
	return b.Status == BookingStatusCancelled
}

// BookingRequest carries everything CreateBooking needs.
type BookingRequest struct {
	BusID              string
	From               string
	To                 string
	Date               string
	Time               string
	SeatNumbers        []int
	SeatNumbersDisplay []string
	UserEmail          string
	PaymentMethod      string
	TotalAmount        float64
}

// BookingNotice is the payload sent to the confirmation and cancellation webhooks.
type BookingNotice struct {
	BusID     string `json:"busId,omitempty"`
	From      string `json:"from"`
	To        string `json:"to"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Seat      string `json:"seat"`
	BookingID string `json:"bookingId"`
	UserEmail string `json:"userEmail"`
}

// NoticeFor builds the webhook payload; seat labels fall back to numbers.
func NoticeFor(b Booking) BookingNotice {
	seats := b.SeatNumbersDisplay
	if len(seats) == 0 {
		seats = make([]string, 0, len(b.SeatNumbers))
		for _, n := range b.SeatNumbers {
			seats = append(seats, itoa(n))
		}
	}
	return BookingNotice{
		BusID:     b.BusID,
		From:      b.From,
		To:        b.To,
		Date:      b.Date,
		Time:      b.Time,
		Seat:      strings.Join(seats, ", "),
		BookingID: b.ID,
		UserEmail: b.UserEmail,
	}
}
