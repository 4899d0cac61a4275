package services

import (
	"fmt"
	"strconv"
	"strings"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
)

// seatsPerRow is the fixed 2+1 sleeper layout.
const seatsPerRow = 3

// SeatLabel is a parsed display label such as "L3" or "U7".
type SeatLabel struct {
	Deck   models.Deck
	Number int
}

func (l SeatLabel) Valid() bool { return l.Number > 0 }

func (l SeatLabel) String() string {
	if !l.Valid() {
		return ""
	}
	prefix := "L"
	if l.Deck == models.DeckUpper {
		prefix = "U"
	}
	return prefix + strconv.Itoa(l.Number)
}

// ParseSeatLabel reads "[L|U]<digits>". Anything else returns an invalid label.
func ParseSeatLabel(raw string) SeatLabel {
	s := strings.TrimSpace(raw)
	if len(s) < 2 {
		return SeatLabel{}
	}
	var deck models.Deck
	switch s[0] {
	case 'L':
		deck = models.DeckLower
	case 'U':
		deck = models.DeckUpper
	default:
		return SeatLabel{}
	}
	digits := s[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return SeatLabel{}
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return SeatLabel{}
	}
	return SeatLabel{Deck: deck, Number: n}
}

// ParseSeatNumber returns the seat number of a label, or 0 when unrecognized.
func ParseSeatNumber(raw string) int {
	return ParseSeatLabel(raw).Number
}

// SeatLabelFor is the display label the generator gives seat n.
// The third berth of every row reads "U" even though it sits on the lower deck.
func SeatLabelFor(n int) string {
	if n <= 0 {
		return ""
	}
	if (n-1)%seatsPerRow == seatsPerRow-1 {
		return "U" + strconv.Itoa(n)
	}
	return "L" + strconv.Itoa(n)
}

// GenerateSeats lays out seats 1..total in rows of two left berths and one
// right berth. Seats in booked are marked booked; selection is the caller's.
func GenerateSeats(total int, booked []int) []models.Seat {
	if total <= 0 {
		return []models.Seat{}
	}
	taken := make(map[int]struct{}, len(booked))
	for _, n := range booked {
		taken[n] = struct{}{}
	}

	positions := [seatsPerRow]models.SeatPosition{
		models.PositionWindowLeft,
		models.PositionAisleLeft,
		models.PositionWindowRight,
	}

	seats := make([]models.Seat, 0, total)
	for n := 1; n <= total; n++ {
		row := (n - 1) / seatsPerRow
		slot := (n - 1) % seatsPerRow

		status := models.SeatAvailable
		if _, ok := taken[n]; ok {
			status = models.SeatBooked
		}
		seats = append(seats, models.Seat{
			ID:       fmt.Sprintf("L%d-%d", row, slot+1),
			Number:   SeatLabelFor(n),
			Status:   status,
			Row:      row,
			Position: positions[slot],
			Deck:     models.DeckLower,
		})
	}
	return seats
}

// MarkSelected overlays the transient "selected" state on available seats.
// Booked seats stay booked.
func MarkSelected(seats []models.Seat, labels []string) []models.Seat {
	want := make(map[int]struct{}, len(labels))
	for _, l := range labels {
		if n := ParseSeatNumber(l); n > 0 {
			want[n] = struct{}{}
		}
	}
	out := make([]models.Seat, len(seats))
	copy(out, seats)
	for i, s := range out {
		if s.Status != models.SeatAvailable {
			continue
		}
		if _, ok := want[ParseSeatNumber(s.Number)]; ok {
			out[i].Status = models.SeatSelected
		}
	}
	return out
}

// SeatNumbersFromLabels parses display labels into seat numbers. Unrecognized
// labels are a validation error, never a silent zero.
func SeatNumbersFromLabels(labels []string) ([]int, []string, error) {
	if len(labels) == 0 {
		return nil, nil, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	numbers := make([]int, 0, len(labels))
	display := make([]string, 0, len(labels))
	for _, raw := range labels {
		label := ParseSeatLabel(strings.ToUpper(strings.TrimSpace(raw)))
		if !label.Valid() {
			return nil, nil, domain.ValidationError{Field: "seats", Msg: fmt.Sprintf("unrecognized seat label %q", raw)}
		}
		numbers = append(numbers, label.Number)
		display = append(display, label.String())
	}
	return numbers, display, nil
}
