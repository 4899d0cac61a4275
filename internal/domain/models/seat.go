package models

import "strconv"

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatSelected  SeatStatus = "selected"
)

type SeatPosition string

const (
	PositionWindowLeft  SeatPosition = "window-left"
	PositionAisleLeft   SeatPosition = "aisle-left"
	PositionWindowRight SeatPosition = "window-right"
)

type Deck string

const (
	DeckLower Deck = "lower"
	DeckUpper Deck = "upper"
)

// Seat is derived for presentation and never persisted.
type Seat struct {
	ID       string       `json:"id"`
	Number   string       `json:"number"`
	Status   SeatStatus   `json:"status"`
	Row      int          `json:"row"`
	Position SeatPosition `json:"position"`
	Deck     Deck         `json:"deck"`
}

func itoa(n int) string { return strconv.Itoa(n) }
