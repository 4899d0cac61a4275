package services

import (
	"context"

	"journeycompass/internal/domain/models"
	"journeycompass/internal/repositories"
)

// InventoryService answers seat questions for a bus on a date.
type InventoryService struct {
	Repo repositories.DocumentRepo
}

// GetBookedSeats returns the booked seat numbers for the exact (busID, date)
// record, or an empty slice when no booking has been made yet.
func (s InventoryService) GetBookedSeats(ctx context.Context, busID, date string) []int {
	doc := s.Repo.Load(ctx)
	return bookedSeatsIn(doc, busID, date)
}

// GetAvailability reports occupied and available counts; available never goes negative.
func (s InventoryService) GetAvailability(ctx context.Context, busID, date string, totalSeats int) models.Availability {
	return AvailabilityFor(s.GetBookedSeats(ctx, busID, date), totalSeats)
}

// SeatMap renders the seat grid of a bus with the current bookings and an
// optional client-side selection overlaid.
func (s InventoryService) SeatMap(ctx context.Context, bus models.Bus, date string, selected []string) []models.Seat {
	seats := GenerateSeats(bus.TotalSeats, s.GetBookedSeats(ctx, bus.ID, date))
	if len(selected) == 0 {
		return seats
	}
	return MarkSelected(seats, selected)
}

func bookedSeatsIn(doc models.Document, busID, date string) []int {
	idx := doc.FindAvailability(busID, date)
	if idx < 0 {
		return []int{}
	}
	out := make([]int, len(doc.SeatAvailability[idx].BookedSeatNumbers))
	copy(out, doc.SeatAvailability[idx].BookedSeatNumbers)
	return out
}

// AvailabilityFor derives the counts from one booked-seat snapshot.
func AvailabilityFor(booked []int, totalSeats int) models.Availability {
	occupied := len(booked)
	available := totalSeats - occupied
	if available < 0 {
		available = 0
	}
	return models.Availability{OccupiedSeats: occupied, AvailableSeats: available}
}
