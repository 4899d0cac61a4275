package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"journeycompass/internal/domain/models"
	"journeycompass/internal/locks"
	"journeycompass/internal/repositories"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *repositories.MemoryDocumentRepo
	repo      repositories.DocumentRepo
	ledger    LedgerService
	inventory InventoryService
	catalog   CatalogService
	clock     time.Time
}

func testBus(id string, seats int) models.Bus {
	return models.Bus{
		ID:            id,
		OperatorName:  "Test Travels",
		BusType:       "AC Sleeper",
		From:          "Mumbai",
		To:            "Pune",
		DepartureTime: "22:00",
		ArrivalTime:   "02:30",
		TotalSeats:    seats,
		Price:         500,
	}
}

// newFixture returns services sharing one in-memory store, seeded with buses.
func newFixture(t *testing.T, buses ...models.Bus) *fixture {
	t.Helper()

	store := repositories.NewMemoryDocumentRepo()
	repo := repositories.DocumentRepo{Store: store}
	locker := locks.NewLocalLocker()

	f := &fixture{
		store: store,
		repo:  repo,
		clock: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	var seq atomic.Int64
	f.ledger = LedgerService{
		Repo:   repo,
		Locker: locker,
		Now: func() time.Time {
			// every booking gets a later timestamp than the previous one
			return f.clock.Add(time.Duration(seq.Load()) * time.Minute)
		},
		NewID: func() string {
			return fmt.Sprintf("bkg-test-%d", seq.Add(1))
		},
	}
	f.inventory = InventoryService{Repo: repo}
	f.catalog = CatalogService{Repo: repo, Locker: locker}

	if len(buses) > 0 {
		seeded, err := f.catalog.SeedIfEmpty(context.Background(), buses)
		require.NoError(t, err)
		require.True(t, seeded)
	}
	return f
}

func bookingRequest(busID, date, email string, seats ...int) models.BookingRequest {
	return models.BookingRequest{
		BusID:         busID,
		Date:          date,
		SeatNumbers:   seats,
		UserEmail:     email,
		PaymentMethod: "Credit Card",
		TotalAmount:   float64(len(seats)) * 500,
	}
}
