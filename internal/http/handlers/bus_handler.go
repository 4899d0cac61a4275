package handlers

import (
	"net/http"
	"time"

	"journeycompass/internal/domain/models"
	"journeycompass/internal/services"
	"journeycompass/internal/utils"

	"github.com/gin-gonic/gin"
)

// BusHandler serves the catalog and seat inventory.
type BusHandler struct {
	Catalog   services.CatalogService
	Inventory services.InventoryService
	Fallback  []models.Bus
	Now       func() time.Time
}

func (h BusHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return utils.NowUTC()
}

// GET /api/buses?from=&to=
func (h BusHandler) ListBuses(c *gin.Context) {
	buses := h.Catalog.SearchBuses(c.Request.Context(), c.Query("from"), c.Query("to"), h.Fallback)
	c.JSON(http.StatusOK, gin.H{"buses": buses})
}

// GET /api/buses/:id/availability?date=
func (h BusHandler) Availability(c *gin.Context) {
	bus, date, ok := h.busAndDate(c)
	if !ok {
		return
	}
	booked := h.Inventory.GetBookedSeats(c.Request.Context(), bus.ID, date)
	avail := services.AvailabilityFor(booked, bus.TotalSeats)
	c.JSON(http.StatusOK, gin.H{
		"busId":             bus.ID,
		"date":              date,
		"totalSeats":        bus.TotalSeats,
		"occupiedSeats":     avail.OccupiedSeats,
		"availableSeats":    avail.AvailableSeats,
		"bookedSeatNumbers": booked,
	})
}

// GET /api/buses/:id/seats?date=&selected=L1,L2
func (h BusHandler) SeatMap(c *gin.Context) {
	bus, date, ok := h.busAndDate(c)
	if !ok {
		return
	}
	selected := utils.SplitSeatList(c.Query("selected"))
	seats := h.Inventory.SeatMap(c.Request.Context(), bus, date, selected)
	c.JSON(http.StatusOK, gin.H{
		"busId":    bus.ID,
		"date":     date,
		"price":    bus.Price,
		"seats":    seats,
		"selected": selected,
		"fare":     services.QuoteFare(bus, countSelected(seats)),
	})
}

func (h BusHandler) busAndDate(c *gin.Context) (models.Bus, string, bool) {
	date, err := utils.DateKey(c.Query("date"), h.now())
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "date must be YYYY-MM-DD", nil)
		return models.Bus{}, "", false
	}
	bus, err := h.Catalog.FindBus(c.Request.Context(), c.Param("id"), h.Fallback)
	if err != nil {
		RespondDomainError(c, err)
		return models.Bus{}, "", false
	}
	return bus, date, true
}

func countSelected(seats []models.Seat) int {
	n := 0
	for _, s := range seats {
		if s.Status == models.SeatSelected {
			n++
		}
	}
	return n
}
