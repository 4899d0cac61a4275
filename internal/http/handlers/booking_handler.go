package handlers

import (
	"net/http"
	"strconv"

	"journeycompass/internal/domain"
	"journeycompass/internal/http/middleware"
	"journeycompass/internal/services"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the signed-in rider's bookings.
type BookingHandler struct {
	Bookings services.BookingService
	Ledger   services.LedgerService
	Docs     services.DocsService
}

type createBookingRequest struct {
	BusID         string   `json:"busId" binding:"required"`
	Date          string   `json:"date"`
	Seats         []string `json:"seats" binding:"required,min=1"`
	PaymentMethod string   `json:"paymentMethod" binding:"required"`
	UpiApp        string   `json:"upiApp"`
}

// POST /api/bookings
func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	booking, err := svc.Checkout(c.Request.Context(), middleware.GetUserEmail(c), services.CheckoutInput{
		BusID:         req.BusID,
		Date:          req.Date,
		Seats:         req.Seats,
		PaymentMethod: req.PaymentMethod,
		UpiApp:        req.UpiApp,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GET /api/bookings?page=&pageSize=
func (h BookingHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	p := domain.NewPagination(page, size)

	bookings := h.Ledger.ListBookingsForUser(c.Request.Context(), middleware.GetUserEmail(c))
	start, end := p.Window(len(bookings))
	c.JSON(http.StatusOK, gin.H{"bookings": bookings[start:end], "pagination": p})
}

// POST /api/bookings/:id/cancel
func (h BookingHandler) Cancel(c *gin.Context) {
	svc := h.Bookings
	svc.RequestID = middleware.GetRequestID(c)
	booking, err := svc.Cancel(c.Request.Context(), middleware.GetUserEmail(c), c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking, "message": "booking cancelled"})
}

// GET /api/bookings/:id/e-ticket returns the e-ticket PDF (inline).
func (h BookingHandler) ETicket(c *gin.Context) {
	svc := h.Docs
	svc.RequestID = middleware.GetRequestID(c)
	pdfBytes, filename, err := svc.GenerateETicket(c.Request.Context(), c.Param("id"), middleware.GetUserEmail(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
