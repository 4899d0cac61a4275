package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// DocsService renders the e-ticket PDF of a booking.
type DocsService struct {
	Ledger    LedgerService
	Catalog   CatalogService
	Fallback  []models.Bus
	RequestID string
	Log       *zap.Logger
	Loader    func(ctx context.Context, bookingID, userEmail string) (ticketDocData, error)
}

type ticketDocData struct {
	Booking models.Booking
	Bus     models.Bus
	HasBus  bool
}

// GenerateETicket returns the PDF bytes and a download filename. Only the
// booking owner can fetch it.
func (s DocsService) GenerateETicket(ctx context.Context, bookingID, userEmail string) ([]byte, string, error) {
	data, err := s.load(ctx, bookingID, userEmail)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.Log, s.RequestID, "docs", "generate_eticket", "booking_id="+data.Booking.ID)
	return buildETicketPDF(data)
}

func (s DocsService) load(ctx context.Context, bookingID, userEmail string) (ticketDocData, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID, userEmail)
	}
	b, err := s.Ledger.GetBookingForUser(ctx, bookingID, userEmail)
	if err != nil {
		return ticketDocData{}, err
	}
	data := ticketDocData{Booking: b}
	bus, err := s.Catalog.FindBus(ctx, b.BusID, s.Fallback)
	switch {
	case err == nil:
		data.Bus, data.HasBus = bus, true
	case domain.IsNotFound(err):
		// bus removed from the catalog after booking; print what the booking kept
	default:
		return ticketDocData{}, err
	}
	return data, nil
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	b := d.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "JOURNEY COMPASS E-TICKET")
	pdf.Ln(12)

	if b.IsCancelled() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(200, 0, 0)
		pdf.Cell(0, 8, "CANCELLED")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(10)
	}

	operator, busType, arrival := "-", "-", "-"
	if d.HasBus {
		operator = safe(d.Bus.OperatorName, "-")
		busType = safe(d.Bus.BusType, "-")
		arrival = safe(timeHM(d.Bus.ArrivalTime), "-")
	}

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Booking ID     : %s", safe(b.ID, "-")),
		fmt.Sprintf("Status         : %s", safe(string(b.Status), "-")),
		fmt.Sprintf("Passenger      : %s", safe(b.UserEmail, "-")),
		fmt.Sprintf("Operator       : %s (%s)", operator, busType),
		fmt.Sprintf("Route          : %s -> %s", safe(b.From, "-"), safe(b.To, "-")),
		fmt.Sprintf("Travel date    : %s", safe(dateOnly(b.Date), "-")),
		fmt.Sprintf("Departure      : %s", safe(timeHM(b.Time), "-")),
		fmt.Sprintf("Arrival        : %s", arrival),
		fmt.Sprintf("Seats          : %s", safe(seatList(b), "-")),
		fmt.Sprintf("Payment        : %s", safe(b.PaymentMethod, "-")),
		fmt.Sprintf("Amount paid    : %s", utils.FormatRupees(b.TotalAmount)),
		fmt.Sprintf("Booked at      : %s UTC", utils.FormatDateTime(b.CreatedAt)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID and show this e-ticket while boarding. Reporting time is 15 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.ID))
	return buf.Bytes(), filename, nil
}

func seatList(b models.Booking) string {
	return models.NoticeFor(b).Seat
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
