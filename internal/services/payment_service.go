package services

import (
	"strings"

	"journeycompass/internal/domain"
	"journeycompass/internal/domain/models"
	"journeycompass/internal/utils"
)

// Mock checkout: no money moves, the chosen method is only recorded on the booking.
const (
	PaymentCredit = "credit"
	PaymentDebit  = "debit"
	PaymentUPI    = "upi"
)

var upiApps = map[string]string{
	"gpay":       "Google Pay",
	"google pay": "Google Pay",
	"phonepe":    "PhonePe",
	"paytm":      "Paytm",
}

// PaymentMethodLabel returns the value stored in Booking.PaymentMethod.
// UPI payments carry the app name, e.g. "UPI - Google Pay".
func PaymentMethodLabel(method, upiApp string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(method)) {
	case PaymentCredit:
		return PaymentCredit, nil
	case PaymentDebit:
		return PaymentDebit, nil
	case PaymentUPI:
		app, ok := upiApps[strings.ToLower(utils.NormalizeSpace(upiApp))]
		if !ok {
			return "", domain.ValidationError{Field: "upiApp", Msg: "choose Google Pay, PhonePe or Paytm"}
		}
		return "UPI - " + app, nil
	case "":
		return "", domain.ValidationError{Field: "paymentMethod", Msg: "payment method is required"}
	default:
		return "", domain.ValidationError{Field: "paymentMethod", Msg: "unsupported payment method"}
	}
}

// QuoteFare is the amount charged for the seats at the bus base fare.
func QuoteFare(bus models.Bus, seatCount int) float64 {
	return utils.ComputeFare(seatCount, bus.Price)
}
