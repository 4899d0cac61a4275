package utils

import "math"

// ComputeFare returns the total for a number of seats at the bus base fare,
// rounded to paise.
func ComputeFare(seatCount int, pricePerSeat float64) float64 {
	if seatCount <= 0 || pricePerSeat <= 0 {
		return 0
	}
	return math.Round(float64(seatCount)*pricePerSeat*100) / 100
}
