package models

// Bus is a catalog entry. It is read-only to the booking flow.
type Bus struct {
	ID            string   `json:"id" yaml:"id"`
	OperatorName  string   `json:"operatorName" yaml:"operatorName"`
	BusType       string   `json:"busType" yaml:"busType"`
	From          string   `json:"from" yaml:"from"`
	To            string   `json:"to" yaml:"to"`
	DepartureTime string   `json:"departureTime" yaml:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime" yaml:"arrivalTime"`
	Duration      string   `json:"duration" yaml:"duration"`
	Distance      string   `json:"distance" yaml:"distance"`
	TotalSeats    int      `json:"totalSeats" yaml:"totalSeats"`
	Price         float64  `json:"price" yaml:"price"`
	Amenities     []string `json:"amenities" yaml:"amenities"`
	Rating        float64  `json:"rating" yaml:"rating"`
}

// SeatAvailability tracks booked seat numbers for one bus on one date.
type SeatAvailability struct {
	BusID             string `json:"busId"`
	Date              string `json:"date"`
	BookedSeatNumbers []int  `json:"bookedSeatNumbers"`
}

// Availability is the occupancy summary of a bus on a date.
type Availability struct {
	OccupiedSeats  int `json:"occupiedSeats"`
	AvailableSeats int `json:"availableSeats"`
}
