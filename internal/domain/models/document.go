package models

// DocumentVersion is the schema version written by this build.
const DocumentVersion = 1

// Document is the single persisted unit: catalog, seat records and ledger.
type Document struct {
	Buses            []Bus              `json:"buses"`
	SeatAvailability []SeatAvailability `json:"seatAvailability"`
	Bookings         []Booking          `json:"bookings"`
	Version          int                `json:"version"`
}

func NewDocument() Document {
	return Document{
		Buses:            []Bus{},
		SeatAvailability: []SeatAvailability{},
		Bookings:         []Booking{},
		Version:          DocumentVersion,
	}
}

// Normalize fills nil collections and a missing version so a partially
// written document reads like a fresh one.
func (d Document) Normalize() Document {
	if d.Buses == nil {
		d.Buses = []Bus{}
	}
	if d.SeatAvailability == nil {
		d.SeatAvailability = []SeatAvailability{}
	}
	if d.Bookings == nil {
		d.Bookings = []Booking{}
	}
	for i := range d.SeatAvailability {
		if d.SeatAvailability[i].BookedSeatNumbers == nil {
			d.SeatAvailability[i].BookedSeatNumbers = []int{}
		}
	}
	if d.Version <= 0 {
		d.Version = DocumentVersion
	}
	return d
}

// FindAvailability returns the index of the (busID, date) record or -1.
func (d Document) FindAvailability(busID, date string) int {
	for i, r := range d.SeatAvailability {
		if r.BusID == busID && r.Date == date {
			return i
		}
	}
	return -1
}

// FindBus returns the catalog entry with the given id.
func (d Document) FindBus(id string) (Bus, bool) {
	for _, b := range d.Buses {
		if b.ID == id {
			return b, true
		}
	}
	return Bus{}, false
}
