package route

import (
	"strconv"

	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// Catalog is the read-only, ordered list of routes loaded at start-up.
type Catalog struct {
	records []*Record
	byID    map[int]*Record
}

// NewCatalog builds a Catalog, rejecting duplicate IDs.
func NewCatalog(records []*Record) (*Catalog, error) {
	c := &Catalog{
		records: make([]*Record, 0, len(records)),
		byID:    make(map[int]*Record, len(records)),
	}
	for _, r := range records {
		if _, dup := c.byID[r.ID()]; dup {
			return nil, domain.NewValidationError("duplicate route ID: " + strconv.Itoa(r.ID()))
		}
		c.records = append(c.records, r)
		c.byID[r.ID()] = r
	}
	return c, nil
}

// List returns every route in catalog order. The slice is a copy.
func (c *Catalog) List() []*Record {
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

// Get returns the route with the given ID.
func (c *Catalog) Get(id int) (*Record, error) {
	r, ok := c.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("Route", strconv.Itoa(id))
	}
	return r, nil
}

// Len returns the number of routes.
func (c *Catalog) Len() int { return len(c.records) }

// SeedRecords returns the routes the dashboard ships with.
func SeedRecords() []RecordParams {
	return []RecordParams{
		{
			ID:             1,
			From:           "Sector 62, Noida",
			To:             "Cyber City, Gurgaon",
			DepartureTime:  "08:30 AM",
			Duration:       "1h 15m",
			AvailableSeats: 1,
			TotalSeats:     4,
			VehicleType:    "Sedan (Swift Dzire)",
			VehicleNumber:  "DL 01 AB 1234",
			DriverName:     "Rajesh Kumar",
			Status:         StatusActive,
			Confidence:     95,
		},
		{
			ID:             2,
			From:           "Whitefield",
			To:             "Electronic City",
			DepartureTime:  "09:00 AM",
			Duration:       "1h 30m",
			AvailableSeats: 0,
			TotalSeats:     7,
			VehicleType:    "SUV (Toyota Innova)",
			VehicleNumber:  "KA 05 CD 5678",
			DriverName:     "Suresh Reddy",
			Status:         StatusActive,
			Confidence:     88,
		},
		{
			ID:             3,
			From:           "Andheri East",
			To:             "BKC, Mumbai",
			DepartureTime:  "10:15 AM",
			Duration:       "45m",
			AvailableSeats: 1,
			TotalSeats:     4,
			VehicleType:    "Sedan (Honda City)",
			VehicleNumber:  "MH 02 EF 9012",
			DriverName:     "Amit Patil",
			Status:         StatusScheduled,
			Confidence:     82,
		},
	}
}

// NewSeedCatalog builds the Catalog from SeedRecords.
func NewSeedCatalog() (*Catalog, error) {
	params := SeedRecords()
	records := make([]*Record, 0, len(params))
	for _, p := range params {
		r, err := NewRecord(p)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return NewCatalog(records)
}
