package route

import (
	"fmt"

	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// Record is one scheduled transport route. Records are built once from seed
// data and never mutated.
type Record struct {
	id             int
	from           string
	to             string
	departureTime  string
	duration       string
	availableSeats int
	totalSeats     int
	vehicleType    string
	vehicleNumber  string
	driverName     string
	status         Status
	confidence     int
}

// RecordParams carries the fields for NewRecord.
type RecordParams struct {
	ID             int
	From           string
	To             string
	DepartureTime  string
	Duration       string
	AvailableSeats int
	TotalSeats     int
	VehicleType    string
	VehicleNumber  string
	DriverName     string
	Status         Status
	Confidence     int
}

// NewRecord validates p and returns a Record.
func NewRecord(p RecordParams) (*Record, error) {
	if p.ID <= 0 {
		return nil, domain.NewValidationError("route ID must be positive")
	}
	if p.From == "" || p.To == "" {
		return nil, domain.NewValidationError("route endpoints are required")
	}
	if !p.Status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid route status: %s", p.Status))
	}
	if p.AvailableSeats < 0 || p.TotalSeats < 0 {
		return nil, domain.NewValidationError("seat counts cannot be negative")
	}
	if p.AvailableSeats > p.TotalSeats {
		return nil, domain.NewValidationError("available seats cannot exceed total seats")
	}
	if p.Confidence < 0 || p.Confidence > 100 {
		return nil, domain.NewValidationError("confidence must be between 0 and 100")
	}

	return &Record{
		id:             p.ID,
		from:           p.From,
		to:             p.To,
		departureTime:  p.DepartureTime,
		duration:       p.Duration,
		availableSeats: p.AvailableSeats,
		totalSeats:     p.TotalSeats,
		vehicleType:    p.VehicleType,
		vehicleNumber:  p.VehicleNumber,
		driverName:     p.DriverName,
		status:         p.Status,
		confidence:     p.Confidence,
	}, nil
}

func (r *Record) ID() int               { return r.id }
func (r *Record) From() string          { return r.from }
func (r *Record) To() string            { return r.to }
func (r *Record) DepartureTime() string { return r.departureTime }
func (r *Record) Duration() string      { return r.duration }
func (r *Record) AvailableSeats() int   { return r.availableSeats }
func (r *Record) TotalSeats() int       { return r.totalSeats }
func (r *Record) VehicleType() string   { return r.vehicleType }
func (r *Record) VehicleNumber() string { return r.vehicleNumber }
func (r *Record) DriverName() string    { return r.driverName }
func (r *Record) Status() Status        { return r.status }

// Confidence is the stored match-quality score. Nothing derives it.
func (r *Record) Confidence() int { return r.confidence }

// HasAvailableSeats returns true when at least one seat is free.
func (r *Record) HasAvailableSeats() bool { return r.availableSeats > 0 }

// VehicleIcon returns the icon name for the record's vehicle type.
func (r *Record) VehicleIcon() VehicleIcon { return IconFor(r.vehicleType) }
