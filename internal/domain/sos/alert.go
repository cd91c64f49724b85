package sos

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// Alert is a panic alert raised from a vehicle or by an employee.
type Alert struct {
	id             uuid.UUID
	alertNumber    string
	employeeName   string
	vehicleNumber  string
	driverName     string
	location       string
	message        string
	priority       Priority
	status         AlertStatus
	resolutionNote string
	raisedAt       time.Time
	acknowledgedAt *time.Time
	resolvedAt     *time.Time
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// RaiseParams carries the fields for Raise.
type RaiseParams struct {
	EmployeeName  string
	VehicleNumber string
	DriverName    string
	Location      string
	Message       string
	Priority      Priority
	RaisedAt      time.Time
}

// Raise creates an open alert. Priority defaults to high.
func Raise(p RaiseParams) (*Alert, error) {
	if p.VehicleNumber == "" && p.EmployeeName == "" {
		return nil, domain.NewValidationError("vehicle number or employee name is required")
	}
	if p.Location == "" {
		return nil, domain.NewValidationError("location is required")
	}
	if p.Priority == "" {
		p.Priority = PriorityHigh
	}
	if !p.Priority.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid priority: %s", p.Priority))
	}

	number, err := domain.GenerateReference("SOS")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	raisedAt := p.RaisedAt.UTC()
	if p.RaisedAt.IsZero() {
		raisedAt = now
	}

	return &Alert{
		id:            uuid.New(),
		alertNumber:   number,
		employeeName:  p.EmployeeName,
		vehicleNumber: p.VehicleNumber,
		driverName:    p.DriverName,
		location:      p.Location,
		message:       p.Message,
		priority:      p.Priority,
		status:        StatusOpen,
		raisedAt:      raisedAt,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds an Alert from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	alertNumber, employeeName, vehicleNumber, driverName, location, message string,
	priority Priority,
	status AlertStatus,
	resolutionNote string,
	raisedAt time.Time,
	acknowledgedAt, resolvedAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Alert {
	return &Alert{
		id:             id,
		alertNumber:    alertNumber,
		employeeName:   employeeName,
		vehicleNumber:  vehicleNumber,
		driverName:     driverName,
		location:       location,
		message:        message,
		priority:       priority,
		status:         status,
		resolutionNote: resolutionNote,
		raisedAt:       raisedAt,
		acknowledgedAt: acknowledgedAt,
		resolvedAt:     resolvedAt,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (a *Alert) ID() uuid.UUID              { return a.id }
func (a *Alert) AlertNumber() string        { return a.alertNumber }
func (a *Alert) EmployeeName() string       { return a.employeeName }
func (a *Alert) VehicleNumber() string      { return a.vehicleNumber }
func (a *Alert) DriverName() string         { return a.driverName }
func (a *Alert) Location() string           { return a.location }
func (a *Alert) Message() string            { return a.message }
func (a *Alert) Priority() Priority         { return a.priority }
func (a *Alert) Status() AlertStatus        { return a.status }
func (a *Alert) ResolutionNote() string     { return a.resolutionNote }
func (a *Alert) RaisedAt() time.Time        { return a.raisedAt }
func (a *Alert) AcknowledgedAt() *time.Time { return a.acknowledgedAt }
func (a *Alert) ResolvedAt() *time.Time     { return a.resolvedAt }
func (a *Alert) Version() int64             { return a.version }
func (a *Alert) CreatedAt() time.Time       { return a.createdAt }
func (a *Alert) UpdatedAt() time.Time       { return a.updatedAt }

// Acknowledge records that the security desk has picked up the alert.
func (a *Alert) Acknowledge() error {
	if !a.status.CanTransitionTo(StatusAcknowledged) {
		return domain.NewInvalidStateError(string(a.status), string(StatusAcknowledged))
	}
	now := time.Now().UTC()
	a.status = StatusAcknowledged
	a.acknowledgedAt = &now
	a.updatedAt = now
	return nil
}

// Resolve closes the alert with a resolution note.
func (a *Alert) Resolve(note string) error {
	if note == "" {
		return domain.NewValidationError("resolution note is required")
	}
	if !a.status.CanTransitionTo(StatusResolved) {
		return domain.NewInvalidStateError(string(a.status), string(StatusResolved))
	}
	now := time.Now().UTC()
	a.status = StatusResolved
	a.resolutionNote = note
	a.resolvedAt = &now
	a.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (a *Alert) IncrementVersion() {
	a.version++
	a.updatedAt = time.Now().UTC()
}
