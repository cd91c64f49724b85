package employee

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// Status is the employment state shown on the Employees page.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusOnLeave  Status = "on_leave"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave:
		return true
	}
	return false
}

// Employee is a commuter registered for company transport.
type Employee struct {
	id             uuid.UUID
	employeeCode   string
	name           string
	email          string
	phone          string
	department     string
	shift          string
	pickupLocation string
	status         Status
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewEmployee creates an active employee with validated fields.
func NewEmployee(employeeCode, name, email, phone, department, shift, pickupLocation string) (*Employee, error) {
	if employeeCode == "" {
		return nil, domain.NewValidationError("employee code is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("employee name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid email: %s", email))
	}

	now := time.Now().UTC()
	return &Employee{
		id:             uuid.New(),
		employeeCode:   employeeCode,
		name:           name,
		email:          email,
		phone:          phone,
		department:     department,
		shift:          shift,
		pickupLocation: pickupLocation,
		status:         StatusActive,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds an Employee from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	employeeCode, name, email, phone, department, shift, pickupLocation string,
	status Status,
	version int64,
	createdAt, updatedAt time.Time,
) *Employee {
	return &Employee{
		id:             id,
		employeeCode:   employeeCode,
		name:           name,
		email:          email,
		phone:          phone,
		department:     department,
		shift:          shift,
		pickupLocation: pickupLocation,
		status:         status,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (e *Employee) ID() uuid.UUID          { return e.id }
func (e *Employee) EmployeeCode() string   { return e.employeeCode }
func (e *Employee) Name() string           { return e.name }
func (e *Employee) Email() string          { return e.email }
func (e *Employee) Phone() string          { return e.phone }
func (e *Employee) Department() string     { return e.department }
func (e *Employee) Shift() string          { return e.shift }
func (e *Employee) PickupLocation() string { return e.pickupLocation }
func (e *Employee) Status() Status         { return e.status }
func (e *Employee) Version() int64         { return e.version }
func (e *Employee) CreatedAt() time.Time   { return e.createdAt }
func (e *Employee) UpdatedAt() time.Time   { return e.updatedAt }

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Phone          *string `json:"phone"`
	Department     *string `json:"department"`
	Shift          *string `json:"shift"`
	PickupLocation *string `json:"pickup_location"`
	Status         *Status `json:"status"`
}

// IsEmpty returns true when the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Phone == nil && p.Department == nil && p.Shift == nil && p.PickupLocation == nil && p.Status == nil
}

// Apply validates and applies p.
func (e *Employee) Apply(p Patch) error {
	if p.IsEmpty() {
		return domain.NewValidationError("patch contains no changes")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid employee status: %s", *p.Status))
	}

	if p.Phone != nil {
		e.phone = *p.Phone
	}
	if p.Department != nil {
		e.department = *p.Department
	}
	if p.Shift != nil {
		e.shift = *p.Shift
	}
	if p.PickupLocation != nil {
		e.pickupLocation = *p.PickupLocation
	}
	if p.Status != nil {
		e.status = *p.Status
	}
	e.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (e *Employee) IncrementVersion() {
	e.version++
	e.updatedAt = time.Now().UTC()
}
