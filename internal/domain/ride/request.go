package ride

import (
	"time"

	"github.com/google/uuid"

	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// Request is an employee's request for a seat on a company ride.
type Request struct {
	id            uuid.UUID
	requestNumber string
	employeeName  string
	employeeCode  string
	pickup        string
	dropoff       string
	requestedFor  time.Time
	status        RequestStatus
	decisionNote  string
	cancelReason  string
	approvedAt    *time.Time
	completedAt   *time.Time
	cancelledAt   *time.Time
	version       int64
	createdAt     time.Time
	updatedAt     time.Time
}

// NewRequest creates a pending ride request.
func NewRequest(employeeName, employeeCode, pickup, dropoff string, requestedFor time.Time) (*Request, error) {
	if employeeName == "" {
		return nil, domain.NewValidationError("employee name is required")
	}
	if pickup == "" || dropoff == "" {
		return nil, domain.NewValidationError("pickup and dropoff are required")
	}
	if requestedFor.IsZero() {
		return nil, domain.NewValidationError("requested time is required")
	}

	number, err := domain.GenerateReference("RR")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Request{
		id:            uuid.New(),
		requestNumber: number,
		employeeName:  employeeName,
		employeeCode:  employeeCode,
		pickup:        pickup,
		dropoff:       dropoff,
		requestedFor:  requestedFor.UTC(),
		status:        StatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructRequest rebuilds a Request from persistence data (no validation).
func ReconstructRequest(
	id uuid.UUID,
	requestNumber, employeeName, employeeCode, pickup, dropoff string,
	requestedFor time.Time,
	status RequestStatus,
	decisionNote, cancelReason string,
	approvedAt, completedAt, cancelledAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Request {
	return &Request{
		id:            id,
		requestNumber: requestNumber,
		employeeName:  employeeName,
		employeeCode:  employeeCode,
		pickup:        pickup,
		dropoff:       dropoff,
		requestedFor:  requestedFor,
		status:        status,
		decisionNote:  decisionNote,
		cancelReason:  cancelReason,
		approvedAt:    approvedAt,
		completedAt:   completedAt,
		cancelledAt:   cancelledAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (r *Request) ID() uuid.UUID           { return r.id }
func (r *Request) RequestNumber() string   { return r.requestNumber }
func (r *Request) EmployeeName() string    { return r.employeeName }
func (r *Request) EmployeeCode() string    { return r.employeeCode }
func (r *Request) Pickup() string          { return r.pickup }
func (r *Request) Dropoff() string         { return r.dropoff }
func (r *Request) RequestedFor() time.Time { return r.requestedFor }
func (r *Request) Status() RequestStatus   { return r.status }
func (r *Request) DecisionNote() string    { return r.decisionNote }
func (r *Request) CancelReason() string    { return r.cancelReason }
func (r *Request) ApprovedAt() *time.Time  { return r.approvedAt }
func (r *Request) CompletedAt() *time.Time { return r.completedAt }
func (r *Request) CancelledAt() *time.Time { return r.cancelledAt }
func (r *Request) Version() int64          { return r.version }
func (r *Request) CreatedAt() time.Time    { return r.createdAt }
func (r *Request) UpdatedAt() time.Time    { return r.updatedAt }

// --- Behavior ---

// Approve moves a pending request to approved.
func (r *Request) Approve(note string) error {
	if err := r.transition(StatusApproved); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.decisionNote = note
	r.approvedAt = &now
	r.updatedAt = now
	return nil
}

// Reject moves a pending request to rejected. A reason is required.
func (r *Request) Reject(reason string) error {
	if reason == "" {
		return domain.NewValidationError("rejection reason is required")
	}
	if err := r.transition(StatusRejected); err != nil {
		return err
	}
	r.decisionNote = reason
	r.updatedAt = time.Now().UTC()
	return nil
}

// Complete marks an approved ride as done.
func (r *Request) Complete() error {
	if err := r.transition(StatusCompleted); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.completedAt = &now
	r.updatedAt = now
	return nil
}

// Cancel cancels a pending or approved request. A reason is required.
func (r *Request) Cancel(reason string) error {
	if reason == "" {
		return domain.NewValidationError("cancellation reason is required")
	}
	if err := r.transition(StatusCancelled); err != nil {
		return err
	}
	now := time.Now().UTC()
	r.cancelReason = reason
	r.cancelledAt = &now
	r.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Request) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}

func (r *Request) transition(target RequestStatus) error {
	if !r.status.CanTransitionTo(target) {
		return domain.NewInvalidStateError(string(r.status), string(target))
	}
	r.status = target
	return nil
}
