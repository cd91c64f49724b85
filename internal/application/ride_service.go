package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// RideActionRequest carries the optional note or required reason of a ride action.
type RideActionRequest struct {
	Note   string `json:"note"`
	Reason string `json:"reason"`
}

// RideRequestDTO is the response representation of a ride request.
type RideRequestDTO struct {
	ID            uuid.UUID  `json:"id"`
	RequestNumber string     `json:"request_number"`
	EmployeeName  string     `json:"employee_name"`
	EmployeeCode  string     `json:"employee_code,omitempty"`
	From          string     `json:"from"`
	To            string     `json:"to"`
	RequestedFor  time.Time  `json:"requested_for"`
	Status        string     `json:"status"`
	DecisionNote  string     `json:"decision_note,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	Version       int64      `json:"version"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// RideService orchestrates the Ride Requests and Cancellations pages.
type RideService struct {
	repo   rideDomain.RequestRepository
	events *EventPublisher
	logger *zap.Logger
}

// NewRideService creates a new RideService.
func NewRideService(repo rideDomain.RequestRepository, events *EventPublisher, logger *zap.Logger) *RideService {
	return &RideService{repo: repo, events: events, logger: logger}
}

// ListRequests returns a page of ride requests.
func (s *RideService) ListRequests(ctx context.Context, filter rideDomain.ListFilter, page, limit int) (*domain.PaginatedResult[RideRequestDTO], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid ride request status: %s", filter.Status))
	}

	requests, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]RideRequestDTO, len(requests))
	for i, r := range requests {
		dtos[i] = toRideRequestDTO(r)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ListCancellations returns a page of cancelled ride requests.
func (s *RideService) ListCancellations(ctx context.Context, page, limit int) (*domain.PaginatedResult[RideRequestDTO], error) {
	return s.ListRequests(ctx, rideDomain.ListFilter{Status: rideDomain.StatusCancelled}, page, limit)
}

// GetRequest returns a single ride request.
func (s *RideService) GetRequest(ctx context.Context, id uuid.UUID) (*RideRequestDTO, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toRideRequestDTO(r)
	return &dto, nil
}

// ApproveRequest approves a pending request.
func (s *RideService) ApproveRequest(ctx context.Context, id uuid.UUID, actor string, req RideActionRequest) (*RideRequestDTO, error) {
	return s.transition(ctx, id, actor, EventRideRequestApproved, req.Note, func(r *rideDomain.Request) error {
		return r.Approve(req.Note)
	})
}

// RejectRequest rejects a pending request with a reason.
func (s *RideService) RejectRequest(ctx context.Context, id uuid.UUID, actor string, req RideActionRequest) (*RideRequestDTO, error) {
	return s.transition(ctx, id, actor, EventRideRequestRejected, req.Reason, func(r *rideDomain.Request) error {
		return r.Reject(req.Reason)
	})
}

// CompleteRequest marks an approved ride as completed.
func (s *RideService) CompleteRequest(ctx context.Context, id uuid.UUID, actor string) (*RideRequestDTO, error) {
	return s.transition(ctx, id, actor, EventRideRequestCompleted, "", func(r *rideDomain.Request) error {
		return r.Complete()
	})
}

// CancelRequest cancels a pending or approved request with a reason.
func (s *RideService) CancelRequest(ctx context.Context, id uuid.UUID, actor string, req RideActionRequest) (*RideRequestDTO, error) {
	return s.transition(ctx, id, actor, EventRideRequestCancelled, req.Reason, func(r *rideDomain.Request) error {
		return r.Cancel(req.Reason)
	})
}

func (s *RideService) transition(
	ctx context.Context,
	id uuid.UUID,
	actor, eventType, note string,
	apply func(*rideDomain.Request) error,
) (*RideRequestDTO, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(r); err != nil {
		return nil, err
	}
	r.IncrementVersion()

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("ride request status changed",
		zap.String("request_id", r.ID().String()),
		zap.String("request_number", r.RequestNumber()),
		zap.String("status", string(r.Status())),
		zap.String("actor", actor),
	)

	s.events.publish(ctx, eventType, r.ID().String(), RideRequestEvent{
		RequestID:     r.ID().String(),
		RequestNumber: r.RequestNumber(),
		EmployeeName:  r.EmployeeName(),
		Status:        string(r.Status()),
		Note:          note,
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
	})

	dto := toRideRequestDTO(r)
	return &dto, nil
}

func toRideRequestDTO(r *rideDomain.Request) RideRequestDTO {
	return RideRequestDTO{
		ID:            r.ID(),
		RequestNumber: r.RequestNumber(),
		EmployeeName:  r.EmployeeName(),
		EmployeeCode:  r.EmployeeCode(),
		From:          r.Pickup(),
		To:            r.Dropoff(),
		RequestedFor:  r.RequestedFor(),
		Status:        string(r.Status()),
		DecisionNote:  r.DecisionNote(),
		CancelReason:  r.CancelReason(),
		ApprovedAt:    r.ApprovedAt(),
		CompletedAt:   r.CompletedAt(),
		CancelledAt:   r.CancelledAt(),
		Version:       r.Version(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
}
