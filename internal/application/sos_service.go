package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// ResolveAlertRequest is the body of a resolve action.
type ResolveAlertRequest struct {
	Note string `json:"note"`
}

// SOSAlertDTO is the response representation of an SOS alert.
type SOSAlertDTO struct {
	ID             uuid.UUID  `json:"id"`
	AlertNumber    string     `json:"alert_number"`
	EmployeeName   string     `json:"employee_name,omitempty"`
	VehicleNumber  string     `json:"vehicle_number,omitempty"`
	DriverName     string     `json:"driver_name,omitempty"`
	Location       string     `json:"location"`
	Message        string     `json:"message,omitempty"`
	Priority       string     `json:"priority"`
	Status         string     `json:"status"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
	RaisedAt       time.Time  `json:"raised_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	Version        int64      `json:"version"`
}

// SOSService orchestrates the SOS Alerts page and panic-button intake.
type SOSService struct {
	repo   sosDomain.AlertRepository
	events *EventPublisher
	logger *zap.Logger
}

// NewSOSService creates a new SOSService.
func NewSOSService(repo sosDomain.AlertRepository, events *EventPublisher, logger *zap.Logger) *SOSService {
	return &SOSService{repo: repo, events: events, logger: logger}
}

// ListAlerts returns a page of alerts, newest first.
func (s *SOSService) ListAlerts(ctx context.Context, filter sosDomain.ListFilter, page, limit int) (*domain.PaginatedResult[SOSAlertDTO], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid alert status: %s", filter.Status))
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid priority: %s", filter.Priority))
	}

	alerts, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]SOSAlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toSOSAlertDTO(a)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetAlert returns a single alert.
func (s *SOSService) GetAlert(ctx context.Context, id uuid.UUID) (*SOSAlertDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toSOSAlertDTO(a)
	return &dto, nil
}

// RaiseAlert opens a new alert from a panic-button trigger.
func (s *SOSService) RaiseAlert(ctx context.Context, evt SOSTriggeredEvent) (*SOSAlertDTO, error) {
	a, err := sosDomain.Raise(sosDomain.RaiseParams{
		EmployeeName:  evt.EmployeeName,
		VehicleNumber: evt.VehicleNumber,
		DriverName:    evt.DriverName,
		Location:      evt.Location,
		Message:       evt.Message,
		Priority:      sosDomain.Priority(evt.Priority),
		RaisedAt:      evt.TriggeredAt,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save sos alert: %w", err)
	}

	s.logger.Warn("sos alert raised",
		zap.String("alert_id", a.ID().String()),
		zap.String("alert_number", a.AlertNumber()),
		zap.String("vehicle_number", a.VehicleNumber()),
		zap.String("priority", string(a.Priority())),
	)

	s.publish(ctx, EventSOSAlertRaised, a, "")

	dto := toSOSAlertDTO(a)
	return &dto, nil
}

// AcknowledgeAlert marks an open alert as seen by an operator.
func (s *SOSService) AcknowledgeAlert(ctx context.Context, id uuid.UUID, actor string) (*SOSAlertDTO, error) {
	return s.transition(ctx, id, actor, EventSOSAlertAcknowledged, func(a *sosDomain.Alert) error {
		return a.Acknowledge()
	})
}

// ResolveAlert closes an alert with a resolution note.
func (s *SOSService) ResolveAlert(ctx context.Context, id uuid.UUID, actor string, req ResolveAlertRequest) (*SOSAlertDTO, error) {
	return s.transition(ctx, id, actor, EventSOSAlertResolved, func(a *sosDomain.Alert) error {
		return a.Resolve(req.Note)
	})
}

func (s *SOSService) transition(
	ctx context.Context,
	id uuid.UUID,
	actor, eventType string,
	apply func(*sosDomain.Alert) error,
) (*SOSAlertDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(a); err != nil {
		return nil, err
	}
	a.IncrementVersion()

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("sos alert status changed",
		zap.String("alert_id", a.ID().String()),
		zap.String("status", string(a.Status())),
		zap.String("actor", actor),
	)

	s.publish(ctx, eventType, a, actor)

	dto := toSOSAlertDTO(a)
	return &dto, nil
}

func (s *SOSService) publish(ctx context.Context, eventType string, a *sosDomain.Alert, actor string) {
	s.events.publish(ctx, eventType, a.ID().String(), SOSAlertEvent{
		AlertID:       a.ID().String(),
		AlertNumber:   a.AlertNumber(),
		VehicleNumber: a.VehicleNumber(),
		Location:      a.Location(),
		Priority:      string(a.Priority()),
		Status:        string(a.Status()),
		Note:          a.ResolutionNote(),
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
	})
}

func toSOSAlertDTO(a *sosDomain.Alert) SOSAlertDTO {
	return SOSAlertDTO{
		ID:             a.ID(),
		AlertNumber:    a.AlertNumber(),
		EmployeeName:   a.EmployeeName(),
		VehicleNumber:  a.VehicleNumber(),
		DriverName:     a.DriverName(),
		Location:       a.Location(),
		Message:        a.Message(),
		Priority:       string(a.Priority()),
		Status:         string(a.Status()),
		ResolutionNote: a.ResolutionNote(),
		RaisedAt:       a.RaisedAt(),
		AcknowledgedAt: a.AcknowledgedAt(),
		ResolvedAt:     a.ResolvedAt(),
		Version:        a.Version(),
	}
}
