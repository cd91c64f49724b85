package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// EmployeeDTO is the response representation of an employee.
type EmployeeDTO struct {
	ID             uuid.UUID `json:"id"`
	EmployeeCode   string    `json:"employee_code"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Department     string    `json:"department"`
	Shift          string    `json:"shift"`
	PickupLocation string    `json:"pickup_location"`
	Status         string    `json:"status"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EmployeeService orchestrates the Employees page use cases.
type EmployeeService struct {
	repo   employeeDomain.EmployeeRepository
	events *EventPublisher
	logger *zap.Logger
}

// NewEmployeeService creates a new EmployeeService.
func NewEmployeeService(repo employeeDomain.EmployeeRepository, events *EventPublisher, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, events: events, logger: logger}
}

// ListEmployees returns a page of employees.
func (s *EmployeeService) ListEmployees(ctx context.Context, filter employeeDomain.ListFilter, page, limit int) (*domain.PaginatedResult[EmployeeDTO], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid employee status: %s", filter.Status))
	}

	employees, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// GetEmployee returns a single employee.
func (s *EmployeeService) GetEmployee(ctx context.Context, id uuid.UUID) (*EmployeeDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toEmployeeDTO(e)
	return &dto, nil
}

// UpdateEmployee applies patch and publishes employee.updated.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uuid.UUID, patch employeeDomain.Patch, actor string) (*EmployeeDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := e.Apply(patch); err != nil {
		return nil, err
	}
	e.IncrementVersion()

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("employee updated",
		zap.String("employee_id", e.ID().String()),
		zap.String("employee_code", e.EmployeeCode()),
		zap.String("actor", actor),
	)

	s.events.publish(ctx, EventEmployeeUpdated, e.ID().String(), EmployeeUpdatedEvent{
		EmployeeID:    e.ID().String(),
		EmployeeCode:  e.EmployeeCode(),
		ChangedFields: changedFields(patch),
		Status:        string(e.Status()),
		Actor:         actor,
		OccurredAt:    time.Now().UTC(),
	})

	dto := toEmployeeDTO(e)
	return &dto, nil
}

func changedFields(p employeeDomain.Patch) []string {
	var fields []string
	if p.Phone != nil {
		fields = append(fields, "phone")
	}
	if p.Department != nil {
		fields = append(fields, "department")
	}
	if p.Shift != nil {
		fields = append(fields, "shift")
	}
	if p.PickupLocation != nil {
		fields = append(fields, "pickup_location")
	}
	if p.Status != nil {
		fields = append(fields, "status")
	}
	return fields
}

func toEmployeeDTO(e *employeeDomain.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:             e.ID(),
		EmployeeCode:   e.EmployeeCode(),
		Name:           e.Name(),
		Email:          e.Email(),
		Phone:          e.Phone(),
		Department:     e.Department(),
		Shift:          e.Shift(),
		PickupLocation: e.PickupLocation(),
		Status:         string(e.Status()),
		Version:        e.Version(),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}
