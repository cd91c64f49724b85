package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// RideRequestModel is the GORM model for the ride_requests table.
type RideRequestModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestNumber string    `gorm:"uniqueIndex;not null;size:20"`
	EmployeeName  string    `gorm:"not null;size:120"`
	EmployeeCode  string    `gorm:"size:20;index"`
	Pickup        string    `gorm:"not null;size:200"`
	Dropoff       string    `gorm:"not null;size:200"`
	RequestedFor  time.Time `gorm:"not null;index"`
	Status        string    `gorm:"not null;size:20;index"`
	DecisionNote  string    `gorm:"type:text"`
	CancelReason  string    `gorm:"type:text"`
	ApprovedAt    *time.Time
	CompletedAt   *time.Time
	CancelledAt   *time.Time
	Version       int64     `gorm:"not null;default:1"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RideRequestModel) TableName() string { return "ride_requests" }

// GormRideRequestRepository is the GORM-based implementation of RequestRepository.
type GormRideRequestRepository struct {
	db *gorm.DB
}

// NewGormRideRequestRepository creates a new GormRideRequestRepository.
func NewGormRideRequestRepository(db *gorm.DB) *GormRideRequestRepository {
	return &GormRideRequestRepository{db: db}
}

// FindByID retrieves a ride request by its unique identifier.
func (r *GormRideRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*rideDomain.Request, error) {
	var model RideRequestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("RideRequest", id.String())
		}
		return nil, fmt.Errorf("failed to find ride request by ID: %w", err)
	}
	return toDomainRideRequest(&model), nil
}

// List retrieves ride requests, latest requested time first.
func (r *GormRideRequestRepository) List(ctx context.Context, filter rideDomain.ListFilter, page, limit int) ([]*rideDomain.Request, int64, error) {
	query := r.db.WithContext(ctx).Model(&RideRequestModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count ride requests: %w", err)
	}

	var models []RideRequestModel
	if err := query.
		Order("requested_for DESC, request_number ASC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list ride requests: %w", err)
	}

	requests := make([]*rideDomain.Request, len(models))
	for i := range models {
		requests[i] = toDomainRideRequest(&models[i])
	}
	return requests, total, nil
}

// CountByStatus returns ride request counts grouped by status.
func (r *GormRideRequestRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGroupedBy(ctx, r.db, &RideRequestModel{}, "status")
}

// Save persists a new ride request.
func (r *GormRideRequestRepository) Save(ctx context.Context, req *rideDomain.Request) error {
	if err := r.db.WithContext(ctx).Create(toRideRequestModel(req)).Error; err != nil {
		return fmt.Errorf("failed to save ride request: %w", err)
	}
	return nil
}

// Update persists a status transition with optimistic locking.
func (r *GormRideRequestRepository) Update(ctx context.Context, req *rideDomain.Request) error {
	model := toRideRequestModel(req)
	result := r.db.WithContext(ctx).
		Model(&RideRequestModel{}).
		Where("id = ? AND version = ?", model.ID, req.Version()-1).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"decision_note": model.DecisionNote,
			"cancel_reason": model.CancelReason,
			"approved_at":   model.ApprovedAt,
			"completed_at":  model.CompletedAt,
			"cancelled_at":  model.CancelledAt,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update ride request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("ride request was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toRideRequestModel(r *rideDomain.Request) *RideRequestModel {
	return &RideRequestModel{
		ID:            r.ID(),
		RequestNumber: r.RequestNumber(),
		EmployeeName:  r.EmployeeName(),
		EmployeeCode:  r.EmployeeCode(),
		Pickup:        r.Pickup(),
		Dropoff:       r.Dropoff(),
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

func toDomainRideRequest(m *RideRequestModel) *rideDomain.Request {
	return rideDomain.ReconstructRequest(
		m.ID,
		m.RequestNumber, m.EmployeeName, m.EmployeeCode, m.Pickup, m.Dropoff,
		m.RequestedFor,
		rideDomain.RequestStatus(m.Status),
		m.DecisionNote, m.CancelReason,
		m.ApprovedAt, m.CompletedAt, m.CancelledAt,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
