package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// SOSAlertModel is the GORM model for the sos_alerts table.
type SOSAlertModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	AlertNumber    string    `gorm:"uniqueIndex;not null;size:20"`
	EmployeeName   string    `gorm:"not null;size:120"`
	VehicleNumber  string    `gorm:"size:20"`
	DriverName     string    `gorm:"size:120"`
	Location       string    `gorm:"not null;size:200"`
	Message        string    `gorm:"type:text"`
	Priority       string    `gorm:"not null;size:10;index"`
	Status         string    `gorm:"not null;size:20;index"`
	ResolutionNote string    `gorm:"type:text"`
	RaisedAt       time.Time `gorm:"not null;index"`
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
	Version        int64     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (SOSAlertModel) TableName() string { return "sos_alerts" }

// GormSOSAlertRepository is the GORM-based implementation of AlertRepository.
type GormSOSAlertRepository struct {
	db *gorm.DB
}

// NewGormSOSAlertRepository creates a new GormSOSAlertRepository.
func NewGormSOSAlertRepository(db *gorm.DB) *GormSOSAlertRepository {
	return &GormSOSAlertRepository{db: db}
}

// FindByID retrieves an SOS alert by its unique identifier.
func (r *GormSOSAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*sosDomain.Alert, error) {
	var model SOSAlertModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("SOSAlert", id.String())
		}
		return nil, fmt.Errorf("failed to find sos alert by ID: %w", err)
	}
	return toDomainSOSAlert(&model), nil
}

// List retrieves SOS alerts newest first.
func (r *GormSOSAlertRepository) List(ctx context.Context, filter sosDomain.ListFilter, page, limit int) ([]*sosDomain.Alert, int64, error) {
	query := r.db.WithContext(ctx).Model(&SOSAlertModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", string(filter.Priority))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sos alerts: %w", err)
	}

	var models []SOSAlertModel
	if err := query.
		Order("raised_at DESC, alert_number ASC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sos alerts: %w", err)
	}

	alerts := make([]*sosDomain.Alert, len(models))
	for i := range models {
		alerts[i] = toDomainSOSAlert(&models[i])
	}
	return alerts, total, nil
}

// CountByStatus returns alert counts grouped by status.
func (r *GormSOSAlertRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGroupedBy(ctx, r.db, &SOSAlertModel{}, "status")
}

// CountByPriority returns alert counts grouped by priority.
func (r *GormSOSAlertRepository) CountByPriority(ctx context.Context) (map[string]int64, error) {
	return countGroupedBy(ctx, r.db, &SOSAlertModel{}, "priority")
}

// Save persists a new SOS alert.
func (r *GormSOSAlertRepository) Save(ctx context.Context, a *sosDomain.Alert) error {
	if err := r.db.WithContext(ctx).Create(toSOSAlertModel(a)).Error; err != nil {
		return fmt.Errorf("failed to save sos alert: %w", err)
	}
	return nil
}

// Update persists a status transition with optimistic locking.
func (r *GormSOSAlertRepository) Update(ctx context.Context, a *sosDomain.Alert) error {
	model := toSOSAlertModel(a)
	result := r.db.WithContext(ctx).
		Model(&SOSAlertModel{}).
		Where("id = ? AND version = ?", model.ID, a.Version()-1).
		Updates(map[string]interface{}{
			"status":          model.Status,
			"resolution_note": model.ResolutionNote,
			"acknowledged_at": model.AcknowledgedAt,
			"resolved_at":     model.ResolvedAt,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update sos alert: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("sos alert was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toSOSAlertModel(a *sosDomain.Alert) *SOSAlertModel {
	return &SOSAlertModel{
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
		CreatedAt:      a.CreatedAt(),
		UpdatedAt:      a.UpdatedAt(),
	}
}

func toDomainSOSAlert(m *SOSAlertModel) *sosDomain.Alert {
	return sosDomain.Reconstruct(
		m.ID,
		m.AlertNumber, m.EmployeeName, m.VehicleNumber, m.DriverName, m.Location, m.Message,
		sosDomain.Priority(m.Priority),
		sosDomain.AlertStatus(m.Status),
		m.ResolutionNote,
		m.RaisedAt,
		m.AcknowledgedAt, m.ResolvedAt,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}
