package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// EmployeeModel is the GORM model for the employees table.
type EmployeeModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeCode   string    `gorm:"uniqueIndex;not null;size:20"`
	Name           string    `gorm:"not null;size:120"`
	Email          string    `gorm:"uniqueIndex;not null;size:200"`
	Phone          string    `gorm:"size:30"`
	Department     string    `gorm:"size:80;index"`
	Shift          string    `gorm:"size:40"`
	PickupLocation string    `gorm:"size:200"`
	Status         string    `gorm:"not null;size:20;index"`
	Version        int64     `gorm:"not null;default:1"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (EmployeeModel) TableName() string { return "employees" }

// GormEmployeeRepository is the GORM-based implementation of EmployeeRepository.
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository.
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID retrieves an employee by its unique identifier.
func (r *GormEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*employeeDomain.Employee, error) {
	var model EmployeeModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Employee", id.String())
		}
		return nil, fmt.Errorf("failed to find employee by ID: %w", err)
	}
	return toDomainEmployee(&model), nil
}

// List retrieves employees ordered by employee code with pagination.
func (r *GormEmployeeRepository) List(ctx context.Context, filter employeeDomain.ListFilter, page, limit int) ([]*employeeDomain.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&EmployeeModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(employee_code) LIKE ? OR LOWER(department) LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	var models []EmployeeModel
	if err := query.
		Order("employee_code ASC").
		Offset(domain.Offset(page, limit)).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]*employeeDomain.Employee, len(models))
	for i := range models {
		employees[i] = toDomainEmployee(&models[i])
	}
	return employees, total, nil
}

// CountByStatus returns employee counts grouped by status.
func (r *GormEmployeeRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGroupedBy(ctx, r.db, &EmployeeModel{}, "status")
}

// Save persists a new employee.
func (r *GormEmployeeRepository) Save(ctx context.Context, e *employeeDomain.Employee) error {
	if err := r.db.WithContext(ctx).Create(toEmployeeModel(e)).Error; err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// Update persists changes to an existing employee with optimistic locking.
func (r *GormEmployeeRepository) Update(ctx context.Context, e *employeeDomain.Employee) error {
	model := toEmployeeModel(e)
	result := r.db.WithContext(ctx).
		Model(&EmployeeModel{}).
		Where("id = ? AND version = ?", model.ID, e.Version()-1).
		Updates(map[string]interface{}{
			"phone":           model.Phone,
			"department":      model.Department,
			"shift":           model.Shift,
			"pickup_location": model.PickupLocation,
			"status":          model.Status,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("employee was modified by another transaction")
	}
	return nil
}

// --- Conversion Helpers ---

func toEmployeeModel(e *employeeDomain.Employee) *EmployeeModel {
	return &EmployeeModel{
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

func toDomainEmployee(m *EmployeeModel) *employeeDomain.Employee {
	return employeeDomain.Reconstruct(
		m.ID,
		m.EmployeeCode, m.Name, m.Email, m.Phone, m.Department, m.Shift, m.PickupLocation,
		employeeDomain.Status(m.Status),
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

// countGroupedBy runs SELECT column, count(*) ... GROUP BY column.
func countGroupedBy(ctx context.Context, db *gorm.DB, model interface{}, column string) (map[string]int64, error) {
	type groupCount struct {
		Grp   string
		Total int64
	}
	var results []groupCount
	if err := db.WithContext(ctx).Model(model).
		Select(column + " AS grp, count(*) AS total").
		Group(column).
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(results))
	for _, gc := range results {
		counts[gc.Grp] = gc.Total
	}
	return counts, nil
}
