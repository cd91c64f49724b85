package employee

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows an employee listing. Zero values match everything.
type ListFilter struct {
	Status Status
	// Search matches name, email, employee code or department, case-insensitively.
	Search string
}

// EmployeeRepository defines the persistence contract for employees.
type EmployeeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Employee, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, e *Employee) error
	// Update persists changes with optimistic locking on Version()-1.
	Update(ctx context.Context, e *Employee) error
}
