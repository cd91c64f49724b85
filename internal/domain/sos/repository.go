package sos

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows an alert listing. Zero values match everything.
type ListFilter struct {
	Status   AlertStatus
	Priority Priority
}

// AlertRepository defines the persistence contract for SOS alerts.
type AlertRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	// List returns alerts newest first.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Alert, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPriority(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, a *Alert) error
	Update(ctx context.Context, a *Alert) error
}
