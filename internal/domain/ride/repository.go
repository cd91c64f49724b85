package ride

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a ride request listing. An empty Status matches all.
type ListFilter struct {
	Status RequestStatus
}

// RequestRepository defines the persistence contract for ride requests.
type RequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Request, int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Save(ctx context.Context, r *Request) error
	Update(ctx context.Context, r *Request) error
}
