package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
	"github.com/FleetPro/service-dashboard/internal/platform/domain"
)

// The memory repositories keep the same GORM models the SQL repositories
// persist, so an aggregate handed out by FindByID is always a fresh copy and
// in-flight mutations never leak into storage before Update.

// memoryTable is a mutex-guarded map of row snapshots keyed by ID.
type memoryTable[M any] struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]M
}

func newMemoryTable[M any]() *memoryTable[M] {
	return &memoryTable[M]{rows: make(map[uuid.UUID]M)}
}

// snapshot returns all rows matching keep.
func (t *memoryTable[M]) snapshot(keep func(M) bool) []M {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]M, 0, len(t.rows))
	for _, row := range t.rows {
		if keep == nil || keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func countBy[M any](rows []M, key func(M) string) map[string]int64 {
	counts := make(map[string]int64)
	for _, row := range rows {
		counts[key(row)]++
	}
	return counts
}

func pageOf[M any](rows []M, page, limit int) []M {
	offset := domain.Offset(page, limit)
	if offset >= len(rows) {
		return []M{}
	}
	end := offset + limit
	if limit <= 0 || end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// --- Employees ---

// MemoryEmployeeRepository is an in-memory EmployeeRepository.
type MemoryEmployeeRepository struct {
	table *memoryTable[EmployeeModel]
}

// NewMemoryEmployeeRepository creates an empty in-memory employee repository.
func NewMemoryEmployeeRepository() *MemoryEmployeeRepository {
	return &MemoryEmployeeRepository{table: newMemoryTable[EmployeeModel]()}
}

// FindByID retrieves an employee by its unique identifier.
func (r *MemoryEmployeeRepository) FindByID(_ context.Context, id uuid.UUID) (*employeeDomain.Employee, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	model, ok := r.table.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("Employee", id.String())
	}
	return toDomainEmployee(&model), nil
}

// List retrieves employees ordered by employee code with pagination.
func (r *MemoryEmployeeRepository) List(_ context.Context, filter employeeDomain.ListFilter, page, limit int) ([]*employeeDomain.Employee, int64, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	rows := r.table.snapshot(func(m EmployeeModel) bool {
		if filter.Status != "" && m.Status != string(filter.Status) {
			return false
		}
		if search == "" {
			return true
		}
		for _, field := range []string{m.Name, m.Email, m.EmployeeCode, m.Department} {
			if strings.Contains(strings.ToLower(field), search) {
				return true
			}
		}
		return false
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].EmployeeCode < rows[j].EmployeeCode })

	paged := pageOf(rows, page, limit)
	employees := make([]*employeeDomain.Employee, len(paged))
	for i := range paged {
		employees[i] = toDomainEmployee(&paged[i])
	}
	return employees, int64(len(rows)), nil
}

// CountByStatus returns employee counts grouped by status.
func (r *MemoryEmployeeRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	return countBy(r.table.snapshot(nil), func(m EmployeeModel) string { return m.Status }), nil
}

// Save persists a new employee. Employee code and email are unique.
func (r *MemoryEmployeeRepository) Save(_ context.Context, e *employeeDomain.Employee) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	model := toEmployeeModel(e)
	if _, exists := r.table.rows[model.ID]; exists {
		return domain.NewConflictError("employee already exists")
	}
	for _, row := range r.table.rows {
		if row.EmployeeCode == model.EmployeeCode || strings.EqualFold(row.Email, model.Email) {
			return domain.NewConflictError("employee code or email already in use")
		}
	}
	r.table.rows[model.ID] = *model
	return nil
}

// Update persists changes to an existing employee with optimistic locking.
func (r *MemoryEmployeeRepository) Update(_ context.Context, e *employeeDomain.Employee) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	current, ok := r.table.rows[e.ID()]
	if !ok || current.Version != e.Version()-1 {
		return domain.NewConflictError("employee was modified by another transaction")
	}
	r.table.rows[e.ID()] = *toEmployeeModel(e)
	return nil
}

// --- Ride requests ---

// MemoryRideRequestRepository is an in-memory RequestRepository.
type MemoryRideRequestRepository struct {
	table *memoryTable[RideRequestModel]
}

// NewMemoryRideRequestRepository creates an empty in-memory ride request repository.
func NewMemoryRideRequestRepository() *MemoryRideRequestRepository {
	return &MemoryRideRequestRepository{table: newMemoryTable[RideRequestModel]()}
}

// FindByID retrieves a ride request by its unique identifier.
func (r *MemoryRideRequestRepository) FindByID(_ context.Context, id uuid.UUID) (*rideDomain.Request, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	model, ok := r.table.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("RideRequest", id.String())
	}
	return toDomainRideRequest(&model), nil
}

// List retrieves ride requests, latest requested time first.
func (r *MemoryRideRequestRepository) List(_ context.Context, filter rideDomain.ListFilter, page, limit int) ([]*rideDomain.Request, int64, error) {
	rows := r.table.snapshot(func(m RideRequestModel) bool {
		return filter.Status == "" || m.Status == string(filter.Status)
	})
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].RequestedFor.Equal(rows[j].RequestedFor) {
			return rows[i].RequestedFor.After(rows[j].RequestedFor)
		}
		return rows[i].RequestNumber < rows[j].RequestNumber
	})

	paged := pageOf(rows, page, limit)
	requests := make([]*rideDomain.Request, len(paged))
	for i := range paged {
		requests[i] = toDomainRideRequest(&paged[i])
	}
	return requests, int64(len(rows)), nil
}

// CountByStatus returns ride request counts grouped by status.
func (r *MemoryRideRequestRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	return countBy(r.table.snapshot(nil), func(m RideRequestModel) string { return m.Status }), nil
}

// Save persists a new ride request.
func (r *MemoryRideRequestRepository) Save(_ context.Context, req *rideDomain.Request) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if _, exists := r.table.rows[req.ID()]; exists {
		return domain.NewConflictError("ride request already exists")
	}
	r.table.rows[req.ID()] = *toRideRequestModel(req)
	return nil
}

// Update persists a status transition with optimistic locking.
func (r *MemoryRideRequestRepository) Update(_ context.Context, req *rideDomain.Request) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	current, ok := r.table.rows[req.ID()]
	if !ok || current.Version != req.Version()-1 {
		return domain.NewConflictError("ride request was modified by another transaction")
	}
	r.table.rows[req.ID()] = *toRideRequestModel(req)
	return nil
}

// --- SOS alerts ---

// MemorySOSAlertRepository is an in-memory AlertRepository.
type MemorySOSAlertRepository struct {
	table *memoryTable[SOSAlertModel]
}

// NewMemorySOSAlertRepository creates an empty in-memory SOS alert repository.
func NewMemorySOSAlertRepository() *MemorySOSAlertRepository {
	return &MemorySOSAlertRepository{table: newMemoryTable[SOSAlertModel]()}
}

// FindByID retrieves an SOS alert by its unique identifier.
func (r *MemorySOSAlertRepository) FindByID(_ context.Context, id uuid.UUID) (*sosDomain.Alert, error) {
	r.table.mu.RLock()
	defer r.table.mu.RUnlock()

	model, ok := r.table.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("SOSAlert", id.String())
	}
	return toDomainSOSAlert(&model), nil
}

// List retrieves SOS alerts newest first.
func (r *MemorySOSAlertRepository) List(_ context.Context, filter sosDomain.ListFilter, page, limit int) ([]*sosDomain.Alert, int64, error) {
	rows := r.table.snapshot(func(m SOSAlertModel) bool {
		if filter.Status != "" && m.Status != string(filter.Status) {
			return false
		}
		return filter.Priority == "" || m.Priority == string(filter.Priority)
	})
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].RaisedAt.Equal(rows[j].RaisedAt) {
			return rows[i].RaisedAt.After(rows[j].RaisedAt)
		}
		return rows[i].AlertNumber < rows[j].AlertNumber
	})

	paged := pageOf(rows, page, limit)
	alerts := make([]*sosDomain.Alert, len(paged))
	for i := range paged {
		alerts[i] = toDomainSOSAlert(&paged[i])
	}
	return alerts, int64(len(rows)), nil
}

// CountByStatus returns alert counts grouped by status.
func (r *MemorySOSAlertRepository) CountByStatus(_ context.Context) (map[string]int64, error) {
	return countBy(r.table.snapshot(nil), func(m SOSAlertModel) string { return m.Status }), nil
}

// CountByPriority returns alert counts grouped by priority.
func (r *MemorySOSAlertRepository) CountByPriority(_ context.Context) (map[string]int64, error) {
	return countBy(r.table.snapshot(nil), func(m SOSAlertModel) string { return m.Priority }), nil
}

// Save persists a new SOS alert.
func (r *MemorySOSAlertRepository) Save(_ context.Context, a *sosDomain.Alert) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	if _, exists := r.table.rows[a.ID()]; exists {
		return domain.NewConflictError("sos alert already exists")
	}
	r.table.rows[a.ID()] = *toSOSAlertModel(a)
	return nil
}

// Update persists a status transition with optimistic locking.
func (r *MemorySOSAlertRepository) Update(_ context.Context, a *sosDomain.Alert) error {
	r.table.mu.Lock()
	defer r.table.mu.Unlock()

	current, ok := r.table.rows[a.ID()]
	if !ok || current.Version != a.Version()-1 {
		return domain.NewConflictError("sos alert was modified by another transaction")
	}
	r.table.rows[a.ID()] = *toSOSAlertModel(a)
	return nil
}
