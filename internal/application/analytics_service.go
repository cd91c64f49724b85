package application

import (
	"context"
	"math"

	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	rideDomain "github.com/FleetPro/service-dashboard/internal/domain/ride"
	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
	sosDomain "github.com/FleetPro/service-dashboard/internal/domain/sos"
)

// OverviewStatsDTO holds the figures behind the Analytics page widgets.
type OverviewStatsDTO struct {
	Employees        map[string]int64 `json:"employees"`
	TotalEmployees   int64            `json:"total_employees"`
	RideRequests     map[string]int64 `json:"ride_requests"`
	TotalRides       int64            `json:"total_ride_requests"`
	CancellationRate float64          `json:"cancellation_rate"`
	SOSByStatus      map[string]int64 `json:"sos_by_status"`
	SOSByPriority    map[string]int64 `json:"sos_by_priority"`
	OpenSOSAlerts    int64            `json:"open_sos_alerts"`
	ActiveRoutes     int              `json:"active_routes"`
	SeatUtilization  float64          `json:"seat_utilization"`
}

// AnalyticsService reduces repository contents to dashboard statistics.
type AnalyticsService struct {
	catalog   *routeDomain.Catalog
	employees employeeDomain.EmployeeRepository
	rides     rideDomain.RequestRepository
	alerts    sosDomain.AlertRepository
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(
	catalog *routeDomain.Catalog,
	employees employeeDomain.EmployeeRepository,
	rides rideDomain.RequestRepository,
	alerts sosDomain.AlertRepository,
) *AnalyticsService {
	return &AnalyticsService{catalog: catalog, employees: employees, rides: rides, alerts: alerts}
}

// Overview computes the current statistics.
func (s *AnalyticsService) Overview(ctx context.Context) (*OverviewStatsDTO, error) {
	employees, err := s.employees.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	rides, err := s.rides.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.alerts.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.alerts.CountByPriority(ctx)
	if err != nil {
		return nil, err
	}

	totalRides := sum(rides)
	stats := &OverviewStatsDTO{
		Employees:      employees,
		TotalEmployees: sum(employees),
		RideRequests:   rides,
		TotalRides:     totalRides,
		SOSByStatus:    byStatus,
		SOSByPriority:  byPriority,
		OpenSOSAlerts:  byStatus[string(sosDomain.StatusOpen)],
	}
	if totalRides > 0 {
		stats.CancellationRate = round2(float64(rides[string(rideDomain.StatusCancelled)]) / float64(totalRides))
	}

	var seats, occupied int
	for _, r := range s.catalog.List() {
		if r.Status() == routeDomain.StatusActive {
			stats.ActiveRoutes++
		}
		seats += r.TotalSeats()
		occupied += r.TotalSeats() - r.AvailableSeats()
	}
	if seats > 0 {
		stats.SeatUtilization = round2(float64(occupied) / float64(seats))
	}

	return stats, nil
}

func sum(counts map[string]int64) int64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	return total
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
