package application

import (
	"go.uber.org/zap"

	routeDomain "github.com/FleetPro/service-dashboard/internal/domain/route"
)

// RouteDTO is the response representation of a route card.
type RouteDTO struct {
	ID             int    `json:"id"`
	From           string `json:"from"`
	To             string `json:"to"`
	DepartureTime  string `json:"departure_time"`
	Duration       string `json:"duration"`
	AvailableSeats int    `json:"available_seats"`
	TotalSeats     int    `json:"total_seats"`
	VehicleType    string `json:"vehicle_type"`
	VehicleIcon    string `json:"vehicle_icon"`
	VehicleNumber  string `json:"vehicle_number"`
	DriverName     string `json:"driver_name"`
	Status         string `json:"status"`
	Confidence     int    `json:"confidence"`
}

// RouteSearchDTO is the result of classifying and filtering one query.
type RouteSearchDTO struct {
	Query   string     `json:"query"`
	Tags    []string   `json:"tags"`
	Results []RouteDTO `json:"results"`
	Empty   bool       `json:"empty"`
}

// RouteService serves the read-only route catalog.
type RouteService struct {
	catalog *routeDomain.Catalog
	logger  *zap.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(catalog *routeDomain.Catalog, logger *zap.Logger) *RouteService {
	return &RouteService{catalog: catalog, logger: logger}
}

// ListRoutes returns every route in catalog order.
func (s *RouteService) ListRoutes() []RouteDTO {
	return toRouteDTOs(s.catalog.List())
}

// GetRoute returns a single route by ID.
func (s *RouteService) GetRoute(id int) (*RouteDTO, error) {
	r, err := s.catalog.Get(id)
	if err != nil {
		return nil, err
	}
	dto := toRouteDTO(r)
	return &dto, nil
}

// Search classifies query and filters the catalog synchronously.
func (s *RouteService) Search(query string) RouteSearchDTO {
	tags, records := s.catalog.Search(query)
	s.logger.Debug("route search",
		zap.String("query", query),
		zap.Int("tags", len(tags)),
		zap.Int("results", len(records)),
	)
	return RouteSearchDTO{
		Query:   query,
		Tags:    tagStrings(tags),
		Results: toRouteDTOs(records),
		Empty:   len(records) == 0,
	}
}

func toRouteDTO(r *routeDomain.Record) RouteDTO {
	return RouteDTO{
		ID:             r.ID(),
		From:           r.From(),
		To:             r.To(),
		DepartureTime:  r.DepartureTime(),
		Duration:       r.Duration(),
		AvailableSeats: r.AvailableSeats(),
		TotalSeats:     r.TotalSeats(),
		VehicleType:    r.VehicleType(),
		VehicleIcon:    string(r.VehicleIcon()),
		VehicleNumber:  r.VehicleNumber(),
		DriverName:     r.DriverName(),
		Status:         string(r.Status()),
		Confidence:     r.Confidence(),
	}
}

func toRouteDTOs(records []*routeDomain.Record) []RouteDTO {
	dtos := make([]RouteDTO, len(records))
	for i, r := range records {
		dtos[i] = toRouteDTO(r)
	}
	return dtos
}

func tagStrings(tags []routeDomain.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
