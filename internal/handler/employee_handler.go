package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/FleetPro/service-dashboard/internal/application"
	employeeDomain "github.com/FleetPro/service-dashboard/internal/domain/employee"
	"github.com/FleetPro/service-dashboard/internal/platform/middleware"
	"github.com/FleetPro/service-dashboard/internal/platform/response"
)

// EmployeeHandler handles the Employees page.
type EmployeeHandler struct {
	service *application.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler.
func NewEmployeeHandler(service *application.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// RegisterRoutes registers the employee routes.
func (h *EmployeeHandler) RegisterRoutes(r *gin.RouterGroup, authenticator middleware.Authenticator) {
	employees := r.Group("/api/v1/employees")
	employees.Use(middleware.AuthMiddleware(authenticator))
	{
		employees.GET("", h.ListEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.PATCH("/:id", h.UpdateEmployee)
	}
}

// ListEmployees handles GET /api/v1/employees[?status=&q=].
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := employeeDomain.ListFilter{
		Status: employeeDomain.Status(c.Query("status")),
		Search: c.Query("q"),
	}

	result, err := h.service.ListEmployees(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetEmployee handles GET /api/v1/employees/:id.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c, "employee")
	if !ok {
		return
	}

	result, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateEmployee handles PATCH /api/v1/employees/:id.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c, "employee")
	if !ok {
		return
	}

	var patch employeeDomain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.UpdateEmployee(c.Request.Context(), id, patch, actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
