package handlers

import (
	"strconv"

	"ninawa-bookdesk/internal/core/services"
	"ninawa-bookdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles admin dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview returns the admin dashboard summary
// @Summary Dashboard overview
// @Description Record counts, presence and outstanding balances
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.dashboardService.GetOverview(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to build dashboard overview")
	}

	return response.Success(c, "Dashboard overview retrieved successfully", overview)
}

// RecentActivity returns recent settlement entries
// @Summary Recent activity
// @Description Latest payments recorded against offices and sources
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries per ledger (default 10)"
// @Success 200 {object} response.Response
// @Router /dashboard/activity [get]
func (h *DashboardHandler) RecentActivity(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	activity, err := h.dashboardService.GetRecentActivity(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to load recent activity")
	}

	return response.Success(c, "Recent activity retrieved successfully", activity)
}
