package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/service"
)

// DashboardHandler handles spending summary HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// CategoryTotalResponse represents one category aggregate in API responses
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int64  `json:"count"`
}

// OverallTotalResponse represents the overall aggregate in API responses
type OverallTotalResponse struct {
	Total string `json:"total"`
	Count int64  `json:"count"`
}

// DashboardResponse represents the spending summary API response
type DashboardResponse struct {
	CategoryBreakdown []CategoryTotalResponse `json:"categoryBreakdown"`
	Overall           OverallTotalResponse    `json:"overall"`
}

// GetDashboard godoc
// @Summary Get spending summary
// @Description Per-category totals ordered by descending total, plus the
// @Description overall total for one owner
// @Tags expenses
// @Accept json
// @Produce json
// @Param userId query string false "Owner identifier"
// @Success 200 {object} DashboardResponse
// @Router /expenses/dashboard [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	var userID *string
	if v := c.QueryParam("userId"); v != "" {
		userID = &v
	}

	summary, err := h.dashboardService.GetSummary(userID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	breakdown := make([]CategoryTotalResponse, len(summary.CategoryBreakdown))
	for i, ct := range summary.CategoryBreakdown {
		breakdown[i] = CategoryTotalResponse{
			Category: string(ct.Category),
			Total:    ct.Total.StringFixed(2),
			Count:    ct.Count,
		}
	}

	return c.JSON(http.StatusOK, DashboardResponse{
		CategoryBreakdown: breakdown,
		Overall: OverallTotalResponse{
			Total: summary.Overall.Total.StringFixed(2),
			Count: summary.Overall.Count,
		},
	})
}
