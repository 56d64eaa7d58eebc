package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/edupath/internal/app/models/dto"
	"github.com/yigit/edupath/internal/app/services"
	"github.com/yigit/edupath/internal/middleware"
)

// AnalyticsController serves the admin dashboard
type AnalyticsController struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(analyticsService *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// Dashboard returns the aggregated figures
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Router /admin/analytics [get]
func (c *AnalyticsController) Dashboard(ctx *gin.Context) {
	resp, err := c.analyticsService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
