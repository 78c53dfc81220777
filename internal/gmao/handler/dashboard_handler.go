package handler

import (
	"strconv"

	"github.com/electromaint/gmao/internal/gmao/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardHandler routes du tableau de bord
type DashboardHandler struct {
	dashboardSvc *service.DashboardService
	logger       *zap.Logger
}

func NewDashboardHandler(dashboardSvc *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc, logger: logger}
}

// Statistics GET /dashboard/statistics
func (h *DashboardHandler) Statistics(c *gin.Context) {
	stats, err := h.dashboardSvc.Statistics(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, stats)
}

// UrgentInterventions GET /dashboard/urgent-interventions
func (h *DashboardHandler) UrgentInterventions(c *gin.Context) {
	items, err := h.dashboardSvc.UrgentInterventions(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// UpcomingMaintenance GET /dashboard/upcoming-maintenance
func (h *DashboardHandler) UpcomingMaintenance(c *gin.Context) {
	items, err := h.dashboardSvc.UpcomingMaintenance(c.Request.Context())
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}

// RecentActivities GET /dashboard/recent-activities
func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	limite, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	items, err := h.dashboardSvc.RecentActivities(c.Request.Context(), limite)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}
	Success(c, items)
}
