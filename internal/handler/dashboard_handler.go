package handler

import (
	"net/http"
	"time"

	"iotadmin-service/internal/store"
	"iotadmin-service/pkg/logger"
	"iotadmin-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardHandler serves the aggregate count endpoint
type DashboardHandler struct {
	stats store.StatsStore
}

// NewDashboardHandler creates a DashboardHandler with its store injected
func NewDashboardHandler(stats store.StatsStore) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// GetStats reports tenant and device counts for the dashboard
func (dh *DashboardHandler) GetStats(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("query")(time.Now())

	stats, err := dh.stats.DashboardStats(c.Request().Context())
	if err != nil {
		log.Error("Failed to compute dashboard stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "Failed to compute dashboard stats",
		})
	}

	prometheus.UpdateFleetGauges(
		stats.TotalTenants,
		stats.ActiveTenants,
		stats.TotalDevices,
		stats.OnlineDevices,
	)

	log.Info("Dashboard stats computed",
		zap.Int64("total_tenants", stats.TotalTenants),
		zap.Int64("active_tenants", stats.ActiveTenants),
		zap.Int64("total_devices", stats.TotalDevices),
		zap.Int64("online_devices", stats.OnlineDevices))
	return c.JSON(http.StatusOK, stats)
}
