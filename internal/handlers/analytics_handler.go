package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
	exportService    *services.ExportService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService, exportService *services.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService, exportService: exportService}
}

func analyticsFiltersFromRequest(c *gin.Context) services.AnalyticsFilters {
	var filters services.AnalyticsFilters
	if storeID, err := strconv.ParseUint(c.Query("store_id"), 10, 32); err == nil {
		id := uint(storeID)
		filters.StoreID = &id
	}
	if start, err := time.Parse("2006-01-02", c.Query("start_date")); err == nil {
		filters.StartDate = &start
	}
	if end, err := time.Parse("2006-01-02", c.Query("end_date")); err == nil {
		filters.EndDate = &end
	}
	return filters
}

// @Summary Analytics Overview
// @Description Get revenue, booking counts and fleet utilization headline metrics
// @Tags Analytics
// @Produce json
// @Param store_id query int false "Filter by store"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} models.AnalyticsOverview
// @Security BearerAuth
// @Router /analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.GetOverview(c.Request.Context(), analyticsFiltersFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overview": overview})
}

// @Summary Monthly Revenue
// @Description Get completed-booking revenue per month
// @Tags Analytics
// @Produce json
// @Param months query int false "Trailing months" default(12)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /analytics/monthly-revenue [get]
func (h *AnalyticsHandler) MonthlyRevenue(c *gin.Context) {
	months, _ := strconv.Atoi(c.DefaultQuery("months", "12"))
	points, err := h.analyticsService.GetMonthlyRevenue(c.Request.Context(), analyticsFiltersFromRequest(c), months)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"monthly_revenue": points})
}

// @Summary Fleet Distribution
// @Description Get vehicle counts per status
// @Tags Analytics
// @Produce json
// @Param store_id query int false "Filter by store"
// @Success 200 {object} models.FleetDistribution
// @Security BearerAuth
// @Router /analytics/fleet-distribution [get]
func (h *AnalyticsHandler) FleetDistribution(c *gin.Context) {
	filters := analyticsFiltersFromRequest(c)
	dist, err := h.analyticsService.GetFleetDistribution(c.Request.Context(), filters.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fleet_distribution": dist})
}

// @Summary Export Analytics Report
// @Description Download the overview and fleet distribution as CSV
// @Tags Analytics
// @Produce text/csv
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /analytics/export [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	filters := analyticsFiltersFromRequest(c)

	overview, err := h.analyticsService.GetOverview(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}
	dist, err := h.analyticsService.GetFleetDistribution(c.Request.Context(), filters.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, filename, err := h.exportService.ExportAnalyticsCSV(c.Request.Context(), overview, dist)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}
