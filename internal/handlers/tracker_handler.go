package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/services"
)

type TrackerHandler struct {
	trackerService *services.TrackerService
}

func NewTrackerHandler(trackerService *services.TrackerService) *TrackerHandler {
	return &TrackerHandler{trackerService: trackerService}
}

// @Summary Locate Vehicle
// @Description Get the vehicle's last known GPS position from the tracker relay
// @Tags Tracker
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} tracker.Position
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{id}/position [get]
func (h *TrackerHandler) Locate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	position, err := h.trackerService.Locate(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": position})
}

type EngineRequest struct {
	On bool `json:"on"`
}

// @Summary Toggle Engine
// @Description Request remote engine on/off through the tracker relay. The
// @Description stored state is rolled back when the relay fails or disagrees.
// @Tags Tracker
// @Accept json
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param request body EngineRequest true "Desired engine state"
// @Success 200 {object} services.EngineToggleResult
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{id}/engine [post]
func (h *TrackerHandler) SetEngine(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req EngineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid engine payload"})
		return
	}

	result, err := h.trackerService.SetEngine(c.Request.Context(), uint(id), req.On, middleware.GetUserID(c))
	if err != nil {
		if result != nil {
			// Surface the rolled back state alongside the error detail.
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"result": result,
				"error":  err.Error(),
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
