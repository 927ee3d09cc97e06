package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/services"
)

type ChargeHandler struct {
	chargeService *services.ChargeService
}

func NewChargeHandler(chargeService *services.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// @Summary List Additional Charges
// @Description Get the persisted additional charges of a booking
// @Tags Charges
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bookings/{id}/charges [get]
func (h *ChargeHandler) Index(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	charges, err := h.chargeService.ListForBooking(c.Request.Context(), uint(bookingID))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, charge := range charges {
		responses = append(responses, charge.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"charges": responses})
}

type SaveChargesRequest struct {
	Charges []services.ChargeInput `json:"charges" binding:"required"`
}

// @Summary Save Additional Charges
// @Description Persist a batch of staged charges for a booking
// @Tags Charges
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body SaveChargesRequest true "Staged charges"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id}/charges [post]
func (h *ChargeHandler) SaveAll(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req SaveChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a charges array is required"})
		return
	}

	charges, err := h.chargeService.SaveAll(c.Request.Context(), uint(bookingID), req.Charges, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, charge := range charges {
		responses = append(responses, charge.ToResponse())
	}
	c.JSON(http.StatusCreated, gin.H{"charges": responses})
}

// @Summary Remove Additional Charge
// @Description Delete a persisted charge from a booking
// @Tags Charges
// @Produce json
// @Param id path int true "Booking ID"
// @Param charge_id path int true "Charge ID"
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id}/charges/{charge_id} [delete]
func (h *ChargeHandler) Remove(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	chargeID, _ := strconv.ParseUint(c.Param("charge_id"), 10, 32)

	if err := h.chargeService.Remove(c.Request.Context(), uint(bookingID), uint(chargeID), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "charge removed"})
}
