package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/services"
)

// StoreHandler exposes store master data endpoints.
type StoreHandler struct {
	storeService *services.StoreService
}

func NewStoreHandler(storeService *services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// @Summary List Stores
// @Tags Stores
// @Produce json
// @Param active_only query bool false "Only active stores"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /stores [get]
func (h *StoreHandler) Index(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	stores, err := h.storeService.FindAll(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// @Summary Get Store
// @Tags Stores
// @Produce json
// @Param id path int true "Store ID"
// @Success 200 {object} models.Store
// @Security BearerAuth
// @Router /stores/{id} [get]
func (h *StoreHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	store, err := h.storeService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// @Summary Create Store
// @Tags Stores
// @Accept json
// @Produce json
// @Param request body models.Store true "Store"
// @Success 201 {object} models.Store
// @Security BearerAuth
// @Router /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var store models.Store
	if err := BindNestedOrFlat(c, "store", &store); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store payload"})
		return
	}
	if err := h.storeService.Create(c.Request.Context(), &store, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"store": store})
}

// @Summary Update Store
// @Tags Stores
// @Accept json
// @Produce json
// @Param id path int true "Store ID"
// @Param request body models.Store true "Store fields"
// @Success 200 {object} models.Store
// @Security BearerAuth
// @Router /stores/{id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	store, err := h.storeService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "store", store); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store payload"})
		return
	}
	store.ID = uint(id)

	if err := h.storeService.Update(c.Request.Context(), store, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// @Summary Deactivate Store
// @Description Deactivate a store; rejected while any of its vehicles is on trip
// @Tags Stores
// @Produce json
// @Param id path int true "Store ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /stores/{id} [delete]
func (h *StoreHandler) Deactivate(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	if err := h.storeService.Deactivate(c.Request.Context(), uint(id), middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "store deactivated"})
}

// VehicleHandler exposes fleet endpoints.
type VehicleHandler struct {
	vehicleService *services.VehicleService
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{vehicleService: vehicleService}
}

// @Summary List Vehicles
// @Tags Vehicles
// @Produce json
// @Param store_id query int true "Store ID"
// @Param available_only query bool false "Only vehicles available for booking"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /vehicles [get]
func (h *VehicleHandler) Index(c *gin.Context) {
	storeID, _ := strconv.ParseUint(c.Query("store_id"), 10, 32)
	if storeID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store_id is required"})
		return
	}

	var (
		vehicles []models.Vehicle
		err      error
	)
	if c.Query("available_only") == "true" {
		vehicles, err = h.vehicleService.FindAvailableByStore(c.Request.Context(), uint(storeID))
	} else {
		vehicles, err = h.vehicleService.FindByStore(c.Request.Context(), uint(storeID))
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

// @Summary Get Vehicle
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} models.Vehicle
// @Security BearerAuth
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	vehicle, err := h.vehicleService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// @Summary Create Vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param request body models.Vehicle true "Vehicle"
// @Success 201 {object} models.Vehicle
// @Security BearerAuth
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c *gin.Context) {
	var vehicle models.Vehicle
	if err := BindNestedOrFlat(c, "vehicle", &vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle payload"})
		return
	}
	if err := h.vehicleService.Create(c.Request.Context(), &vehicle, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": vehicle})
}

// @Summary Update Vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param request body models.Vehicle true "Vehicle fields"
// @Success 200 {object} models.Vehicle
// @Security BearerAuth
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	vehicle, err := h.vehicleService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "vehicle", vehicle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vehicle payload"})
		return
	}
	vehicle.ID = uint(id)

	if err := h.vehicleService.Update(c.Request.Context(), vehicle, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

type SetVehicleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary Set Vehicle Status
// @Description Move a vehicle between available, maintenance and retired
// @Tags Vehicles
// @Accept json
// @Produce json
// @Param id path int true "Vehicle ID"
// @Param request body SetVehicleStatusRequest true "Target status"
// @Success 200 {object} models.Vehicle
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /vehicles/{id}/status [patch]
func (h *VehicleHandler) SetStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req SetVehicleStatusRequest
	if err := BindNestedOrFlat(c, "vehicle", &req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a target status is required"})
		return
	}

	vehicle, err := h.vehicleService.SetStatus(c.Request.Context(), uint(id), req.Status, middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": vehicle})
}

// PricingHandler exposes pricing plan endpoints and rental quotes.
type PricingHandler struct {
	pricingService *services.PricingService
}

func NewPricingHandler(pricingService *services.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// @Summary List Pricing Plans
// @Tags Pricing
// @Produce json
// @Param active_only query bool false "Only effective plans"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /pricing-plans [get]
func (h *PricingHandler) Index(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"
	plans, err := h.pricingService.FindAll(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricing_plans": plans})
}

// @Summary Create Pricing Plan
// @Description Register a new plan; the model's previous effective plan expires
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body models.PricingPlan true "Pricing plan"
// @Success 201 {object} models.PricingPlan
// @Security BearerAuth
// @Router /pricing-plans [post]
func (h *PricingHandler) Create(c *gin.Context) {
	var plan models.PricingPlan
	if err := BindNestedOrFlat(c, "pricing_plan", &plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing plan payload"})
		return
	}
	if err := h.pricingService.Create(c.Request.Context(), &plan, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pricing_plan": plan})
}

// @Summary Update Pricing Plan
// @Tags Pricing
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param request body models.PricingPlan true "Plan fields"
// @Success 200 {object} models.PricingPlan
// @Security BearerAuth
// @Router /pricing-plans/{id} [put]
func (h *PricingHandler) Update(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	plan, err := h.pricingService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := BindNestedOrFlat(c, "pricing_plan", plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pricing plan payload"})
		return
	}
	plan.ID = uint(id)

	if err := h.pricingService.Update(c.Request.Context(), plan, middleware.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pricing_plan": plan})
}

// @Summary Quote Rental
// @Description Estimate base charge and GST for a model over a window
// @Tags Pricing
// @Produce json
// @Param model query string true "Bike model"
// @Param start_date query string true "RFC3339 start"
// @Param end_date query string true "RFC3339 end"
// @Success 200 {object} services.Quote
// @Security BearerAuth
// @Router /pricing-plans/quote [get]
func (h *PricingHandler) Quote(c *gin.Context) {
	model := c.Query("model")
	start, startErr := time.Parse(time.RFC3339, c.Query("start_date"))
	end, endErr := time.Parse(time.RFC3339, c.Query("end_date"))
	if model == "" || startErr != nil || endErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model, start_date and end_date are required"})
		return
	}

	quote, err := h.pricingService.QuoteRental(c.Request.Context(), model, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}
