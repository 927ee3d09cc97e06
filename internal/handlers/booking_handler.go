package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"github.com/torqride/rentals-api/internal/services"
)

type BookingHandler struct {
	bookingService *services.BookingService
	exportService  *services.ExportService
}

func NewBookingHandler(bookingService *services.BookingService, exportService *services.ExportService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, exportService: exportService}
}

func bookingQueryFromRequest(c *gin.Context) *repository.BookingQuery {
	query := &repository.BookingQuery{ListQuery: repository.NewListQuery()}
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search_term")
	query.SortBy = c.Query("sort_by")
	query.SortDir = c.Query("sort_dir")
	query.Status = c.Query("status")
	if storeID, err := strconv.ParseUint(c.Query("store_id"), 10, 32); err == nil {
		query.StoreID = uint(storeID)
	}
	if customerID, err := strconv.ParseUint(c.Query("customer_id"), 10, 32); err == nil {
		query.CustomerID = uint(customerID)
	}
	if vehicleID, err := strconv.ParseUint(c.Query("vehicle_id"), 10, 32); err == nil {
		query.VehicleID = uint(vehicleID)
	}
	// Store managers only ever see their own store's bookings
	if middleware.IsManager(c) {
		if storeID := middleware.GetUserStoreID(c); storeID != 0 {
			query.StoreID = storeID
		}
	}
	return query
}

// @Summary List Bookings
// @Description Get a paginated list of bookings with filters
// @Tags Bookings
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search_term query string false "Search by booking code, customer or registration"
// @Param status query string false "Filter by status"
// @Param store_id query int false "Filter by store"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bookings [get]
func (h *BookingHandler) Index(c *gin.Context) {
	query := bookingQueryFromRequest(c)

	bookings, total, err := h.bookingService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, booking := range bookings {
		responses = append(responses, booking.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

// @Summary Get Booking
// @Description Get a booking by ID with customer, vehicle and store details
// @Tags Bookings
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} models.BookingResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id} [get]
func (h *BookingHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	booking, err := h.bookingService.FindByIDWithDetails(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

type CreateBookingRequest struct {
	BookingCode     string    `json:"booking_code" binding:"required"`
	CustomerID      uint      `json:"customer_id" binding:"required"`
	VehicleID       uint      `json:"vehicle_id" binding:"required"`
	StoreID         uint      `json:"store_id" binding:"required"`
	StartDate       time.Time `json:"start_date" binding:"required"`
	EndDate         time.Time `json:"end_date" binding:"required"`
	Charges         float64   `json:"charges"`
	GST             float64   `json:"gst"`
	DeliveryCharges float64   `json:"delivery_charges"`
	CouponAmount    float64   `json:"coupon_amount"`
	AdvanceAmount   float64   `json:"advance_amount"`
}

// @Summary Create Booking
// @Description Create a new booking in confirmed status
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body CreateBookingRequest true "Booking"
// @Success 201 {object} models.BookingResponse
// @Security BearerAuth
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := BindNestedOrFlat(c, "booking", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking payload"})
		return
	}

	booking := &models.Booking{
		BookingCode:     req.BookingCode,
		CustomerID:      req.CustomerID,
		VehicleID:       req.VehicleID,
		StoreID:         req.StoreID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Charges:         req.Charges,
		GST:             req.GST,
		DeliveryCharges: req.DeliveryCharges,
		CouponAmount:    req.CouponAmount,
		AdvanceAmount:   req.AdvanceAmount,
	}

	if err := h.bookingService.Create(c.Request.Context(), booking); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking.ToResponse()})
}

type UpdateStatusRequest struct {
	Status           string   `json:"status" binding:"required"`
	EndTripKM        *float64 `json:"end_trip_km"`
	CancellationNote *string  `json:"cancellation_note"`
}

// @Summary Update Booking Status
// @Description Transition a booking to accepted, completed or cancelled
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body UpdateStatusRequest true "Target status"
// @Success 200 {object} models.BookingResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req UpdateStatusRequest
	if err := BindNestedOrFlat(c, "booking", &req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a target status is required"})
		return
	}

	summary, err := h.bookingService.FindSummary(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	if summary.Status == req.Status {
		current, err := h.bookingService.FindByIDWithDetails(c.Request.Context(), uint(id))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"booking": current.ToResponse(),
			"message": "booking is already up to date",
		})
		return
	}

	outcome := "ok"
	booking, err := h.bookingService.RequestTransition(c.Request.Context(), uint(id), &services.TransitionRequest{
		Target:           req.Status,
		EndTripKM:        req.EndTripKM,
		CancellationNote: req.CancellationNote,
		ActorID:          middleware.GetUserID(c),
		IP:               c.ClientIP(),
		UserAgent:        c.Request.UserAgent(),
	})
	if err != nil {
		outcome = "rejected"
		middleware.ObserveTransition(req.Status, outcome)
		respondError(c, err)
		return
	}
	middleware.ObserveTransition(req.Status, outcome)

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

type ExtendTripRequest struct {
	NewEndDate time.Time `json:"new_end_date" binding:"required"`
}

// @Summary Extend Trip
// @Description Move a booking's end date forward
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body ExtendTripRequest true "New end date"
// @Success 200 {object} models.BookingResponse
// @Security BearerAuth
// @Router /bookings/{id}/extend [post]
func (h *BookingHandler) Extend(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var req ExtendTripRequest
	if err := BindNestedOrFlat(c, "booking", &req); err != nil || req.NewEndDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a new end date is required"})
		return
	}

	booking, err := h.bookingService.ExtendTrip(c.Request.Context(), uint(id), req.NewEndDate, &services.TransitionRequest{
		ActorID:   middleware.GetUserID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		middleware.ObserveTransition(models.BookingStatusTripExtend, "rejected")
		respondError(c, err)
		return
	}
	middleware.ObserveTransition(models.BookingStatusTripExtend, "ok")

	c.JSON(http.StatusOK, gin.H{"booking": booking.ToResponse()})
}

// @Summary Export Bookings
// @Description Download the filtered booking list as CSV or XLSX
// @Tags Bookings
// @Produce application/octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Security BearerAuth
// @Router /bookings/export [get]
func (h *BookingHandler) Export(c *gin.Context) {
	query := bookingQueryFromRequest(c)
	query.PerPage = 10000 // exports ignore pagination

	bookings, _, err := h.bookingService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		data, filename, err = h.exportService.ExportBookingsXLSX(c.Request.Context(), bookings)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		data, filename, err = h.exportService.ExportBookingsCSV(c.Request.Context(), bookings)
		contentType = "text/csv"
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
