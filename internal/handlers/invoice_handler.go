package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/torqride/rentals-api/internal/middleware"
	"github.com/torqride/rentals-api/internal/services"
)

type InvoiceHandler struct {
	invoiceService *services.InvoiceService
	exportService  *services.ExportService
}

func NewInvoiceHandler(invoiceService *services.InvoiceService, exportService *services.ExportService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, exportService: exportService}
}

// @Summary Get Invoice
// @Description Get the computed invoice breakdown for a booking
// @Tags Invoices
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} services.InvoiceView
// @Security BearerAuth
// @Router /bookings/{id}/invoice [get]
func (h *InvoiceHandler) Show(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	view, err := h.invoiceService.GetForBooking(c.Request.Context(), uint(bookingID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Issue Invoice
// @Description Issue the invoice for a completed booking, snapshotting its totals
// @Tags Invoices
// @Produce json
// @Param id path int true "Booking ID"
// @Success 201 {object} models.Invoice
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /bookings/{id}/invoice [post]
func (h *InvoiceHandler) Issue(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	invoice, err := h.invoiceService.Issue(c.Request.Context(), uint(bookingID), middleware.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

// @Summary Download Invoice PDF
// @Description Render the invoice for a booking as a PDF document
// @Tags Invoices
// @Produce application/pdf
// @Param id path int true "Booking ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /bookings/{id}/invoice/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	bookingID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	data, filename, err := h.exportService.ExportInvoicePDF(c.Request.Context(), uint(bookingID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
