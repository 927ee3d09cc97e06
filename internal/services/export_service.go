package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService renders bookings, analytics and invoices into the file
// formats the dashboard's download buttons offer
type ExportService struct {
	analyticsSvc *AnalyticsService
	invoiceSvc   *InvoiceService
}

// NewExportService creates a new export service
func NewExportService(analyticsSvc *AnalyticsService, invoiceSvc *InvoiceService) *ExportService {
	return &ExportService{analyticsSvc: analyticsSvc, invoiceSvc: invoiceSvc}
}

// ExportBookingsCSV renders a booking list as CSV
func (s *ExportService) ExportBookingsCSV(ctx context.Context, bookings []models.Booking) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Booking Code", "Customer", "Vehicle", "Store", "Start Date", "End Date",
		"Status", "Base Charges", "GST", "Delivery", "Late Fee", "Extra KM", "Coupon", "Advance"})

	for _, b := range bookings {
		_ = writer.Write([]string{
			b.BookingCode,
			b.Customer.FullName,
			b.Vehicle.RegistrationNumber,
			b.Store.Name,
			b.StartDate.Format("2006-01-02 15:04"),
			b.EndDate.Format("2006-01-02 15:04"),
			b.Status,
			fmt.Sprintf("%.2f", b.Charges),
			fmt.Sprintf("%.2f", b.GST),
			fmt.Sprintf("%.2f", b.DeliveryCharges),
			fmt.Sprintf("%.2f", b.LateFeeCharges),
			fmt.Sprintf("%.2f", b.LateChargesKM),
			fmt.Sprintf("%.2f", b.CouponAmount),
			fmt.Sprintf("%.2f", b.AdvanceAmount),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("bookings_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportBookingsXLSX renders a booking list as a spreadsheet
func (s *ExportService) ExportBookingsXLSX(ctx context.Context, bookings []models.Booking) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Bookings"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	headers := []string{"Booking Code", "Customer", "Vehicle", "Store", "Start Date", "End Date",
		"Status", "Base Charges", "GST", "Delivery", "Late Fee", "Extra KM", "Coupon", "Advance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, b := range bookings {
		values := []any{
			b.BookingCode, b.Customer.FullName, b.Vehicle.RegistrationNumber, b.Store.Name,
			b.StartDate.Format("2006-01-02 15:04"), b.EndDate.Format("2006-01-02 15:04"), b.Status,
			b.Charges, b.GST, b.DeliveryCharges, b.LateFeeCharges, b.LateChargesKM,
			b.CouponAmount, b.AdvanceAmount,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportAnalyticsCSV renders the overview and fleet distribution as CSV
func (s *ExportService) ExportAnalyticsCSV(ctx context.Context, overview *models.AnalyticsOverview, dist *models.FleetDistribution) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Analytics Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Overview"})
	_ = writer.Write([]string{"Metric", "Value"})
	_ = writer.Write([]string{"Total Revenue", fmt.Sprintf("%.2f", overview.TotalRevenue)})
	_ = writer.Write([]string{"Total Bookings", fmt.Sprintf("%d", overview.TotalBookings)})
	_ = writer.Write([]string{"Active Bookings", fmt.Sprintf("%d", overview.ActiveBookings)})
	_ = writer.Write([]string{"Completed Bookings", fmt.Sprintf("%d", overview.CompletedBookings)})
	_ = writer.Write([]string{"Cancelled Bookings", fmt.Sprintf("%d", overview.CancelledBookings)})
	_ = writer.Write([]string{"Average Booking Value", fmt.Sprintf("%.2f", overview.AverageBookingValue)})
	_ = writer.Write([]string{"Fleet Utilization", fmt.Sprintf("%.2f%%", overview.FleetUtilization)})
	_ = writer.Write([]string{""})

	_ = writer.Write([]string{"Fleet Distribution"})
	_ = writer.Write([]string{"Status", "Count"})
	_ = writer.Write([]string{"Available", fmt.Sprintf("%d", dist.Available)})
	_ = writer.Write([]string{"On Trip", fmt.Sprintf("%d", dist.OnTrip)})
	_ = writer.Write([]string{"Maintenance", fmt.Sprintf("%d", dist.Maintenance)})
	_ = writer.Write([]string{"Retired", fmt.Sprintf("%d", dist.Retired)})
	_ = writer.Write([]string{"Total", fmt.Sprintf("%d", dist.TotalVehicles)})

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("analytics_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportInvoicePDF renders a booking's invoice breakdown as a PDF
func (s *ExportService) ExportInvoicePDF(ctx context.Context, bookingID uint) ([]byte, string, error) {
	view, err := s.invoiceSvc.GetForBooking(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Rental Invoice")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(60, 8, "Booking:")
	pdf.Cell(60, 8, view.BookingCode)
	pdf.Ln(6)
	if view.InvoiceNumber != "" {
		pdf.Cell(60, 8, "Invoice Number:")
		pdf.Cell(60, 8, view.InvoiceNumber)
		pdf.Ln(6)
	}
	pdf.Cell(60, 8, "Generated:")
	pdf.Cell(60, 8, time.Now().Format("02 Jan 2006 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Charges")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for _, item := range view.Breakdown.LineItems {
		pdf.Cell(90, 7, item.Label)
		pdf.CellFormat(40, 7, fmt.Sprintf("%.0f", item.Amount), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(90, 8, "Grand Total")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.0f", view.Breakdown.GrandTotal), "", 0, "R", false, 0, "")
	pdf.Ln(7)
	pdf.Cell(90, 8, "Final Amount Payable")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.0f", view.Breakdown.FinalAmountPayable), "", 0, "R", false, 0, "")
	pdf.Ln(10)

	if len(view.Discrepancies) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(40, 8, "Reconciliation notes")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		for _, d := range view.Discrepancies {
			pdf.Cell(120, 6, fmt.Sprintf("%s: stored %.0f, computed %.0f", d.Field, d.Stored, d.Computed))
			pdf.Ln(5)
		}
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("invoice_%s.pdf", view.BookingCode)
	return buf.Bytes(), filename, nil
}
