package handlers

import (
	"github.com/torqride/rentals-api/internal/services"
	"github.com/torqride/rentals-api/internal/storage"
)

// Handlers holds all HTTP handler instances
type Handlers struct {
	Health       *HealthHandler
	Auth         *AuthHandler
	User         *UserHandler
	Store        *StoreHandler
	Vehicle      *VehicleHandler
	Pricing      *PricingHandler
	Booking      *BookingHandler
	Charge       *ChargeHandler
	Invoice      *InvoiceHandler
	Document     *DocumentHandler
	Notification *NotificationHandler
	Tracker      *TrackerHandler
	Analytics    *AnalyticsHandler
	Audit        *AuditHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, store *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Auth:         NewAuthHandler(svcs.Auth, svcs.User),
		User:         NewUserHandler(svcs.User),
		Store:        NewStoreHandler(svcs.Store),
		Vehicle:      NewVehicleHandler(svcs.Vehicle),
		Pricing:      NewPricingHandler(svcs.Pricing),
		Booking:      NewBookingHandler(svcs.Booking, svcs.Export),
		Charge:       NewChargeHandler(svcs.Charge),
		Invoice:      NewInvoiceHandler(svcs.Invoice, svcs.Export),
		Document:     NewDocumentHandler(svcs.Document, store),
		Notification: NewNotificationHandler(svcs.Notification),
		Tracker:      NewTrackerHandler(svcs.Tracker),
		Analytics:    NewAnalyticsHandler(svcs.Analytics, svcs.Export),
		Audit:        NewAuditHandler(svcs.Audit),
	}
}
