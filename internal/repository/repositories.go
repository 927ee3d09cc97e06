package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Store        StoreRepository
	Vehicle      VehicleRepository
	Pricing      PricingRepository
	Booking      BookingRepository
	Charge       ChargeRepository
	Invoice      InvoiceRepository
	Document     DocumentRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Store:        NewStoreRepository(db),
		Vehicle:      NewVehicleRepository(db),
		Pricing:      NewPricingRepository(db),
		Booking:      NewBookingRepository(db),
		Charge:       NewChargeRepository(db),
		Invoice:      NewInvoiceRepository(db),
		Document:     NewDocumentRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
	}
}
