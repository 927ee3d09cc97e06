package services

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/torqride/rentals-api/internal/cache"
	"github.com/torqride/rentals-api/internal/config"
	"github.com/torqride/rentals-api/internal/integrations/tracker"
	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/repository"
	"github.com/torqride/rentals-api/internal/storage"
	"gorm.io/gorm"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Store        *StoreService
	Vehicle      *VehicleService
	Pricing      *PricingService
	Booking      *BookingService
	Charge       *ChargeService
	Invoice      *InvoiceService
	Document     *DocumentService
	Notification *NotificationService
	Tracker      *TrackerService
	Analytics    *AnalyticsService
	Export       *ExportService
	Audit        *AuditService
}

// NewServices creates all service instances
func NewServices(
	repos *repository.Repositories,
	worker *jobs.Worker,
	store *storage.LocalStorage,
	rdb *redis.Client,
	cfg *config.Config,
	db *gorm.DB,
) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	auditSvc := NewAuditService(db)

	locks := cache.NewLockStore(rdb)
	cacheStore := cache.NewCacheStore(rdb)
	trackerClient := tracker.NewClient(cfg.TrackerBaseURL, time.Duration(cfg.TrackerTimeout)*time.Second)

	invoiceSvc := NewInvoiceService(repos.Invoice, repos.Booking, repos.Charge)
	analyticsSvc := NewAnalyticsService(db, rdb)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, cfg),
		User:         NewUserService(repos.User, auditSvc),
		Store:        NewStoreService(repos.Store, repos.Vehicle, auditSvc),
		Vehicle:      NewVehicleService(repos.Vehicle, repos.Booking, auditSvc),
		Pricing:      NewPricingService(repos.Pricing, auditSvc),
		Booking:      NewBookingService(repos.Booking, repos.Vehicle, locks, cacheStore, worker, notificationSvc, auditSvc),
		Charge:       NewChargeService(repos.Charge, repos.Booking, worker, notificationSvc, auditSvc),
		Invoice:      invoiceSvc,
		Document:     NewDocumentService(repos.Document, store, worker, notificationSvc, auditSvc),
		Notification: notificationSvc,
		Tracker:      NewTrackerService(trackerClient, repos.Vehicle, auditSvc),
		Analytics:    analyticsSvc,
		Export:       NewExportService(analyticsSvc, invoiceSvc),
		Audit:        auditSvc,
	}
}
