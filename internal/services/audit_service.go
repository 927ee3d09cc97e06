package services

import (
	"context"

	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/pkg/logger"
	"gorm.io/gorm"
)

// AuditService records admin mutations. Audit writes are best-effort: a
// failed audit row is logged, never propagated, so it cannot block the
// mutation it describes.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log writes one audit entry
func (s *AuditService) Log(ctx context.Context, userID uint, action, entity string, entityID uint, details, ip, userAgent string) {
	if s.db == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:    userID,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
		IPAddress: ip,
		UserAgent: userAgent,
	}

	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		logger.Error("failed to write audit log", "action", action, "entity", entity, "entity_id", entityID, "error", err)
	}
}

// List returns audit entries, newest first
func (s *AuditService) List(ctx context.Context, query *AuditListArgs) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	db := s.db.WithContext(ctx).Model(&models.AuditLog{})
	if query.Entity != "" {
		db = db.Where("entity = ?", query.Entity)
	}
	if query.UserID != 0 {
		db = db.Where("user_id = ?", query.UserID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("User").
		Order("created_at DESC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&entries).Error
	return entries, total, err
}

// AuditListArgs narrows audit listing; the audit service queries gorm
// directly rather than going through a repository, matching how rarely it
// is read.
type AuditListArgs struct {
	Page    int
	PerPage int
	Entity  string
	UserID  uint
}

// NewAuditListArgs creates list args with defaults
func NewAuditListArgs(page, perPage int, entity string, userID uint) *AuditListArgs {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return &AuditListArgs{Page: page, PerPage: perPage, Entity: entity, UserID: userID}
}
