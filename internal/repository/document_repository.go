package repository

import (
	"context"

	"github.com/torqride/rentals-api/internal/models"
	"gorm.io/gorm"
)

// DocumentRepository defines the interface for customer document data access
type DocumentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.CustomerDocument, error)
	FindByUser(ctx context.Context, userID uint) ([]models.CustomerDocument, error)
	FindPending(ctx context.Context, limit int) ([]models.CustomerDocument, error)
	Create(ctx context.Context, doc *models.CustomerDocument) error
	Update(ctx context.Context, doc *models.CustomerDocument) error
	CountVerifiedByUser(ctx context.Context, userID uint) (int64, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) FindByID(ctx context.Context, id uint) (*models.CustomerDocument, error) {
	var doc models.CustomerDocument
	err := r.db.WithContext(ctx).Preload("User").First(&doc, id).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) FindByUser(ctx context.Context, userID uint) ([]models.CustomerDocument, error) {
	var docs []models.CustomerDocument
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) FindPending(ctx context.Context, limit int) ([]models.CustomerDocument, error) {
	var docs []models.CustomerDocument
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.DocumentStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&docs).Error
	return docs, err
}

func (r *documentRepository) Create(ctx context.Context, doc *models.CustomerDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepository) Update(ctx context.Context, doc *models.CustomerDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *documentRepository) CountVerifiedByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerDocument{}).
		Where("user_id = ? AND status = ?", userID, models.DocumentStatusVerified).
		Count(&count).Error
	return count, err
}
