package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/torqride/rentals-api/internal/jobs"
	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"github.com/torqride/rentals-api/internal/storage"
)

// DocumentService handles customer document upload and verification
type DocumentService struct {
	repo            repository.DocumentRepository
	storage         *storage.LocalStorage
	worker          *jobs.Worker
	notificationSvc *NotificationService
	auditSvc        *AuditService
}

// NewDocumentService creates a new document service
func NewDocumentService(
	repo repository.DocumentRepository,
	store *storage.LocalStorage,
	worker *jobs.Worker,
	notificationSvc *NotificationService,
	auditSvc *AuditService,
) *DocumentService {
	return &DocumentService{
		repo:            repo,
		storage:         store,
		worker:          worker,
		notificationSvc: notificationSvc,
		auditSvc:        auditSvc,
	}
}

// FindByID loads a document by ID
func (s *DocumentService) FindByID(ctx context.Context, id uint) (*models.CustomerDocument, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByUser lists a customer's documents
func (s *DocumentService) FindByUser(ctx context.Context, userID uint) ([]models.CustomerDocument, error) {
	return s.repo.FindByUser(ctx, userID)
}

// FindPending lists documents awaiting review, oldest first
func (s *DocumentService) FindPending(ctx context.Context, limit int) ([]models.CustomerDocument, error) {
	return s.repo.FindPending(ctx, limit)
}

// Upload stores a document file and records it as pending review
func (s *DocumentService) Upload(ctx context.Context, userID uint, docType string, file multipart.File, header *multipart.FileHeader) (*models.CustomerDocument, error) {
	if docType != models.DocumentTypeLicence && docType != models.DocumentTypeIdentity {
		return nil, NewValidationError("unknown document type %q", docType)
	}
	if header.Size > storage.MaxFileSize {
		return nil, NewValidationError("file exceeds the %dMB limit", storage.MaxFileSize/(1024*1024))
	}
	if !storage.IsValidContentType(header.Header.Get("Content-Type")) {
		return nil, NewValidationError("only PDF, JPEG and PNG uploads are accepted")
	}

	path, err := s.storage.Upload(file, header, "documents")
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &models.CustomerDocument{
		UserID:       userID,
		DocumentType: docType,
		FilePath:     path,
		Status:       models.DocumentStatusPending,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		s.storage.Delete(path)
		return nil, err
	}
	return doc, nil
}

// Verify marks a pending document as verified
func (s *DocumentService) Verify(ctx context.Context, id uint, reviewerID uint) (*models.CustomerDocument, error) {
	return s.review(ctx, id, reviewerID, models.DocumentStatusVerified, nil)
}

// Reject marks a pending document as rejected with a reason
func (s *DocumentService) Reject(ctx context.Context, id uint, reviewerID uint, reason string) (*models.CustomerDocument, error) {
	if reason == "" {
		return nil, NewValidationError("a rejection reason is required")
	}
	return s.review(ctx, id, reviewerID, models.DocumentStatusRejected, &reason)
}

func (s *DocumentService) review(ctx context.Context, id uint, reviewerID uint, status string, reason *string) (*models.CustomerDocument, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != models.DocumentStatusPending {
		return nil, NewConflictError("document has already been %s", doc.Status)
	}

	now := time.Now()
	doc.Status = status
	doc.RejectionReason = reason
	doc.ReviewedBy = &reviewerID
	doc.ReviewedAt = &now

	if err := s.repo.Update(ctx, doc); err != nil {
		return nil, err
	}

	title, notifType := "Document verified", models.NotificationTypeDocumentVerified
	message := fmt.Sprintf("Your %s has been verified.", doc.DocumentType)
	if status == models.DocumentStatusRejected {
		title, notifType = "Document rejected", models.NotificationTypeDocumentRejected
		message = fmt.Sprintf("Your %s was rejected: %s", doc.DocumentType, *reason)
	}
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.notificationSvc.NotifyUser(ctx, doc.UserID, title, message, notifType)
	})

	s.auditSvc.Log(ctx, reviewerID, "REVIEW_DOCUMENT", "CustomerDocument", doc.ID,
		fmt.Sprintf("Document %d marked %s", doc.ID, status), "", "")

	return doc, nil
}

// HasVerifiedDocuments reports whether a customer has at least one verified document
func (s *DocumentService) HasVerifiedDocuments(ctx context.Context, userID uint) (bool, error) {
	count, err := s.repo.CountVerifiedByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
