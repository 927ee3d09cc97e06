package services

import (
	"context"
	"fmt"

	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages staff and customer accounts
type UserService struct {
	repo     repository.UserRepository
	auditSvc *AuditService
}

// NewUserService creates a new user service
func NewUserService(repo repository.UserRepository, auditSvc *AuditService) *UserService {
	return &UserService{repo: repo, auditSvc: auditSvc}
}

// FindByID loads a user by ID
func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByEmail loads a user by email
func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

// List returns users matching the query with total count
func (s *UserService) List(ctx context.Context, query *repository.UserQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a new user with a hashed password
func (s *UserService) Create(ctx context.Context, user *models.User, password string, actorID uint) error {
	if len(password) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}
	if user.Role == models.RoleManager && user.StoreID == nil {
		return NewValidationError("a store manager must be assigned to a store")
	}

	if existing, err := s.repo.FindByEmail(ctx, user.Email); err == nil && existing != nil {
		return ErrDuplicate
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.EncryptedPassword = string(hashed)

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "User", user.ID,
		fmt.Sprintf("User %s created with role %s", user.Email, user.Role), "", "")
	return nil
}

// Update saves profile changes
func (s *UserService) Update(ctx context.Context, user *models.User, actorID uint) error {
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "User", user.ID,
		fmt.Sprintf("User %s updated", user.Email), "", "")
	return nil
}

// Delete soft-deletes a user account
func (s *UserService) Delete(ctx context.Context, id uint, actorID uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "DELETE", "User", id, "User account removed", "", "")
	return nil
}

// ToggleStatus flips a user between active and disabled
func (s *UserService) ToggleStatus(ctx context.Context, id uint, actorID uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if user.Status == models.StatusActive {
		user.Status = models.StatusInactive
	} else {
		user.Status = models.StatusActive
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, actorID, "TOGGLE_STATUS", "User", user.ID,
		fmt.Sprintf("User %s status set to %s", user.Email, user.Status), "", "")
	return user, nil
}

// ChangePassword verifies the current password and replaces it
func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.EncryptedPassword), []byte(currentPassword)); err != nil {
		return ErrInvalidPassword
	}
	if len(newPassword) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.EncryptedPassword = string(hashed)

	return s.repo.Update(ctx, user)
}
