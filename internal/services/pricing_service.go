package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/torqride/rentals-api/internal/models"
	"github.com/torqride/rentals-api/internal/repository"
	"gorm.io/gorm"
)

// PricingService manages pricing plans and quotes rental charges from them
type PricingService struct {
	repo     repository.PricingRepository
	auditSvc *AuditService
}

// NewPricingService creates a new pricing service
func NewPricingService(repo repository.PricingRepository, auditSvc *AuditService) *PricingService {
	return &PricingService{repo: repo, auditSvc: auditSvc}
}

// FindByID loads a pricing plan by ID
func (s *PricingService) FindByID(ctx context.Context, id uint) (*models.PricingPlan, error) {
	return s.repo.FindByID(ctx, id)
}

// FindAll lists pricing plans, optionally active only
func (s *PricingService) FindAll(ctx context.Context, activeOnly bool) ([]models.PricingPlan, error) {
	return s.repo.FindAll(ctx, activeOnly)
}

// Create registers a new pricing plan. Any currently effective plan for the
// same model is expired so only one plan quotes at a time.
func (s *PricingService) Create(ctx context.Context, plan *models.PricingPlan, actorID uint) error {
	if plan.HourlyRate <= 0 || plan.DailyRate <= 0 {
		return NewValidationError("hourly and daily rates must be greater than zero")
	}
	if plan.GSTPercent < 0 {
		return NewValidationError("gst percent cannot be negative")
	}

	now := time.Now()
	current, err := s.repo.FindEffectiveByModel(ctx, plan.Model, now)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check current plan: %w", err)
	}
	if current != nil {
		current.EffectiveTo = &now
		if err := s.repo.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to expire current plan: %w", err)
		}
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return err
	}

	s.auditSvc.Log(ctx, actorID, "CREATE", "PricingPlan", plan.ID,
		fmt.Sprintf("Pricing plan for %s created (daily %.2f)", plan.Model, plan.DailyRate), "", "")
	return nil
}

// Update saves pricing plan changes
func (s *PricingService) Update(ctx context.Context, plan *models.PricingPlan, actorID uint) error {
	if err := s.repo.Update(ctx, plan); err != nil {
		return err
	}
	s.auditSvc.Log(ctx, actorID, "UPDATE", "PricingPlan", plan.ID,
		fmt.Sprintf("Pricing plan %d updated", plan.ID), "", "")
	return nil
}

// Quote is the charge estimate for a planned rental window
type Quote struct {
	Model      string  `json:"model"`
	BaseCharge float64 `json:"base_charge"`
	GST        float64 `json:"gst"`
	Total      float64 `json:"total"`
	FreeKM     float64 `json:"free_km"`
}

// QuoteRental estimates base charge and GST for a model over a window.
// Whole days bill at the daily rate (weekly rate when cheaper for 7-day
// chunks), the remainder at the hourly rate capped at one daily rate.
func (s *PricingService) QuoteRental(ctx context.Context, model string, start, end time.Time) (*Quote, error) {
	if !end.After(start) {
		return nil, NewValidationError("end of rental window must be after its start")
	}

	plan, err := s.repo.FindEffectiveByModel(ctx, model, start)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("no effective pricing plan for model %q", model)
		}
		return nil, err
	}

	duration := end.Sub(start)
	days := int(duration.Hours()) / 24
	remHours := math.Ceil(duration.Hours() - float64(days)*24)

	base := 0.0
	if plan.WeeklyRate > 0 {
		weeks := days / 7
		base += float64(weeks) * plan.WeeklyRate
		days = days % 7
	}
	base += float64(days) * plan.DailyRate

	remainder := remHours * plan.HourlyRate
	if remainder > plan.DailyRate {
		remainder = plan.DailyRate
	}
	base += remainder

	gst := base * plan.GSTPercent / 100
	totalDays := math.Ceil(duration.Hours() / 24)

	return &Quote{
		Model:      model,
		BaseCharge: math.Round(base),
		GST:        math.Round(gst),
		Total:      math.Round(base) + math.Round(gst),
		FreeKM:     plan.FreeKMPerDay * totalDays,
	}, nil
}
