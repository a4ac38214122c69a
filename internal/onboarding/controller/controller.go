// Package controller implements the business logic (service layer) of
// company onboarding: accepting sign-up requests, listing them for review,
// and the approval transaction that provisions a company, its admin user
// and the role binding between them.
package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gartstein/onboarding/internal/onboarding/db"
	e "github.com/gartstein/onboarding/internal/onboarding/errors"
	"github.com/gartstein/onboarding/internal/onboarding/events"
	"github.com/gartstein/onboarding/internal/onboarding/models"
	"github.com/gartstein/onboarding/internal/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(event events.Event)
}

// Recorder receives one observation per Submit and Approve call.
type Recorder interface {
	ObserveSubmission(result string)
	ObserveApproval(result string)
}

// Repository defines the storage interface used outside of transactions.
// The approval workflow runs on the transaction-bound *db.Repository.
type Repository interface {
	CreateOnboardingRequest(ctx context.Context, req *models.OnboardingRequest) error
	ListOnboardingRequests(ctx context.Context) ([]*models.OnboardingRequest, error)
	GetOnboardingRequest(ctx context.Context, id uuid.UUID) (*models.OnboardingRequest, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// OnboardingService manages onboarding requests via repository operations,
// event production and metrics.
type OnboardingService struct {
	repo     Repository
	producer EventProducer
	recorder Recorder
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOnboardingService constructs an OnboardingService.
func NewOnboardingService(repo Repository, producer EventProducer, recorder Recorder, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{
		repo:     repo,
		producer: producer,
		recorder: recorder,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Named("onboarding_service"),
	}
}

// SubmitOnboardingRequest validates and stores a new pending request.
func (s *OnboardingService) SubmitOnboardingRequest(ctx context.Context, in *models.OnboardingRequestInput) (*models.OnboardingRequest, error) {
	req, err := s.submit(ctx, in)
	s.recorder.ObserveSubmission(outcomeLabel(err))
	if err != nil {
		return nil, err
	}

	go func() {
		s.producer.Produce(events.Event{Type: events.RequestSubmitted, Request: req})
	}()
	return req, nil
}

func (s *OnboardingService) submit(ctx context.Context, in *models.OnboardingRequestInput) (*models.OnboardingRequest, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: %s", e.ErrValidation, requiredFieldsMessage)
	}
	normalized := models.OnboardingRequestInput{
		CompanyName: strings.TrimSpace(in.CompanyName),
		ContactName: strings.TrimSpace(in.ContactName),
		Email:       strings.TrimSpace(in.Email),
	}
	if mobile := strings.TrimSpace(utils.Deref(in.MobileNumber)); mobile != "" {
		normalized.MobileNumber = &mobile
	}
	if err := s.validate.Struct(&normalized); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %s", e.ErrValidation, requiredFieldsMessage)
		}
		return nil, fmt.Errorf("%w: %v", e.ErrValidation, err)
	}

	req := &models.OnboardingRequest{
		CompanyName:  normalized.CompanyName,
		ContactName:  normalized.ContactName,
		Email:        normalized.Email,
		MobileNumber: normalized.MobileNumber,
	}
	if err := s.repo.CreateOnboardingRequest(ctx, req); err != nil {
		s.logger.Error("Failed to store onboarding request", zap.Error(err))
		return nil, err
	}
	s.logger.Info("Onboarding request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("company_name", req.CompanyName),
	)
	return req, nil
}

// ListOnboardingRequests returns all requests, newest first.
func (s *OnboardingService) ListOnboardingRequests(ctx context.Context) ([]*models.OnboardingRequest, error) {
	reqs, err := s.repo.ListOnboardingRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list onboarding requests: %w", err)
	}
	return reqs, nil
}

// GetOnboardingRequest fetches a request by ID. A missing request is
// reported by found == false, not by an error.
func (s *OnboardingService) GetOnboardingRequest(ctx context.Context, id uuid.UUID) (*models.OnboardingRequest, bool, error) {
	req, err := s.repo.GetOnboardingRequest(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to fetch onboarding request with ID %s: %w", id, err)
	}
	return req, true, nil
}

// ApproveOnboardingRequest enrolls a pending request. In one transaction it
// finds or creates the admin user by email, creates the company, binds the
// user to it with the "admin" role and marks the request enrolled. Nothing
// is persisted unless every step succeeds.
func (s *OnboardingService) ApproveOnboardingRequest(ctx context.Context, id uuid.UUID) (*models.Enrollment, error) {
	var enrollment *models.Enrollment
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		enrollment, err = enroll(ctx, tx, id)
		return err
	})
	s.recorder.ObserveApproval(outcomeLabel(err))
	if err != nil {
		s.logger.Error("Failed to approve onboarding request",
			zap.Error(err),
			zap.String("request_id", id.String()),
		)
		return nil, err
	}

	s.logger.Info("Onboarding request approved",
		zap.String("request_id", id.String()),
		zap.String("company_id", enrollment.Company.ID.String()),
		zap.String("user_id", enrollment.User.ID.String()),
		zap.Bool("user_created", enrollment.UserCreated),
	)
	go func() {
		s.producer.Produce(events.Event{
			Type:      events.CompanyEnrolled,
			Request:   enrollment.Request,
			CompanyID: &enrollment.Company.ID,
			UserID:    &enrollment.User.ID,
		})
	}()
	return enrollment, nil
}

func enroll(ctx context.Context, tx *db.Repository, id uuid.UUID) (*models.Enrollment, error) {
	req, err := tx.GetOnboardingRequest(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, fmt.Errorf("onboarding request with ID %s: %w", id, err)
		}
		return nil, err
	}
	if req.IsEnrolled {
		return nil, e.ErrAlreadyProcessed
	}

	enrollment := &models.Enrollment{Request: req}
	user, err := tx.FindUserByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, e.ErrNotFound):
		user = &models.AppUser{
			ID:    uuid.New(),
			Email: req.Email,
			Name:  utils.Ptr(req.ContactName),
		}
		if err := tx.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		enrollment.UserCreated = true
	case err != nil:
		return nil, err
	case utils.Deref(user.Name) != req.ContactName:
		// The most recently submitted contact name wins.
		if err := tx.UpdateUserName(ctx, user.ID, req.ContactName); err != nil {
			return nil, err
		}
		user.Name = utils.Ptr(req.ContactName)
		enrollment.UserRenamed = true
	}
	enrollment.User = user

	role, err := tx.FindRoleByName(ctx, models.AdminRole)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrRoleMissing
		}
		return nil, err
	}

	company := &models.Company{Name: req.CompanyName}
	if err := tx.CreateCompany(ctx, company); err != nil {
		return nil, err
	}
	enrollment.Company = company

	binding := &models.UserCompanyRole{
		UserID:    user.ID,
		CompanyID: company.ID,
		RoleID:    role.ID,
	}
	if err := tx.CreateUserCompanyRole(ctx, binding); err != nil {
		return nil, err
	}
	enrollment.Binding = binding

	if err := tx.MarkEnrolled(ctx, req.ID); err != nil {
		return nil, err
	}
	req.IsEnrolled = true
	return enrollment, nil
}
