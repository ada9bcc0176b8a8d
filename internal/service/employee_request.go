package service

import (
	"errors"
	"fmt"
	"time"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRequestService handles business logic for employee requests
type EmployeeRequestService struct {
	repo           repository.EmployeeRequestRepositoryInterface
	teamRepo       repository.TeamRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	validator      *validator.Validate
}

// NewEmployeeRequestService creates a new employee request service
func NewEmployeeRequestService(
	repo repository.EmployeeRequestRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	validator *validator.Validate,
) *EmployeeRequestService {
	return &EmployeeRequestService{
		repo:           repo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		validator:      validator,
	}
}

// CreateEmployeeRequestRequest represents the request to create an employee request
type CreateEmployeeRequestRequest struct {
	RequesterUserID uuid.UUID                  `json:"-" validate:"required"`
	Type            models.EmployeeRequestType `json:"type" validate:"required,oneof=time_off resource equipment support other"`
	Title           string                     `json:"title" validate:"required,min=1,max=200"`
	Description     string                     `json:"description" validate:"max=2000"`
	Priority        models.RequestPriority     `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Message         string                     `json:"message" validate:"max=500"`
}

// EmployeeRequestResponse represents an employee request in API responses
type EmployeeRequestResponse struct {
	ID              uuid.UUID                  `json:"id"`
	RequesterUserID uuid.UUID                  `json:"requester_user_id"`
	TeamID          uuid.UUID                  `json:"team_id"`
	Type            models.EmployeeRequestType `json:"type"`
	Title           string                     `json:"title"`
	Description     string                     `json:"description,omitempty"`
	Priority        models.RequestPriority     `json:"priority"`
	Status          models.RequestStatus       `json:"status"`
	Message         string                     `json:"message,omitempty"`
	ManagerResponse *string                    `json:"manager_response,omitempty"`
	ReviewedBy      *uuid.UUID                 `json:"reviewed_by,omitempty"`
	ReviewedAt      *string                    `json:"reviewed_at,omitempty"`
	CreatedAt       string                     `json:"created_at"`
}

// Create submits an employee request. The requester's team is captured from
// the roster at creation time; a requester without a team cannot raise one.
func (s *EmployeeRequestService) Create(req *CreateEmployeeRequestRequest) (*EmployeeRequestResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.userRepo.GetByID(req.RequesterUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify requester: %w", err)
	}

	memberships, err := s.membershipRepo.GetByUserID(req.RequesterUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requester memberships: %w", err)
	}
	if len(memberships) == 0 {
		return nil, apperrors.ErrRequesterNoTeam
	}

	priority := req.Priority
	if priority == "" {
		priority = models.RequestPriorityNormal
	}

	employeeRequest := &models.EmployeeRequest{
		RequesterUserID: req.RequesterUserID,
		TeamID:          memberships[0].TeamID,
		Type:            req.Type,
		Title:           req.Title,
		Description:     req.Description,
		Priority:        priority,
		Status:          models.RequestStatusPending,
		Message:         req.Message,
	}
	if err := s.repo.Create(employeeRequest); err != nil {
		return nil, fmt.Errorf("failed to create employee request: %w", err)
	}

	return s.toResponse(employeeRequest), nil
}

// GetByID retrieves an employee request by ID
func (s *EmployeeRequestService) GetByID(id uuid.UUID) (*EmployeeRequestResponse, error) {
	employeeRequest, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEmployeeRequestNotFound
		}
		return nil, fmt.Errorf("failed to get employee request: %w", err)
	}
	return s.toResponse(employeeRequest), nil
}

// ListForUser retrieves the employee requests submitted by a user
func (s *EmployeeRequestService) ListForUser(userID uuid.UUID) ([]EmployeeRequestResponse, error) {
	requests, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// ListPendingForReviewer retrieves pending employee requests raised from
// teams the principal administers or manages
func (s *EmployeeRequestService) ListPendingForReviewer(principalID uuid.UUID) ([]EmployeeRequestResponse, error) {
	teamIDs, err := s.membershipRepo.TeamIDsAdministeredBy(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve administered teams: %w", err)
	}

	managedIDs, err := s.teamRepo.GetIDsManagedBy(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve managed teams: %w", err)
	}
	teamIDs = mergeTeamIDs(teamIDs, managedIDs)

	requests, err := s.repo.GetPendingByTeamIDs(teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending employee requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// Withdraw deletes a pending employee request on behalf of its requester
func (s *EmployeeRequestService) Withdraw(id, principalID uuid.UUID) error {
	employeeRequest, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrEmployeeRequestNotFound
		}
		return fmt.Errorf("failed to get employee request: %w", err)
	}

	if employeeRequest.RequesterUserID != principalID {
		return apperrors.ErrNotRequestOwner
	}
	if employeeRequest.Status != models.RequestStatusPending {
		return apperrors.NewInvalidStateError("employee request", string(employeeRequest.Status))
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to withdraw employee request: %w", err)
	}
	return nil
}

func mergeTeamIDs(a, b []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(a)+len(b))
	merged := make([]uuid.UUID, 0, len(a)+len(b))
	for _, ids := range [][]uuid.UUID{a, b} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			merged = append(merged, id)
		}
	}
	return merged
}

func (s *EmployeeRequestService) toResponse(req *models.EmployeeRequest) *EmployeeRequestResponse {
	resp := &EmployeeRequestResponse{
		ID:              req.ID,
		RequesterUserID: req.RequesterUserID,
		TeamID:          req.TeamID,
		Type:            req.Type,
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		Status:          req.Status,
		Message:         req.Message,
		ManagerResponse: req.ManagerResponse,
		ReviewedBy:      req.ReviewedBy,
		CreatedAt:       req.CreatedAt.Format(time.RFC3339),
	}
	if req.ReviewedAt != nil {
		reviewedAt := req.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

func (s *EmployeeRequestService) toResponses(requests []models.EmployeeRequest) []EmployeeRequestResponse {
	responses := make([]EmployeeRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = *s.toResponse(&req)
	}
	return responses
}
