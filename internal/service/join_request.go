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

// JoinRequestService handles business logic for join requests
type JoinRequestService struct {
	repo           repository.JoinRequestRepositoryInterface
	teamRepo       repository.TeamRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	validator      *validator.Validate
}

// NewJoinRequestService creates a new join request service
func NewJoinRequestService(
	repo repository.JoinRequestRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	validator *validator.Validate,
) *JoinRequestService {
	return &JoinRequestService{
		repo:           repo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		validator:      validator,
	}
}

// CreateJoinRequestRequest represents the request to create a join request
type CreateJoinRequestRequest struct {
	RequesterUserID uuid.UUID `json:"-" validate:"required"`
	TeamID          uuid.UUID `json:"team_id" validate:"required"`
	Message         string    `json:"message" validate:"max=500"`
}

// JoinRequestResponse represents a join request in API responses
type JoinRequestResponse struct {
	ID              uuid.UUID            `json:"id"`
	RequesterUserID uuid.UUID            `json:"requester_user_id"`
	TeamID          uuid.UUID            `json:"team_id"`
	Status          models.RequestStatus `json:"status"`
	Message         string               `json:"message,omitempty"`
	ReviewedBy      *uuid.UUID           `json:"reviewed_by,omitempty"`
	ReviewedAt      *string              `json:"reviewed_at,omitempty"`
	CreatedAt       string               `json:"created_at"`
}

// Create submits a join request. Requesters already on the target roster are
// rejected at creation time, as are duplicate pending requests.
func (s *JoinRequestService) Create(req *CreateJoinRequestRequest) (*JoinRequestResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.userRepo.GetByID(req.RequesterUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify requester: %w", err)
	}

	if _, err := s.teamRepo.GetByID(req.TeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to verify team: %w", err)
	}

	if _, err := s.membershipRepo.GetByTeamAndUser(req.TeamID, req.RequesterUserID); err == nil {
		return nil, apperrors.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	pending, err := s.repo.HasPendingForUserAndTeam(req.RequesterUserID, req.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, apperrors.ErrDuplicatePendingRequest
	}

	joinRequest := &models.JoinRequest{
		RequesterUserID: req.RequesterUserID,
		TeamID:          req.TeamID,
		Status:          models.RequestStatusPending,
		Message:         req.Message,
	}
	if err := s.repo.Create(joinRequest); err != nil {
		return nil, fmt.Errorf("failed to create join request: %w", err)
	}

	return s.toResponse(joinRequest), nil
}

// GetByID retrieves a join request by ID
func (s *JoinRequestService) GetByID(id uuid.UUID) (*JoinRequestResponse, error) {
	joinRequest, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJoinRequestNotFound
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return s.toResponse(joinRequest), nil
}

// ListForUser retrieves the join requests submitted by a user
func (s *JoinRequestService) ListForUser(userID uuid.UUID) ([]JoinRequestResponse, error) {
	requests, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// ListPendingForReviewer retrieves pending join requests targeting teams the
// principal administers. The scoping is a hard filter at the query level.
func (s *JoinRequestService) ListPendingForReviewer(principalID uuid.UUID) ([]JoinRequestResponse, error) {
	teamIDs, err := s.membershipRepo.TeamIDsAdministeredBy(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve administered teams: %w", err)
	}

	requests, err := s.repo.GetPendingByTeamIDs(teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending join requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// Withdraw deletes a pending join request on behalf of its requester
func (s *JoinRequestService) Withdraw(id, principalID uuid.UUID) error {
	joinRequest, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrJoinRequestNotFound
		}
		return fmt.Errorf("failed to get join request: %w", err)
	}

	if joinRequest.RequesterUserID != principalID {
		return apperrors.ErrNotRequestOwner
	}
	if joinRequest.Status != models.RequestStatusPending {
		return apperrors.NewInvalidStateError("join request", string(joinRequest.Status))
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to withdraw join request: %w", err)
	}
	return nil
}

func (s *JoinRequestService) toResponse(req *models.JoinRequest) *JoinRequestResponse {
	resp := &JoinRequestResponse{
		ID:              req.ID,
		RequesterUserID: req.RequesterUserID,
		TeamID:          req.TeamID,
		Status:          req.Status,
		Message:         req.Message,
		ReviewedBy:      req.ReviewedBy,
		CreatedAt:       req.CreatedAt.Format(time.RFC3339),
	}
	if req.ReviewedAt != nil {
		reviewedAt := req.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}

func (s *JoinRequestService) toResponses(requests []models.JoinRequest) []JoinRequestResponse {
	responses := make([]JoinRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = *s.toResponse(&req)
	}
	return responses
}
