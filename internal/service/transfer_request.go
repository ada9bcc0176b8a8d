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

// TransferRequestService handles business logic for transfer requests
type TransferRequestService struct {
	repo           repository.TransferRequestRepositoryInterface
	teamRepo       repository.TeamRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	validator      *validator.Validate
}

// NewTransferRequestService creates a new transfer request service
func NewTransferRequestService(
	repo repository.TransferRequestRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	validator *validator.Validate,
) *TransferRequestService {
	return &TransferRequestService{
		repo:           repo,
		teamRepo:       teamRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		validator:      validator,
	}
}

// CreateTransferRequestRequest represents the request to create a transfer
// request. A nil FromTeamID means the requester currently has no team.
type CreateTransferRequestRequest struct {
	RequesterUserID uuid.UUID  `json:"-" validate:"required"`
	FromTeamID      *uuid.UUID `json:"from_team_id,omitempty"`
	ToTeamID        uuid.UUID  `json:"to_team_id" validate:"required"`
	Message         string     `json:"message" validate:"max=500"`
}

// TransferRequestResponse represents a transfer request in API responses
type TransferRequestResponse struct {
	ID              uuid.UUID            `json:"id"`
	RequesterUserID uuid.UUID            `json:"requester_user_id"`
	FromTeamID      *uuid.UUID           `json:"from_team_id,omitempty"`
	ToTeamID        uuid.UUID            `json:"to_team_id"`
	Status          models.RequestStatus `json:"status"`
	Message         string               `json:"message,omitempty"`
	ReviewedBy      *uuid.UUID           `json:"reviewed_by,omitempty"`
	ReviewedAt      *string              `json:"reviewed_at,omitempty"`
	CreatedAt       string               `json:"created_at"`
}

// Create submits a transfer request
func (s *TransferRequestService) Create(req *CreateTransferRequestRequest) (*TransferRequestResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.FromTeamID != nil && *req.FromTeamID == req.ToTeamID {
		return nil, apperrors.ErrSameTeamTransfer
	}

	if _, err := s.userRepo.GetByID(req.RequesterUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify requester: %w", err)
	}

	if _, err := s.teamRepo.GetByID(req.ToTeamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to verify target team: %w", err)
	}

	if req.FromTeamID != nil {
		if _, err := s.teamRepo.GetByID(*req.FromTeamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to verify source team: %w", err)
		}
	}

	if _, err := s.membershipRepo.GetByTeamAndUser(req.ToTeamID, req.RequesterUserID); err == nil {
		return nil, apperrors.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	pending, err := s.repo.HasPendingForUserAndTeam(req.RequesterUserID, req.ToTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, apperrors.ErrDuplicatePendingRequest
	}

	transferRequest := &models.TransferRequest{
		RequesterUserID: req.RequesterUserID,
		FromTeamID:      req.FromTeamID,
		ToTeamID:        req.ToTeamID,
		Status:          models.RequestStatusPending,
		Message:         req.Message,
	}
	if err := s.repo.Create(transferRequest); err != nil {
		return nil, fmt.Errorf("failed to create transfer request: %w", err)
	}

	return s.toResponse(transferRequest), nil
}

// GetByID retrieves a transfer request by ID
func (s *TransferRequestService) GetByID(id uuid.UUID) (*TransferRequestResponse, error) {
	transferRequest, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransferRequestNotFound
		}
		return nil, fmt.Errorf("failed to get transfer request: %w", err)
	}
	return s.toResponse(transferRequest), nil
}

// ListForUser retrieves the transfer requests submitted by a user
func (s *TransferRequestService) ListForUser(userID uuid.UUID) ([]TransferRequestResponse, error) {
	requests, err := s.repo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// ListPendingForReviewer retrieves pending transfer requests targeting teams
// the principal administers
func (s *TransferRequestService) ListPendingForReviewer(principalID uuid.UUID) ([]TransferRequestResponse, error) {
	teamIDs, err := s.membershipRepo.TeamIDsAdministeredBy(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve administered teams: %w", err)
	}

	requests, err := s.repo.GetPendingByTeamIDs(teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transfer requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// Withdraw deletes a pending transfer request on behalf of its requester
func (s *TransferRequestService) Withdraw(id, principalID uuid.UUID) error {
	transferRequest, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTransferRequestNotFound
		}
		return fmt.Errorf("failed to get transfer request: %w", err)
	}

	if transferRequest.RequesterUserID != principalID {
		return apperrors.ErrNotRequestOwner
	}
	if transferRequest.Status != models.RequestStatusPending {
		return apperrors.NewInvalidStateError("transfer request", string(transferRequest.Status))
	}

	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to withdraw transfer request: %w", err)
	}
	return nil
}

func (s *TransferRequestService) toResponse(req *models.TransferRequest) *TransferRequestResponse {
	resp := &TransferRequestResponse{
		ID:              req.ID,
		RequesterUserID: req.RequesterUserID,
		FromTeamID:      req.FromTeamID,
		ToTeamID:        req.ToTeamID,
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

func (s *TransferRequestService) toResponses(requests []models.TransferRequest) []TransferRequestResponse {
	responses := make([]TransferRequestResponse, len(requests))
	for i, req := range requests {
		responses[i] = *s.toResponse(&req)
	}
	return responses
}
