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

// TeamService handles business logic for teams and their rosters. Roster
// rows on the approval path are written only by the workflow engine; the
// endpoints here exist for administration and for the dashboard's pickers.
type TeamService struct {
	repo           repository.TeamRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	userRepo       repository.UserRepositoryInterface
	validator      *validator.Validate
}

// NewTeamService creates a new team service
func NewTeamService(
	repo repository.TeamRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	userRepo repository.UserRepositoryInterface,
	validator *validator.Validate,
) *TeamService {
	return &TeamService{
		repo:           repo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		validator:      validator,
	}
}

// CreateTeamRequest represents the request to create a team. The creating
// owner seeds the roster so the team never exists without one.
type CreateTeamRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Slug        string     `json:"slug" validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"max=500"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
	OwnerUserID uuid.UUID  `json:"owner_user_id" validate:"required"`
}

// TeamResponse represents a team in API responses
type TeamResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
	CreatedAt   string     `json:"created_at"`
}

// TeamMemberResponse represents a roster row in API responses
type TeamMemberResponse struct {
	UserID   uuid.UUID             `json:"user_id"`
	FullName string                `json:"full_name,omitempty"`
	Email    string                `json:"email,omitempty"`
	Role     models.MembershipRole `json:"role"`
	JoinedAt string                `json:"joined_at"`
}

// TeamWithMembersResponse represents a team with its full roster
type TeamWithMembersResponse struct {
	TeamResponse
	Members []TeamMemberResponse `json:"members"`
}

// TeamListResponse represents a paginated list of teams
type TeamListResponse struct {
	Teams    []TeamResponse `json:"teams"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Create creates a new team with its initial owner membership
func (s *TeamService) Create(req *CreateTeamRequest) (*TeamResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if _, err := s.userRepo.GetByID(req.OwnerUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to verify owner: %w", err)
	}

	existing, err := s.repo.GetBySlug(req.Slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing team: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrTeamExists
	}

	team := &models.Team{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		ManagerID:   req.ManagerID,
	}
	if err := s.repo.Create(team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	ownerMembership := &models.TeamMembership{
		TeamID: team.ID,
		UserID: req.OwnerUserID,
		Role:   models.MembershipRoleOwner,
	}
	if err := s.membershipRepo.Create(ownerMembership); err != nil {
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	return s.toResponse(team), nil
}

// GetByID retrieves a team by ID
func (s *TeamService) GetByID(id uuid.UUID) (*TeamResponse, error) {
	team, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return s.toResponse(team), nil
}

// GetWithMembers retrieves a team with its full roster
func (s *TeamService) GetWithMembers(id uuid.UUID) (*TeamWithMembersResponse, error) {
	team, err := s.repo.GetWithMemberships(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	members := make([]TeamMemberResponse, len(team.Memberships))
	for i, membership := range team.Memberships {
		members[i] = TeamMemberResponse{
			UserID:   membership.UserID,
			FullName: membership.User.FullName,
			Email:    membership.User.Email,
			Role:     membership.Role,
			JoinedAt: membership.CreatedAt.Format(time.RFC3339),
		}
	}

	return &TeamWithMembersResponse{
		TeamResponse: *s.toResponse(team),
		Members:      members,
	}, nil
}

// List retrieves teams with pagination
func (s *TeamService) List(page, pageSize int) (*TeamListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	teams, total, err := s.repo.GetAll(pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	responses := make([]TeamResponse, len(teams))
	for i, team := range teams {
		responses[i] = *s.toResponse(&team)
	}

	return &TeamListResponse{
		Teams:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *TeamService) toResponse(team *models.Team) *TeamResponse {
	return &TeamResponse{
		ID:          team.ID,
		Name:        team.Name,
		Slug:        team.Slug,
		Description: team.Description,
		ManagerID:   team.ManagerID,
		CreatedAt:   team.CreatedAt.Format(time.RFC3339),
	}
}
