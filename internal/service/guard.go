package service

import (
	"errors"
	"fmt"

	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthorizationGuard decides whether a principal may review a request. Team
// roles are always re-derived from the roster, never from session claims,
// since roles can change after login.
type AuthorizationGuard struct {
	membershipRepo repository.MembershipRepositoryInterface
	teamRepo       repository.TeamRepositoryInterface
}

// NewAuthorizationGuard creates a new authorization guard
func NewAuthorizationGuard(membershipRepo repository.MembershipRepositoryInterface, teamRepo repository.TeamRepositoryInterface) *AuthorizationGuard {
	return &AuthorizationGuard{
		membershipRepo: membershipRepo,
		teamRepo:       teamRepo,
	}
}

// CanReview returns nil when the principal may decide the request, and an
// AuthorizationError otherwise. teamID is the reviewing boundary: the target
// team for join and transfer requests, the requester's team for employee
// requests. Self-review is denied before any role lookup so that a requester
// with an administrative role still cannot approve their own request.
func (g *AuthorizationGuard) CanReview(principalID uuid.UUID, kind RequestKind, requesterID, teamID uuid.UUID) error {
	if principalID == requesterID {
		return apperrors.ErrSelfReview
	}

	if kind == KindEmployee {
		team, err := g.teamRepo.GetByID(teamID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load team: %w", err)
		}
		if team != nil && team.ManagerID != nil && *team.ManagerID == principalID {
			return nil
		}
	}

	membership, err := g.membershipRepo.GetByTeamAndUser(teamID, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotAuthorizedToReview
		}
		return fmt.Errorf("failed to load principal membership: %w", err)
	}

	if !membership.Role.CanReview() {
		return apperrors.ErrNotAuthorizedToReview
	}

	return nil
}
