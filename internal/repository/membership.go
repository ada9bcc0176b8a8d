package repository

import (
	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository handles database operations for team rosters
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// WithTx returns a repository scoped to the given transaction
func (r *MembershipRepository) WithTx(tx *gorm.DB) MembershipRepositoryInterface {
	return &MembershipRepository{db: tx}
}

// Create creates a membership row. The composite unique index on
// (team_id, user_id) rejects duplicates at the database level.
func (r *MembershipRepository) Create(membership *models.TeamMembership) error {
	return r.db.Create(membership).Error
}

// GetByTeamAndUser retrieves the membership of a user in a team
func (r *MembershipRepository) GetByTeamAndUser(teamID, userID uuid.UUID) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	err := r.db.First(&membership, "team_id = ? AND user_id = ?", teamID, userID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetByUserID retrieves all memberships of a user
func (r *MembershipRepository) GetByUserID(userID uuid.UUID) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	err := r.db.Where("user_id = ?", userID).Find(&memberships).Error
	return memberships, err
}

// GetByTeamID retrieves the roster of a team
func (r *MembershipRepository) GetByTeamID(teamID uuid.UUID) ([]models.TeamMembership, error) {
	var memberships []models.TeamMembership
	err := r.db.Where("team_id = ?", teamID).Find(&memberships).Error
	return memberships, err
}

// Delete removes the membership of a user in a team and returns the number of
// rows removed. Zero rows is not an error: a transfer's removal step may
// legitimately have nothing to remove.
func (r *MembershipRepository) Delete(teamID, userID uuid.UUID) (int64, error) {
	result := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMembership{})
	return result.RowsAffected, result.Error
}

// CountByTeamAndRole counts roster rows of a team holding the given role
func (r *MembershipRepository) CountByTeamAndRole(teamID uuid.UUID, role models.MembershipRole) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMembership{}).
		Where("team_id = ? AND role = ?", teamID, role).
		Count(&count).Error
	return count, err
}

// TeamIDsAdministeredBy returns the IDs of teams where the user holds an
// owner or admin role. Reviewer-facing listings are scoped to this set.
func (r *MembershipRepository) TeamIDsAdministeredBy(userID uuid.UUID) ([]uuid.UUID, error) {
	var teamIDs []uuid.UUID
	err := r.db.Model(&models.TeamMembership{}).
		Where("user_id = ? AND role IN ?", userID, []models.MembershipRole{models.MembershipRoleOwner, models.MembershipRoleAdmin}).
		Pluck("team_id", &teamIDs).Error
	return teamIDs, err
}
