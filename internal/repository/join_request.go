package repository

import (
	"time"

	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JoinRequestRepository handles database operations for join requests
type JoinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository creates a new join request repository
func NewJoinRequestRepository(db *gorm.DB) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

// WithTx returns a repository scoped to the given transaction
func (r *JoinRequestRepository) WithTx(tx *gorm.DB) JoinRequestRepositoryInterface {
	return &JoinRequestRepository{db: tx}
}

// Create creates a new join request
func (r *JoinRequestRepository) Create(req *models.JoinRequest) error {
	return r.db.Create(req).Error
}

// GetByID retrieves a join request by ID
func (r *JoinRequestRepository) GetByID(id uuid.UUID) (*models.JoinRequest, error) {
	var req models.JoinRequest
	err := r.db.First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByUserID retrieves all join requests submitted by a user
func (r *JoinRequestRepository) GetByUserID(userID uuid.UUID) ([]models.JoinRequest, error) {
	var reqs []models.JoinRequest
	err := r.db.Where("requester_user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// GetPendingByTeamIDs retrieves pending join requests targeting any of the
// given teams. Callers pass the set of teams the reviewer administers; the
// filter is part of the authorization boundary, not a convenience.
func (r *JoinRequestRepository) GetPendingByTeamIDs(teamIDs []uuid.UUID) ([]models.JoinRequest, error) {
	if len(teamIDs) == 0 {
		return []models.JoinRequest{}, nil
	}
	var reqs []models.JoinRequest
	err := r.db.Where("team_id IN ? AND status = ?", teamIDs, models.RequestStatusPending).
		Order("created_at").Find(&reqs).Error
	return reqs, err
}

// HasPendingForUserAndTeam reports whether the user already has a pending
// join request for the team
func (r *JoinRequestRepository) HasPendingForUserAndTeam(userID, teamID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.JoinRequest{}).
		Where("requester_user_id = ? AND team_id = ? AND status = ?", userID, teamID, models.RequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatusIfPending flips the request into a terminal status, guarded on
// the row still being pending. The returned row count is zero when a
// concurrent reviewer already decided the request.
func (r *JoinRequestRepository) UpdateStatusIfPending(id uuid.UUID, status models.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time) (int64, error) {
	result := r.db.Model(&models.JoinRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
		})
	return result.RowsAffected, result.Error
}

// Delete deletes a join request
func (r *JoinRequestRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.JoinRequest{}, "id = ?", id).Error
}
