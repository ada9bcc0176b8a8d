package repository

import (
	"time"

	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransferRequestRepository handles database operations for transfer requests
type TransferRequestRepository struct {
	db *gorm.DB
}

// NewTransferRequestRepository creates a new transfer request repository
func NewTransferRequestRepository(db *gorm.DB) *TransferRequestRepository {
	return &TransferRequestRepository{db: db}
}

// WithTx returns a repository scoped to the given transaction
func (r *TransferRequestRepository) WithTx(tx *gorm.DB) TransferRequestRepositoryInterface {
	return &TransferRequestRepository{db: tx}
}

// Create creates a new transfer request
func (r *TransferRequestRepository) Create(req *models.TransferRequest) error {
	return r.db.Create(req).Error
}

// GetByID retrieves a transfer request by ID
func (r *TransferRequestRepository) GetByID(id uuid.UUID) (*models.TransferRequest, error) {
	var req models.TransferRequest
	err := r.db.First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByUserID retrieves all transfer requests submitted by a user
func (r *TransferRequestRepository) GetByUserID(userID uuid.UUID) ([]models.TransferRequest, error) {
	var reqs []models.TransferRequest
	err := r.db.Where("requester_user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// GetPendingByTeamIDs retrieves pending transfer requests whose target team
// is among the given teams
func (r *TransferRequestRepository) GetPendingByTeamIDs(teamIDs []uuid.UUID) ([]models.TransferRequest, error) {
	if len(teamIDs) == 0 {
		return []models.TransferRequest{}, nil
	}
	var reqs []models.TransferRequest
	err := r.db.Where("to_team_id IN ? AND status = ?", teamIDs, models.RequestStatusPending).
		Order("created_at").Find(&reqs).Error
	return reqs, err
}

// HasPendingForUserAndTeam reports whether the user already has a pending
// transfer request targeting the team
func (r *TransferRequestRepository) HasPendingForUserAndTeam(userID, toTeamID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.TransferRequest{}).
		Where("requester_user_id = ? AND to_team_id = ? AND status = ?", userID, toTeamID, models.RequestStatusPending).
		Count(&count).Error
	return count > 0, err
}

// UpdateStatusIfPending flips the request into a terminal status, guarded on
// the row still being pending
func (r *TransferRequestRepository) UpdateStatusIfPending(id uuid.UUID, status models.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time) (int64, error) {
	result := r.db.Model(&models.TransferRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewedBy,
			"reviewed_at": reviewedAt,
		})
	return result.RowsAffected, result.Error
}

// Delete deletes a transfer request
func (r *TransferRequestRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.TransferRequest{}, "id = ?", id).Error
}
