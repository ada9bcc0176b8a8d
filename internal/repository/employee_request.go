package repository

import (
	"time"

	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeRequestRepository handles database operations for employee requests
type EmployeeRequestRepository struct {
	db *gorm.DB
}

// NewEmployeeRequestRepository creates a new employee request repository
func NewEmployeeRequestRepository(db *gorm.DB) *EmployeeRequestRepository {
	return &EmployeeRequestRepository{db: db}
}

// WithTx returns a repository scoped to the given transaction
func (r *EmployeeRequestRepository) WithTx(tx *gorm.DB) EmployeeRequestRepositoryInterface {
	return &EmployeeRequestRepository{db: tx}
}

// Create creates a new employee request
func (r *EmployeeRequestRepository) Create(req *models.EmployeeRequest) error {
	return r.db.Create(req).Error
}

// GetByID retrieves an employee request by ID
func (r *EmployeeRequestRepository) GetByID(id uuid.UUID) (*models.EmployeeRequest, error) {
	var req models.EmployeeRequest
	err := r.db.First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetByUserID retrieves all employee requests submitted by a user
func (r *EmployeeRequestRepository) GetByUserID(userID uuid.UUID) ([]models.EmployeeRequest, error) {
	var reqs []models.EmployeeRequest
	err := r.db.Where("requester_user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// GetPendingByTeamIDs retrieves pending employee requests raised from any of
// the given teams
func (r *EmployeeRequestRepository) GetPendingByTeamIDs(teamIDs []uuid.UUID) ([]models.EmployeeRequest, error) {
	if len(teamIDs) == 0 {
		return []models.EmployeeRequest{}, nil
	}
	var reqs []models.EmployeeRequest
	err := r.db.Where("team_id IN ? AND status = ?", teamIDs, models.RequestStatusPending).
		Order("created_at").Find(&reqs).Error
	return reqs, err
}

// UpdateStatusIfPending flips the request into a terminal status, guarded on
// the row still being pending, recording the manager response when supplied
func (r *EmployeeRequestRepository) UpdateStatusIfPending(id uuid.UUID, status models.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time, managerResponse *string) (int64, error) {
	updates := map[string]interface{}{
		"status":      status,
		"reviewed_by": reviewedBy,
		"reviewed_at": reviewedAt,
	}
	if managerResponse != nil {
		updates["manager_response"] = *managerResponse
	}
	result := r.db.Model(&models.EmployeeRequest{}).
		Where("id = ? AND status = ?", id, models.RequestStatusPending).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Delete deletes an employee request
func (r *EmployeeRequestRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.EmployeeRequest{}, "id = ?", id).Error
}
