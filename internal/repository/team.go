package repository

import (
	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TeamRepository handles database operations for teams
type TeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// WithTx returns a repository scoped to the given transaction
func (r *TeamRepository) WithTx(tx *gorm.DB) TeamRepositoryInterface {
	return &TeamRepository{db: tx}
}

// Create creates a new team
func (r *TeamRepository) Create(team *models.Team) error {
	return r.db.Create(team).Error
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetBySlug retrieves a team by slug
func (r *TeamRepository) GetBySlug(slug string) (*models.Team, error) {
	var team models.Team
	err := r.db.First(&team, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetAll retrieves all teams with pagination
func (r *TeamRepository) GetAll(limit, offset int) ([]models.Team, int64, error) {
	var teams []models.Team
	var total int64

	if err := r.db.Model(&models.Team{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("name").Find(&teams).Error
	if err != nil {
		return nil, 0, err
	}

	return teams, total, nil
}

// GetWithMemberships retrieves a team with its full roster
func (r *TeamRepository) GetWithMemberships(id uuid.UUID) (*models.Team, error) {
	var team models.Team
	err := r.db.Preload("Memberships").Preload("Memberships.User").First(&team, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetIDsManagedBy returns the IDs of teams whose assigned manager is the user
func (r *TeamRepository) GetIDsManagedBy(userID uuid.UUID) ([]uuid.UUID, error) {
	var teamIDs []uuid.UUID
	err := r.db.Model(&models.Team{}).
		Where("manager_id = ?", userID).
		Pluck("id", &teamIDs).Error
	return teamIDs, err
}

// Update updates a team
func (r *TeamRepository) Update(team *models.Team) error {
	return r.db.Save(team).Error
}

// Delete deletes a team
func (r *TeamRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Team{}, "id = ?", id).Error
}
