package repository

import (
	"database/sql"
	"time"

	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// TransactionManager runs a function within a single database transaction.
// *gorm.DB satisfies it directly.
type TransactionManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAll(limit, offset int) ([]models.User, int64, error)
	Update(user *models.User) error
}

// TeamRepositoryInterface defines the interface for team repository operations
type TeamRepositoryInterface interface {
	WithTx(tx *gorm.DB) TeamRepositoryInterface
	Create(team *models.Team) error
	GetByID(id uuid.UUID) (*models.Team, error)
	GetBySlug(slug string) (*models.Team, error)
	GetAll(limit, offset int) ([]models.Team, int64, error)
	GetWithMemberships(id uuid.UUID) (*models.Team, error)
	GetIDsManagedBy(userID uuid.UUID) ([]uuid.UUID, error)
	Update(team *models.Team) error
	Delete(id uuid.UUID) error
}

// MembershipRepositoryInterface defines the interface for team roster operations
type MembershipRepositoryInterface interface {
	WithTx(tx *gorm.DB) MembershipRepositoryInterface
	Create(membership *models.TeamMembership) error
	GetByTeamAndUser(teamID, userID uuid.UUID) (*models.TeamMembership, error)
	GetByUserID(userID uuid.UUID) ([]models.TeamMembership, error)
	GetByTeamID(teamID uuid.UUID) ([]models.TeamMembership, error)
	Delete(teamID, userID uuid.UUID) (int64, error)
	CountByTeamAndRole(teamID uuid.UUID, role models.MembershipRole) (int64, error)
	TeamIDsAdministeredBy(userID uuid.UUID) ([]uuid.UUID, error)
}

// JoinRequestRepositoryInterface defines the interface for join request operations
type JoinRequestRepositoryInterface interface {
	WithTx(tx *gorm.DB) JoinRequestRepositoryInterface
	Create(req *models.JoinRequest) error
	GetByID(id uuid.UUID) (*models.JoinRequest, error)
	GetByUserID(userID uuid.UUID) ([]models.JoinRequest, error)
	GetPendingByTeamIDs(teamIDs []uuid.UUID) ([]models.JoinRequest, error)
	HasPendingForUserAndTeam(userID, teamID uuid.UUID) (bool, error)
	UpdateStatusIfPending(id uuid.UUID, status models.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time) (int64, error)
	Delete(id uuid.UUID) error
}

// TransferRequestRepositoryInterface defines the interface for transfer request operations
type TransferRequestRepositoryInterface interface {
	WithTx(tx *gorm.DB) TransferRequestRepositoryInterface
	Create(req *models.TransferRequest) error
	GetByID(id uuid.UUID) (*models.TransferRequest, error)
	GetByUserID(userID uuid.UUID) ([]models.TransferRequest, error)
	GetPendingByTeamIDs(teamIDs []uuid.UUID) ([]models.TransferRequest, error)
	HasPendingForUserAndTeam(userID, toTeamID uuid.UUID) (bool, error)
	UpdateStatusIfPending(id uuid.UUID, status models.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time) (int64, error)
	Delete(id uuid.UUID) error
}

// EmployeeRequestRepositoryInterface defines the interface for employee request operations
type EmployeeRequestRepositoryInterface interface {
	WithTx(tx *gorm.DB) EmployeeRequestRepositoryInterface
	Create(req *models.EmployeeRequest) error
	GetByID(id uuid.UUID) (*models.EmployeeRequest, error)
	GetByUserID(userID uuid.UUID) ([]models.EmployeeRequest, error)
	GetPendingByTeamIDs(teamIDs []uuid.UUID) ([]models.EmployeeRequest, error)
	UpdateStatusIfPending(id uuid.UUID, status models.RequestStatus, reviewedBy uuid.UUID, reviewedAt time.Time, managerResponse *string) (int64, error)
	Delete(id uuid.UUID) error
}

// NotificationRepositoryInterface defines the interface for notification operations
type NotificationRepositoryInterface interface {
	Create(notification *models.Notification) error
	GetByID(id uuid.UUID) (*models.Notification, error)
	GetByUserID(userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(id uuid.UUID) (int64, error)
	MarkAllRead(userID uuid.UUID) error
	UnreadCount(userID uuid.UUID) (int64, error)
}
