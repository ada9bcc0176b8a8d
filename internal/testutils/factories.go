package testutils

import (
	"fmt"
	"time"

	"ops-portal-backend/internal/database/models"

	"github.com/google/uuid"
)

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		FullName: "Jordan Reyes",
		Email:    fmt.Sprintf("user-%s@test.com", id.String()[:8]),
		IsActive: true,
	}
}

// WithEmail sets a custom email for the user
func (f *UserFactory) WithEmail(email string) *models.User {
	user := f.Create()
	user.Email = email
	return user
}

// WithName sets a custom full name for the user
func (f *UserFactory) WithName(name string) *models.User {
	user := f.Create()
	user.FullName = name
	return user
}

// Inactive creates a deactivated user
func (f *UserFactory) Inactive() *models.User {
	user := f.Create()
	user.IsActive = false
	return user
}

// TeamFactory provides methods to create test Team data
type TeamFactory struct{}

// NewTeamFactory creates a new TeamFactory
func NewTeamFactory() *TeamFactory {
	return &TeamFactory{}
}

// Create creates a test Team with default values
func (f *TeamFactory) Create() *models.Team {
	id := uuid.New()
	suffix := id.String()[:8]
	return &models.Team{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Name:        "Team " + suffix,
		Slug:        "team-" + suffix,
		Description: "A test team",
	}
}

// WithName sets a custom name and slug for the team
func (f *TeamFactory) WithName(name, slug string) *models.Team {
	team := f.Create()
	team.Name = name
	team.Slug = slug
	return team
}

// WithManager sets the manager for the team
func (f *TeamFactory) WithManager(managerID uuid.UUID) *models.Team {
	team := f.Create()
	team.ManagerID = &managerID
	return team
}

// MembershipFactory provides methods to create test TeamMembership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a membership for the given team and user with role member
func (f *MembershipFactory) Create(teamID, userID uuid.UUID) *models.TeamMembership {
	return &models.TeamMembership{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TeamID: teamID,
		UserID: userID,
		Role:   models.MembershipRoleMember,
	}
}

// WithRole creates a membership with the given role
func (f *MembershipFactory) WithRole(teamID, userID uuid.UUID, role models.MembershipRole) *models.TeamMembership {
	membership := f.Create(teamID, userID)
	membership.Role = role
	return membership
}

// JoinRequestFactory provides methods to create test JoinRequest data
type JoinRequestFactory struct{}

// NewJoinRequestFactory creates a new JoinRequestFactory
func NewJoinRequestFactory() *JoinRequestFactory {
	return &JoinRequestFactory{}
}

// Create creates a pending join request for the given requester and team
func (f *JoinRequestFactory) Create(requesterID, teamID uuid.UUID) *models.JoinRequest {
	return &models.JoinRequest{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		RequesterUserID: requesterID,
		TeamID:          teamID,
		Status:          models.RequestStatusPending,
		Message:         "I would like to join this team",
	}
}

// WithStatus creates a join request already in the given status
func (f *JoinRequestFactory) WithStatus(requesterID, teamID uuid.UUID, status models.RequestStatus) *models.JoinRequest {
	req := f.Create(requesterID, teamID)
	req.Status = status
	if status.IsTerminal() {
		reviewer := uuid.New()
		now := time.Now()
		req.ReviewedBy = &reviewer
		req.ReviewedAt = &now
	}
	return req
}

// TransferRequestFactory provides methods to create test TransferRequest data
type TransferRequestFactory struct{}

// NewTransferRequestFactory creates a new TransferRequestFactory
func NewTransferRequestFactory() *TransferRequestFactory {
	return &TransferRequestFactory{}
}

// Create creates a pending transfer request between the given teams
func (f *TransferRequestFactory) Create(requesterID uuid.UUID, fromTeamID *uuid.UUID, toTeamID uuid.UUID) *models.TransferRequest {
	return &models.TransferRequest{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		RequesterUserID: requesterID,
		FromTeamID:      fromTeamID,
		ToTeamID:        toTeamID,
		Status:          models.RequestStatusPending,
		Message:         "Requesting a team change",
	}
}

// EmployeeRequestFactory provides methods to create test EmployeeRequest data
type EmployeeRequestFactory struct{}

// NewEmployeeRequestFactory creates a new EmployeeRequestFactory
func NewEmployeeRequestFactory() *EmployeeRequestFactory {
	return &EmployeeRequestFactory{}
}

// Create creates a pending employee request for the given requester and team
func (f *EmployeeRequestFactory) Create(requesterID, teamID uuid.UUID) *models.EmployeeRequest {
	return &models.EmployeeRequest{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		RequesterUserID: requesterID,
		TeamID:          teamID,
		Type:            models.EmployeeRequestTypeTimeOff,
		Title:           "Vacation request",
		Description:     "Two weeks in October",
		Priority:        models.RequestPriorityNormal,
		Status:          models.RequestStatusPending,
		Message:         "Covering arranged with the on-call rotation",
	}
}

// WithType creates an employee request of the given type
func (f *EmployeeRequestFactory) WithType(requesterID, teamID uuid.UUID, reqType models.EmployeeRequestType) *models.EmployeeRequest {
	req := f.Create(requesterID, teamID)
	req.Type = reqType
	return req
}

// NotificationFactory provides methods to create test Notification data
type NotificationFactory struct{}

// NewNotificationFactory creates a new NotificationFactory
func NewNotificationFactory() *NotificationFactory {
	return &NotificationFactory{}
}

// Create creates an unread notification for the given user
func (f *NotificationFactory) Create(userID uuid.UUID) *models.Notification {
	return &models.Notification{
		BaseModel: models.BaseModel{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		UserID:    userID,
		Title:     "Request approved",
		Message:   "Your request has been approved.",
		Type:      models.NotificationTypeRequestApproved,
		RelatedID: uuid.New(),
		Read:      false,
	}
}

// Read creates a notification already marked read
func (f *NotificationFactory) Read(userID uuid.UUID) *models.Notification {
	n := f.Create(userID)
	n.Read = true
	return n
}

// FactorySet provides access to all factories
type FactorySet struct {
	User            *UserFactory
	Team            *TeamFactory
	Membership      *MembershipFactory
	JoinRequest     *JoinRequestFactory
	TransferRequest *TransferRequestFactory
	EmployeeRequest *EmployeeRequestFactory
	Notification    *NotificationFactory
}

// NewFactorySet creates a new FactorySet with all factories initialized
func NewFactorySet() *FactorySet {
	return &FactorySet{
		User:            NewUserFactory(),
		Team:            NewTeamFactory(),
		Membership:      NewMembershipFactory(),
		JoinRequest:     NewJoinRequestFactory(),
		TransferRequest: NewTransferRequestFactory(),
		EmployeeRequest: NewEmployeeRequestFactory(),
		Notification:    NewNotificationFactory(),
	}
}
