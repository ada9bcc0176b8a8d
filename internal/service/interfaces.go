package service

import (
	"github.com/google/uuid"
)

// AuthorizationGuardInterface decides whether a principal may review a request
type AuthorizationGuardInterface interface {
	CanReview(principalID uuid.UUID, kind RequestKind, requesterID, teamID uuid.UUID) error
}

// NotificationDispatcherInterface delivers workflow notifications. Dispatch
// reports whether the notification was durably written on the first attempt;
// failed deliveries are retried in the background.
type NotificationDispatcherInterface interface {
	Dispatch(input *DispatchInput) bool
}

// WorkflowServiceInterface drives request lifecycle transitions
type WorkflowServiceInterface interface {
	Transition(req *TransitionRequest) (*TransitionResponse, error)
}

// JoinRequestServiceInterface manages join requests
type JoinRequestServiceInterface interface {
	Create(req *CreateJoinRequestRequest) (*JoinRequestResponse, error)
	GetByID(id uuid.UUID) (*JoinRequestResponse, error)
	ListForUser(userID uuid.UUID) ([]JoinRequestResponse, error)
	ListPendingForReviewer(principalID uuid.UUID) ([]JoinRequestResponse, error)
	Withdraw(id, principalID uuid.UUID) error
}

// TransferRequestServiceInterface manages transfer requests
type TransferRequestServiceInterface interface {
	Create(req *CreateTransferRequestRequest) (*TransferRequestResponse, error)
	GetByID(id uuid.UUID) (*TransferRequestResponse, error)
	ListForUser(userID uuid.UUID) ([]TransferRequestResponse, error)
	ListPendingForReviewer(principalID uuid.UUID) ([]TransferRequestResponse, error)
	Withdraw(id, principalID uuid.UUID) error
}

// EmployeeRequestServiceInterface manages employee requests
type EmployeeRequestServiceInterface interface {
	Create(req *CreateEmployeeRequestRequest) (*EmployeeRequestResponse, error)
	GetByID(id uuid.UUID) (*EmployeeRequestResponse, error)
	ListForUser(userID uuid.UUID) ([]EmployeeRequestResponse, error)
	ListPendingForReviewer(principalID uuid.UUID) ([]EmployeeRequestResponse, error)
	Withdraw(id, principalID uuid.UUID) error
}

// NotificationServiceInterface manages the per-user notification log
type NotificationServiceInterface interface {
	ListForUser(userID uuid.UUID, page, pageSize int) (*NotificationListResponse, error)
	MarkRead(id, userID uuid.UUID) error
	MarkAllRead(userID uuid.UUID) error
	UnreadCount(userID uuid.UUID) (int64, error)
}

// TeamServiceInterface manages teams and rosters
type TeamServiceInterface interface {
	Create(req *CreateTeamRequest) (*TeamResponse, error)
	GetByID(id uuid.UUID) (*TeamResponse, error)
	GetWithMembers(id uuid.UUID) (*TeamWithMembersResponse, error)
	List(page, pageSize int) (*TeamListResponse, error)
}
