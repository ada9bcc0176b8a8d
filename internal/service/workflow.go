package service

import (
	"errors"
	"fmt"
	"time"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/logger"
	"ops-portal-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestKind discriminates the three request variants sharing the same
// lifecycle semantics
type RequestKind string

const (
	KindJoin     RequestKind = "join"
	KindTransfer RequestKind = "transfer"
	KindEmployee RequestKind = "employee"
)

// IsValid checks if the RequestKind is valid
func (k RequestKind) IsValid() bool {
	switch k {
	case KindJoin, KindTransfer, KindEmployee:
		return true
	}
	return false
}

func (k RequestKind) entity() string {
	switch k {
	case KindJoin:
		return "join request"
	case KindTransfer:
		return "transfer request"
	case KindEmployee:
		return "employee request"
	}
	return "request"
}

// Decision is the reviewer's verdict on a pending request
type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionReject  Decision = "rejected"
)

// TransitionRequest represents a reviewer's decision on a pending request
type TransitionRequest struct {
	Kind        RequestKind `json:"kind" validate:"required,oneof=join transfer employee"`
	RequestID   uuid.UUID   `json:"request_id" validate:"required"`
	Decision    Decision    `json:"decision" validate:"required,oneof=approved rejected"`
	PrincipalID uuid.UUID   `json:"principal_id" validate:"required"`
	Comment     *string     `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// TransitionResponse reports the authoritative outcome of a transition.
// NotificationDelivered is false when the decision committed but the
// notification write failed and is being retried in the background.
type TransitionResponse struct {
	Kind                  RequestKind          `json:"kind"`
	RequestID             uuid.UUID            `json:"request_id"`
	Status                models.RequestStatus `json:"status"`
	ReviewedBy            uuid.UUID            `json:"reviewed_by"`
	ReviewedAt            time.Time            `json:"reviewed_at"`
	NotificationDelivered bool                 `json:"notification_delivered"`
}

// transitionTarget is the common header the engine extracts from any of the
// three request variants before dispatching kind-specific side effects
type transitionTarget struct {
	requesterID uuid.UUID
	status      models.RequestStatus
	boundaryID  uuid.UUID  // team whose administrators may review
	fromTeamID  *uuid.UUID // transfer source roster, nil when requester had no team
	toTeamID    uuid.UUID  // membership target for join and transfer approvals
	label       string     // human-readable subject for the notification text
}

// WorkflowService orchestrates request lifecycle transitions: authorization,
// the membership side effect, the guarded status flip and the outcome
// notification. The side effect and the status flip share one transaction so
// no reader ever observes a half-applied approval.
type WorkflowService struct {
	db             repository.TransactionManager
	joinRepo       repository.JoinRequestRepositoryInterface
	transferRepo   repository.TransferRequestRepositoryInterface
	employeeRepo   repository.EmployeeRequestRepositoryInterface
	membershipRepo repository.MembershipRepositoryInterface
	teamRepo       repository.TeamRepositoryInterface
	guard          AuthorizationGuardInterface
	notifications  NotificationDispatcherInterface
	validator      *validator.Validate
	log            *logger.Logger
}

// NewWorkflowService creates a new workflow service
func NewWorkflowService(
	db repository.TransactionManager,
	joinRepo repository.JoinRequestRepositoryInterface,
	transferRepo repository.TransferRequestRepositoryInterface,
	employeeRepo repository.EmployeeRequestRepositoryInterface,
	membershipRepo repository.MembershipRepositoryInterface,
	teamRepo repository.TeamRepositoryInterface,
	guard AuthorizationGuardInterface,
	notifications NotificationDispatcherInterface,
	validator *validator.Validate,
) *WorkflowService {
	return &WorkflowService{
		db:             db,
		joinRepo:       joinRepo,
		transferRepo:   transferRepo,
		employeeRepo:   employeeRepo,
		membershipRepo: membershipRepo,
		teamRepo:       teamRepo,
		guard:          guard,
		notifications:  notifications,
		validator:      validator,
		log:            logger.New(),
	}
}

// Transition validates and applies a reviewer decision. Local validation
// failures (NotFound, InvalidState, Unauthorized) surface before any state is
// touched. Approval side effects and the status flip commit atomically; the
// flip is guarded on the row still being pending so a concurrent reviewer
// loses with InvalidState instead of double-applying the mutation.
func (s *WorkflowService) Transition(req *TransitionRequest) (*TransitionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	target, err := s.loadTarget(req.Kind, req.RequestID)
	if err != nil {
		return nil, err
	}

	if target.status != models.RequestStatusPending {
		return nil, apperrors.NewInvalidStateError(req.Kind.entity(), string(target.status))
	}

	if err := s.guard.CanReview(req.PrincipalID, req.Kind, target.requesterID, target.boundaryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if req.Decision == DecisionApprove {
			if err := s.applySideEffect(tx, req.Kind, target); err != nil {
				return err
			}
		}

		rows, err := s.flipStatus(tx, req, now)
		if err != nil {
			return apperrors.NewDependencyFailureError("status update", err)
		}
		if rows == 0 {
			// Lost the race against a concurrent reviewer; the rollback
			// discards any membership mutation applied above.
			return apperrors.NewInvalidStateError(req.Kind.entity(), "")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	delivered := s.notifications.Dispatch(s.buildNotification(req, target))

	s.log.WithFields(map[string]interface{}{
		"kind":       req.Kind,
		"request_id": req.RequestID,
		"decision":   req.Decision,
		"reviewer":   req.PrincipalID,
	}).Info("request transitioned")

	return &TransitionResponse{
		Kind:                  req.Kind,
		RequestID:             req.RequestID,
		Status:                models.RequestStatus(req.Decision),
		ReviewedBy:            req.PrincipalID,
		ReviewedAt:            now,
		NotificationDelivered: delivered,
	}, nil
}

// loadTarget reads the variant row and projects it onto the common header
func (s *WorkflowService) loadTarget(kind RequestKind, id uuid.UUID) (*transitionTarget, error) {
	switch kind {
	case KindJoin:
		req, err := s.joinRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrJoinRequestNotFound
			}
			return nil, fmt.Errorf("failed to load join request: %w", err)
		}
		return &transitionTarget{
			requesterID: req.RequesterUserID,
			status:      req.Status,
			boundaryID:  req.TeamID,
			toTeamID:    req.TeamID,
			label:       s.teamLabel(req.TeamID),
		}, nil
	case KindTransfer:
		req, err := s.transferRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTransferRequestNotFound
			}
			return nil, fmt.Errorf("failed to load transfer request: %w", err)
		}
		return &transitionTarget{
			requesterID: req.RequesterUserID,
			status:      req.Status,
			boundaryID:  req.ToTeamID,
			fromTeamID:  req.FromTeamID,
			toTeamID:    req.ToTeamID,
			label:       s.teamLabel(req.ToTeamID),
		}, nil
	case KindEmployee:
		req, err := s.employeeRepo.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrEmployeeRequestNotFound
			}
			return nil, fmt.Errorf("failed to load employee request: %w", err)
		}
		return &transitionTarget{
			requesterID: req.RequesterUserID,
			status:      req.Status,
			boundaryID:  req.TeamID,
			label:       req.Title,
		}, nil
	}
	return nil, apperrors.NewValidationError("kind", "unknown request kind")
}

// applySideEffect performs the membership mutation for approvals. Employee
// requests have no side effect. All three kinds funnel through this single
// dispatch so the atomicity invariant lives in exactly one place.
func (s *WorkflowService) applySideEffect(tx *gorm.DB, kind RequestKind, target *transitionTarget) error {
	switch kind {
	case KindJoin:
		return s.addMember(tx, target.toTeamID, target.requesterID)
	case KindTransfer:
		if target.fromTeamID != nil {
			if err := s.removeMember(tx, *target.fromTeamID, target.requesterID); err != nil {
				return err
			}
		}
		return s.addMember(tx, target.toTeamID, target.requesterID)
	case KindEmployee:
		return nil
	}
	return apperrors.NewValidationError("kind", "unknown request kind")
}

// addMember creates a member-role roster row for the user in the team.
// An existing membership is an error, not a silent overwrite.
func (s *WorkflowService) addMember(tx *gorm.DB, teamID, userID uuid.UUID) error {
	if _, err := s.teamRepo.WithTx(tx).GetByID(teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTeamNotFound
		}
		return apperrors.NewDependencyFailureError("load target team", err)
	}

	memberships := s.membershipRepo.WithTx(tx)
	if _, err := memberships.GetByTeamAndUser(teamID, userID); err == nil {
		return apperrors.ErrAlreadyMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewDependencyFailureError("check existing membership", err)
	}

	membership := &models.TeamMembership{
		TeamID: teamID,
		UserID: userID,
		Role:   models.MembershipRoleMember,
	}
	if err := memberships.Create(membership); err != nil {
		return apperrors.NewDependencyFailureError("create membership", err)
	}
	return nil
}

// removeMember drops the user's roster row in the team. A missing row is a
// no-op: a transfer with a stale source team still succeeds. Removing the
// last owner is refused.
func (s *WorkflowService) removeMember(tx *gorm.DB, teamID, userID uuid.UUID) error {
	memberships := s.membershipRepo.WithTx(tx)

	membership, err := memberships.GetByTeamAndUser(teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperrors.NewDependencyFailureError("load membership", err)
	}

	if membership.Role == models.MembershipRoleOwner {
		owners, err := memberships.CountByTeamAndRole(teamID, models.MembershipRoleOwner)
		if err != nil {
			return apperrors.NewDependencyFailureError("count owners", err)
		}
		if owners <= 1 {
			return apperrors.ErrLastOwner
		}
	}

	if _, err := memberships.Delete(teamID, userID); err != nil {
		return apperrors.NewDependencyFailureError("delete membership", err)
	}
	return nil
}

// flipStatus performs the guarded pending-to-terminal update for the kind
func (s *WorkflowService) flipStatus(tx *gorm.DB, req *TransitionRequest, now time.Time) (int64, error) {
	status := models.RequestStatus(req.Decision)
	switch req.Kind {
	case KindJoin:
		return s.joinRepo.WithTx(tx).UpdateStatusIfPending(req.RequestID, status, req.PrincipalID, now)
	case KindTransfer:
		return s.transferRepo.WithTx(tx).UpdateStatusIfPending(req.RequestID, status, req.PrincipalID, now)
	case KindEmployee:
		return s.employeeRepo.WithTx(tx).UpdateStatusIfPending(req.RequestID, status, req.PrincipalID, now, req.Comment)
	}
	return 0, fmt.Errorf("unknown request kind %q", req.Kind)
}

// buildNotification composes the outcome notification for the requester
func (s *WorkflowService) buildNotification(req *TransitionRequest, target *transitionTarget) *DispatchInput {
	approved := req.Decision == DecisionApprove

	var title, message string
	switch req.Kind {
	case KindJoin:
		title = fmt.Sprintf("Join request %s", req.Decision)
		message = fmt.Sprintf("Your request to join %s has been %s.", target.label, req.Decision)
	case KindTransfer:
		title = fmt.Sprintf("Transfer request %s", req.Decision)
		message = fmt.Sprintf("Your transfer to %s has been %s.", target.label, req.Decision)
	case KindEmployee:
		title = fmt.Sprintf("Request %s", req.Decision)
		message = fmt.Sprintf("Your request %q has been %s.", target.label, req.Decision)
	}
	if req.Comment != nil && *req.Comment != "" {
		message = fmt.Sprintf("%s Reviewer comment: %s", message, *req.Comment)
	}

	notificationType := models.NotificationTypeRequestRejected
	if approved {
		notificationType = models.NotificationTypeRequestApproved
	}

	return &DispatchInput{
		UserID:    target.requesterID,
		Title:     title,
		Message:   message,
		Type:      notificationType,
		RelatedID: req.RequestID,
	}
}

// teamLabel resolves a team name for notification text, falling back to a
// neutral label when the lookup fails. Purely cosmetic, never fatal.
func (s *WorkflowService) teamLabel(teamID uuid.UUID) string {
	team, err := s.teamRepo.GetByID(teamID)
	if err != nil {
		return "the team"
	}
	return team.Name
}
