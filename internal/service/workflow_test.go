package service_test

import (
	"database/sql"
	"testing"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/mocks"
	"ops-portal-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// stubGuard lets tests force an authorization outcome without exercising
// role lookups
type stubGuard struct {
	err   error
	calls int
}

func (g *stubGuard) CanReview(principalID uuid.UUID, kind service.RequestKind, requesterID, teamID uuid.UUID) error {
	g.calls++
	return g.err
}

// stubDispatcher records dispatched notifications and returns a fixed
// delivery outcome
type stubDispatcher struct {
	delivered bool
	inputs    []*service.DispatchInput
}

func (d *stubDispatcher) Dispatch(input *service.DispatchInput) bool {
	d.inputs = append(d.inputs, input)
	return d.delivered
}

type WorkflowServiceTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockDB             *mocks.MockTransactionManager
	mockJoinRepo       *mocks.MockJoinRequestRepositoryInterface
	mockTransferRepo   *mocks.MockTransferRequestRepositoryInterface
	mockEmployeeRepo   *mocks.MockEmployeeRequestRepositoryInterface
	mockMembershipRepo *mocks.MockMembershipRepositoryInterface
	mockTeamRepo       *mocks.MockTeamRepositoryInterface
	guard              *stubGuard
	dispatcher         *stubDispatcher
	workflow           *service.WorkflowService
}

func (suite *WorkflowServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockDB = mocks.NewMockTransactionManager(suite.ctrl)
	suite.mockJoinRepo = mocks.NewMockJoinRequestRepositoryInterface(suite.ctrl)
	suite.mockTransferRepo = mocks.NewMockTransferRequestRepositoryInterface(suite.ctrl)
	suite.mockEmployeeRepo = mocks.NewMockEmployeeRequestRepositoryInterface(suite.ctrl)
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.mockTeamRepo = mocks.NewMockTeamRepositoryInterface(suite.ctrl)
	suite.guard = &stubGuard{}
	suite.dispatcher = &stubDispatcher{delivered: true}

	suite.workflow = service.NewWorkflowService(
		suite.mockDB,
		suite.mockJoinRepo,
		suite.mockTransferRepo,
		suite.mockEmployeeRepo,
		suite.mockMembershipRepo,
		suite.mockTeamRepo,
		suite.guard,
		suite.dispatcher,
		validator.New(),
	)

	// Tx-scoped repo handles resolve back to the mocks themselves
	suite.mockJoinRepo.EXPECT().WithTx(gomock.Any()).Return(suite.mockJoinRepo).AnyTimes()
	suite.mockTransferRepo.EXPECT().WithTx(gomock.Any()).Return(suite.mockTransferRepo).AnyTimes()
	suite.mockEmployeeRepo.EXPECT().WithTx(gomock.Any()).Return(suite.mockEmployeeRepo).AnyTimes()
	suite.mockMembershipRepo.EXPECT().WithTx(gomock.Any()).Return(suite.mockMembershipRepo).AnyTimes()
	suite.mockTeamRepo.EXPECT().WithTx(gomock.Any()).Return(suite.mockTeamRepo).AnyTimes()
}

func (suite *WorkflowServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

// expectTransaction makes the transaction manager run the closure directly
func (suite *WorkflowServiceTestSuite) expectTransaction() {
	suite.mockDB.EXPECT().
		Transaction(gomock.Any()).
		DoAndReturn(func(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
			return fc(nil)
		})
}

func (suite *WorkflowServiceTestSuite) pendingJoinRequest() *models.JoinRequest {
	return &models.JoinRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		RequesterUserID: uuid.New(),
		TeamID:          uuid.New(),
		Status:          models.RequestStatusPending,
	}
}

func (suite *WorkflowServiceTestSuite) TestApproveJoinRequest_AddsMemberAndNotifies() {
	req := suite.pendingJoinRequest()
	reviewer := uuid.New()
	team := &models.Team{BaseModel: models.BaseModel{ID: req.TeamID}, Name: "Platform"}

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(team, nil).AnyTimes()
	suite.expectTransaction()
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(req.TeamID, req.RequesterUserID).
		Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(m *models.TeamMembership) error {
			assert.Equal(suite.T(), req.TeamID, m.TeamID)
			assert.Equal(suite.T(), req.RequesterUserID, m.UserID)
			assert.Equal(suite.T(), models.MembershipRoleMember, m.Role)
			return nil
		})
	suite.mockJoinRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer, gomock.Any()).
		Return(int64(1), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, resp.Status)
	suite.Equal(reviewer, resp.ReviewedBy)
	suite.True(resp.NotificationDelivered)

	// Exactly one notification, addressed to the requester
	suite.Len(suite.dispatcher.inputs, 1)
	n := suite.dispatcher.inputs[0]
	suite.Equal(req.RequesterUserID, n.UserID)
	suite.Equal(models.NotificationTypeRequestApproved, n.Type)
	suite.Equal(req.ID, n.RelatedID)
	suite.Contains(n.Message, "Platform")
}

func (suite *WorkflowServiceTestSuite) TestRejectJoinRequest_NoMembershipSideEffect() {
	req := suite.pendingJoinRequest()
	reviewer := uuid.New()

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(nil, gorm.ErrRecordNotFound).AnyTimes()
	suite.expectTransaction()
	suite.mockJoinRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusRejected, reviewer, gomock.Any()).
		Return(int64(1), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionReject,
		PrincipalID: reviewer,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusRejected, resp.Status)
	suite.Len(suite.dispatcher.inputs, 1)
	suite.Equal(models.NotificationTypeRequestRejected, suite.dispatcher.inputs[0].Type)
	// Fallback label when the team lookup fails
	suite.Contains(suite.dispatcher.inputs[0].Message, "the team")
}

func (suite *WorkflowServiceTestSuite) TestReviewerComment_AppendedToNotification() {
	req := suite.pendingJoinRequest()
	reviewer := uuid.New()
	comment := "Welcome!"
	team := &models.Team{BaseModel: models.BaseModel{ID: req.TeamID}, Name: "Platform"}

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(team, nil).AnyTimes()
	suite.expectTransaction()
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(req.TeamID, req.RequesterUserID).
		Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(nil)
	suite.mockJoinRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer, gomock.Any()).
		Return(int64(1), nil)

	_, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer,
		Comment:     &comment,
	})

	suite.NoError(err)
	suite.Len(suite.dispatcher.inputs, 1)
	suite.Contains(suite.dispatcher.inputs[0].Message, "Reviewer comment: Welcome!")
}

func (suite *WorkflowServiceTestSuite) TestTransition_RequestNotFound() {
	id := uuid.New()
	suite.mockJoinRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   id,
		Decision:    service.DecisionApprove,
		PrincipalID: uuid.New(),
	})

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrJoinRequestNotFound)
	suite.Empty(suite.dispatcher.inputs)
}

func (suite *WorkflowServiceTestSuite) TestTransition_AlreadyReviewed() {
	req := suite.pendingJoinRequest()
	req.Status = models.RequestStatusApproved

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(nil, gorm.ErrRecordNotFound).AnyTimes()

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionReject,
		PrincipalID: uuid.New(),
	})

	suite.Nil(resp)
	suite.True(apperrors.IsInvalidState(err))
	suite.Equal(0, suite.guard.calls, "terminal requests should be refused before authorization")
	suite.Empty(suite.dispatcher.inputs)
}

func (suite *WorkflowServiceTestSuite) TestTransition_Unauthorized() {
	req := suite.pendingJoinRequest()
	suite.guard.err = apperrors.ErrSelfReview

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(nil, gorm.ErrRecordNotFound).AnyTimes()

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: req.RequesterUserID,
	})

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrSelfReview)
	suite.Empty(suite.dispatcher.inputs)
}

func (suite *WorkflowServiceTestSuite) TestTransition_ConcurrentReviewerLoses() {
	req := suite.pendingJoinRequest()
	reviewer := uuid.New()
	team := &models.Team{BaseModel: models.BaseModel{ID: req.TeamID}, Name: "Platform"}

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(team, nil).AnyTimes()
	suite.expectTransaction()
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(req.TeamID, req.RequesterUserID).
		Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(nil)
	// Another reviewer already flipped the row; the guarded update matches nothing
	suite.mockJoinRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer, gomock.Any()).
		Return(int64(0), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer,
	})

	suite.Nil(resp)
	suite.True(apperrors.IsInvalidState(err))
	suite.Empty(suite.dispatcher.inputs, "losing reviewer must not notify")
}

func (suite *WorkflowServiceTestSuite) TestApproveTransfer_MovesBetweenRosters() {
	fromTeam := uuid.New()
	req := &models.TransferRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		RequesterUserID: uuid.New(),
		FromTeamID:      &fromTeam,
		ToTeamID:        uuid.New(),
		Status:          models.RequestStatusPending,
	}
	reviewer := uuid.New()
	toTeam := &models.Team{BaseModel: models.BaseModel{ID: req.ToTeamID}, Name: "SRE"}

	suite.mockTransferRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.ToTeamID).Return(toTeam, nil).AnyTimes()
	suite.expectTransaction()

	// Source roster: plain member, removed
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(fromTeam, req.RequesterUserID).
		Return(&models.TeamMembership{TeamID: fromTeam, UserID: req.RequesterUserID, Role: models.MembershipRoleMember}, nil)
	suite.mockMembershipRepo.EXPECT().Delete(fromTeam, req.RequesterUserID).Return(int64(1), nil)

	// Target roster: added as member
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(req.ToTeamID, req.RequesterUserID).
		Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(nil)

	suite.mockTransferRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer, gomock.Any()).
		Return(int64(1), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindTransfer,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, resp.Status)
	suite.Len(suite.dispatcher.inputs, 1)
	suite.Contains(suite.dispatcher.inputs[0].Message, "SRE")
}

func (suite *WorkflowServiceTestSuite) TestApproveTransfer_TargetInsertFails_NothingCommits() {
	fromTeam := uuid.New()
	req := &models.TransferRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		RequesterUserID: uuid.New(),
		FromTeamID:      &fromTeam,
		ToTeamID:        uuid.New(),
		Status:          models.RequestStatusPending,
	}
	toTeam := &models.Team{BaseModel: models.BaseModel{ID: req.ToTeamID}, Name: "SRE"}

	suite.mockTransferRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.ToTeamID).Return(toTeam, nil).AnyTimes()
	suite.expectTransaction()

	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(fromTeam, req.RequesterUserID).
		Return(&models.TeamMembership{TeamID: fromTeam, UserID: req.RequesterUserID, Role: models.MembershipRoleMember}, nil)
	suite.mockMembershipRepo.EXPECT().Delete(fromTeam, req.RequesterUserID).Return(int64(1), nil)
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(req.ToTeamID, req.RequesterUserID).
		Return(nil, gorm.ErrRecordNotFound)
	suite.mockMembershipRepo.EXPECT().Create(gomock.Any()).Return(assert.AnError)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindTransfer,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: uuid.New(),
	})

	suite.Nil(resp)
	suite.True(apperrors.IsDependencyFailure(err))
	suite.Empty(suite.dispatcher.inputs, "failed transitions must not notify")
}

func (suite *WorkflowServiceTestSuite) TestApproveTransfer_LastOwnerBlocked() {
	fromTeam := uuid.New()
	req := &models.TransferRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		RequesterUserID: uuid.New(),
		FromTeamID:      &fromTeam,
		ToTeamID:        uuid.New(),
		Status:          models.RequestStatusPending,
	}
	toTeam := &models.Team{BaseModel: models.BaseModel{ID: req.ToTeamID}, Name: "SRE"}

	suite.mockTransferRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.ToTeamID).Return(toTeam, nil).AnyTimes()
	suite.expectTransaction()

	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(fromTeam, req.RequesterUserID).
		Return(&models.TeamMembership{TeamID: fromTeam, UserID: req.RequesterUserID, Role: models.MembershipRoleOwner}, nil)
	suite.mockMembershipRepo.EXPECT().
		CountByTeamAndRole(fromTeam, models.MembershipRoleOwner).
		Return(int64(1), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindTransfer,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: uuid.New(),
	})

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrLastOwner)
	suite.Empty(suite.dispatcher.inputs)
}

func (suite *WorkflowServiceTestSuite) TestApproveEmployeeRequest_StatusOnly() {
	req := &models.EmployeeRequest{
		BaseModel:       models.BaseModel{ID: uuid.New()},
		RequesterUserID: uuid.New(),
		TeamID:          uuid.New(),
		Type:            models.EmployeeRequestTypeTimeOff,
		Title:           "Vacation request",
		Status:          models.RequestStatusPending,
	}
	reviewer := uuid.New()
	comment := "Enjoy your time off"

	suite.mockEmployeeRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.expectTransaction()
	suite.mockEmployeeRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer, gomock.Any(), &comment).
		Return(int64(1), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindEmployee,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer,
		Comment:     &comment,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, resp.Status)
	suite.Len(suite.dispatcher.inputs, 1)
	suite.Contains(suite.dispatcher.inputs[0].Message, "Vacation request")
}

func (suite *WorkflowServiceTestSuite) TestNotificationFailure_DoesNotFailTransition() {
	req := suite.pendingJoinRequest()
	reviewer := uuid.New()
	team := &models.Team{BaseModel: models.BaseModel{ID: req.TeamID}, Name: "Platform"}
	suite.dispatcher.delivered = false

	suite.mockJoinRepo.EXPECT().GetByID(req.ID).Return(req, nil)
	suite.mockTeamRepo.EXPECT().GetByID(req.TeamID).Return(team, nil).AnyTimes()
	suite.expectTransaction()
	suite.mockJoinRepo.EXPECT().
		UpdateStatusIfPending(req.ID, models.RequestStatusRejected, reviewer, gomock.Any()).
		Return(int64(1), nil)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionReject,
		PrincipalID: reviewer,
	})

	suite.NoError(err, "the decision is authoritative even when the notification write fails")
	suite.Equal(models.RequestStatusRejected, resp.Status)
	suite.False(resp.NotificationDelivered)
}

func (suite *WorkflowServiceTestSuite) TestTransition_InvalidKind() {
	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        "unknown",
		RequestID:   uuid.New(),
		Decision:    service.DecisionApprove,
		PrincipalID: uuid.New(),
	})

	suite.Nil(resp)
	suite.Error(err)
	suite.Contains(err.Error(), "validation failed")
}

func TestWorkflowServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowServiceTestSuite))
}
