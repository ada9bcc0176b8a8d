//go:build integration
// +build integration

package service_test

import (
	"testing"
	"time"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/repository"
	"ops-portal-backend/internal/service"
	"ops-portal-backend/internal/testutils"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// WorkflowIntegrationTestSuite drives the full transition path against a real
// Postgres instance: roster mutation and status flip in one transaction, the
// guarded update deciding between competing reviewers, and the notification
// row written after commit.
type WorkflowIntegrationTestSuite struct {
	suite.Suite
	baseTestSuite    *testutils.BaseTestSuite
	workflow         *service.WorkflowService
	joinRepo         *repository.JoinRequestRepository
	transferRepo     *repository.TransferRequestRepository
	employeeRepo     *repository.EmployeeRequestRepository
	membershipRepo   *repository.MembershipRepository
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	teamRepo         *repository.TeamRepository
	factories        *testutils.FactorySet
}

func (suite *WorkflowIntegrationTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	db := suite.baseTestSuite.DB

	suite.joinRepo = repository.NewJoinRequestRepository(db)
	suite.transferRepo = repository.NewTransferRequestRepository(db)
	suite.employeeRepo = repository.NewEmployeeRequestRepository(db)
	suite.membershipRepo = repository.NewMembershipRepository(db)
	suite.notificationRepo = repository.NewNotificationRepository(db)
	suite.userRepo = repository.NewUserRepository(db)
	suite.teamRepo = repository.NewTeamRepository(db)
	suite.factories = testutils.NewFactorySet()

	guard := service.NewAuthorizationGuard(suite.membershipRepo, suite.teamRepo)
	notifications := service.NewNotificationService(suite.notificationRepo, 1, time.Millisecond)

	suite.workflow = service.NewWorkflowService(
		db,
		suite.joinRepo,
		suite.transferRepo,
		suite.employeeRepo,
		suite.membershipRepo,
		suite.teamRepo,
		guard,
		notifications,
		validator.New(),
	)
}

func (suite *WorkflowIntegrationTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *WorkflowIntegrationTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *WorkflowIntegrationTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *WorkflowIntegrationTestSuite) seedUser() *models.User {
	user := suite.factories.User.Create()
	suite.Require().NoError(suite.userRepo.Create(user))
	return user
}

func (suite *WorkflowIntegrationTestSuite) seedTeam() *models.Team {
	team := suite.factories.Team.Create()
	suite.Require().NoError(suite.teamRepo.Create(team))
	return team
}

// seedReviewer creates a user holding the owner role in the given team
func (suite *WorkflowIntegrationTestSuite) seedReviewer(team *models.Team) *models.User {
	reviewer := suite.seedUser()
	membership := suite.factories.Membership.WithRole(team.ID, reviewer.ID, models.MembershipRoleOwner)
	suite.Require().NoError(suite.membershipRepo.Create(membership))
	return reviewer
}

func (suite *WorkflowIntegrationTestSuite) TestApproveJoin_CommitsMembershipStatusAndNotification() {
	requester := suite.seedUser()
	team := suite.seedTeam()
	reviewer := suite.seedReviewer(team)

	req := suite.factories.JoinRequest.Create(requester.ID, team.ID)
	suite.Require().NoError(suite.joinRepo.Create(req))

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer.ID,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, resp.Status)
	suite.True(resp.NotificationDelivered)

	membership, err := suite.membershipRepo.GetByTeamAndUser(team.ID, requester.ID)
	suite.NoError(err)
	suite.Equal(models.MembershipRoleMember, membership.Role)

	stored, err := suite.joinRepo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, stored.Status)
	suite.NotNil(stored.ReviewedBy)
	suite.Equal(reviewer.ID, *stored.ReviewedBy)

	notifications, total, err := suite.notificationRepo.GetByUserID(requester.ID, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(models.NotificationTypeRequestApproved, notifications[0].Type)
	suite.Equal(req.ID, notifications[0].RelatedID)
}

func (suite *WorkflowIntegrationTestSuite) TestSecondReviewerConflicts() {
	requester := suite.seedUser()
	team := suite.seedTeam()
	first := suite.seedReviewer(team)
	second := suite.seedReviewer(team)

	req := suite.factories.JoinRequest.Create(requester.ID, team.ID)
	suite.Require().NoError(suite.joinRepo.Create(req))

	_, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: first.ID,
	})
	suite.Require().NoError(err)

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionReject,
		PrincipalID: second.ID,
	})

	suite.Nil(resp)
	suite.True(apperrors.IsInvalidState(err))

	// The first decision stands and only its notification exists
	stored, err := suite.joinRepo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, stored.Status)

	_, total, err := suite.notificationRepo.GetByUserID(requester.ID, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
}

func (suite *WorkflowIntegrationTestSuite) TestApproveJoin_ExistingMembershipRollsBack() {
	requester := suite.seedUser()
	team := suite.seedTeam()
	reviewer := suite.seedReviewer(team)

	req := suite.factories.JoinRequest.Create(requester.ID, team.ID)
	suite.Require().NoError(suite.joinRepo.Create(req))

	// Requester got onto the roster through another path before the review
	suite.Require().NoError(suite.membershipRepo.Create(suite.factories.Membership.Create(team.ID, requester.ID)))

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer.ID,
	})

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrAlreadyMember)

	// Nothing committed: the request is still pending and no notification exists
	stored, err := suite.joinRepo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusPending, stored.Status)
	suite.Nil(stored.ReviewedBy)

	_, total, err := suite.notificationRepo.GetByUserID(requester.ID, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(0), total)
}

func (suite *WorkflowIntegrationTestSuite) TestApproveTransfer_MovesRosterAtomically() {
	requester := suite.seedUser()
	fromTeam := suite.seedTeam()
	toTeam := suite.seedTeam()
	reviewer := suite.seedReviewer(toTeam)

	suite.Require().NoError(suite.membershipRepo.Create(suite.factories.Membership.Create(fromTeam.ID, requester.ID)))

	req := suite.factories.TransferRequest.Create(requester.ID, &fromTeam.ID, toTeam.ID)
	suite.Require().NoError(suite.transferRepo.Create(req))

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindTransfer,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer.ID,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, resp.Status)

	_, err = suite.membershipRepo.GetByTeamAndUser(fromTeam.ID, requester.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	membership, err := suite.membershipRepo.GetByTeamAndUser(toTeam.ID, requester.ID)
	suite.NoError(err)
	suite.Equal(models.MembershipRoleMember, membership.Role)
}

func (suite *WorkflowIntegrationTestSuite) TestApproveTransfer_LastOwnerRefused() {
	fromTeam := suite.seedTeam()
	toTeam := suite.seedTeam()
	reviewer := suite.seedReviewer(toTeam)

	// The requester is the only owner of the source team
	requester := suite.seedUser()
	suite.Require().NoError(suite.membershipRepo.Create(
		suite.factories.Membership.WithRole(fromTeam.ID, requester.ID, models.MembershipRoleOwner)))

	req := suite.factories.TransferRequest.Create(requester.ID, &fromTeam.ID, toTeam.ID)
	suite.Require().NoError(suite.transferRepo.Create(req))

	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindTransfer,
		RequestID:   req.ID,
		Decision:    service.DecisionApprove,
		PrincipalID: reviewer.ID,
	})

	suite.Nil(resp)
	suite.ErrorIs(err, apperrors.ErrLastOwner)

	// The old roster row survives and the request stays pending
	_, err = suite.membershipRepo.GetByTeamAndUser(fromTeam.ID, requester.ID)
	suite.NoError(err)

	stored, err := suite.transferRepo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusPending, stored.Status)
}

func (suite *WorkflowIntegrationTestSuite) TestRejectEmployeeRequest_StoresManagerResponse() {
	team := suite.seedTeam()
	reviewer := suite.seedReviewer(team)
	requester := suite.seedUser()
	suite.Require().NoError(suite.membershipRepo.Create(suite.factories.Membership.Create(team.ID, requester.ID)))

	req := suite.factories.EmployeeRequest.Create(requester.ID, team.ID)
	suite.Require().NoError(suite.employeeRepo.Create(req))

	comment := "Headcount is frozen this quarter"
	resp, err := suite.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindEmployee,
		RequestID:   req.ID,
		Decision:    service.DecisionReject,
		PrincipalID: reviewer.ID,
		Comment:     &comment,
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusRejected, resp.Status)

	stored, err := suite.employeeRepo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusRejected, stored.Status)
	suite.Require().NotNil(stored.ManagerResponse)
	suite.Equal(comment, *stored.ManagerResponse)

	notifications, total, err := suite.notificationRepo.GetByUserID(requester.ID, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(models.NotificationTypeRequestRejected, notifications[0].Type)
	suite.Contains(notifications[0].Message, comment)
}

func TestWorkflowIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowIntegrationTestSuite))
}
