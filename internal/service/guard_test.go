package service_test

import (
	"testing"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/mocks"
	"ops-portal-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type AuthorizationGuardTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockMembershipRepo *mocks.MockMembershipRepositoryInterface
	mockTeamRepo       *mocks.MockTeamRepositoryInterface
	guard              *service.AuthorizationGuard
}

func (suite *AuthorizationGuardTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.mockTeamRepo = mocks.NewMockTeamRepositoryInterface(suite.ctrl)
	suite.guard = service.NewAuthorizationGuard(suite.mockMembershipRepo, suite.mockTeamRepo)
}

func (suite *AuthorizationGuardTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *AuthorizationGuardTestSuite) TestSelfReviewDenied() {
	requester := uuid.New()

	// No repository expectations: self-review is refused before any lookup
	err := suite.guard.CanReview(requester, service.KindJoin, requester, uuid.New())

	suite.ErrorIs(err, apperrors.ErrSelfReview)
}

func (suite *AuthorizationGuardTestSuite) TestSelfReviewDeniedEvenForTeamOwner() {
	requester := uuid.New()

	err := suite.guard.CanReview(requester, service.KindEmployee, requester, uuid.New())

	suite.ErrorIs(err, apperrors.ErrSelfReview)
}

func (suite *AuthorizationGuardTestSuite) TestOwnerMayReviewJoinRequest() {
	principal := uuid.New()
	teamID := uuid.New()

	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(teamID, principal).
		Return(&models.TeamMembership{TeamID: teamID, UserID: principal, Role: models.MembershipRoleOwner}, nil)

	err := suite.guard.CanReview(principal, service.KindJoin, uuid.New(), teamID)

	suite.NoError(err)
}

func (suite *AuthorizationGuardTestSuite) TestAdminMayReviewTransferRequest() {
	principal := uuid.New()
	teamID := uuid.New()

	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(teamID, principal).
		Return(&models.TeamMembership{TeamID: teamID, UserID: principal, Role: models.MembershipRoleAdmin}, nil)

	err := suite.guard.CanReview(principal, service.KindTransfer, uuid.New(), teamID)

	suite.NoError(err)
}

func (suite *AuthorizationGuardTestSuite) TestPlainMemberCannotReview() {
	principal := uuid.New()
	teamID := uuid.New()

	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(teamID, principal).
		Return(&models.TeamMembership{TeamID: teamID, UserID: principal, Role: models.MembershipRoleMember}, nil)

	err := suite.guard.CanReview(principal, service.KindJoin, uuid.New(), teamID)

	suite.ErrorIs(err, apperrors.ErrNotAuthorizedToReview)
}

func (suite *AuthorizationGuardTestSuite) TestNonMemberCannotReview() {
	principal := uuid.New()
	teamID := uuid.New()

	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(teamID, principal).
		Return(nil, gorm.ErrRecordNotFound)

	err := suite.guard.CanReview(principal, service.KindJoin, uuid.New(), teamID)

	suite.ErrorIs(err, apperrors.ErrNotAuthorizedToReview)
}

func (suite *AuthorizationGuardTestSuite) TestTeamManagerMayReviewEmployeeRequest() {
	principal := uuid.New()
	teamID := uuid.New()
	team := &models.Team{BaseModel: models.BaseModel{ID: teamID}, ManagerID: &principal}

	suite.mockTeamRepo.EXPECT().GetByID(teamID).Return(team, nil)

	err := suite.guard.CanReview(principal, service.KindEmployee, uuid.New(), teamID)

	suite.NoError(err)
}

func (suite *AuthorizationGuardTestSuite) TestEmployeeRequestFallsBackToRosterRole() {
	principal := uuid.New()
	manager := uuid.New()
	teamID := uuid.New()
	team := &models.Team{BaseModel: models.BaseModel{ID: teamID}, ManagerID: &manager}

	suite.mockTeamRepo.EXPECT().GetByID(teamID).Return(team, nil)
	suite.mockMembershipRepo.EXPECT().
		GetByTeamAndUser(teamID, principal).
		Return(&models.TeamMembership{TeamID: teamID, UserID: principal, Role: models.MembershipRoleAdmin}, nil)

	err := suite.guard.CanReview(principal, service.KindEmployee, uuid.New(), teamID)

	suite.NoError(err)
}

func TestAuthorizationGuardTestSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationGuardTestSuite))
}
