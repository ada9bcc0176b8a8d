package service_test

import (
	"testing"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/mocks"
	"ops-portal-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type JoinRequestServiceTestSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockRepo           *mocks.MockJoinRequestRepositoryInterface
	mockTeamRepo       *mocks.MockTeamRepositoryInterface
	mockUserRepo       *mocks.MockUserRepositoryInterface
	mockMembershipRepo *mocks.MockMembershipRepositoryInterface
	service            *service.JoinRequestService
}

func (suite *JoinRequestServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockJoinRequestRepositoryInterface(suite.ctrl)
	suite.mockTeamRepo = mocks.NewMockTeamRepositoryInterface(suite.ctrl)
	suite.mockUserRepo = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.mockMembershipRepo = mocks.NewMockMembershipRepositoryInterface(suite.ctrl)
	suite.service = service.NewJoinRequestService(
		suite.mockRepo,
		suite.mockTeamRepo,
		suite.mockUserRepo,
		suite.mockMembershipRepo,
		validator.New(),
	)
}

func (suite *JoinRequestServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *JoinRequestServiceTestSuite) TestCreateJoinRequest() {
	userID := uuid.New()
	teamID := uuid.New()

	suite.mockUserRepo.EXPECT().GetByID(userID).Return(&models.User{BaseModel: models.BaseModel{ID: userID}}, nil)
	suite.mockTeamRepo.EXPECT().GetByID(teamID).Return(&models.Team{BaseModel: models.BaseModel{ID: teamID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByTeamAndUser(teamID, userID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockRepo.EXPECT().HasPendingForUserAndTeam(userID, teamID).Return(false, nil)
	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(req *models.JoinRequest) error {
		suite.Equal(models.RequestStatusPending, req.Status)
		suite.Equal("I work with this team daily", req.Message)
		req.ID = uuid.New()
		return nil
	})

	resp, err := suite.service.Create(&service.CreateJoinRequestRequest{
		RequesterUserID: userID,
		TeamID:          teamID,
		Message:         "I work with this team daily",
	})

	suite.NoError(err)
	suite.Equal(models.RequestStatusPending, resp.Status)
	suite.Equal(userID, resp.RequesterUserID)
	suite.Nil(resp.ReviewedBy)
}

func (suite *JoinRequestServiceTestSuite) TestCreateValidationFails() {
	resp, err := suite.service.Create(&service.CreateJoinRequestRequest{
		RequesterUserID: uuid.New(),
	})

	suite.Error(err)
	suite.Nil(resp)

	var validationErrs validator.ValidationErrors
	suite.ErrorAs(err, &validationErrs)
}

func (suite *JoinRequestServiceTestSuite) TestCreateUnknownRequester() {
	userID := uuid.New()

	suite.mockUserRepo.EXPECT().GetByID(userID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.service.Create(&service.CreateJoinRequestRequest{
		RequesterUserID: userID,
		TeamID:          uuid.New(),
	})

	suite.ErrorIs(err, apperrors.ErrUserNotFound)
}

func (suite *JoinRequestServiceTestSuite) TestCreateUnknownTeam() {
	userID := uuid.New()
	teamID := uuid.New()

	suite.mockUserRepo.EXPECT().GetByID(userID).Return(&models.User{BaseModel: models.BaseModel{ID: userID}}, nil)
	suite.mockTeamRepo.EXPECT().GetByID(teamID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.service.Create(&service.CreateJoinRequestRequest{
		RequesterUserID: userID,
		TeamID:          teamID,
	})

	suite.ErrorIs(err, apperrors.ErrTeamNotFound)
}

func (suite *JoinRequestServiceTestSuite) TestCreateAlreadyMember() {
	userID := uuid.New()
	teamID := uuid.New()

	suite.mockUserRepo.EXPECT().GetByID(userID).Return(&models.User{BaseModel: models.BaseModel{ID: userID}}, nil)
	suite.mockTeamRepo.EXPECT().GetByID(teamID).Return(&models.Team{BaseModel: models.BaseModel{ID: teamID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByTeamAndUser(teamID, userID).
		Return(&models.TeamMembership{TeamID: teamID, UserID: userID, Role: models.MembershipRoleMember}, nil)

	_, err := suite.service.Create(&service.CreateJoinRequestRequest{
		RequesterUserID: userID,
		TeamID:          teamID,
	})

	suite.ErrorIs(err, apperrors.ErrAlreadyMember)
}

func (suite *JoinRequestServiceTestSuite) TestCreateDuplicatePending() {
	userID := uuid.New()
	teamID := uuid.New()

	suite.mockUserRepo.EXPECT().GetByID(userID).Return(&models.User{BaseModel: models.BaseModel{ID: userID}}, nil)
	suite.mockTeamRepo.EXPECT().GetByID(teamID).Return(&models.Team{BaseModel: models.BaseModel{ID: teamID}}, nil)
	suite.mockMembershipRepo.EXPECT().GetByTeamAndUser(teamID, userID).Return(nil, gorm.ErrRecordNotFound)
	suite.mockRepo.EXPECT().HasPendingForUserAndTeam(userID, teamID).Return(true, nil)

	_, err := suite.service.Create(&service.CreateJoinRequestRequest{
		RequesterUserID: userID,
		TeamID:          teamID,
	})

	suite.ErrorIs(err, apperrors.ErrDuplicatePendingRequest)
}

func (suite *JoinRequestServiceTestSuite) TestGetByIDNotFound() {
	id := uuid.New()

	suite.mockRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.service.GetByID(id)

	suite.ErrorIs(err, apperrors.ErrJoinRequestNotFound)
}

func (suite *JoinRequestServiceTestSuite) TestListPendingForReviewerScopedToAdministeredTeams() {
	principal := uuid.New()
	teamA := uuid.New()
	teamB := uuid.New()

	suite.mockMembershipRepo.EXPECT().TeamIDsAdministeredBy(principal).Return([]uuid.UUID{teamA, teamB}, nil)
	suite.mockRepo.EXPECT().GetPendingByTeamIDs([]uuid.UUID{teamA, teamB}).Return([]models.JoinRequest{
		{BaseModel: models.BaseModel{ID: uuid.New()}, TeamID: teamA, Status: models.RequestStatusPending},
	}, nil)

	requests, err := suite.service.ListPendingForReviewer(principal)

	suite.NoError(err)
	suite.Len(requests, 1)
	suite.Equal(teamA, requests[0].TeamID)
}

func (suite *JoinRequestServiceTestSuite) TestListPendingForReviewerNoTeams() {
	principal := uuid.New()

	suite.mockMembershipRepo.EXPECT().TeamIDsAdministeredBy(principal).Return([]uuid.UUID{}, nil)
	suite.mockRepo.EXPECT().GetPendingByTeamIDs([]uuid.UUID{}).Return([]models.JoinRequest{}, nil)

	requests, err := suite.service.ListPendingForReviewer(principal)

	suite.NoError(err)
	suite.Empty(requests)
}

func (suite *JoinRequestServiceTestSuite) TestWithdraw() {
	requester := uuid.New()
	id := uuid.New()

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.JoinRequest{
		BaseModel:       models.BaseModel{ID: id},
		RequesterUserID: requester,
		Status:          models.RequestStatusPending,
	}, nil)
	suite.mockRepo.EXPECT().Delete(id).Return(nil)

	suite.NoError(suite.service.Withdraw(id, requester))
}

func (suite *JoinRequestServiceTestSuite) TestWithdrawNotOwner() {
	id := uuid.New()

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.JoinRequest{
		BaseModel:       models.BaseModel{ID: id},
		RequesterUserID: uuid.New(),
		Status:          models.RequestStatusPending,
	}, nil)

	err := suite.service.Withdraw(id, uuid.New())

	suite.ErrorIs(err, apperrors.ErrNotRequestOwner)
}

func (suite *JoinRequestServiceTestSuite) TestWithdrawAlreadyReviewed() {
	requester := uuid.New()
	id := uuid.New()

	suite.mockRepo.EXPECT().GetByID(id).Return(&models.JoinRequest{
		BaseModel:       models.BaseModel{ID: id},
		RequesterUserID: requester,
		Status:          models.RequestStatusApproved,
	}, nil)

	err := suite.service.Withdraw(id, requester)

	suite.True(apperrors.IsInvalidState(err))
}

func TestJoinRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JoinRequestServiceTestSuite))
}
