//go:build integration
// +build integration

package repository

import (
	"testing"
	"time"

	"ops-portal-backend/internal/database/models"
	"ops-portal-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// JoinRequestRepositoryTestSuite tests the JoinRequestRepository
type JoinRequestRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *JoinRequestRepository
	userRepo      *UserRepository
	teamRepo      *TeamRepository
	factories     *testutils.FactorySet
}

func (suite *JoinRequestRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewJoinRequestRepository(suite.baseTestSuite.DB)
	suite.userRepo = NewUserRepository(suite.baseTestSuite.DB)
	suite.teamRepo = NewTeamRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *JoinRequestRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *JoinRequestRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *JoinRequestRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

// seedUserAndTeam creates the rows a join request depends on
func (suite *JoinRequestRepositoryTestSuite) seedUserAndTeam() (*models.User, *models.Team) {
	user := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(user))

	team := suite.factories.Team.Create()
	suite.NoError(suite.teamRepo.Create(team))

	return user, team
}

func (suite *JoinRequestRepositoryTestSuite) TestCreate() {
	user, team := suite.seedUserAndTeam()

	req := suite.factories.JoinRequest.Create(user.ID, team.ID)
	err := suite.repo.Create(req)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, req.ID)
	suite.Equal(models.RequestStatusPending, req.Status)
	suite.NotZero(req.CreatedAt)
}

func (suite *JoinRequestRepositoryTestSuite) TestGetByIDNotFound() {
	req, err := suite.repo.GetByID(uuid.New())

	suite.Error(err)
	suite.Equal(gorm.ErrRecordNotFound, err)
	suite.Nil(req)
}

func (suite *JoinRequestRepositoryTestSuite) TestGetByUserID() {
	user, team := suite.seedUserAndTeam()
	otherUser := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(otherUser))

	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.Create(user.ID, team.ID)))
	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.WithStatus(user.ID, team.ID, models.RequestStatusRejected)))
	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.Create(otherUser.ID, team.ID)))

	requests, err := suite.repo.GetByUserID(user.ID)

	suite.NoError(err)
	suite.Len(requests, 2)
	for _, req := range requests {
		suite.Equal(user.ID, req.RequesterUserID)
	}
}

func (suite *JoinRequestRepositoryTestSuite) TestGetPendingByTeamIDs() {
	user, team := suite.seedUserAndTeam()
	otherTeam := suite.factories.Team.Create()
	suite.NoError(suite.teamRepo.Create(otherTeam))

	pending := suite.factories.JoinRequest.Create(user.ID, team.ID)
	suite.NoError(suite.repo.Create(pending))
	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.WithStatus(user.ID, team.ID, models.RequestStatusApproved)))
	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.Create(user.ID, otherTeam.ID)))

	// Only pending requests for the named team come back
	requests, err := suite.repo.GetPendingByTeamIDs([]uuid.UUID{team.ID})

	suite.NoError(err)
	suite.Len(requests, 1)
	suite.Equal(pending.ID, requests[0].ID)
	suite.Equal(models.RequestStatusPending, requests[0].Status)
}

func (suite *JoinRequestRepositoryTestSuite) TestGetPendingByTeamIDsEmptyInput() {
	user, team := suite.seedUserAndTeam()
	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.Create(user.ID, team.ID)))

	requests, err := suite.repo.GetPendingByTeamIDs([]uuid.UUID{})

	suite.NoError(err)
	suite.Empty(requests)
}

func (suite *JoinRequestRepositoryTestSuite) TestHasPendingForUserAndTeam() {
	user, team := suite.seedUserAndTeam()

	has, err := suite.repo.HasPendingForUserAndTeam(user.ID, team.ID)
	suite.NoError(err)
	suite.False(has)

	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.Create(user.ID, team.ID)))

	has, err = suite.repo.HasPendingForUserAndTeam(user.ID, team.ID)
	suite.NoError(err)
	suite.True(has)
}

func (suite *JoinRequestRepositoryTestSuite) TestHasPendingIgnoresTerminalRequests() {
	user, team := suite.seedUserAndTeam()

	suite.NoError(suite.repo.Create(suite.factories.JoinRequest.WithStatus(user.ID, team.ID, models.RequestStatusApproved)))

	has, err := suite.repo.HasPendingForUserAndTeam(user.ID, team.ID)
	suite.NoError(err)
	suite.False(has)
}

func (suite *JoinRequestRepositoryTestSuite) TestUpdateStatusIfPending() {
	user, team := suite.seedUserAndTeam()
	reviewer := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(reviewer))

	req := suite.factories.JoinRequest.Create(user.ID, team.ID)
	suite.NoError(suite.repo.Create(req))

	rows, err := suite.repo.UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer.ID, time.Now())

	suite.NoError(err)
	suite.Equal(int64(1), rows)

	updated, err := suite.repo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, updated.Status)
	suite.NotNil(updated.ReviewedBy)
	suite.Equal(reviewer.ID, *updated.ReviewedBy)
	suite.NotNil(updated.ReviewedAt)
}

func (suite *JoinRequestRepositoryTestSuite) TestUpdateStatusIfPendingSecondReviewerLoses() {
	user, team := suite.seedUserAndTeam()
	reviewer1 := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(reviewer1))
	reviewer2 := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(reviewer2))

	req := suite.factories.JoinRequest.Create(user.ID, team.ID)
	suite.NoError(suite.repo.Create(req))

	rows, err := suite.repo.UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer1.ID, time.Now())
	suite.NoError(err)
	suite.Equal(int64(1), rows)

	// The losing update matches zero rows and changes nothing
	rows, err = suite.repo.UpdateStatusIfPending(req.ID, models.RequestStatusRejected, reviewer2.ID, time.Now())
	suite.NoError(err)
	suite.Equal(int64(0), rows)

	final, err := suite.repo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, final.Status)
	suite.Equal(reviewer1.ID, *final.ReviewedBy)
}

func (suite *JoinRequestRepositoryTestSuite) TestDelete() {
	user, team := suite.seedUserAndTeam()

	req := suite.factories.JoinRequest.Create(user.ID, team.ID)
	suite.NoError(suite.repo.Create(req))

	suite.NoError(suite.repo.Delete(req.ID))

	_, err := suite.repo.GetByID(req.ID)
	suite.Equal(gorm.ErrRecordNotFound, err)
}

// Run the test suite
func TestJoinRequestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(JoinRequestRepositoryTestSuite))
}
