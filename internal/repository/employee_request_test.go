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
)

// EmployeeRequestRepositoryTestSuite tests the EmployeeRequestRepository
type EmployeeRequestRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *EmployeeRequestRepository
	userRepo      *UserRepository
	teamRepo      *TeamRepository
	factories     *testutils.FactorySet
}

func (suite *EmployeeRequestRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewEmployeeRequestRepository(suite.baseTestSuite.DB)
	suite.userRepo = NewUserRepository(suite.baseTestSuite.DB)
	suite.teamRepo = NewTeamRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *EmployeeRequestRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *EmployeeRequestRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *EmployeeRequestRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *EmployeeRequestRepositoryTestSuite) seedUserAndTeam() (*models.User, *models.Team) {
	user := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(user))

	team := suite.factories.Team.Create()
	suite.NoError(suite.teamRepo.Create(team))

	return user, team
}

func (suite *EmployeeRequestRepositoryTestSuite) TestCreate() {
	user, team := suite.seedUserAndTeam()

	req := suite.factories.EmployeeRequest.Create(user.ID, team.ID)
	err := suite.repo.Create(req)

	suite.NoError(err)
	suite.NotEqual(uuid.Nil, req.ID)
	suite.Equal(models.EmployeeRequestTypeTimeOff, req.Type)
	suite.Equal(models.RequestPriorityNormal, req.Priority)

	stored, err := suite.repo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(req.Message, stored.Message)
}

func (suite *EmployeeRequestRepositoryTestSuite) TestGetByUserIDNewestFirst() {
	user, team := suite.seedUserAndTeam()

	first := suite.factories.EmployeeRequest.Create(user.ID, team.ID)
	first.CreatedAt = time.Now().Add(-time.Hour)
	suite.NoError(suite.repo.Create(first))

	second := suite.factories.EmployeeRequest.WithType(user.ID, team.ID, models.EmployeeRequestTypeEquipment)
	suite.NoError(suite.repo.Create(second))

	requests, err := suite.repo.GetByUserID(user.ID)

	suite.NoError(err)
	suite.Len(requests, 2)
	suite.Equal(second.ID, requests[0].ID)
	suite.Equal(first.ID, requests[1].ID)
}

func (suite *EmployeeRequestRepositoryTestSuite) TestUpdateStatusIfPendingRecordsManagerResponse() {
	user, team := suite.seedUserAndTeam()
	reviewer := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(reviewer))

	req := suite.factories.EmployeeRequest.Create(user.ID, team.ID)
	suite.NoError(suite.repo.Create(req))

	response := "Enjoy your time off"
	rows, err := suite.repo.UpdateStatusIfPending(req.ID, models.RequestStatusApproved, reviewer.ID, time.Now(), &response)

	suite.NoError(err)
	suite.Equal(int64(1), rows)

	updated, err := suite.repo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusApproved, updated.Status)
	suite.NotNil(updated.ManagerResponse)
	suite.Equal(response, *updated.ManagerResponse)
}

func (suite *EmployeeRequestRepositoryTestSuite) TestUpdateStatusIfPendingWithoutResponse() {
	user, team := suite.seedUserAndTeam()
	reviewer := suite.factories.User.Create()
	suite.NoError(suite.userRepo.Create(reviewer))

	req := suite.factories.EmployeeRequest.Create(user.ID, team.ID)
	suite.NoError(suite.repo.Create(req))

	rows, err := suite.repo.UpdateStatusIfPending(req.ID, models.RequestStatusRejected, reviewer.ID, time.Now(), nil)

	suite.NoError(err)
	suite.Equal(int64(1), rows)

	updated, err := suite.repo.GetByID(req.ID)
	suite.NoError(err)
	suite.Equal(models.RequestStatusRejected, updated.Status)
	suite.Nil(updated.ManagerResponse)
}

func (suite *EmployeeRequestRepositoryTestSuite) TestGetPendingByTeamIDsEmptyInput() {
	requests, err := suite.repo.GetPendingByTeamIDs(nil)

	suite.NoError(err)
	suite.Empty(requests)
}

// Run the test suite
func TestEmployeeRequestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(EmployeeRequestRepositoryTestSuite))
}
