package handlers

import (
	"net/http"

	"ops-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TeamHandler handles team endpoints
type TeamHandler struct {
	service service.TeamServiceInterface
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(service service.TeamServiceInterface) *TeamHandler {
	return &TeamHandler{service: service}
}

// Create handles POST /api/v1/teams
// @Summary Create a team
// @Description Create a new team; the caller becomes its owner
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTeamRequest true "Team details"
// @Success 201 {object} service.TeamResponse "Created team"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 409 {object} map[string]interface{} "Team already exists"
// @Router /api/v1/teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.OwnerUserID = principal

	team, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, team)
}

// List handles GET /api/v1/teams
// @Summary List teams
// @Description List teams with pagination
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.TeamListResponse "Teams"
// @Router /api/v1/teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	page, pageSize := pagination(c)

	teams, err := h.service.List(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, teams)
}

// GetByID handles GET /api/v1/teams/:id
// @Summary Get a team
// @Description Get a team by ID
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} service.TeamResponse "Team"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Router /api/v1/teams/{id} [get]
func (h *TeamHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	team, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// GetMembers handles GET /api/v1/teams/:id/members
// @Summary Get a team roster
// @Description Get a team with its full membership roster
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Team ID"
// @Success 200 {object} service.TeamWithMembersResponse "Team with members"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Router /api/v1/teams/{id}/members [get]
func (h *TeamHandler) GetMembers(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	team, err := h.service.GetWithMembers(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}
