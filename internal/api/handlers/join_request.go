package handlers

import (
	"net/http"

	"ops-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// JoinRequestHandler handles join request endpoints
type JoinRequestHandler struct {
	service  service.JoinRequestServiceInterface
	workflow service.WorkflowServiceInterface
}

// NewJoinRequestHandler creates a new join request handler
func NewJoinRequestHandler(
	service service.JoinRequestServiceInterface,
	workflow service.WorkflowServiceInterface,
) *JoinRequestHandler {
	return &JoinRequestHandler{service: service, workflow: workflow}
}

// ReviewRequest is the body of an approve or reject call
type ReviewRequest struct {
	Comment *string `json:"comment,omitempty"`
}

// Create handles POST /api/v1/requests/join
// @Summary Submit a join request
// @Description Ask to join a team; the request starts out pending
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateJoinRequestRequest true "Join request details"
// @Success 201 {object} service.JoinRequestResponse "Created request"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Failure 409 {object} map[string]interface{} "Already a member or duplicate pending request"
// @Router /api/v1/requests/join [post]
func (h *JoinRequestHandler) Create(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	var req service.CreateJoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.RequesterUserID = principal

	resp, err := h.service.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListMine handles GET /api/v1/requests/join
// @Summary List my join requests
// @Description List join requests submitted by the caller
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.JoinRequestResponse "Join requests"
// @Router /api/v1/requests/join [get]
func (h *JoinRequestHandler) ListMine(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	requests, err := h.service.ListForUser(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// ListPending handles GET /api/v1/requests/join/pending
// @Summary List join requests awaiting my review
// @Description List pending join requests for teams the caller administers
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.JoinRequestResponse "Pending join requests"
// @Router /api/v1/requests/join/pending [get]
func (h *JoinRequestHandler) ListPending(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	requests, err := h.service.ListPendingForReviewer(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetByID handles GET /api/v1/requests/join/:id
// @Summary Get a join request
// @Description Get a join request by ID
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} service.JoinRequestResponse "Join request"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Router /api/v1/requests/join/{id} [get]
func (h *JoinRequestHandler) GetByID(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.service.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Approve handles POST /api/v1/requests/join/:id/approve
// @Summary Approve a join request
// @Description Approve a pending join request; adds the requester to the team
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewRequest false "Optional reviewer comment"
// @Success 200 {object} service.TransitionResponse "Transition outcome"
// @Failure 403 {object} map[string]interface{} "Not authorized to review"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/join/{id}/approve [post]
func (h *JoinRequestHandler) Approve(c *gin.Context) {
	h.review(c, service.DecisionApprove)
}

// Reject handles POST /api/v1/requests/join/:id/reject
// @Summary Reject a join request
// @Description Reject a pending join request; the roster is left untouched
// @Tags join-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewRequest false "Optional reviewer comment"
// @Success 200 {object} service.TransitionResponse "Transition outcome"
// @Failure 403 {object} map[string]interface{} "Not authorized to review"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/join/{id}/reject [post]
func (h *JoinRequestHandler) Reject(c *gin.Context) {
	h.review(c, service.DecisionReject)
}

// Withdraw handles DELETE /api/v1/requests/join/:id
// @Summary Withdraw a join request
// @Description Delete a pending join request submitted by the caller
// @Tags join-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204 "Withdrawn"
// @Failure 403 {object} map[string]interface{} "Not the requester"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/join/{id} [delete]
func (h *JoinRequestHandler) Withdraw(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Withdraw(id, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *JoinRequestHandler) review(c *gin.Context, decision service.Decision) {
	principal, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var body ReviewRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	resp, err := h.workflow.Transition(&service.TransitionRequest{
		Kind:        service.KindJoin,
		RequestID:   id,
		Decision:    decision,
		PrincipalID: principal,
		Comment:     body.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
