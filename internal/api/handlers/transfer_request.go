package handlers

import (
	"net/http"

	"ops-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// TransferRequestHandler handles transfer request endpoints
type TransferRequestHandler struct {
	service  service.TransferRequestServiceInterface
	workflow service.WorkflowServiceInterface
}

// NewTransferRequestHandler creates a new transfer request handler
func NewTransferRequestHandler(
	service service.TransferRequestServiceInterface,
	workflow service.WorkflowServiceInterface,
) *TransferRequestHandler {
	return &TransferRequestHandler{service: service, workflow: workflow}
}

// Create handles POST /api/v1/requests/transfer
// @Summary Submit a transfer request
// @Description Ask to move from the current team to a target team
// @Tags transfer-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTransferRequestRequest true "Transfer request details"
// @Success 201 {object} service.TransferRequestResponse "Created request"
// @Failure 400 {object} map[string]interface{} "Invalid request body or same-team transfer"
// @Failure 404 {object} map[string]interface{} "Team not found"
// @Failure 409 {object} map[string]interface{} "Already a member or duplicate pending request"
// @Router /api/v1/requests/transfer [post]
func (h *TransferRequestHandler) Create(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	var req service.CreateTransferRequestRequest
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

// ListMine handles GET /api/v1/requests/transfer
// @Summary List my transfer requests
// @Description List transfer requests submitted by the caller
// @Tags transfer-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.TransferRequestResponse "Transfer requests"
// @Router /api/v1/requests/transfer [get]
func (h *TransferRequestHandler) ListMine(c *gin.Context) {
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

// ListPending handles GET /api/v1/requests/transfer/pending
// @Summary List transfer requests awaiting my review
// @Description List pending transfer requests for target teams the caller administers
// @Tags transfer-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.TransferRequestResponse "Pending transfer requests"
// @Router /api/v1/requests/transfer/pending [get]
func (h *TransferRequestHandler) ListPending(c *gin.Context) {
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

// GetByID handles GET /api/v1/requests/transfer/:id
// @Summary Get a transfer request
// @Description Get a transfer request by ID
// @Tags transfer-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} service.TransferRequestResponse "Transfer request"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Router /api/v1/requests/transfer/{id} [get]
func (h *TransferRequestHandler) GetByID(c *gin.Context) {
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

// Approve handles POST /api/v1/requests/transfer/:id/approve
// @Summary Approve a transfer request
// @Description Approve a pending transfer; moves the requester between rosters atomically
// @Tags transfer-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewRequest false "Optional reviewer comment"
// @Success 200 {object} service.TransitionResponse "Transition outcome"
// @Failure 403 {object} map[string]interface{} "Not authorized to review"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/transfer/{id}/approve [post]
func (h *TransferRequestHandler) Approve(c *gin.Context) {
	h.review(c, service.DecisionApprove)
}

// Reject handles POST /api/v1/requests/transfer/:id/reject
// @Summary Reject a transfer request
// @Description Reject a pending transfer; both rosters are left untouched
// @Tags transfer-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewRequest false "Optional reviewer comment"
// @Success 200 {object} service.TransitionResponse "Transition outcome"
// @Failure 403 {object} map[string]interface{} "Not authorized to review"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/transfer/{id}/reject [post]
func (h *TransferRequestHandler) Reject(c *gin.Context) {
	h.review(c, service.DecisionReject)
}

// Withdraw handles DELETE /api/v1/requests/transfer/:id
// @Summary Withdraw a transfer request
// @Description Delete a pending transfer request submitted by the caller
// @Tags transfer-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204 "Withdrawn"
// @Failure 403 {object} map[string]interface{} "Not the requester"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/transfer/{id} [delete]
func (h *TransferRequestHandler) Withdraw(c *gin.Context) {
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

func (h *TransferRequestHandler) review(c *gin.Context, decision service.Decision) {
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
		Kind:        service.KindTransfer,
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
