package handlers

import (
	"net/http"

	"ops-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// EmployeeRequestHandler handles employee request endpoints
type EmployeeRequestHandler struct {
	service  service.EmployeeRequestServiceInterface
	workflow service.WorkflowServiceInterface
}

// NewEmployeeRequestHandler creates a new employee request handler
func NewEmployeeRequestHandler(
	service service.EmployeeRequestServiceInterface,
	workflow service.WorkflowServiceInterface,
) *EmployeeRequestHandler {
	return &EmployeeRequestHandler{service: service, workflow: workflow}
}

// Create handles POST /api/v1/requests/employee
// @Summary Submit an employee request
// @Description Submit a general workplace request routed to the requester's team manager
// @Tags employee-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateEmployeeRequestRequest true "Employee request details"
// @Success 201 {object} service.EmployeeRequestResponse "Created request"
// @Failure 400 {object} map[string]interface{} "Invalid request body or requester has no team"
// @Router /api/v1/requests/employee [post]
func (h *EmployeeRequestHandler) Create(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	var req service.CreateEmployeeRequestRequest
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

// ListMine handles GET /api/v1/requests/employee
// @Summary List my employee requests
// @Description List employee requests submitted by the caller
// @Tags employee-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.EmployeeRequestResponse "Employee requests"
// @Router /api/v1/requests/employee [get]
func (h *EmployeeRequestHandler) ListMine(c *gin.Context) {
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

// ListPending handles GET /api/v1/requests/employee/pending
// @Summary List employee requests awaiting my review
// @Description List pending employee requests for teams the caller manages or administers
// @Tags employee-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.EmployeeRequestResponse "Pending employee requests"
// @Router /api/v1/requests/employee/pending [get]
func (h *EmployeeRequestHandler) ListPending(c *gin.Context) {
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

// GetByID handles GET /api/v1/requests/employee/:id
// @Summary Get an employee request
// @Description Get an employee request by ID
// @Tags employee-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 200 {object} service.EmployeeRequestResponse "Employee request"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Router /api/v1/requests/employee/{id} [get]
func (h *EmployeeRequestHandler) GetByID(c *gin.Context) {
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

// Approve handles POST /api/v1/requests/employee/:id/approve
// @Summary Approve an employee request
// @Description Approve a pending employee request; the roster is never modified
// @Tags employee-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewRequest false "Optional manager response"
// @Success 200 {object} service.TransitionResponse "Transition outcome"
// @Failure 403 {object} map[string]interface{} "Not authorized to review"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/employee/{id}/approve [post]
func (h *EmployeeRequestHandler) Approve(c *gin.Context) {
	h.review(c, service.DecisionApprove)
}

// Reject handles POST /api/v1/requests/employee/:id/reject
// @Summary Reject an employee request
// @Description Reject a pending employee request
// @Tags employee-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Param request body ReviewRequest false "Optional manager response"
// @Success 200 {object} service.TransitionResponse "Transition outcome"
// @Failure 403 {object} map[string]interface{} "Not authorized to review"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/employee/{id}/reject [post]
func (h *EmployeeRequestHandler) Reject(c *gin.Context) {
	h.review(c, service.DecisionReject)
}

// Withdraw handles DELETE /api/v1/requests/employee/:id
// @Summary Withdraw an employee request
// @Description Delete a pending employee request submitted by the caller
// @Tags employee-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Request ID"
// @Success 204 "Withdrawn"
// @Failure 403 {object} map[string]interface{} "Not the requester"
// @Failure 404 {object} map[string]interface{} "Request not found"
// @Failure 409 {object} map[string]interface{} "Request already reviewed"
// @Router /api/v1/requests/employee/{id} [delete]
func (h *EmployeeRequestHandler) Withdraw(c *gin.Context) {
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

func (h *EmployeeRequestHandler) review(c *gin.Context, decision service.Decision) {
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
		Kind:        service.KindEmployee,
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
