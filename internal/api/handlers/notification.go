package handlers

import (
	"net/http"

	"ops-portal-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles notification endpoints
type NotificationHandler struct {
	service service.NotificationServiceInterface
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/v1/notifications
// @Summary List my notifications
// @Description List the caller's notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.NotificationListResponse "Notifications"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}
	page, pageSize := pagination(c)

	notifications, err := h.service.ListForUser(principal, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// UnreadCount handles GET /api/v1/notifications/unread-count
// @Summary Count unread notifications
// @Description Return the number of unread notifications for the caller
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Unread count"
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	count, err := h.service.UnreadCount(principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// MarkRead handles POST /api/v1/notifications/:id/read
// @Summary Mark a notification read
// @Description Mark one of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 204 "Marked read"
// @Failure 404 {object} map[string]interface{} "Notification not found"
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(id, principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /api/v1/notifications/read-all
// @Summary Mark all notifications read
// @Description Mark all of the caller's notifications as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 204 "Marked read"
// @Router /api/v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	principal, ok := principalID(c)
	if !ok {
		return
	}

	if err := h.service.MarkAllRead(principal); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
