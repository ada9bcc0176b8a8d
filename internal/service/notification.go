package service

import (
	"errors"
	"fmt"
	"time"

	"ops-portal-backend/internal/database/models"
	apperrors "ops-portal-backend/internal/errors"
	"ops-portal-backend/internal/logger"
	"ops-portal-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DispatchInput describes a workflow outcome notification to be delivered
type DispatchInput struct {
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      models.NotificationType
	RelatedID uuid.UUID
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"user_id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      models.NotificationType `json:"type"`
	RelatedID uuid.UUID               `json:"related_id"`
	Read      bool                    `json:"read"`
	CreatedAt string                  `json:"created_at"`
}

// NotificationListResponse represents a paginated notification list
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int64                  `json:"total"`
	Unread        int64                  `json:"unread"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// NotificationService manages the per-user notification log and delivers
// workflow outcome notifications with bounded background retry
type NotificationService struct {
	repo        repository.NotificationRepositoryInterface
	maxAttempts int
	retryDelay  time.Duration
	log         *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repository.NotificationRepositoryInterface, maxAttempts int, retryDelay time.Duration) *NotificationService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &NotificationService{
		repo:        repo,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		log:         logger.New(),
	}
}

// Dispatch writes the notification and reports whether the first attempt
// succeeded. A failed write never propagates to the caller: the decision it
// describes has already committed, so the write is retried in the background
// and surfaced as a warning for operational visibility.
func (s *NotificationService) Dispatch(input *DispatchInput) bool {
	if err := s.repo.Create(s.toModel(input)); err != nil {
		s.log.WithFields(map[string]interface{}{
			"user_id":    input.UserID,
			"related_id": input.RelatedID,
		}).Warnf("notification undelivered, retrying in background: %v", err)
		go s.retry(input)
		return false
	}
	return true
}

func (s *NotificationService) retry(input *DispatchInput) {
	for attempt := 2; attempt <= s.maxAttempts; attempt++ {
		time.Sleep(s.retryDelay)
		if err := s.repo.Create(s.toModel(input)); err == nil {
			s.log.WithField("related_id", input.RelatedID).Infof("notification delivered on attempt %d", attempt)
			return
		}
	}
	s.log.WithFields(map[string]interface{}{
		"user_id":    input.UserID,
		"related_id": input.RelatedID,
	}).Error("notification permanently undelivered")
}

func (s *NotificationService) toModel(input *DispatchInput) *models.Notification {
	return &models.Notification{
		UserID:    input.UserID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      input.Type,
		RelatedID: input.RelatedID,
	}
}

// ListForUser retrieves a page of the user's notifications with counts
func (s *NotificationService) ListForUser(userID uuid.UUID, page, pageSize int) (*NotificationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	notifications, total, err := s.repo.GetByUserID(userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.repo.UnreadCount(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = s.toResponse(&n)
	}

	return &NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Unread:        unread,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// MarkRead flags one notification as read. Only the recipient may do so.
func (s *NotificationService) MarkRead(id, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return fmt.Errorf("failed to load notification: %w", err)
	}

	if notification.UserID != userID {
		return apperrors.ErrNotificationNotFound
	}

	rows, err := s.repo.MarkRead(id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if rows == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every notification of the user as read
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	if err := s.repo.MarkAllRead(userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// UnreadCount counts the user's unread notifications
func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	count, err := s.repo.UnreadCount(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (s *NotificationService) toResponse(n *models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		RelatedID: n.RelatedID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
