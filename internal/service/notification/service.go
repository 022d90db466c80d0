package notification

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/notification"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type notificationServiceImpl struct {
	notifications notification.NotificationRepository
}

func NewNotificationService(notifications notification.NotificationRepository) notification.NotificationService {
	return &notificationServiceImpl{notifications: notifications}
}

// List implements notification.NotificationService.
func (s *notificationServiceImpl) List(ctx context.Context, u user.User) ([]notification.Notification, error) {
	if u.CompanyID != nil && user.CanInviteUsers(&u) {
		return s.notifications.ListByCompany(ctx, *u.CompanyID)
	}
	return s.notifications.ListByUser(ctx, u.ID)
}
