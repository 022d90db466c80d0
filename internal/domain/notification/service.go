package notification

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

// NotificationService resolves which notification feed a user sees: members
// who can administer their company see the company feed, everyone else sees
// only notifications addressed to them.
type NotificationService interface {
	List(ctx context.Context, u user.User) ([]Notification, error)
}
