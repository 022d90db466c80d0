package notification

import (
	"context"
	"time"
)

type Type string

const (
	TypePendingApproval Type = "pending_approval"
	TypeJoinRequest     Type = "join_request"
)

// Notification is a lightweight in-app message. Registration dispatches
// these best-effort: a failed insert is logged, never surfaced to the
// registrant.
type Notification struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	CompanyID *string   `json:"company_id,omitempty"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByCompany(ctx context.Context, companyID string) ([]Notification, error)
	ListByUser(ctx context.Context, userID string) ([]Notification, error)
}
