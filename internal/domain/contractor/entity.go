package contractor

import (
	"time"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type JoinRequestStatus string

const (
	StatusPending  JoinRequestStatus = "pending"
	StatusApproved JoinRequestStatus = "approved"
	StatusRejected JoinRequestStatus = "rejected"
)

// JoinRequest is a contractor individual's pending request to join an
// existing contractor company. It is resolved by an administrative action
// outside the registration flow.
type JoinRequest struct {
	ID                       string               `json:"id"`
	UserID                   string               `json:"user_id"`
	CompanyID                string               `json:"company_id"`
	RequestedPermissionLevel user.PermissionLevel `json:"requested_permission_level"`
	Status                   JoinRequestStatus    `json:"status"`
	CreatedAt                time.Time            `json:"created_at"`
	UpdatedAt                time.Time            `json:"updated_at"`
}
