package contractor

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

// JoinRequestService exposes a contractor company's pending and resolved join
// requests to its administrators.
type JoinRequestService interface {
	ListForCompany(ctx context.Context, actor user.User) ([]JoinRequest, error)
}
