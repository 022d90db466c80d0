package contractor

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/contractor"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type joinRequestServiceImpl struct {
	joinRequests contractor.JoinRequestRepository
}

func NewJoinRequestService(joinRequests contractor.JoinRequestRepository) contractor.JoinRequestService {
	return &joinRequestServiceImpl{joinRequests: joinRequests}
}

// ListForCompany implements contractor.JoinRequestService. Only someone who
// can manage the contractor team sees the company's join requests.
func (s *joinRequestServiceImpl) ListForCompany(ctx context.Context, actor user.User) ([]contractor.JoinRequest, error) {
	if actor.CompanyID == nil {
		return nil, user.ErrNotInCompany
	}
	if !user.CanManageContractorTeam(&actor) {
		return nil, user.ErrPermissionDenied
	}
	return s.joinRequests.ListByCompany(ctx, *actor.CompanyID)
}
