package contractor

import "context"

type JoinRequestRepository interface {
	Create(ctx context.Context, req JoinRequest) (JoinRequest, error)
	ListByCompany(ctx context.Context, companyID string) ([]JoinRequest, error)
}
