package company

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	// GetByName matches on the exact stored name.
	GetByName(ctx context.Context, name string) (Company, error)
	ShortNameExists(ctx context.Context, shortName string) (bool, error)
	// CreateWithOwner inserts the company and promotes the owning user to the
	// given role and level in one transaction. A short-name collision with a
	// concurrent registrant surfaces as ErrShortNameTaken so the caller can
	// retry with the next candidate.
	CreateWithOwner(ctx context.Context, c Company, ownerID string, role user.Role, level *user.PermissionLevel) (Company, error)
}
