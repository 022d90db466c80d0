package user

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/pkg/validator"
)

// MemberService covers company-admin member administration. Every operation
// checks the acting user's permissions before touching anyone else's record.
type MemberService interface {
	ListMembers(ctx context.Context, actor User) ([]PublicUser, error)
	UpdateMember(ctx context.Context, actor User, memberID string, req UpdateMemberRequest) (PublicUser, error)
}

// UpdateMemberRequest carries one member-administration change. Fields are
// pointers so an absent field means "leave as is".
type UpdateMemberRequest struct {
	PermissionLevel *string `json:"permission_level"`
	IsActive        *bool   `json:"is_active"`
	// RemoveFromCompany detaches the member from the company while keeping
	// the account itself.
	RemoveFromCompany bool `json:"remove_from_company"`
}

func (r *UpdateMemberRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PermissionLevel == nil && r.IsActive == nil && !r.RemoveFromCompany {
		errs = append(errs, validator.ValidationError{
			Field:   "permission_level",
			Message: "at least one change must be specified",
		})
	}
	if r.PermissionLevel != nil && !validator.IsInSlice(*r.PermissionLevel, []string{
		string(LevelViewer), string(LevelEditor), string(LevelManager), string(LevelOwner),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "permission_level",
			Message: "permission_level must be one of viewer, editor, manager, owner",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
