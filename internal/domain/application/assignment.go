package application

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/pkg/validator"
)

// AssignmentPermission is a per-application, per-user grant layered on top of
// a contractor team member's global permission level.
type AssignmentPermission string

const (
	AssignmentView AssignmentPermission = "view"
	AssignmentEdit AssignmentPermission = "edit"
)

// Assignment is the stored grant record.
type Assignment struct {
	ID            string               `json:"id"`
	ApplicationID string               `json:"application_id"`
	UserID        string               `json:"user_id"`
	Permission    AssignmentPermission `json:"permission"`
}

type AssignmentRepository interface {
	// ListPermissions returns the permissions granted to a user on one
	// application, in no particular order.
	ListPermissions(ctx context.Context, applicationID, userID string) ([]AssignmentPermission, error)
	// Grant records an assignment. Granting a permission the user already
	// holds on the application is a no-op.
	Grant(ctx context.Context, a Assignment) error
}

// GrantAssignmentRequest is the body for granting a team member view or edit
// rights on one application.
type GrantAssignmentRequest struct {
	UserID     string `json:"user_id"`
	Permission string `json:"permission"`
}

func (r *GrantAssignmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}
	if !validator.IsInSlice(r.Permission, []string{string(AssignmentView), string(AssignmentEdit)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "permission",
			Message: "permission must be view or edit",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
