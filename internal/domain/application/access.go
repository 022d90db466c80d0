package application

import "context"

// AccessDecision is the resolved view/edit outcome for one user on one
// application.
type AccessDecision struct {
	CanView bool `json:"can_view"`
	CanEdit bool `json:"can_edit"`
}

// AccessService resolves a user's effective access to an application by
// combining role, permission level, and per-application assignments.
type AccessService interface {
	// CheckAccess takes the user id rather than a loaded user so callers pass
	// the authenticated identity from the request context.
	CheckAccess(ctx context.Context, userID, applicationID string) (AccessDecision, error)
	// Grant gives another user a per-application permission. The actor must be
	// allowed to manage the contractor team.
	Grant(ctx context.Context, actorID, applicationID string, req GrantAssignmentRequest) error
}
