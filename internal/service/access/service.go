package access

import (
	"context"
	"log/slog"

	"github.com/civicgrants/portal-backend-go/internal/domain/application"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type accessServiceImpl struct {
	users       user.UserRepository
	assignments application.AssignmentRepository
}

func NewAccessService(users user.UserRepository, assignments application.AssignmentRepository) application.AccessService {
	return &accessServiceImpl{users: users, assignments: assignments}
}

// CheckAccess implements application.AccessService. Contractor users are
// resolved through their per-application assignment list; company-side users
// through role and permission level alone.
func (s *accessServiceImpl) CheckAccess(ctx context.Context, userID, applicationID string) (application.AccessDecision, error) {
	current, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return application.AccessDecision{}, err
	}

	if current.IsContractor() {
		assignments, err := s.assignments.ListPermissions(ctx, applicationID, current.ID)
		if err != nil {
			return application.AccessDecision{}, err
		}
		return application.AccessDecision{
			CanView: user.CanContractorView(&current, assignments),
			CanEdit: user.CanContractorEdit(&current, assignments),
		}, nil
	}

	return application.AccessDecision{
		CanView: user.CanViewOnly(&current),
		CanEdit: user.CanCreateEdit(&current),
	}, nil
}

// Grant implements application.AccessService. Duplicate grants are absorbed
// by the store, so re-submitting the same permission succeeds quietly.
func (s *accessServiceImpl) Grant(ctx context.Context, actorID, applicationID string, req application.GrantAssignmentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !user.CanManageContractorTeam(&actor) {
		return user.ErrPermissionDenied
	}

	target, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return err
	}

	if err := s.assignments.Grant(ctx, application.Assignment{
		ApplicationID: applicationID,
		UserID:        target.ID,
		Permission:    application.AssignmentPermission(req.Permission),
	}); err != nil {
		return err
	}

	slog.InfoContext(ctx, "application assignment granted",
		"actor_id", actor.ID, "member_id", target.ID, "application_id", applicationID, "permission", req.Permission)
	return nil
}
