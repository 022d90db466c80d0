package member

import (
	"context"
	"log/slog"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type memberServiceImpl struct {
	users user.UserRepository
}

func NewMemberService(users user.UserRepository) user.MemberService {
	return &memberServiceImpl{users: users}
}

// ListMembers implements user.MemberService.
func (s *memberServiceImpl) ListMembers(ctx context.Context, actor user.User) ([]user.PublicUser, error) {
	if actor.CompanyID == nil {
		return nil, user.ErrNotInCompany
	}
	if !user.CanInviteUsers(&actor) {
		return nil, user.ErrPermissionDenied
	}

	members, err := s.users.ListByCompany(ctx, *actor.CompanyID)
	if err != nil {
		return nil, err
	}

	public := make([]user.PublicUser, 0, len(members))
	for i := range members {
		public = append(public, members[i].Public())
	}
	return public, nil
}

// UpdateMember implements user.MemberService. All changes are restricted to
// members of the actor's own company; actors cannot change their own record
// through this path.
func (s *memberServiceImpl) UpdateMember(ctx context.Context, actor user.User, memberID string, req user.UpdateMemberRequest) (user.PublicUser, error) {
	if err := req.Validate(); err != nil {
		return user.PublicUser{}, err
	}
	if actor.CompanyID == nil {
		return user.PublicUser{}, user.ErrNotInCompany
	}
	if !user.CanEditPermissions(&actor) {
		return user.PublicUser{}, user.ErrPermissionDenied
	}
	if memberID == actor.ID {
		return user.PublicUser{}, user.ErrCannotDemoteSelf
	}

	target, err := s.users.GetByID(ctx, memberID)
	if err != nil {
		return user.PublicUser{}, err
	}
	if target.CompanyID == nil || *target.CompanyID != *actor.CompanyID {
		return user.PublicUser{}, user.ErrNotInCompany
	}

	if req.PermissionLevel != nil {
		level := user.PermissionLevel(*req.PermissionLevel)
		if err := s.users.UpdatePermissionLevel(ctx, target.ID, level); err != nil {
			return user.PublicUser{}, err
		}
		slog.InfoContext(ctx, "member permission level changed",
			"actor_id", actor.ID, "member_id", target.ID, "level", level)
	}

	if req.IsActive != nil {
		if err := s.users.SetActive(ctx, target.ID, *req.IsActive); err != nil {
			return user.PublicUser{}, err
		}
		slog.InfoContext(ctx, "member active state changed",
			"actor_id", actor.ID, "member_id", target.ID, "active", *req.IsActive)
	}

	if req.RemoveFromCompany {
		if err := s.users.RemoveFromCompany(ctx, target.ID); err != nil {
			return user.PublicUser{}, err
		}
		slog.InfoContext(ctx, "member removed from company",
			"actor_id", actor.ID, "member_id", target.ID)
	}

	updated, err := s.users.GetByID(ctx, target.ID)
	if err != nil {
		return user.PublicUser{}, err
	}
	return updated.Public(), nil
}
