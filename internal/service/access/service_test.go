package access

import (
	"context"
	"testing"

	"github.com/civicgrants/portal-backend-go/internal/domain/application"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

type assignmentKey struct {
	applicationID string
	userID        string
	permission    application.AssignmentPermission
}

// fakeAssignmentRepo mirrors the store's conflict handling: re-granting an
// existing permission is a no-op.
type fakeAssignmentRepo struct {
	grants map[assignmentKey]bool
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{grants: make(map[assignmentKey]bool)}
}

func (f *fakeAssignmentRepo) ListPermissions(_ context.Context, applicationID, userID string) ([]application.AssignmentPermission, error) {
	var perms []application.AssignmentPermission
	for k := range f.grants {
		if k.applicationID == applicationID && k.userID == userID {
			perms = append(perms, k.permission)
		}
	}
	return perms, nil
}

func (f *fakeAssignmentRepo) Grant(_ context.Context, a application.Assignment) error {
	f.grants[assignmentKey{a.ApplicationID, a.UserID, a.Permission}] = true
	return nil
}

func levelptr(l user.PermissionLevel) *user.PermissionLevel { return &l }

func newEnv() (*fakeUserRepo, *fakeAssignmentRepo, application.AccessService) {
	users := &fakeUserRepo{users: map[string]user.User{
		"owner": {ID: "owner", Role: user.RoleContractorAccountOwner, IsActive: true},
		"crew": {
			ID:              "crew",
			Role:            user.RoleContractorTeamMember,
			PermissionLevel: levelptr(user.LevelViewer),
			IsActive:        true,
		},
		"editor": {
			ID:              "editor",
			Role:            user.RoleTeamMember,
			PermissionLevel: levelptr(user.LevelEditor),
			IsActive:        true,
		},
	}}
	assignments := newFakeAssignmentRepo()
	return users, assignments, NewAccessService(users, assignments)
}

func TestCheckAccess(t *testing.T) {
	_, assignments, svc := newEnv()

	t.Run("company user by level", func(t *testing.T) {
		decision, err := svc.CheckAccess(context.Background(), "editor", "app-1")
		require.NoError(t, err)
		assert.True(t, decision.CanView)
		assert.True(t, decision.CanEdit)
	})

	t.Run("contractor team member without assignments", func(t *testing.T) {
		decision, err := svc.CheckAccess(context.Background(), "crew", "app-1")
		require.NoError(t, err)
		assert.False(t, decision.CanView)
		assert.False(t, decision.CanEdit)
	})

	t.Run("contractor team member with a view assignment", func(t *testing.T) {
		require.NoError(t, assignments.Grant(context.Background(), application.Assignment{
			ApplicationID: "app-1", UserID: "crew", Permission: application.AssignmentView,
		}))

		decision, err := svc.CheckAccess(context.Background(), "crew", "app-1")
		require.NoError(t, err)
		assert.True(t, decision.CanView)
		assert.False(t, decision.CanEdit)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.CheckAccess(context.Background(), "ghost", "app-1")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})
}

func TestGrant(t *testing.T) {
	t.Run("account owner grants edit", func(t *testing.T) {
		_, assignments, svc := newEnv()

		err := svc.Grant(context.Background(), "owner", "app-1", application.GrantAssignmentRequest{
			UserID:     "crew",
			Permission: "edit",
		})
		require.NoError(t, err)

		perms, err := assignments.ListPermissions(context.Background(), "app-1", "crew")
		require.NoError(t, err)
		assert.Equal(t, []application.AssignmentPermission{application.AssignmentEdit}, perms)
	})

	t.Run("duplicate grant succeeds quietly", func(t *testing.T) {
		_, assignments, svc := newEnv()

		req := application.GrantAssignmentRequest{UserID: "crew", Permission: "view"}
		require.NoError(t, svc.Grant(context.Background(), "owner", "app-1", req))
		require.NoError(t, svc.Grant(context.Background(), "owner", "app-1", req))

		perms, err := assignments.ListPermissions(context.Background(), "app-1", "crew")
		require.NoError(t, err)
		assert.Len(t, perms, 1)
	})

	t.Run("team member cannot grant", func(t *testing.T) {
		_, _, svc := newEnv()

		err := svc.Grant(context.Background(), "crew", "app-1", application.GrantAssignmentRequest{
			UserID:     "editor",
			Permission: "view",
		})
		assert.ErrorIs(t, err, user.ErrPermissionDenied)
	})

	t.Run("unknown target", func(t *testing.T) {
		_, _, svc := newEnv()

		err := svc.Grant(context.Background(), "owner", "app-1", application.GrantAssignmentRequest{
			UserID:     "ghost",
			Permission: "view",
		})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("invalid permission", func(t *testing.T) {
		_, _, svc := newEnv()

		err := svc.Grant(context.Background(), "owner", "app-1", application.GrantAssignmentRequest{
			UserID:     "crew",
			Permission: "admin",
		})
		assert.Error(t, err)
	})
}
