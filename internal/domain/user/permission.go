package user

import "github.com/civicgrants/portal-backend-go/internal/domain/application"

type Permission string

const (
	// Applications
	PermissionApplicationsView       Permission = "applications.view"
	PermissionApplicationsCreateEdit Permission = "applications.create_edit"
	PermissionApplicationsSubmit     Permission = "applications.submit"

	// Facilities
	PermissionFacilitiesView   Permission = "facilities.view"
	PermissionFacilitiesManage Permission = "facilities.manage"

	// Team management
	PermissionUsersInvite            Permission = "users.invite"
	PermissionUsersManagePermissions Permission = "users.manage_permissions"
	PermissionContractorTeamManage   Permission = "contractor_team.manage"

	// Files
	PermissionFilesUpload Permission = "files.upload"

	// Sentinel granted only to system administrators
	PermissionSystemAdmin Permission = "system_admin"
)

// RolePermissions maps roles to their permissions. Levels and per-application
// assignments further restrict what a role may actually do; this table is the
// coarse outer bound.
var RolePermissions = map[Role][]Permission{
	RoleCompanyAdmin: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionApplicationsSubmit,
		PermissionFacilitiesView,
		PermissionFacilitiesManage,
		PermissionUsersInvite,
		PermissionUsersManagePermissions,
		PermissionFilesUpload,
	},
	RoleTeamMember: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionApplicationsSubmit,
		PermissionFacilitiesView,
		PermissionFilesUpload,
	},
	RoleContractorAccountOwner: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionFilesUpload,
		PermissionContractorTeamManage,
	},
	RoleContractorManager: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionFilesUpload,
		PermissionContractorTeamManage,
	},
	RoleContractorIndividual: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionFilesUpload,
	},
	RoleContractorTeamMember: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionFilesUpload,
	},
	RoleSystemAdmin: {
		PermissionApplicationsView,
		PermissionApplicationsCreateEdit,
		PermissionApplicationsSubmit,
		PermissionFacilitiesView,
		PermissionFacilitiesManage,
		PermissionUsersInvite,
		PermissionUsersManagePermissions,
		PermissionContractorTeamManage,
		PermissionFilesUpload,
		PermissionSystemAdmin,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission checks if a role has at least one of the permissions
func HasAnyPermission(role Role, permissions ...Permission) bool {
	for _, p := range permissions {
		if HasPermission(role, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions checks if a role has every one of the permissions
func HasAllPermissions(role Role, permissions ...Permission) bool {
	for _, p := range permissions {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// HasPermissionLevel reports whether the user's clearance meets the required
// level. Administrative roles always qualify; roles without level semantics
// never do.
func HasPermissionLevel(u *User, required PermissionLevel) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if !u.HasLevelSemantics() {
		return false
	}
	return u.Level().AtLeast(required)
}

// CanInviteUsers reports whether the user may invite members to the company.
func CanInviteUsers(u *User) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.Role == RoleTeamMember && HasPermissionLevel(u, LevelManager)
}

// CanEditPermissions reports whether the user may change other members'
// permission levels.
func CanEditPermissions(u *User) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.Role == RoleTeamMember && HasPermissionLevel(u, LevelManager)
}

// CanCreateEdit reports whether the user may create and edit applications on
// the company side.
func CanCreateEdit(u *User) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.Role == RoleTeamMember && HasPermissionLevel(u, LevelEditor)
}

// CanViewOnly reports whether the user holds at least read access.
func CanViewOnly(u *User) bool {
	if u == nil {
		return false
	}
	return HasPermission(u.Role, PermissionApplicationsView)
}

// CanContractorEdit reports whether a contractor may edit the specific
// application whose assignment list is given. Elevated contractor roles
// qualify unconditionally; a contractor team member qualifies through a
// manager-level clearance or an explicit edit assignment on the application.
func CanContractorEdit(u *User, assignments []application.AssignmentPermission) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleContractorAccountOwner, RoleContractorManager, RoleContractorIndividual:
		return true
	case RoleContractorTeamMember:
		if u.Level() == LevelManager {
			return true
		}
		return hasAssignment(assignments, application.AssignmentEdit)
	}
	return false
}

// CanContractorView is the read-access counterpart of CanContractorEdit;
// either a view or an edit assignment grants it.
func CanContractorView(u *User, assignments []application.AssignmentPermission) bool {
	if u == nil {
		return false
	}
	switch u.Role {
	case RoleContractorAccountOwner, RoleContractorManager, RoleContractorIndividual:
		return true
	case RoleContractorTeamMember:
		if u.Level() == LevelManager {
			return true
		}
		return hasAssignment(assignments, application.AssignmentView) ||
			hasAssignment(assignments, application.AssignmentEdit)
	}
	return false
}

// CanManageContractorTeam reports whether the user may manage the contractor
// company's team.
func CanManageContractorTeam(u *User) bool {
	if u == nil {
		return false
	}
	return HasPermission(u.Role, PermissionContractorTeamManage)
}

func hasAssignment(assignments []application.AssignmentPermission, want application.AssignmentPermission) bool {
	for _, a := range assignments {
		if a == want {
			return true
		}
	}
	return false
}
