package user

import "time"

type Role string

const (
	RoleCompanyAdmin           Role = "company_admin"
	RoleTeamMember             Role = "team_member"
	RoleContractorAccountOwner Role = "contractor_account_owner"
	RoleContractorIndividual   Role = "contractor_individual"
	RoleContractorManager      Role = "contractor_manager"
	RoleContractorTeamMember   Role = "contractor_team_member"
	RoleSystemAdmin            Role = "system_admin"
)

// PermissionLevel is the secondary, ordered clearance refining a team-scoped
// role. It is only meaningful for team_member and contractor_team_member.
type PermissionLevel string

const (
	LevelViewer  PermissionLevel = "viewer"
	LevelEditor  PermissionLevel = "editor"
	LevelManager PermissionLevel = "manager"
	LevelOwner   PermissionLevel = "owner"
)

var levelOrder = map[PermissionLevel]int{
	LevelViewer:  0,
	LevelEditor:  1,
	LevelManager: 2,
	LevelOwner:   3,
}

// AtLeast reports whether l meets the required clearance. Unknown levels
// never qualify.
func (l PermissionLevel) AtLeast(required PermissionLevel) bool {
	got, ok := levelOrder[l]
	if !ok {
		return false
	}
	want, ok := levelOrder[required]
	if !ok {
		return false
	}
	return got >= want
}

type User struct {
	ID                    string
	CompanyID             *string
	Email                 string
	PasswordHash          string
	FirstName             string
	LastName              string
	Role                  Role
	PermissionLevel       *PermissionLevel
	IsActive              bool
	EmailVerified         bool
	VerificationCode      *string
	VerificationExpiresAt *time.Time
	ResetTokenHash        *string
	ResetTokenExpiresAt   *time.Time
	TwoFactorSecret       *string
	TwoFactorEnabled      bool
	TwoFactorLastStep     int64
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsAdmin reports whether the user holds a company-wide or system-wide
// administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleCompanyAdmin || u.Role == RoleSystemAdmin
}

// IsContractor reports whether the user belongs to the contractor side of
// the portal.
func (u *User) IsContractor() bool {
	switch u.Role {
	case RoleContractorAccountOwner, RoleContractorIndividual, RoleContractorManager, RoleContractorTeamMember:
		return true
	}
	return false
}

// HasLevelSemantics reports whether the permission level field carries any
// meaning for this user's role.
func (u *User) HasLevelSemantics() bool {
	return u.Role == RoleTeamMember || u.Role == RoleContractorTeamMember
}

// Level returns the user's permission level, defaulting to viewer when the
// role carries level semantics but no level was ever assigned.
func (u *User) Level() PermissionLevel {
	if u.PermissionLevel == nil {
		return LevelViewer
	}
	return *u.PermissionLevel
}
