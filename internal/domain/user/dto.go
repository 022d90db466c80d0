package user

import "time"

// PublicUser is the identity payload safe to return to clients. The password
// hash, reset token, and two-factor secret never leave the server.
type PublicUser struct {
	ID               string           `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"first_name"`
	LastName         string           `json:"last_name"`
	Role             Role             `json:"role"`
	PermissionLevel  *PermissionLevel `json:"permission_level,omitempty"`
	CompanyID        *string          `json:"company_id,omitempty"`
	IsActive         bool             `json:"is_active"`
	EmailVerified    bool             `json:"email_verified"`
	TwoFactorEnabled bool             `json:"two_factor_enabled"`
	CreatedAt        time.Time        `json:"created_at"`
}

// Public strips the sensitive fields from a stored user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Email:            u.Email,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Role:             u.Role,
		PermissionLevel:  u.PermissionLevel,
		CompanyID:        u.CompanyID,
		IsActive:         u.IsActive,
		EmailVerified:    u.EmailVerified,
		TwoFactorEnabled: u.TwoFactorEnabled,
		CreatedAt:        u.CreatedAt,
	}
}
