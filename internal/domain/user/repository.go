package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	// Create persists a new user. A duplicate email surfaces as ErrEmailTaken
	// via the store's unique constraint, regardless of request interleaving.
	Create(ctx context.Context, newUser User) (User, error)
	ListByCompany(ctx context.Context, companyID string) ([]User, error)

	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdatePermissionLevel(ctx context.Context, userID string, level PermissionLevel) error
	SetActive(ctx context.Context, userID string, active bool) error
	// RemoveFromCompany nulls the company reference and preserves the account.
	RemoveFromCompany(ctx context.Context, userID string) error

	// Email verification
	SetVerificationCode(ctx context.Context, userID, code string, expiresAt time.Time) error
	MarkEmailVerified(ctx context.Context, userID string) error

	// Password reset. Tokens are stored hashed; GetByResetTokenHash looks up
	// by the HMAC of the emailed token.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetByResetTokenHash(ctx context.Context, tokenHash string) (User, error)
	// ResetPassword overwrites the hash and clears the reset token in one
	// statement so a reset link is single-use.
	ResetPassword(ctx context.Context, userID, passwordHash string) error

	// Two-factor
	EnableTwoFactor(ctx context.Context, userID, secret string) error
	DisableTwoFactor(ctx context.Context, userID string) error
	SetTwoFactorLastStep(ctx context.Context, userID string, step int64) error
}
