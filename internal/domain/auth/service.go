package auth

import (
	"context"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (RegisterResponse, error)
	Login(ctx context.Context, req LoginRequest) (user.User, error)

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID string, req ResetPasswordRequest) error

	// Post-account verification: consumes the code stored on the user record
	// and returns the now-verified user for auto-login.
	VerifyEmailCode(ctx context.Context, email, code string) (user.User, error)
	ResendVerification(ctx context.Context, email string) error

	// Pre-account verification, backed by the email_verifications store.
	SendRegistrationVerification(ctx context.Context, email string) error
	VerifyRegistrationCode(ctx context.Context, email, code string) error
}

type TwoFactorService interface {
	// Setup returns a fresh secret, provisioning URI, and QR image without
	// persisting anything.
	Setup(ctx context.Context, u user.User) (TwoFactorSetupResponse, error)
	// Enable persists the secret after the caller proves possession with a
	// currently valid code.
	Enable(ctx context.Context, u user.User, secret, code string) error
	// Disable clears the persisted secret after a valid code.
	Disable(ctx context.Context, u user.User, code string) error
}
