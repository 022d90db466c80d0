package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrAccountDeactivated = errors.New("account has been deactivated")

	// Email verification
	ErrAlreadyVerified       = errors.New("email is already verified")
	ErrCodeExpired           = errors.New("verification code has expired")
	ErrCodeMismatch          = errors.New("invalid verification code")
	ErrNoPendingVerification = errors.New("no verification is pending for this email")
	ErrVerificationRequired  = errors.New("please verify your email address before registering a company")

	// Password reset
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// Two-factor
	ErrTwoFactorAlreadyEnabled = errors.New("two-factor authentication is already enabled")
	ErrTwoFactorNotEnabled     = errors.New("two-factor authentication is not enabled")
	ErrTwoFactorCodeInvalid    = errors.New("invalid two-factor code")
)
