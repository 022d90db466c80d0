package response

import (
	"errors"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/domain/company"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrAccountDeactivated):
		Forbidden(w, "Account has been deactivated")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrAlreadyVerified):
		Conflict(w, "Email is already verified")
	case errors.Is(err, auth.ErrCodeExpired):
		BadRequest(w, "Verification code has expired", nil)
	case errors.Is(err, auth.ErrCodeMismatch):
		BadRequest(w, "Invalid verification code", nil)
	case errors.Is(err, auth.ErrNoPendingVerification):
		NotFound(w, "No verification is pending for this email")
	case errors.Is(err, auth.ErrVerificationRequired):
		Forbidden(w, "Please verify your email address before registering a company")
	case errors.Is(err, auth.ErrInvalidResetToken):
		BadRequest(w, "Invalid or expired reset token", nil)
	case errors.Is(err, auth.ErrTwoFactorAlreadyEnabled):
		Conflict(w, "Two-factor authentication is already enabled")
	case errors.Is(err, auth.ErrTwoFactorNotEnabled):
		BadRequest(w, "Two-factor authentication is not enabled", nil)
	case errors.Is(err, auth.ErrTwoFactorCodeInvalid):
		BadRequest(w, "Invalid two-factor code", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailTaken):
		BadRequest(w, "Email already registered", nil)
	case errors.Is(err, user.ErrNotInCompany):
		BadRequest(w, "User does not belong to this company", nil)
	case errors.Is(err, user.ErrCannotDemoteSelf):
		BadRequest(w, "You cannot change your own permissions", nil)
	case errors.Is(err, user.ErrPermissionDenied):
		Forbidden(w, "Permission denied")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrShortNameTaken):
		BadRequest(w, "Company short name already taken", nil)
	case errors.Is(err, company.ErrShortNameExhausted):
		BadRequest(w, "Could not generate a unique company short name", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
