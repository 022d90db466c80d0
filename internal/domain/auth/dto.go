package auth

import (
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	// Account-type discriminator plus the legacy hint fields still sent by
	// older clients. Intent() resolves their precedence once.
	AccountType string `json:"account_type"`
	Role        string `json:"role"`
	UserType    string `json:"user_type"`

	// Company fields
	CompanyName       string `json:"company_name"`
	CompanyShortName  string `json:"company_short_name"`
	BusinessNumber    string `json:"business_number"`
	CompanyExists     bool   `json:"company_exists"`
	SelectedCompanyID string `json:"selected_company_id"`
	PermissionLevel   string `json:"permission_level"`

	// Business address
	StreetAddress string `json:"street_address"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`

	// Legal agreements
	AgreeCodeOfConduct bool `json:"agree_code_of_conduct"`
	AgreeTerms         bool `json:"agree_terms"`
	AgreeBusinessInfo  bool `json:"agree_business_info"`
	AgreeDataSharing   bool `json:"agree_data_sharing"`
}

// Validate checks the fields every registration branch requires. Branch
// specific requirements (address, agreements) are validated by the service
// once the intent is known.
func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if msg := validator.CheckPassword(r.Password); msg != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: msg,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateAddress checks the full business-address fields required by the
// company-creating branches.
func (r *RegisterRequest) ValidateAddress() validator.ValidationErrors {
	var errs validator.ValidationErrors
	fields := map[string]string{
		"street_address": r.StreetAddress,
		"city":           r.City,
		"province":       r.Province,
		"postal_code":    r.PostalCode,
	}
	for field, value := range fields {
		if validator.IsEmpty(value) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " is required",
			})
		}
	}
	return errs
}

// ValidateAgreements checks the legal acknowledgments. Contractors creating
// a company must also affirm the data-sharing agreement.
func (r *RegisterRequest) ValidateAgreements(requireDataSharing bool) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !r.AgreeCodeOfConduct {
		errs = append(errs, validator.ValidationError{
			Field:   "agree_code_of_conduct",
			Message: "the code of conduct must be accepted",
		})
	}
	if !r.AgreeTerms {
		errs = append(errs, validator.ValidationError{
			Field:   "agree_terms",
			Message: "the terms of service must be accepted",
		})
	}
	if !r.AgreeBusinessInfo {
		errs = append(errs, validator.ValidationError{
			Field:   "agree_business_info",
			Message: "the business information agreement must be accepted",
		})
	}
	if requireDataSharing && !r.AgreeDataSharing {
		errs = append(errs, validator.ValidationError{
			Field:   "agree_data_sharing",
			Message: "the data sharing agreement must be accepted",
		})
	}
	return errs
}

// RequestedLevel maps the requested permission level onto a known value,
// defaulting to viewer.
func (r *RegisterRequest) RequestedLevel() user.PermissionLevel {
	switch user.PermissionLevel(r.PermissionLevel) {
	case user.LevelEditor:
		return user.LevelEditor
	case user.LevelManager:
		return user.LevelManager
	case user.LevelOwner:
		return user.LevelOwner
	default:
		return user.LevelViewer
	}
}

type RegisterResponse struct {
	RequiresEmailVerification bool             `json:"requires_email_verification,omitempty"`
	Email                     string           `json:"email,omitempty"`
	IsPending                 bool             `json:"is_pending,omitempty"`
	IsJoinRequest             bool             `json:"is_join_request,omitempty"`
	User                      *user.PublicUser `json:"user,omitempty"`
	RedirectTo                string           `json:"redirect_to,omitempty"`

	// CreateSession tells the handler to log the new account in. Only the
	// company-creating branches auto-login.
	CreateSession bool `json:"-"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ResetPasswordRequest resets a forgotten password via an emailed token, or,
// when Token is empty and the caller is authenticated, changes the current
// password after verifying the old one.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	CurrentPassword string `json:"current_password"`
}

func (r *ResetPasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if msg := validator.CheckPassword(r.Password); msg != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: msg,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type VerifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (r *VerifyCodeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	} else if len(r.Code) != 6 || !validator.IsNumeric(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code must be 6 digits",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmailRequest struct {
	Email string `json:"email"`
}

func (r *EmailRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TwoFactorSetupResponse struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
	QRCode     string `json:"qr_code"`
}

type TwoFactorVerifyRequest struct {
	Secret string `json:"secret"`
	Token  string `json:"token"`
}

func (r *TwoFactorVerifyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Secret) {
		errs = append(errs, validator.ValidationError{
			Field:   "secret",
			Message: "secret is required",
		})
	}
	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TwoFactorDisableRequest struct {
	Token string `json:"token"`
}

func (r *TwoFactorDisableRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Token) {
		errs = append(errs, validator.ValidationError{
			Field:   "token",
			Message: "token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
