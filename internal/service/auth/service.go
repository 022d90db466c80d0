package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/domain/company"
	"github.com/civicgrants/portal-backend-go/internal/domain/contractor"
	"github.com/civicgrants/portal-backend-go/internal/domain/notification"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/pkg/email"
	"github.com/civicgrants/portal-backend-go/internal/pkg/password"
)

const (
	verificationCodeTTL = 10 * time.Minute
	resetTokenTTL       = time.Hour
)

type authServiceImpl struct {
	users         user.UserRepository
	companies     company.CompanyRepository
	joinRequests  contractor.JoinRequestRepository
	verifications auth.VerificationRepository
	notifications notification.NotificationRepository
	email         email.EmailService
	sessionSecret string
	frontendURL   string
}

func NewAuthService(
	users user.UserRepository,
	companies company.CompanyRepository,
	joinRequests contractor.JoinRequestRepository,
	verifications auth.VerificationRepository,
	notifications notification.NotificationRepository,
	emailService email.EmailService,
	sessionSecret string,
	frontendURL string,
) auth.AuthService {
	return &authServiceImpl{
		users:         users,
		companies:     companies,
		joinRequests:  joinRequests,
		verifications: verifications,
		notifications: notifications,
		email:         emailService,
		sessionSecret: sessionSecret,
		frontendURL:   frontendURL,
	}
}

// Login implements auth.AuthService. Unknown emails and wrong passwords are
// indistinguishable to the caller; account state errors only surface after
// the password checks out.
func (s *authServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (user.User, error) {
	found, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, auth.ErrInvalidCredentials
		}
		return user.User{}, err
	}

	if !password.Verify(req.Password, found.PasswordHash) {
		return user.User{}, auth.ErrInvalidCredentials
	}

	if !found.IsActive {
		return user.User{}, auth.ErrAccountDeactivated
	}
	if !found.EmailVerified {
		return user.User{}, auth.ErrEmailNotVerified
	}

	return found, nil
}

// Register implements auth.AuthService. The request's intent decides the
// branch; each branch validates its own extra requirements before any row is
// written.
func (s *authServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.RegisterResponse{}, err
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return auth.RegisterResponse{}, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return auth.RegisterResponse{}, err
	}

	intent := req.Intent()
	slog.InfoContext(ctx, "registration request", "intent", intent, "email", req.Email)

	switch intent {
	case auth.IntentTeamMember:
		return s.registerTeamMember(ctx, req)
	case auth.IntentContractorJoin:
		return s.registerContractorJoin(ctx, req)
	case auth.IntentContractorNewCompany:
		return s.registerContractorCompany(ctx, req)
	case auth.IntentCompanyOwner:
		return s.registerCompanyOwner(ctx, req)
	default:
		return s.registerStandalone(ctx, req)
	}
}

// registerTeamMember attaches a new, inactive user to an existing
// organization. An administrator activates the account later; until then the
// user cannot log in.
func (s *authServiceImpl) registerTeamMember(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	found, err := s.companies.GetByName(ctx, req.CompanyName)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	level := req.RequestedLevel()
	created, err := s.users.Create(ctx, user.User{
		CompanyID:       &found.ID,
		Email:           req.Email,
		PasswordHash:    hash,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            user.RoleTeamMember,
		PermissionLevel: &level,
		IsActive:        false,
		EmailVerified:   true,
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	s.notifyCompany(ctx, found.ID, notification.TypePendingApproval,
		fmt.Sprintf("%s %s (%s) requested to join %s as a team member", created.FirstName, created.LastName, created.Email, found.Name))

	pub := created.Public()
	return auth.RegisterResponse{
		IsPending:  true,
		User:       &pub,
		RedirectTo: "/pending-approval",
	}, nil
}

// registerContractorJoin creates an inactive contractor account plus a join
// request against the selected contractor company. The user carries no
// company reference until the request is approved; only the join request
// points at the company, so a rejected requester never shows up among its
// members.
func (s *authServiceImpl) registerContractorJoin(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	found, err := s.companies.GetByID(ctx, req.SelectedCompanyID)
	if err != nil {
		return auth.RegisterResponse{}, err
	}
	if !found.IsContractor {
		return auth.RegisterResponse{}, company.ErrCompanyNotFound
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	created, err := s.users.Create(ctx, user.User{
		Email:         req.Email,
		PasswordHash:  hash,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          user.RoleContractorIndividual,
		IsActive:      false,
		EmailVerified: true,
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	if _, err := s.joinRequests.Create(ctx, contractor.JoinRequest{
		UserID:                   created.ID,
		CompanyID:                found.ID,
		RequestedPermissionLevel: req.RequestedLevel(),
	}); err != nil {
		return auth.RegisterResponse{}, err
	}

	s.notifyCompany(ctx, found.ID, notification.TypeJoinRequest,
		fmt.Sprintf("%s %s (%s) requested to join %s", created.FirstName, created.LastName, created.Email, found.Name))

	pub := created.Public()
	return auth.RegisterResponse{
		IsPending:     true,
		IsJoinRequest: true,
		User:          &pub,
		RedirectTo:    "/pending-approval",
	}, nil
}

// registerContractorCompany creates the account, then the contractor company
// with the account as its owner. The short name is generated from the company
// name and retried on collision.
func (s *authServiceImpl) registerContractorCompany(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	errs := req.ValidateAddress()
	errs = append(errs, req.ValidateAgreements(true)...)
	if len(errs) > 0 {
		return auth.RegisterResponse{}, errs
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	created, err := s.users.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         user.RoleContractorAccountOwner,
		IsActive:     true,
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	newCompany, err := s.createCompanyWithShortName(ctx, company.Company{
		Name:           req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		IsContractor:   true,
		StreetAddress:  req.StreetAddress,
		City:           req.City,
		Province:       req.Province,
		PostalCode:     req.PostalCode,
	}, shortNameBase(req.CompanyName), created.ID, user.RoleContractorAccountOwner, nil)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	if err := s.email.SendRegistrationConfirmation(created.Email, newCompany.Name); err != nil {
		slog.WarnContext(ctx, "failed to send registration confirmation", "email", created.Email, "error", err)
	}

	final, err := s.users.GetByID(ctx, created.ID)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	pub := final.Public()
	return auth.RegisterResponse{
		User:          &pub,
		RedirectTo:    "/dashboard",
		CreateSession: true,
	}, nil
}

// registerCompanyOwner creates a new organization. The email must have passed
// pre-account verification; the verification record is consumed on success.
func (s *authServiceImpl) registerCompanyOwner(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	record, err := s.verifications.Get(ctx, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrNoPendingVerification) {
			return auth.RegisterResponse{}, auth.ErrVerificationRequired
		}
		return auth.RegisterResponse{}, err
	}
	if !record.Verified {
		return auth.RegisterResponse{}, auth.ErrVerificationRequired
	}

	errs := req.ValidateAddress()
	errs = append(errs, req.ValidateAgreements(false)...)
	if len(errs) > 0 {
		return auth.RegisterResponse{}, errs
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	created, err := s.users.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         user.RoleCompanyAdmin,
		IsActive:     true,
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	level := user.LevelOwner
	if _, err := s.createCompanyWithShortName(ctx, company.Company{
		Name:           req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		StreetAddress:  req.StreetAddress,
		City:           req.City,
		Province:       req.Province,
		PostalCode:     req.PostalCode,
	}, shortNameBase(req.CompanyShortName), created.ID, user.RoleCompanyAdmin, &level); err != nil {
		return auth.RegisterResponse{}, err
	}

	if err := s.verifications.Delete(ctx, req.Email); err != nil {
		slog.WarnContext(ctx, "failed to consume verification record", "email", req.Email, "error", err)
	}

	final, err := s.users.GetByID(ctx, created.ID)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	pub := final.Public()
	return auth.RegisterResponse{
		User:          &pub,
		RedirectTo:    "/dashboard",
		CreateSession: true,
	}, nil
}

// registerStandalone creates a bare account with no company. The account
// cannot log in until the emailed code is confirmed.
func (s *authServiceImpl) registerStandalone(ctx context.Context, req auth.RegisterRequest) (auth.RegisterResponse, error) {
	role := user.RoleTeamMember
	if req.IsContractorHint() {
		role = user.RoleContractorIndividual
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	created, err := s.users.Create(ctx, user.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return auth.RegisterResponse{}, err
	}

	if err := s.sendVerificationCode(ctx, created); err != nil {
		return auth.RegisterResponse{}, err
	}

	return auth.RegisterResponse{
		RequiresEmailVerification: true,
		Email:                     created.Email,
		RedirectTo:                "/verify-email",
	}, nil
}

// createCompanyWithShortName walks candidate short names derived from base
// until the insert succeeds. The unique constraint is the arbiter; a
// concurrent registrant taking the same candidate just pushes this one to the
// next.
func (s *authServiceImpl) createCompanyWithShortName(ctx context.Context, c company.Company, base, ownerID string, role user.Role, level *user.PermissionLevel) (company.Company, error) {
	for attempt := 0; attempt < maxShortNameAttempts; attempt++ {
		candidate := shortNameCandidate(base, attempt)

		exists, err := s.companies.ShortNameExists(ctx, candidate)
		if err != nil {
			return company.Company{}, err
		}
		if exists {
			continue
		}

		c.ShortName = candidate
		created, err := s.companies.CreateWithOwner(ctx, c, ownerID, role, level)
		if err != nil {
			if errors.Is(err, company.ErrShortNameTaken) {
				continue
			}
			return company.Company{}, err
		}
		return created, nil
	}
	return company.Company{}, company.ErrShortNameExhausted
}

// RequestPasswordReset implements auth.AuthService. Unknown emails return
// success so the endpoint cannot be used to probe for accounts.
func (s *authServiceImpl) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	found, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			slog.InfoContext(ctx, "password reset requested for unknown email", "email", emailAddr)
			return nil
		}
		return err
	}

	token, err := generateResetToken()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.users.SetResetToken(ctx, found.ID, hashResetToken(s.sessionSecret, token), expiresAt); err != nil {
		return err
	}

	resetLink := s.frontendURL + "/reset-password?token=" + token
	if err := s.email.SendPasswordReset(found.Email, resetLink, expiresAt.Format("15:04 MST")); err != nil {
		slog.WarnContext(ctx, "failed to send password reset email", "email", found.Email, "error", err)
	}
	return nil
}

// ResetPassword implements auth.AuthService. The token is single-use: the
// repository clears it in the same statement that writes the new hash.
func (s *authServiceImpl) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Token == "" {
		return auth.ErrInvalidResetToken
	}

	found, err := s.users.GetByResetTokenHash(ctx, hashResetToken(s.sessionSecret, req.Token))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.ErrInvalidResetToken
		}
		return err
	}
	if found.ResetTokenExpiresAt == nil || time.Now().After(*found.ResetTokenExpiresAt) {
		return auth.ErrInvalidResetToken
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	return s.users.ResetPassword(ctx, found.ID, hash)
}

// ChangePassword implements auth.AuthService for authenticated users: the
// current password must verify before the new one is written.
func (s *authServiceImpl) ChangePassword(ctx context.Context, userID string, req auth.ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !password.Verify(req.CurrentPassword, found.PasswordHash) {
		return auth.ErrInvalidCredentials
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, found.ID, hash)
}

// VerifyEmailCode implements auth.AuthService. On success the user record is
// marked verified and returned so the handler can establish a session.
func (s *authServiceImpl) VerifyEmailCode(ctx context.Context, emailAddr, code string) (user.User, error) {
	found, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return user.User{}, err
	}

	if found.EmailVerified {
		return user.User{}, auth.ErrAlreadyVerified
	}
	if found.VerificationCode == nil {
		return user.User{}, auth.ErrNoPendingVerification
	}
	if found.VerificationExpiresAt == nil || time.Now().After(*found.VerificationExpiresAt) {
		return user.User{}, auth.ErrCodeExpired
	}
	if *found.VerificationCode != code {
		return user.User{}, auth.ErrCodeMismatch
	}

	if err := s.users.MarkEmailVerified(ctx, found.ID); err != nil {
		return user.User{}, err
	}

	found.EmailVerified = true
	found.VerificationCode = nil
	found.VerificationExpiresAt = nil
	return found, nil
}

// ResendVerification implements auth.AuthService. A fresh code replaces any
// outstanding one.
func (s *authServiceImpl) ResendVerification(ctx context.Context, emailAddr string) error {
	found, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		return err
	}
	if found.EmailVerified {
		return auth.ErrAlreadyVerified
	}
	return s.sendVerificationCode(ctx, found)
}

func (s *authServiceImpl) sendVerificationCode(ctx context.Context, u user.User) error {
	code, err := generateCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(verificationCodeTTL)
	if err := s.users.SetVerificationCode(ctx, u.ID, code, expiresAt); err != nil {
		return err
	}

	if err := s.email.SendVerificationCode(u.Email, code, expiresAt.Format("15:04 MST")); err != nil {
		slog.WarnContext(ctx, "failed to send verification code", "email", u.Email, "error", err)
	}
	return nil
}

// SendRegistrationVerification implements auth.AuthService: pre-account
// verification for the company-owner flow. Already-registered emails are
// rejected outright.
func (s *authServiceImpl) SendRegistrationVerification(ctx context.Context, emailAddr string) error {
	if _, err := s.users.GetByEmail(ctx, emailAddr); err == nil {
		return user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(verificationCodeTTL)
	if err := s.verifications.Upsert(ctx, auth.EmailVerification{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: expiresAt,
	}); err != nil {
		return err
	}

	if err := s.email.SendVerificationCode(emailAddr, code, expiresAt.Format("15:04 MST")); err != nil {
		slog.WarnContext(ctx, "failed to send registration verification code", "email", emailAddr, "error", err)
	}
	return nil
}

// VerifyRegistrationCode implements auth.AuthService.
func (s *authServiceImpl) VerifyRegistrationCode(ctx context.Context, emailAddr, code string) error {
	record, err := s.verifications.Get(ctx, emailAddr)
	if err != nil {
		return err
	}

	if record.Verified {
		return auth.ErrAlreadyVerified
	}
	if time.Now().After(record.ExpiresAt) {
		return auth.ErrCodeExpired
	}
	if record.Code != code {
		return auth.ErrCodeMismatch
	}

	return s.verifications.MarkVerified(ctx, emailAddr)
}

// notifyCompany records an in-app notification for the company. Failures are
// logged; the registration that triggered them has already committed.
func (s *authServiceImpl) notifyCompany(ctx context.Context, companyID string, typ notification.Type, message string) {
	if _, err := s.notifications.Create(ctx, notification.Notification{
		CompanyID: &companyID,
		Type:      typ,
		Message:   message,
	}); err != nil {
		slog.WarnContext(ctx, "failed to create notification", "company_id", companyID, "type", typ, "error", err)
	}
}
