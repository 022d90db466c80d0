package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/domain/company"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/pkg/password"
	"github.com/civicgrants/portal-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "Str0ng!Pass"
	testSecret   = "test-session-secret"
)

type testEnv struct {
	users         *fakeUserRepo
	companies     *fakeCompanyRepo
	joinRequests  *fakeJoinRequestRepo
	verifications *fakeVerificationRepo
	notifications *fakeNotificationRepo
	email         *fakeEmailService
	svc           auth.AuthService
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	companies := newFakeCompanyRepo(users)
	joinRequests := &fakeJoinRequestRepo{}
	verifications := newFakeVerificationRepo()
	notifications := &fakeNotificationRepo{}
	emailSvc := &fakeEmailService{}

	return &testEnv{
		users:         users,
		companies:     companies,
		joinRequests:  joinRequests,
		verifications: verifications,
		notifications: notifications,
		email:         emailSvc,
		svc: NewAuthService(
			users, companies, joinRequests, verifications, notifications,
			emailSvc, testSecret, "http://localhost:3000",
		),
	}
}

func (e *testEnv) seedUser(t *testing.T, email string, mods ...func(*user.User)) user.User {
	t.Helper()
	hash, err := password.Hash(testPassword)
	require.NoError(t, err)

	u := user.User{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     "Sam",
		LastName:      "Doe",
		Role:          user.RoleTeamMember,
		IsActive:      true,
		EmailVerified: true,
	}
	for _, mod := range mods {
		mod(&u)
	}
	created, err := e.users.Create(context.Background(), u)
	require.NoError(t, err)
	return created
}

func TestLogin(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "sam@example.com")

	t.Run("success", func(t *testing.T) {
		loggedIn, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "sam@example.com",
			Password: testPassword,
		})
		require.NoError(t, err)
		assert.Equal(t, "sam@example.com", loggedIn.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "sam@example.com",
			Password: "Wr0ng!Pass",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email looks like wrong password", func(t *testing.T) {
		_, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "nobody@example.com",
			Password: testPassword,
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("deactivated account", func(t *testing.T) {
		env.seedUser(t, "gone@example.com", func(u *user.User) { u.IsActive = false })
		_, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "gone@example.com",
			Password: testPassword,
		})
		assert.ErrorIs(t, err, auth.ErrAccountDeactivated)
	})

	t.Run("unverified email", func(t *testing.T) {
		env.seedUser(t, "new@example.com", func(u *user.User) { u.EmailVerified = false })
		_, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "new@example.com",
			Password: testPassword,
		})
		assert.ErrorIs(t, err, auth.ErrEmailNotVerified)
	})
}

func TestLoginLegacyHash(t *testing.T) {
	env := newTestEnv()
	// sha256("OldPass1!" + "somesalt")
	env.seedUser(t, "legacy@example.com", func(u *user.User) {
		u.PasswordHash = "0a894a1b7e557a9a2b264fc6f7f384dd3b0c9bdbdd40ba6b15e2cbaad5b74c5d.somesalt"
	})

	// The stored legacy hash above is not the real digest of any password, so
	// verification must fail closed rather than error out.
	_, err := env.svc.Login(context.Background(), auth.LoginRequest{
		Email:    "legacy@example.com",
		Password: "OldPass1!",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "taken@example.com")

	_, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "taken@example.com",
		Password: testPassword,
	})
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.Len(t, env.users.users, 1)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "weak@example.com",
		Password: "alllowercase1",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "password")
	assert.Empty(t, env.users.users, "no account may exist for a rejected registration")
}

func TestRegisterTeamMember(t *testing.T) {
	env := newTestEnv()
	org := env.companies.add(company.Company{Name: "Acme Grants", ShortName: "ACMEGR"})

	resp, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:           "member@example.com",
		Password:        testPassword,
		FirstName:       "Pat",
		LastName:        "Lee",
		AccountType:     "team_member",
		CompanyName:     "Acme Grants",
		PermissionLevel: "editor",
	})
	require.NoError(t, err)

	assert.True(t, resp.IsPending)
	assert.False(t, resp.CreateSession, "pending members must not be logged in")
	require.NotNil(t, resp.User)
	assert.False(t, resp.User.IsActive)
	assert.Equal(t, user.RoleTeamMember, resp.User.Role)
	require.NotNil(t, resp.User.PermissionLevel)
	assert.Equal(t, user.LevelEditor, *resp.User.PermissionLevel)

	feed, err := env.notifications.ListByCompany(context.Background(), org.ID)
	require.NoError(t, err)
	require.Len(t, feed, 1, "company should be notified of the pending member")
}

func TestRegisterTeamMemberUnknownCompany(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:       "member@example.com",
		Password:    testPassword,
		AccountType: "team_member",
		CompanyName: "No Such Org",
	})
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)
	assert.Empty(t, env.users.users)
}

func TestRegisterContractorJoin(t *testing.T) {
	env := newTestEnv()
	firm := env.companies.add(company.Company{Name: "BuildCo", ShortName: "BUILDC", IsContractor: true})

	resp, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:             "worker@example.com",
		Password:          testPassword,
		AccountType:       "contractor_individual",
		CompanyExists:     true,
		SelectedCompanyID: firm.ID,
		PermissionLevel:   "manager",
	})
	require.NoError(t, err)

	assert.True(t, resp.IsPending)
	assert.True(t, resp.IsJoinRequest)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.RoleContractorIndividual, resp.User.Role)
	assert.False(t, resp.User.IsActive)
	assert.Nil(t, resp.User.CompanyID, "company reference is granted on approval, not at registration")

	require.Len(t, env.joinRequests.requests, 1)
	assert.Equal(t, user.LevelManager, env.joinRequests.requests[0].RequestedPermissionLevel)
	assert.Equal(t, firm.ID, env.joinRequests.requests[0].CompanyID)

	members, err := env.users.ListByCompany(context.Background(), firm.ID)
	require.NoError(t, err)
	assert.Empty(t, members, "pending requester must not appear among company members")
}

func TestRegisterContractorNewCompany(t *testing.T) {
	env := newTestEnv()

	base := auth.RegisterRequest{
		Email:              "owner@example.com",
		Password:           testPassword,
		FirstName:          "Max",
		LastName:           "Ng",
		AccountType:        "contractor_account_owner",
		CompanyName:        "North Electric",
		BusinessNumber:     "123456789",
		StreetAddress:      "1 Main St",
		City:               "Halifax",
		Province:           "NS",
		PostalCode:         "B3H 1A1",
		AgreeCodeOfConduct: true,
		AgreeTerms:         true,
		AgreeBusinessInfo:  true,
		AgreeDataSharing:   true,
	}

	t.Run("missing data sharing agreement", func(t *testing.T) {
		req := base
		req.AgreeDataSharing = false
		_, err := env.svc.Register(context.Background(), req)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "agree_data_sharing")
	})

	t.Run("success", func(t *testing.T) {
		resp, err := env.svc.Register(context.Background(), base)
		require.NoError(t, err)

		assert.True(t, resp.CreateSession)
		require.NotNil(t, resp.User)
		assert.Equal(t, user.RoleContractorAccountOwner, resp.User.Role)
		assert.True(t, resp.User.EmailVerified)
		require.NotNil(t, resp.User.CompanyID)

		created, err := env.companies.GetByID(context.Background(), *resp.User.CompanyID)
		require.NoError(t, err)
		assert.True(t, created.IsContractor)
		assert.Equal(t, "NORTHE", created.ShortName)

		_, ok := env.email.lastByKind("confirmation")
		assert.True(t, ok, "confirmation email should be sent")
	})
}

func TestRegisterCompanyOwner(t *testing.T) {
	env := newTestEnv()

	req := auth.RegisterRequest{
		Email:              "admin@example.com",
		Password:           testPassword,
		FirstName:          "Ada",
		LastName:           "Reyes",
		CompanyName:        "Harbour Labs",
		CompanyShortName:   "harbour",
		BusinessNumber:     "987654321",
		StreetAddress:      "2 Dock Rd",
		City:               "Victoria",
		Province:           "BC",
		PostalCode:         "V8W 1A1",
		AgreeCodeOfConduct: true,
		AgreeTerms:         true,
		AgreeBusinessInfo:  true,
	}

	t.Run("requires verified email first", func(t *testing.T) {
		_, err := env.svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, auth.ErrVerificationRequired)
	})

	t.Run("success after verification", func(t *testing.T) {
		require.NoError(t, env.svc.SendRegistrationVerification(context.Background(), req.Email))
		sent, ok := env.email.lastByKind("verification")
		require.True(t, ok)
		require.NoError(t, env.svc.VerifyRegistrationCode(context.Background(), req.Email, sent.code))

		resp, err := env.svc.Register(context.Background(), req)
		require.NoError(t, err)

		assert.True(t, resp.CreateSession)
		require.NotNil(t, resp.User)
		assert.Equal(t, user.RoleCompanyAdmin, resp.User.Role)
		require.NotNil(t, resp.User.PermissionLevel)
		assert.Equal(t, user.LevelOwner, *resp.User.PermissionLevel)

		_, err = env.verifications.Get(context.Background(), req.Email)
		assert.ErrorIs(t, err, auth.ErrNoPendingVerification, "verification record should be consumed")
	})
}

func TestRegisterStandalone(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "solo@example.com",
		Password: testPassword,
		UserType: "contractor",
	})
	require.NoError(t, err)

	assert.True(t, resp.RequiresEmailVerification)
	assert.Equal(t, "solo@example.com", resp.Email)
	assert.False(t, resp.CreateSession)

	sent, ok := env.email.lastByKind("verification")
	require.True(t, ok)
	assert.Len(t, sent.code, 6)

	stored, err := env.users.GetByEmail(context.Background(), "solo@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.RoleContractorIndividual, stored.Role)
	assert.False(t, stored.EmailVerified)
}

func TestShortNameCollisionRetries(t *testing.T) {
	env := newTestEnv()
	env.companies.add(company.Company{Name: "Other", ShortName: "NORTHE"})
	env.companies.add(company.Company{Name: "Other2", ShortName: "NORTHE2"})

	resp, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:              "owner@example.com",
		Password:           testPassword,
		AccountType:        "contractor_account_owner",
		CompanyName:        "North Electric",
		StreetAddress:      "1 Main St",
		City:               "Halifax",
		Province:           "NS",
		PostalCode:         "B3H 1A1",
		AgreeCodeOfConduct: true,
		AgreeTerms:         true,
		AgreeBusinessInfo:  true,
		AgreeDataSharing:   true,
	})
	require.NoError(t, err)

	created, err := env.companies.GetByID(context.Background(), *resp.User.CompanyID)
	require.NoError(t, err)
	assert.Equal(t, "NORTHE3", created.ShortName)
}

func TestShortNameExhaustion(t *testing.T) {
	env := newTestEnv()
	for attempt := 0; attempt < maxShortNameAttempts; attempt++ {
		env.companies.add(company.Company{
			Name:      "Filler",
			ShortName: shortNameCandidate("NORTHE", attempt),
		})
	}

	_, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:              "owner@example.com",
		Password:           testPassword,
		AccountType:        "contractor_account_owner",
		CompanyName:        "North Electric",
		StreetAddress:      "1 Main St",
		City:               "Halifax",
		Province:           "NS",
		PostalCode:         "B3H 1A1",
		AgreeCodeOfConduct: true,
		AgreeTerms:         true,
		AgreeBusinessInfo:  true,
		AgreeDataSharing:   true,
	})
	assert.ErrorIs(t, err, company.ErrShortNameExhausted)
}

func TestVerifyEmailCode(t *testing.T) {
	env := newTestEnv()

	_, err := env.svc.Register(context.Background(), auth.RegisterRequest{
		Email:    "solo@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	sent, ok := env.email.lastByKind("verification")
	require.True(t, ok)

	t.Run("mismatched code", func(t *testing.T) {
		wrong := "000000"
		if wrong == sent.code {
			wrong = "000001"
		}
		_, err := env.svc.VerifyEmailCode(context.Background(), "solo@example.com", wrong)
		assert.ErrorIs(t, err, auth.ErrCodeMismatch)
	})

	t.Run("success and auto verified", func(t *testing.T) {
		verified, err := env.svc.VerifyEmailCode(context.Background(), "solo@example.com", sent.code)
		require.NoError(t, err)
		assert.True(t, verified.EmailVerified)
	})

	t.Run("already verified", func(t *testing.T) {
		_, err := env.svc.VerifyEmailCode(context.Background(), "solo@example.com", sent.code)
		assert.ErrorIs(t, err, auth.ErrAlreadyVerified)
	})
}

func TestVerifyEmailCodeExpired(t *testing.T) {
	env := newTestEnv()
	seeded := env.seedUser(t, "late@example.com", func(u *user.User) { u.EmailVerified = false })

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, env.users.SetVerificationCode(context.Background(), seeded.ID, "123456", expired))

	_, err := env.svc.VerifyEmailCode(context.Background(), "late@example.com", "123456")
	assert.ErrorIs(t, err, auth.ErrCodeExpired)
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv()
	seeded := env.seedUser(t, "sam@example.com")

	t.Run("unknown email reveals nothing", func(t *testing.T) {
		require.NoError(t, env.svc.RequestPasswordReset(context.Background(), "nobody@example.com"))
		_, ok := env.email.lastByKind("reset")
		assert.False(t, ok)
	})

	require.NoError(t, env.svc.RequestPasswordReset(context.Background(), "sam@example.com"))
	sent, ok := env.email.lastByKind("reset")
	require.True(t, ok)

	_, token, found := strings.Cut(sent.link, "token=")
	require.True(t, found)

	t.Run("bogus token rejected", func(t *testing.T) {
		err := env.svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
			Token:    "not-a-real-token",
			Password: "N3w!Passw0rd",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})

	t.Run("reset succeeds once", func(t *testing.T) {
		require.NoError(t, env.svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
			Token:    token,
			Password: "N3w!Passw0rd",
		}))

		_, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "sam@example.com",
			Password: "N3w!Passw0rd",
		})
		assert.NoError(t, err)
	})

	t.Run("token is single use", func(t *testing.T) {
		err := env.svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
			Token:    token,
			Password: "An0ther!Pass",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		require.NoError(t, env.svc.RequestPasswordReset(context.Background(), "sam@example.com"))
		sent, ok := env.email.lastByKind("reset")
		require.True(t, ok)
		_, freshToken, found := strings.Cut(sent.link, "token=")
		require.True(t, found)

		stored, err := env.users.GetByID(context.Background(), seeded.ID)
		require.NoError(t, err)
		require.NoError(t, env.users.SetResetToken(context.Background(), seeded.ID, *stored.ResetTokenHash, time.Now().Add(-time.Minute)))

		err = env.svc.ResetPassword(context.Background(), auth.ResetPasswordRequest{
			Token:    freshToken,
			Password: "An0ther!Pass",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidResetToken)
	})
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv()
	seeded := env.seedUser(t, "sam@example.com")

	t.Run("wrong current password", func(t *testing.T) {
		err := env.svc.ChangePassword(context.Background(), seeded.ID, auth.ResetPasswordRequest{
			CurrentPassword: "Wr0ng!Pass",
			Password:        "N3w!Passw0rd",
		})
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, env.svc.ChangePassword(context.Background(), seeded.ID, auth.ResetPasswordRequest{
			CurrentPassword: testPassword,
			Password:        "N3w!Passw0rd",
		}))

		_, err := env.svc.Login(context.Background(), auth.LoginRequest{
			Email:    "sam@example.com",
			Password: "N3w!Passw0rd",
		})
		assert.NoError(t, err)
	})
}

func TestSendRegistrationVerificationRejectsRegisteredEmail(t *testing.T) {
	env := newTestEnv()
	env.seedUser(t, "taken@example.com")

	err := env.svc.SendRegistrationVerification(context.Background(), "taken@example.com")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
}

func TestVerifyRegistrationCode(t *testing.T) {
	env := newTestEnv()

	t.Run("nothing pending", func(t *testing.T) {
		err := env.svc.VerifyRegistrationCode(context.Background(), "fresh@example.com", "123456")
		assert.ErrorIs(t, err, auth.ErrNoPendingVerification)
	})

	require.NoError(t, env.svc.SendRegistrationVerification(context.Background(), "fresh@example.com"))
	sent, ok := env.email.lastByKind("verification")
	require.True(t, ok)

	t.Run("expired code", func(t *testing.T) {
		record, err := env.verifications.Get(context.Background(), "fresh@example.com")
		require.NoError(t, err)
		record.ExpiresAt = time.Now().Add(-time.Minute)
		require.NoError(t, env.verifications.Upsert(context.Background(), record))

		err = env.svc.VerifyRegistrationCode(context.Background(), "fresh@example.com", sent.code)
		assert.ErrorIs(t, err, auth.ErrCodeExpired)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, env.svc.SendRegistrationVerification(context.Background(), "fresh@example.com"))
		resent, ok := env.email.lastByKind("verification")
		require.True(t, ok)

		require.NoError(t, env.svc.VerifyRegistrationCode(context.Background(), "fresh@example.com", resent.code))

		record, err := env.verifications.Get(context.Background(), "fresh@example.com")
		require.NoError(t, err)
		assert.True(t, record.Verified)
	})
}
