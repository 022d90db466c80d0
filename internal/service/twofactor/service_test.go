package twofactor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo implements only the two-factor slice of user.UserRepository;
// the embedded nil interface panics on anything else, which would flag an
// unexpected call.
type fakeUserRepo struct {
	user.UserRepository
	users map[string]user.User
}

func newFakeUserRepo(seed ...user.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]user.User)}
	for _, u := range seed {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) EnableTwoFactor(_ context.Context, userID, secret string) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.TwoFactorSecret = &secret
	u.TwoFactorEnabled = true
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) DisableTwoFactor(_ context.Context, userID string) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.TwoFactorSecret = nil
	u.TwoFactorEnabled = false
	f.users[userID] = u
	return nil
}

func (f *fakeUserRepo) SetTwoFactorLastStep(_ context.Context, userID string, step int64) error {
	u, ok := f.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.TwoFactorLastStep = step
	f.users[userID] = u
	return nil
}

func TestSetup(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "u1", Email: "sam@example.com"})
	svc := NewTwoFactorService(repo)

	resp, err := svc.Setup(context.Background(), repo.users["u1"])
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Secret)
	assert.True(t, strings.HasPrefix(resp.OTPAuthURL, "otpauth://totp/"))
	assert.Contains(t, resp.OTPAuthURL, "sam@example.com")
	assert.True(t, strings.HasPrefix(resp.QRCode, "data:image/png;base64,"))

	assert.False(t, repo.users["u1"].TwoFactorEnabled, "setup alone must not enable 2FA")
}

func TestSetupAlreadyEnabled(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "u1", Email: "sam@example.com", TwoFactorEnabled: true})
	svc := NewTwoFactorService(repo)

	_, err := svc.Setup(context.Background(), repo.users["u1"])
	assert.ErrorIs(t, err, auth.ErrTwoFactorAlreadyEnabled)
}

func TestEnable(t *testing.T) {
	repo := newFakeUserRepo(user.User{ID: "u1", Email: "sam@example.com"})
	svc := NewTwoFactorService(repo)

	setup, err := svc.Setup(context.Background(), repo.users["u1"])
	require.NoError(t, err)

	t.Run("invalid code", func(t *testing.T) {
		err := svc.Enable(context.Background(), repo.users["u1"], setup.Secret, "000000")
		assert.ErrorIs(t, err, auth.ErrTwoFactorCodeInvalid)
		assert.False(t, repo.users["u1"].TwoFactorEnabled)
	})

	t.Run("valid code enables", func(t *testing.T) {
		code, err := totp.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)

		require.NoError(t, svc.Enable(context.Background(), repo.users["u1"], setup.Secret, code))

		stored := repo.users["u1"]
		assert.True(t, stored.TwoFactorEnabled)
		require.NotNil(t, stored.TwoFactorSecret)
		assert.Equal(t, setup.Secret, *stored.TwoFactorSecret)
		assert.Positive(t, stored.TwoFactorLastStep)
	})

	t.Run("already enabled", func(t *testing.T) {
		code, err := totp.GenerateCode(setup.Secret, time.Now())
		require.NoError(t, err)

		err = svc.Enable(context.Background(), repo.users["u1"], setup.Secret, code)
		assert.ErrorIs(t, err, auth.ErrTwoFactorAlreadyEnabled)
	})
}

func TestDisable(t *testing.T) {
	key := func(t *testing.T) string {
		t.Helper()
		k, err := totp.Generate(totp.GenerateOpts{Issuer: "test", AccountName: "sam@example.com"})
		require.NoError(t, err)
		return k.Secret()
	}

	t.Run("not enabled", func(t *testing.T) {
		repo := newFakeUserRepo(user.User{ID: "u1"})
		svc := NewTwoFactorService(repo)

		err := svc.Disable(context.Background(), repo.users["u1"], "123456")
		assert.ErrorIs(t, err, auth.ErrTwoFactorNotEnabled)
	})

	t.Run("replayed step rejected", func(t *testing.T) {
		secret := key(t)
		repo := newFakeUserRepo(user.User{
			ID:                "u1",
			TwoFactorSecret:   &secret,
			TwoFactorEnabled:  true,
			TwoFactorLastStep: time.Now().Unix() / totpPeriod,
		})
		svc := NewTwoFactorService(repo)

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)

		err = svc.Disable(context.Background(), repo.users["u1"], code)
		assert.ErrorIs(t, err, auth.ErrTwoFactorCodeInvalid)
		assert.True(t, repo.users["u1"].TwoFactorEnabled)
	})

	t.Run("valid code disables", func(t *testing.T) {
		secret := key(t)
		repo := newFakeUserRepo(user.User{
			ID:                "u1",
			TwoFactorSecret:   &secret,
			TwoFactorEnabled:  true,
			TwoFactorLastStep: time.Now().Unix()/totpPeriod - 2,
		})
		svc := NewTwoFactorService(repo)

		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)

		require.NoError(t, svc.Disable(context.Background(), repo.users["u1"], code))
		assert.False(t, repo.users["u1"].TwoFactorEnabled)
		assert.Nil(t, repo.users["u1"].TwoFactorSecret)
	})
}
