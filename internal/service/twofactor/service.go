package twofactor

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/png"
	"time"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/pquerna/otp/totp"
)

const (
	issuer = "Grants Portal"

	// totpPeriod is the RFC 6238 time-step in seconds. The step counter
	// derived from it is persisted after each accepted code so the same code
	// cannot be replayed within its validity window.
	totpPeriod = 30

	qrSize = 256
)

type twoFactorServiceImpl struct {
	users user.UserRepository
}

func NewTwoFactorService(users user.UserRepository) auth.TwoFactorService {
	return &twoFactorServiceImpl{users: users}
}

// Setup implements auth.TwoFactorService. Nothing is persisted; the caller
// must prove possession of the secret via Enable before it takes effect.
func (s *twoFactorServiceImpl) Setup(ctx context.Context, u user.User) (auth.TwoFactorSetupResponse, error) {
	if u.TwoFactorEnabled {
		return auth.TwoFactorSetupResponse{}, auth.ErrTwoFactorAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: u.Email,
	})
	if err != nil {
		return auth.TwoFactorSetupResponse{}, err
	}

	img, err := key.Image(qrSize, qrSize)
	if err != nil {
		return auth.TwoFactorSetupResponse{}, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return auth.TwoFactorSetupResponse{}, err
	}

	return auth.TwoFactorSetupResponse{
		Secret:     key.Secret(),
		OTPAuthURL: key.URL(),
		QRCode:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

// Enable implements auth.TwoFactorService.
func (s *twoFactorServiceImpl) Enable(ctx context.Context, u user.User, secret, code string) error {
	if u.TwoFactorEnabled {
		return auth.ErrTwoFactorAlreadyEnabled
	}

	if !totp.Validate(code, secret) {
		return auth.ErrTwoFactorCodeInvalid
	}

	if err := s.users.EnableTwoFactor(ctx, u.ID, secret); err != nil {
		return err
	}
	return s.users.SetTwoFactorLastStep(ctx, u.ID, currentStep())
}

// Disable implements auth.TwoFactorService. The code is checked against the
// persisted secret and must come from a later time-step than the last
// accepted one.
func (s *twoFactorServiceImpl) Disable(ctx context.Context, u user.User, code string) error {
	if !u.TwoFactorEnabled || u.TwoFactorSecret == nil {
		return auth.ErrTwoFactorNotEnabled
	}

	step := currentStep()
	if step <= u.TwoFactorLastStep {
		return auth.ErrTwoFactorCodeInvalid
	}
	if !totp.Validate(code, *u.TwoFactorSecret) {
		return auth.ErrTwoFactorCodeInvalid
	}

	return s.users.DisableTwoFactor(ctx, u.ID)
}

func currentStep() int64 {
	return time.Now().Unix() / totpPeriod
}
