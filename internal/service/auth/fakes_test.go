package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/domain/company"
	"github.com/civicgrants/portal-backend-go/internal/domain/contractor"
	"github.com/civicgrants/portal-backend-go/internal/domain/notification"
	"github.com/civicgrants/portal-backend-go/internal/domain/user"
)

// In-memory repository fakes. They reproduce the store's observable behavior
// (duplicate-email and short-name uniqueness included) without a database.

type fakeUserRepo struct {
	users map[string]user.User
	seq   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Create(_ context.Context, newUser user.User) (user.User, error) {
	for _, u := range f.users {
		if u.Email == newUser.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}
	f.seq++
	newUser.ID = fmt.Sprintf("user-%d", f.seq)
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	f.users[newUser.ID] = newUser
	return newUser, nil
}

func (f *fakeUserRepo) ListByCompany(_ context.Context, companyID string) ([]user.User, error) {
	var members []user.User
	for _, u := range f.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			members = append(members, u)
		}
	}
	return members, nil
}

func (f *fakeUserRepo) update(id string, fn func(*user.User)) error {
	u, ok := f.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	return f.update(userID, func(u *user.User) { u.PasswordHash = passwordHash })
}

func (f *fakeUserRepo) UpdatePermissionLevel(_ context.Context, userID string, level user.PermissionLevel) error {
	return f.update(userID, func(u *user.User) { u.PermissionLevel = &level })
}

func (f *fakeUserRepo) SetActive(_ context.Context, userID string, active bool) error {
	return f.update(userID, func(u *user.User) { u.IsActive = active })
}

func (f *fakeUserRepo) RemoveFromCompany(_ context.Context, userID string) error {
	return f.update(userID, func(u *user.User) {
		u.CompanyID = nil
		u.PermissionLevel = nil
	})
}

func (f *fakeUserRepo) SetVerificationCode(_ context.Context, userID, code string, expiresAt time.Time) error {
	return f.update(userID, func(u *user.User) {
		u.VerificationCode = &code
		u.VerificationExpiresAt = &expiresAt
	})
}

func (f *fakeUserRepo) MarkEmailVerified(_ context.Context, userID string) error {
	return f.update(userID, func(u *user.User) {
		u.EmailVerified = true
		u.VerificationCode = nil
		u.VerificationExpiresAt = nil
	})
}

func (f *fakeUserRepo) SetResetToken(_ context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return f.update(userID, func(u *user.User) {
		u.ResetTokenHash = &tokenHash
		u.ResetTokenExpiresAt = &expiresAt
	})
}

func (f *fakeUserRepo) GetByResetTokenHash(_ context.Context, tokenHash string) (user.User, error) {
	for _, u := range f.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) ResetPassword(_ context.Context, userID, passwordHash string) error {
	return f.update(userID, func(u *user.User) {
		u.PasswordHash = passwordHash
		u.ResetTokenHash = nil
		u.ResetTokenExpiresAt = nil
	})
}

func (f *fakeUserRepo) EnableTwoFactor(_ context.Context, userID, secret string) error {
	return f.update(userID, func(u *user.User) {
		u.TwoFactorSecret = &secret
		u.TwoFactorEnabled = true
	})
}

func (f *fakeUserRepo) DisableTwoFactor(_ context.Context, userID string) error {
	return f.update(userID, func(u *user.User) {
		u.TwoFactorSecret = nil
		u.TwoFactorEnabled = false
	})
}

func (f *fakeUserRepo) SetTwoFactorLastStep(_ context.Context, userID string, step int64) error {
	return f.update(userID, func(u *user.User) { u.TwoFactorLastStep = step })
}

type fakeCompanyRepo struct {
	users     *fakeUserRepo
	companies map[string]company.Company
	seq       int
}

func newFakeCompanyRepo(users *fakeUserRepo) *fakeCompanyRepo {
	return &fakeCompanyRepo{users: users, companies: make(map[string]company.Company)}
}

func (f *fakeCompanyRepo) add(c company.Company) company.Company {
	f.seq++
	if c.ID == "" {
		c.ID = fmt.Sprintf("company-%d", f.seq)
	}
	f.companies[c.ID] = c
	return c
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (company.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanyRepo) GetByName(_ context.Context, name string) (company.Company, error) {
	for _, c := range f.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return company.Company{}, company.ErrCompanyNotFound
}

func (f *fakeCompanyRepo) ShortNameExists(_ context.Context, shortName string) (bool, error) {
	for _, c := range f.companies {
		if c.ShortName == shortName {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCompanyRepo) CreateWithOwner(ctx context.Context, c company.Company, ownerID string, role user.Role, level *user.PermissionLevel) (company.Company, error) {
	if taken, _ := f.ShortNameExists(ctx, c.ShortName); taken {
		return company.Company{}, company.ErrShortNameTaken
	}
	created := f.add(c)
	err := f.users.update(ownerID, func(u *user.User) {
		u.CompanyID = &created.ID
		u.Role = role
		u.PermissionLevel = level
		u.EmailVerified = true
	})
	if err != nil {
		return company.Company{}, err
	}
	return created, nil
}

type fakeJoinRequestRepo struct {
	requests []contractor.JoinRequest
}

func (f *fakeJoinRequestRepo) Create(_ context.Context, req contractor.JoinRequest) (contractor.JoinRequest, error) {
	req.ID = fmt.Sprintf("jr-%d", len(f.requests)+1)
	if req.Status == "" {
		req.Status = contractor.StatusPending
	}
	f.requests = append(f.requests, req)
	return req, nil
}

func (f *fakeJoinRequestRepo) ListByCompany(_ context.Context, companyID string) ([]contractor.JoinRequest, error) {
	var out []contractor.JoinRequest
	for _, jr := range f.requests {
		if jr.CompanyID == companyID {
			out = append(out, jr)
		}
	}
	return out, nil
}

type fakeVerificationRepo struct {
	records map[string]auth.EmailVerification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: make(map[string]auth.EmailVerification)}
}

func (f *fakeVerificationRepo) Upsert(_ context.Context, v auth.EmailVerification) error {
	f.records[v.Email] = v
	return nil
}

func (f *fakeVerificationRepo) Get(_ context.Context, email string) (auth.EmailVerification, error) {
	v, ok := f.records[email]
	if !ok {
		return auth.EmailVerification{}, auth.ErrNoPendingVerification
	}
	return v, nil
}

func (f *fakeVerificationRepo) MarkVerified(_ context.Context, email string) error {
	v, ok := f.records[email]
	if !ok {
		return auth.ErrNoPendingVerification
	}
	v.Verified = true
	f.records[email] = v
	return nil
}

func (f *fakeVerificationRepo) Delete(_ context.Context, email string) error {
	delete(f.records, email)
	return nil
}

type fakeNotificationRepo struct {
	notifications []notification.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	n.ID = fmt.Sprintf("n-%d", len(f.notifications)+1)
	n.CreatedAt = time.Now()
	f.notifications = append(f.notifications, n)
	return n, nil
}

func (f *fakeNotificationRepo) ListByCompany(_ context.Context, companyID string) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range f.notifications {
		if n.CompanyID != nil && *n.CompanyID == companyID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range f.notifications {
		if n.UserID != nil && *n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

type sentEmail struct {
	kind string
	to   string
	code string
	link string
}

type fakeEmailService struct {
	sent []sentEmail
}

func (f *fakeEmailService) SendVerificationCode(to, code, _ string) error {
	f.sent = append(f.sent, sentEmail{kind: "verification", to: to, code: code})
	return nil
}

func (f *fakeEmailService) SendPasswordReset(to, resetLink, _ string) error {
	f.sent = append(f.sent, sentEmail{kind: "reset", to: to, link: resetLink})
	return nil
}

func (f *fakeEmailService) SendRegistrationConfirmation(to, _ string) error {
	f.sent = append(f.sent, sentEmail{kind: "confirmation", to: to})
	return nil
}

func (f *fakeEmailService) lastByKind(kind string) (sentEmail, bool) {
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].kind == kind {
			return f.sent[i], true
		}
	}
	return sentEmail{}, false
}
