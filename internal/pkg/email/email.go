package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"

	"github.com/civicgrants/portal-backend-go/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailService defines the interface for sending emails. Sends after an
// already-committed state change are best-effort; callers log failures and
// continue rather than failing the request.
type EmailService interface {
	SendVerificationCode(to, code, expiresAt string) error
	SendPasswordReset(to, resetLink, expiresAt string) error
	SendRegistrationConfirmation(to, companyName string) error
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
}

// NewEmailService creates a new email service instance. With no SMTP host
// configured (development), outgoing mail is logged instead of sent.
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	if cfg.Host == "" {
		return &logEmailService{}, nil
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
	}, nil
}

type verificationCodeData struct {
	Code      string
	ExpiresAt string
}

// SendVerificationCode emails the 6-digit email-verification code.
func (s *emailServiceImpl) SendVerificationCode(to, code, expiresAt string) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "verification_code.html", verificationCodeData{Code: code, ExpiresAt: expiresAt}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(to, "Your verification code", body.String())
}

type passwordResetData struct {
	ResetLink string
	ExpiresAt string
}

// SendPasswordReset emails the password reset link.
func (s *emailServiceImpl) SendPasswordReset(to, resetLink, expiresAt string) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "password_reset.html", passwordResetData{ResetLink: resetLink, ExpiresAt: expiresAt}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(to, "Reset your password", body.String())
}

type registrationConfirmationData struct {
	CompanyName string
}

// SendRegistrationConfirmation emails the post-registration confirmation to
// a new contractor company owner.
func (s *emailServiceImpl) SendRegistrationConfirmation(to, companyName string) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "registration_confirmation.html", registrationConfirmationData{CompanyName: companyName}); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return s.sendHTML(to, fmt.Sprintf("Welcome to the portal, %s", companyName), body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	msg := []byte("From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// logEmailService is the development fallback: it records the send instead
// of delivering it. Codes and links still show up in logs for manual testing.
type logEmailService struct{}

func (s *logEmailService) SendVerificationCode(to, code, expiresAt string) error {
	slog.Info("email not configured, logging verification code", "to", to, "code", code, "expires_at", expiresAt)
	return nil
}

func (s *logEmailService) SendPasswordReset(to, resetLink, expiresAt string) error {
	slog.Info("email not configured, logging password reset link", "to", to, "link", resetLink, "expires_at", expiresAt)
	return nil
}

func (s *logEmailService) SendRegistrationConfirmation(to, companyName string) error {
	slog.Info("email not configured, logging registration confirmation", "to", to, "company", companyName)
	return nil
}
