package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
	"github.com/civicgrants/portal-backend-go/internal/pkg/session"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	RequestReset(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	VerifyCode(w http.ResponseWriter, r *http.Request)
	VerifyEmail(w http.ResponseWriter, r *http.Request)
	ResendVerification(w http.ResponseWriter, r *http.Request)
	SendRegistrationVerification(w http.ResponseWriter, r *http.Request)
	VerifyRegistrationCode(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
	sessions    *session.Manager
	frontendURL string
}

func NewAuthHandler(authService auth.AuthService, sessions *session.Manager, frontendURL string) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
		sessions:    sessions,
		frontendURL: frontendURL,
	}
}

// Register implements AuthHandler.
func (a *AuthHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var registerReq auth.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		slog.Error("Register decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := registerReq.Validate(); err != nil {
		slog.Error("Register validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	registerResp, err := a.authService.Register(r.Context(), registerReq)
	if err != nil {
		slog.Error("Register service error", "error", err)
		response.HandleError(w, err)
		return
	}

	// Only the company-creating branches log the new account in.
	if registerResp.CreateSession && registerResp.User != nil {
		if err := a.sessions.Login(r.Context(), registerResp.User.ID); err != nil {
			slog.Error("Register session error", "error", err)
			response.InternalServerError(w, "Failed to establish session")
			return
		}
	}

	slog.Info("User registered successfully")
	response.Created(w, "Registration successful", registerResp)
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		slog.Error("Login validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	loggedIn, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := a.sessions.Login(r.Context(), loggedIn.ID); err != nil {
		slog.Error("Login session error", "error", err)
		response.InternalServerError(w, "Failed to establish session")
		return
	}

	slog.Info("User logged in successfully")
	response.SuccessWithMessage(w, "Logged in successfully", loggedIn.Public())
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Logout(r.Context()); err != nil {
		slog.Error("Logout session error", "error", err)
		response.InternalServerError(w, "Failed to destroy session")
		return
	}
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// RequestReset implements AuthHandler. The response is identical whether or
// not the email has an account.
func (a *AuthHandlerImpl) RequestReset(w http.ResponseWriter, r *http.Request) {
	var forgotReq auth.ForgotPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&forgotReq); err != nil {
		slog.Error("RequestReset decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := forgotReq.Validate(); err != nil {
		slog.Error("RequestReset validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := a.authService.RequestPasswordReset(r.Context(), forgotReq.Email); err != nil {
		slog.Error("RequestReset service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "If that email has an account, a reset link has been sent", nil)
}

// ResetPassword implements AuthHandler. With a token it completes the
// forgotten-password flow; without one it changes the password of the
// session's user after checking the current password.
func (a *AuthHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var resetReq auth.ResetPasswordRequest

	if err := json.NewDecoder(r.Body).Decode(&resetReq); err != nil {
		slog.Error("ResetPassword decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := resetReq.Validate(); err != nil {
		slog.Error("ResetPassword validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	var err error
	if resetReq.Token == "" {
		userID := a.sessions.UserID(r.Context())
		if userID == "" {
			response.Unauthorized(w, "Authentication required")
			return
		}
		err = a.authService.ChangePassword(r.Context(), userID, resetReq)
	} else {
		err = a.authService.ResetPassword(r.Context(), resetReq)
	}
	if err != nil {
		slog.Error("ResetPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Password reset successfully")
	response.SuccessWithMessage(w, "Password has been reset successfully", nil)
}

// VerifyCode implements AuthHandler: post-account email verification. A
// correct code verifies the account and logs it in.
func (a *AuthHandlerImpl) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var verifyReq auth.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&verifyReq); err != nil {
		slog.Error("VerifyCode decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := verifyReq.Validate(); err != nil {
		slog.Error("VerifyCode validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	verified, err := a.authService.VerifyEmailCode(r.Context(), verifyReq.Email, verifyReq.Code)
	if err != nil {
		slog.Error("VerifyCode service error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := a.sessions.Login(r.Context(), verified.ID); err != nil {
		slog.Error("VerifyCode session error", "error", err)
		response.InternalServerError(w, "Failed to establish session")
		return
	}

	slog.Info("Email verified successfully")
	response.SuccessWithMessage(w, "Email verified successfully", verified.Public())
}

// VerifyEmail implements AuthHandler: the emailed-link variant of VerifyCode.
// It redirects to the frontend instead of returning JSON.
func (a *AuthHandlerImpl) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	code := r.URL.Query().Get("code")
	if email == "" || code == "" {
		response.BadRequest(w, "email and code are required", nil)
		return
	}

	verified, err := a.authService.VerifyEmailCode(r.Context(), email, code)
	if err != nil {
		slog.Error("VerifyEmail service error", "error", err)
		http.Redirect(w, r, a.frontendURL+"/verify-email?error="+url.QueryEscape(err.Error()), http.StatusFound)
		return
	}

	if err := a.sessions.Login(r.Context(), verified.ID); err != nil {
		slog.Error("VerifyEmail session error", "error", err)
		http.Redirect(w, r, a.frontendURL+"/login", http.StatusFound)
		return
	}

	http.Redirect(w, r, a.frontendURL+"/dashboard", http.StatusFound)
}

// ResendVerification implements AuthHandler.
func (a *AuthHandlerImpl) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var emailReq auth.EmailRequest

	if err := json.NewDecoder(r.Body).Decode(&emailReq); err != nil {
		slog.Error("ResendVerification decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := emailReq.Validate(); err != nil {
		slog.Error("ResendVerification validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := a.authService.ResendVerification(r.Context(), emailReq.Email); err != nil {
		slog.Error("ResendVerification service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Verification code sent", nil)
}

// SendRegistrationVerification implements AuthHandler: pre-account email
// verification for the company-owner registration flow.
func (a *AuthHandlerImpl) SendRegistrationVerification(w http.ResponseWriter, r *http.Request) {
	var emailReq auth.EmailRequest

	if err := json.NewDecoder(r.Body).Decode(&emailReq); err != nil {
		slog.Error("SendRegistrationVerification decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := emailReq.Validate(); err != nil {
		slog.Error("SendRegistrationVerification validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := a.authService.SendRegistrationVerification(r.Context(), emailReq.Email); err != nil {
		slog.Error("SendRegistrationVerification service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Verification code sent", nil)
}

// VerifyRegistrationCode implements AuthHandler.
func (a *AuthHandlerImpl) VerifyRegistrationCode(w http.ResponseWriter, r *http.Request) {
	var verifyReq auth.VerifyCodeRequest

	if err := json.NewDecoder(r.Body).Decode(&verifyReq); err != nil {
		slog.Error("VerifyRegistrationCode decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := verifyReq.Validate(); err != nil {
		slog.Error("VerifyRegistrationCode validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := a.authService.VerifyRegistrationCode(r.Context(), verifyReq.Email, verifyReq.Code); err != nil {
		slog.Error("VerifyRegistrationCode service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Email verified successfully", nil)
}
