package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/domain/auth"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/middleware"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
)

type TwoFactorHandler interface {
	Setup(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	Disable(w http.ResponseWriter, r *http.Request)
}

type TwoFactorHandlerImpl struct {
	twoFactorService auth.TwoFactorService
}

func NewTwoFactorHandler(twoFactorService auth.TwoFactorService) TwoFactorHandler {
	return &TwoFactorHandlerImpl{twoFactorService: twoFactorService}
}

// Setup implements TwoFactorHandler. The returned secret takes effect only
// after Verify proves the authenticator app has it.
func (h *TwoFactorHandlerImpl) Setup(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	setupResp, err := h.twoFactorService.Setup(r.Context(), current)
	if err != nil {
		slog.Error("TwoFactor setup error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, setupResp)
}

// Verify implements TwoFactorHandler: enables 2FA once the submitted code
// validates against the submitted secret.
func (h *TwoFactorHandlerImpl) Verify(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var verifyReq auth.TwoFactorVerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&verifyReq); err != nil {
		slog.Error("TwoFactor verify decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := verifyReq.Validate(); err != nil {
		slog.Error("TwoFactor verify validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := h.twoFactorService.Enable(r.Context(), current, verifyReq.Secret, verifyReq.Token); err != nil {
		slog.Error("TwoFactor verify service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Two-factor authentication enabled", "user_id", current.ID)
	response.SuccessWithMessage(w, "Two-factor authentication enabled", nil)
}

// Disable implements TwoFactorHandler.
func (h *TwoFactorHandlerImpl) Disable(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var disableReq auth.TwoFactorDisableRequest
	if err := json.NewDecoder(r.Body).Decode(&disableReq); err != nil {
		slog.Error("TwoFactor disable decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := disableReq.Validate(); err != nil {
		slog.Error("TwoFactor disable validate error", "error", err)
		response.HandleError(w, err)
		return
	}

	if err := h.twoFactorService.Disable(r.Context(), current, disableReq.Token); err != nil {
		slog.Error("TwoFactor disable service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Two-factor authentication disabled", "user_id", current.ID)
	response.SuccessWithMessage(w, "Two-factor authentication disabled", nil)
}
