package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/domain/application"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/middleware"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ApplicationHandler interface {
	Access(w http.ResponseWriter, r *http.Request)
	GrantAssignment(w http.ResponseWriter, r *http.Request)
}

type ApplicationHandlerImpl struct {
	accessService application.AccessService
}

func NewApplicationHandler(accessService application.AccessService) ApplicationHandler {
	return &ApplicationHandlerImpl{accessService: accessService}
}

// Access implements ApplicationHandler: the current user's effective view and
// edit rights on one application.
func (h *ApplicationHandlerImpl) Access(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	applicationID := chi.URLParam(r, "id")
	if applicationID == "" {
		response.BadRequest(w, "application id is required", nil)
		return
	}

	decision, err := h.accessService.CheckAccess(r.Context(), current.ID, applicationID)
	if err != nil {
		slog.Error("Application access service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, decision)
}

// GrantAssignment implements ApplicationHandler: gives a team member view or
// edit rights on one application.
func (h *ApplicationHandlerImpl) GrantAssignment(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	applicationID := chi.URLParam(r, "id")
	if applicationID == "" {
		response.BadRequest(w, "application id is required", nil)
		return
	}

	var grantReq application.GrantAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&grantReq); err != nil {
		slog.Error("Grant assignment decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.accessService.Grant(r.Context(), current.ID, applicationID, grantReq); err != nil {
		slog.Error("Grant assignment service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Assignment granted", nil)
}
