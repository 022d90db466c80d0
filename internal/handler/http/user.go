package http

import (
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/handler/http/middleware"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct{}

func NewUserHandler() UserHandler {
	return &UserHandlerImpl{}
}

// Me implements UserHandler: the current session's identity, sanitized.
func (h *UserHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}
	response.Success(w, current.Public())
}
