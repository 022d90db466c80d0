package http

import (
	"log/slog"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/domain/notification"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/middleware"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type NotificationHandlerImpl struct {
	notificationService notification.NotificationService
}

func NewNotificationHandler(notificationService notification.NotificationService) NotificationHandler {
	return &NotificationHandlerImpl{notificationService: notificationService}
}

// List implements NotificationHandler.
func (h *NotificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	current, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	notifications, err := h.notificationService.List(r.Context(), current)
	if err != nil {
		slog.Error("Notification list service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, notifications)
}
