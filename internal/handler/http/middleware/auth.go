package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/response"
	"github.com/civicgrants/portal-backend-go/internal/pkg/session"
)

type userContextKey struct{}

// AuthRequired resolves the session to a fresh user record on every request.
// A deactivated account is cut off immediately even if its session is still
// live.
func AuthRequired(sessions *session.Manager, users user.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			userID := sessions.UserID(r.Context())
			if userID == "" {
				response.Unauthorized(w, "Authentication required")
				return
			}

			current, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					_ = sessions.Logout(r.Context())
					response.Unauthorized(w, "Authentication required")
					return
				}
				response.HandleError(w, err)
				return
			}

			if !current.IsActive {
				response.Forbidden(w, "Account has been deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, current)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// UserFromContext returns the authenticated user placed by AuthRequired.
func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(user.User)
	return u, ok
}
