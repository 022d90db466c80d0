package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/civicgrants/portal-backend-go/internal/domain/user"
	"github.com/civicgrants/portal-backend-go/internal/handler/http/middleware"
	"github.com/civicgrants/portal-backend-go/internal/pkg/session"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

type RouterConfig struct {
	Env         string
	FrontendURL string
}

func NewRouter(
	cfg RouterConfig,
	sessions *session.Manager,
	users user.UserRepository,
	authHandler AuthHandler,
	userHandler UserHandler,
	twoFactorHandler TwoFactorHandler,
	memberHandler MemberHandler,
	applicationHandler ApplicationHandler,
	notificationHandler NotificationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "portal-backend"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/healthz"))

	// Session cookies ride on every route, authenticated or not: login and
	// registration both write into the session before AuthRequired applies.
	r.Use(sessions.LoadAndSave)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Post("/request-reset", authHandler.RequestReset)
			r.Post("/reset-password", authHandler.ResetPassword)

			r.Post("/verify-code", authHandler.VerifyCode)
			r.Post("/resend-verification", authHandler.ResendVerification)
			r.Get("/verify-email", authHandler.VerifyEmail)

			r.Post("/send-registration-verification", authHandler.SendRegistrationVerification)
			r.Post("/verify-registration-code", authHandler.VerifyRegistrationCode)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired(sessions, users))

			r.Get("/user", userHandler.Me)

			r.Route("/2fa", func(r chi.Router) {
				r.Post("/setup", twoFactorHandler.Setup)
				r.Post("/verify", twoFactorHandler.Verify)
				r.Post("/disable", twoFactorHandler.Disable)
			})

			r.Route("/company/members", func(r chi.Router) {
				r.Get("/", memberHandler.List)
				r.Patch("/{id}", memberHandler.Update)
			})
			r.Get("/company/join-requests", memberHandler.JoinRequests)

			r.Get("/applications/{id}/access", applicationHandler.Access)
			r.Post("/applications/{id}/assignments", applicationHandler.GrantAssignment)
			r.Get("/notifications", notificationHandler.List)
		})
	})

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("portal-backend\n"))
	})

	return r
}
