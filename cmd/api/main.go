package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/civicgrants/portal-backend-go/internal/config"
	appHTTP "github.com/civicgrants/portal-backend-go/internal/handler/http"
	"github.com/civicgrants/portal-backend-go/internal/pkg/database"
	"github.com/civicgrants/portal-backend-go/internal/pkg/email"
	"github.com/civicgrants/portal-backend-go/internal/pkg/session"
	"github.com/civicgrants/portal-backend-go/internal/repository/postgresql"
	accessService "github.com/civicgrants/portal-backend-go/internal/service/access"
	authService "github.com/civicgrants/portal-backend-go/internal/service/auth"
	contractorService "github.com/civicgrants/portal-backend-go/internal/service/contractor"
	memberService "github.com/civicgrants/portal-backend-go/internal/service/member"
	notificationService "github.com/civicgrants/portal-backend-go/internal/service/notification"
	twoFactorService "github.com/civicgrants/portal-backend-go/internal/service/twofactor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	ctx := context.Background()
	dsn := cfg.DatabaseURL()

	if err := database.Migrate(ctx, dsn); err != nil {
		log.Fatal("Error applying migrations: ", err)
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}

	sessions, err := session.NewManager(db.Pool, cfg.IsProduction())
	if err != nil {
		log.Fatal("Error initializing sessions: ", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	companyRepo := postgresql.NewCompanyRepository(db)
	joinRequestRepo := postgresql.NewJoinRequestRepository(db)
	verificationRepo := postgresql.NewVerificationRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Error initializing email service: ", err)
	}

	authSvc := authService.NewAuthService(
		userRepo,
		companyRepo,
		joinRequestRepo,
		verificationRepo,
		notificationRepo,
		emailService,
		cfg.Session.Secret,
		cfg.App.FrontendURL,
	)
	twoFactorSvc := twoFactorService.NewTwoFactorService(userRepo)
	memberSvc := memberService.NewMemberService(userRepo)
	joinRequestSvc := contractorService.NewJoinRequestService(joinRequestRepo)
	accessSvc := accessService.NewAccessService(userRepo, assignmentRepo)
	notificationSvc := notificationService.NewNotificationService(notificationRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc, sessions, cfg.App.FrontendURL)
	userHandler := appHTTP.NewUserHandler()
	twoFactorHandler := appHTTP.NewTwoFactorHandler(twoFactorSvc)
	memberHandler := appHTTP.NewMemberHandler(memberSvc, joinRequestSvc)
	applicationHandler := appHTTP.NewApplicationHandler(accessSvc)
	notificationHandler := appHTTP.NewNotificationHandler(notificationSvc)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			Env:         cfg.App.Env,
			FrontendURL: cfg.App.FrontendURL,
		},
		sessions,
		userRepo,
		authHandler,
		userHandler,
		twoFactorHandler,
		memberHandler,
		applicationHandler,
		notificationHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
