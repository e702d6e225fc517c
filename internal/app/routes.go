package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kaushik-sharma/full-stack-app/internal/database"
	"github.com/kaushik-sharma/full-stack-app/internal/middleware"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/auth"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/session"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/auth/user"
	"github.com/kaushik-sharma/full-stack-app/internal/modules/tasks/cleanup"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/cron"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/jwt"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/mail"
	"github.com/kaushik-sharma/full-stack-app/internal/pkg/response"
)

const (
	authTokenTTL  = 30 * 24 * time.Hour
	emailTokenTTL = 10 * time.Minute
)

func (a *App) registerRoutes() {
	r := a.router
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found.")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	codec, err := jwt.NewCodec(jwt.Config{
		PrivateKeyPEM: []byte(cfg.JWT.PrivateKeyPEM),
		PublicKeyPEM:  []byte(cfg.JWT.PublicKeyPEM),
		Audience:      cfg.JWT.Audience,
		KeyID:         cfg.JWT.KeyID,
		AuthTTL:       authTokenTTL,
		EmailTTL:      emailTokenTTL,
	})
	if err != nil {
		a.logger.Fatal("jwt codec", zap.Error(err))
	}

	tx := database.NewTxRunner(a.db)
	sessions := session.NewStore(a.db, a.rc, a.logger)
	users := user.NewStore(a.db)
	mailer := mail.New(cfg.Mail)

	policy := auth.VerificationPolicy{
		Production:      cfg.IsProd(),
		DomainWhitelist: cfg.Verification.DevDomainWhitelist,
	}
	authSvc := auth.NewService(codec, sessions, users, tx, mailer, policy, a.logger)
	userSvc := user.NewService(sessions, users, tx, cfg.IsProd())
	cleanupSvc := cleanup.NewService(users, sessions, tx, a.logger)

	optionalAuth := middleware.OptionalAuth(authSvc)
	requireAllowAnonymous := middleware.RequireAuth(authSvc, auth.ModeAllowAnonymous)
	requireActive := middleware.RequireAuth(authSvc, auth.ModeAuthenticated)

	api := r.Group("/api/v1")

	api.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	auth.NewHandler(authSvc).RegisterRoutes(api, optionalAuth, requireAllowAnonymous)
	user.NewHandler(userSvc).RegisterRoutes(api, requireActive)

	cronGroup := api.Group("", middleware.CronAuth(cfg.CronSecret))
	cleanup.NewHandler(cleanupSvc).RegisterRoutes(cronGroup)

	a.sched.Register(cron.Job{
		Name:     "delete_scheduled_users",
		Interval: cfg.Cron.CleanupInterval,
		Fn: func(ctx context.Context) error {
			_, err := cleanupSvc.DeleteScheduledUsers(ctx)
			return err
		},
	})
}
