// Package router wires handlers, middleware and services into the gin engine.
package router

import (
	"time"

	"github.com/JonnyWalker81/formcraft/backend/internal/auth"
	"github.com/JonnyWalker81/formcraft/backend/internal/handlers"
	"github.com/JonnyWalker81/formcraft/backend/internal/logger"
	"github.com/JonnyWalker81/formcraft/backend/internal/middleware"
	"github.com/JonnyWalker81/formcraft/backend/internal/ratelimit"
	"github.com/JonnyWalker81/formcraft/backend/internal/repository"
	"github.com/JonnyWalker81/formcraft/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// Services are the business services exposed over HTTP
type Services struct {
	Auth      service.AuthService
	Forms     service.FormService
	Trash     service.TrashService
	Responses service.ResponseService
	Analytics service.AnalyticsService
	QRCode    service.QRCodeService
}

// Options configure the middleware chain
type Options struct {
	Env            string
	AllowedOrigins []string
	Tokens         *auth.TokenManager
	SubmitLimiter  *ratelimit.Limiter
	AuthLimiter    *ratelimit.Limiter
	Idempotency    repository.IdempotencyRepository
	// DB is pinged by the health check; nil skips the check
	DB     handlers.Pinger
	Logger logger.Logger
	// Now is the rate limiter clock; nil means time.Now
	Now func() time.Time
}

// New builds the API engine
func New(svc Services, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	authHandler := handlers.NewAuthHandler(svc.Auth)
	formHandler := handlers.NewFormHandler(svc.Forms, svc.Responses)
	publicHandler := handlers.NewPublicHandler(svc.Forms, svc.Responses)
	trashHandler := handlers.NewTrashHandler(svc.Trash)
	analyticsHandler := handlers.NewAnalyticsHandler(svc.Analytics)
	qrCodeHandler := handlers.NewQRCodeHandler(svc.QRCode)
	healthHandler := handlers.NewHealthHandler(opts.Env, opts.DB)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(log))
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.SecurityHeaders(opts.Env == "production"))

	router.GET("/health", healthHandler.Health)

	requireAuth := middleware.Auth(opts.Tokens)
	authLimit := middleware.RateLimit(opts.AuthLimiter, opts.Now)
	submitLimit := middleware.RateLimit(opts.SubmitLimiter, opts.Now)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authLimit, authHandler.Register)
			authRoutes.POST("/login", authLimit, authHandler.Login)
			authRoutes.GET("/me", requireAuth, authHandler.Me)
		}

		// Respondent routes
		v1.GET("/public/forms/:code", publicHandler.GetPublicForm)
		v1.POST("/responses", submitLimit, publicHandler.SubmitResponse)

		protected := v1.Group("")
		protected.Use(requireAuth)
		{
			idempotent := middleware.Idempotency(opts.Idempotency)

			protected.GET("/forms", formHandler.ListForms)
			protected.POST("/forms", idempotent, formHandler.CreateForm)
			protected.GET("/forms/:id", formHandler.GetForm)
			protected.PUT("/forms/:id", formHandler.UpdateForm)
			protected.DELETE("/forms/:id", formHandler.DeleteForm)
			protected.POST("/forms/:id/duplicate", idempotent, formHandler.DuplicateForm)
			protected.GET("/forms/:id/responses", formHandler.ListResponses)

			protected.GET("/analytics/:formId", analyticsHandler.GetFormAnalytics)

			protected.GET("/trash", trashHandler.ListTrash)
			protected.POST("/trash/:id/restore", trashHandler.RestoreForm)
			protected.DELETE("/trash/:id", trashHandler.PurgeForm)

			protected.POST("/qrcode", qrCodeHandler.Generate)
		}
	}

	return router
}
