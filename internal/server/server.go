// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	_ "starprep/docs" // swagger docs
	"starprep/internal/cache"
	"starprep/internal/config"
	"starprep/internal/database"
	"starprep/internal/middleware"
	"starprep/internal/models"
	"starprep/internal/repository"
	"starprep/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	db                *gorm.DB
	redis             *redis.Client
	app               *fiber.App
	promMiddleware    *fiberprometheus.FiberPrometheus
	userRepo          repository.UserRepository
	questionRepo      repository.QuestionRepository
	answerRepo        repository.AnswerRepository
	tagRepo           repository.TagRepository
	voteRepo          repository.VoteRepository
	questionService   *service.QuestionService
	answerService     *service.AnswerService
	tagService        *service.TagService
	voteService       *service.VoteService
	moderationService *service.ModerationService
	userService       *service.UserService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this to inject an in-memory database and a fake Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db, cfg.SearchFTS)
	answerRepo := repository.NewAnswerRepository(db)
	tagRepo := repository.NewTagRepository(db)
	voteRepo := repository.NewVoteRepository(db)

	prom := middleware.InitMetrics("starprep-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		tagRepo:        tagRepo,
		voteRepo:       voteRepo,
	}
	server.tagService = service.NewTagService(tagRepo)
	server.questionService = service.NewQuestionService(questionRepo, answerRepo, voteRepo, server.tagService)
	server.answerService = service.NewAnswerService(answerRepo, questionRepo)
	server.voteService = service.NewVoteService(voteRepo, questionRepo)
	server.moderationService = service.NewModerationService(questionRepo)
	server.userService = service.NewUserService(userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before middlewares that can short-circuit (e.g. limiter) so
	// browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public library routes. OptionalAuth: visibility rules need the real
	// viewer when a token is present, but anonymous browsing is fine.
	library := api.Group("/library", middleware.OptionalAuth)
	library.Get("/", s.ListLibraryQuestions)

	// Question and answer detail are readable by anyone the visibility
	// rules allow
	api.Get("/questions/:id", middleware.OptionalAuth, s.GetQuestion)
	api.Get("/answers/:id", middleware.OptionalAuth, s.GetAnswer)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Post("/:id/promote-admin", s.AdminRequired(), s.PromoteToAdmin)
	users.Post("/:id/demote-admin", s.AdminRequired(), s.DemoteFromAdmin)

	// Question routes
	questions := protected.Group("/questions")
	questions.Get("/", s.ListMyQuestions)
	questions.Post("/", middleware.RateLimit(
		s.redis, 20, time.Minute, "create_question"), s.CreateQuestion)
	// Specific /:id/:resource routes BEFORE generic /:id routes
	questions.Post("/:id/answers", middleware.RateLimit(
		s.redis, 30, time.Minute, "create_answer"), s.CreateAnswer)
	questions.Post("/:id/save", s.SaveQuestion)
	questions.Post("/:id/vote", s.CastVote)
	questions.Delete("/:id/vote", s.RemoveVote)
	questions.Post("/:id/approve", s.AdminRequired(), s.ApproveQuestion)
	questions.Post("/:id/deny", s.AdminRequired(), s.DenyQuestion)
	// Generic /:id routes (update, delete)
	questions.Put("/:id", s.UpdateQuestion)
	questions.Delete("/:id", s.DeleteQuestion)

	// Answer routes
	answers := protected.Group("/answers")
	answers.Put("/:id", s.UpdateAnswer)
	answers.Delete("/:id", s.DeleteAnswer)

	// Tag routes
	tags := protected.Group("/tags")
	tags.Get("/", s.ListTags)
	tags.Get("/check", s.CheckTag)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app degrades without Redis (no caching, rate limits fail open)
		// but readiness should surface it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := s.viewer(c)
		if !viewer.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// Start builds the Fiber app, mounts middleware and routes, and listens on
// the configured port. Blocks until Shutdown or a listen error.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "StarPrep API",
		BodyLimit: 2 * 1024 * 1024, // text payloads only
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
