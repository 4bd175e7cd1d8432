// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/notifications"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/storage"

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
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	store          storage.FileStore
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo     repository.UserRepository
	relationRepo repository.RelationRepository
	notifier     *notifications.Notifier
	hub          *notifications.Hub
	// set once the hub receives from Redis; until then events go straight to the hub
	wired atomic.Bool

	authService     *service.AuthService
	articleService  *service.ArticleService
	profileService  *service.ProfileService
	commentService  *service.CommentService
	categoryService *service.CategoryService
	relationService *service.RelationService
	uploadService   *service.UploadService

	consumedTicketsMu sync.Mutex
	consumedTickets   map[string]consumedTicketEntry
}

// NewServerWithDeps creates a Server over already-initialized connections.
// redisClient may be nil; caching, rate limiting, logout revocation and
// realtime fan-out are then disabled.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, store storage.FileStore) (*Server, error) {
	if db == nil || store == nil {
		return nil, errors.New("server needs a database and a file store")
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	relationRepo := repository.NewRelationRepository(db)

	uploads := service.NewUploadService(store, cfg)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		store:           store,
		promMiddleware:  middleware.InitMetrics("inkwell-api"),
		userRepo:        userRepo,
		relationRepo:    relationRepo,
		authService:     service.NewAuthService(userRepo, 0),
		articleService:  service.NewArticleService(articleRepo, categoryRepo, commentRepo, profileRepo, uploads),
		profileService:  service.NewProfileService(profileRepo, userRepo, relationRepo, uploads),
		commentService:  service.NewCommentService(commentRepo, articleRepo),
		categoryService: service.NewCategoryService(categoryRepo, articleRepo, repository.NewTagRepository(db)),
		relationService: service.NewRelationService(relationRepo, userRepo),
		uploadService:   uploads,
		consumedTickets: make(map[string]consumedTicketEntry),
	}

	server.hub = notifications.NewHub()
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Uploaded images are served from another origin than the SPA.
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so that rejections still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
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
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Local uploads are public files; MinIO serves its own URLs.
	if local, ok := s.store.(*storage.LocalStore); ok {
		app.Static(publicPrefix(s.config), local.Root(), fiber.Static{
			MaxAge: 86400,
		})
	}

	api := app.Group("/api")
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)
	api.Get("/ws", s.AuthRequired(), s.WebsocketHandler())

	// Home and the article listing are the authenticated feed.
	api.Get("/", s.AuthRequired(), s.ListArticles)
	api.Get("/home", s.AuthRequired(), s.ListArticles)

	articles := api.Group("/articles")
	articles.Get("/", s.AuthRequired(), s.ListArticles)
	articles.Post("/", s.AuthRequired(), middleware.RateLimit(s.redis, 10, 10*time.Minute, "create_article"), s.CreateArticle)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	articles.Get("/:id/edit", s.AuthRequired(), s.EditArticle)
	articles.Post("/:id/like", s.AuthRequired(), s.LikeArticle)
	articles.Delete("/:id/like", s.AuthRequired(), s.UnlikeArticle)
	articles.Post("/:id/comments", s.AuthRequired(), middleware.RateLimit(s.redis, 5, time.Minute, "create_comment"), s.CreateComment)
	articles.Get("/:id", s.OptionalAuth(), s.GetArticle)
	articles.Put("/:id", s.AuthRequired(), s.UpdateArticle)
	articles.Delete("/:id", s.AuthRequired(), s.DeleteArticle)

	api.Delete("/comments/:id", s.AuthRequired(), s.DeleteComment)

	categories := api.Group("/categories")
	categories.Get("/", s.ListCategories)
	categories.Get("/:id", s.GetCategory)
	categories.Post("/", s.AuthRequired(), s.CreateCategory)
	categories.Put("/:id", s.AuthRequired(), s.UpdateCategory)
	categories.Delete("/:id", s.AuthRequired(), s.DeleteCategory)

	api.Get("/tags", s.ListTags)

	profiles := api.Group("/profiles")
	profiles.Get("/:id/edit", s.AuthRequired(), s.EditProfile)
	profiles.Get("/:id", s.OptionalAuth(), s.GetProfile)
	profiles.Put("/:id", s.AuthRequired(), s.UpdateProfile)
	profiles.Delete("/:id", s.AuthRequired(), s.DeleteProfile)

	users := api.Group("/users", s.AuthRequired())
	users.Post("/:id/follow", s.Follow)
	users.Delete("/:id/follow", s.Unfollow)
	users.Post("/:id/block", s.Block)
	users.Delete("/:id/block", s.Unblock)
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
	if err := database.Ping(ctx, s.db); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	sockets := 0
	if s.hub != nil {
		sockets = s.hub.ConnectionCount()
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
			"storage":  s.store.Driver(),
		},
		"sockets": sockets,
		"time":    time.Now(),
	})
}

// NewApp builds the Fiber app with the error handler and body limit the API expects.
func (s *Server) NewApp() *fiber.App {
	maxMB := s.config.UploadMaxSizeMB
	if maxMB <= 0 {
		maxMB = service.DefaultUploadMaxSizeMB
	}
	app := fiber.New(fiber.Config{
		AppName: "Inkwell API",
		// Leave room for the other multipart fields next to the image.
		BodyLimit: (maxMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
			}
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
		},
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// Start wires realtime fan-out and listens until the app is shut down.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	s.app = s.NewApp()

	if s.notifier != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			middleware.Logger.Error("failed to start notification wiring", "hub", s.hub.Name(), "error", err)
		} else {
			s.wired.Store(true)
		}
	}

	middleware.Logger.Info("server starting", "port", s.config.Port, "storage", s.store.Driver())
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops the listener and closes sockets. Connections owned by the
// bootstrap runtime are closed by the caller.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := s.hub.Shutdown(ctx); err != nil {
		middleware.Logger.Error("error shutting down hub", "hub", s.hub.Name(), "error", err)
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}

func publicPrefix(cfg *config.Config) string {
	prefix := strings.TrimRight(cfg.UploadPublicPrefix, "/")
	if prefix == "" {
		prefix = "/storage"
	}
	return prefix
}
