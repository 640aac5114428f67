package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/snapbite/snapbite/internal/app/repository"
	"github.com/snapbite/snapbite/internal/app/service"
	inthttp "github.com/snapbite/snapbite/internal/http/handler"
	"github.com/snapbite/snapbite/internal/http/middleware"
	"github.com/snapbite/snapbite/internal/http/util"
	"go.uber.org/zap"
)

// Dependencies bundles infrastructure and domain dependencies required by
// the HTTP server.
type Dependencies struct {
	Logger         *zap.Logger
	Postgres       *pgxpool.Pool
	Redis          *redis.Client
	Signer         *util.SessionSigner
	Stories        service.StoryService
	Feed           service.FeedService
	Highlights     service.HighlightService
	Users          repository.UserRepository
	Establishments repository.EstablishmentRepository
}

// Server wraps the Fiber application and its dependencies.
type Server struct {
	app  *fiber.App
	deps Dependencies
}

// New creates a new HTTP server instance with default routes.
func New(deps Dependencies) *Server {
	app := fiber.New()

	s := &Server{
		app:  app,
		deps: deps,
	}

	s.registerRoutes()
	return s
}

// Listen starts the Fiber server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the Fiber server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) registerRoutes() {
	log := s.deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Recovery(log))
	s.app.Use(middleware.Logger(log))
	s.app.Use(middleware.CORS())

	healthHandler := inthttp.NewHealthHandler(inthttp.HealthDeps{
		Postgres: s.deps.Postgres,
		Redis:    s.deps.Redis,
	})
	healthHandler.Register(s.app)

	authHandler := inthttp.NewAuthHandler(inthttp.AuthDeps{
		Logger: log,
		Users:  s.deps.Users,
		Signer: s.deps.Signer,
	})
	authHandler.Register(s.app)

	api := s.app.Group("/api", middleware.Auth(s.deps.Signer))
	if s.deps.Redis != nil {
		api.Use(middleware.RateLimit(s.deps.Redis, middleware.DefaultRateLimitConfig(), log))
	}

	storyHandler := inthttp.NewStoryHandler(inthttp.StoryDeps{
		Logger:  log,
		Stories: s.deps.Stories,
		Feed:    s.deps.Feed,
	})
	storyHandler.Register(api)

	highlightHandler := inthttp.NewHighlightHandler(inthttp.HighlightDeps{
		Logger:     log,
		Highlights: s.deps.Highlights,
	})
	highlightHandler.Register(api)

	userHandler := inthttp.NewUserHandler(inthttp.UserDeps{
		Logger: log,
		Users:  s.deps.Users,
	})
	userHandler.Register(api)

	establishmentHandler := inthttp.NewEstablishmentHandler(inthttp.EstablishmentDeps{
		Logger:         log,
		Establishments: s.deps.Establishments,
	})
	establishmentHandler.Register(api)
}
