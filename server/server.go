// Package server exposes conversion, rendering and Markdown storage over HTTP.
package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rgonek/quill-md-converter/converter"
	"github.com/rgonek/quill-md-converter/renderer"
	"github.com/rgonek/quill-md-converter/resolver"
	"github.com/rgonek/quill-md-converter/store"
	"go.uber.org/zap"
)

// Config holds HTTP settings.
type Config struct {
	AllowOrigins  []string
	BodyLimit     int
	RenderTimeout time.Duration
}

// Deps are the components the server delegates to.
type Deps struct {
	Converter *converter.Converter
	Renderer  *renderer.Renderer
	Store     store.Store
	// Resolver answers public URL requests.
	Resolver renderer.Resolver
	// Assets serves locally stored uploads; nil disables /assets.
	Assets *resolver.Local
	Logger *zap.Logger
	Now    func() time.Time
}

// Server is the HTTP API.
type Server struct {
	app  *fiber.App
	cfg  Config
	deps Deps
	log  *zap.Logger
}

// New builds the server and registers its routes.
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Converter == nil || deps.Renderer == nil || deps.Store == nil || deps.Resolver == nil {
		return nil, errors.New("server: converter, renderer, store and resolver are required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = 4 << 20
	}

	s := &Server{cfg: cfg, deps: deps, log: deps.Logger.Named("server")}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             cfg.BodyLimit,
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})

	origins := "*"
	if len(cfg.AllowOrigins) > 0 {
		origins = strings.Join(cfg.AllowOrigins, ", ")
	}
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	s.app.Use(s.logRequests)

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	s.app.Get(strings.TrimSuffix(resolver.AssetsPath, "/")+"/:token", s.serveAsset)

	api := s.app.Group("/api")
	api.Post("/convert", s.convert)
	api.Post("/render", s.render)
	api.Post("/prepare-formula", s.prepareFormula)
	api.Get("/upload-id", s.uploadID)
	api.Post("/save-markdown", s.saveMarkdown)
	api.Post("/get-markdown", s.getMarkdown)
	api.Post("/get-public-url", s.getPublicURL)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for active requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		status = statusFor(err)
	}
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("latency", time.Since(start)),
	)
	return err
}
