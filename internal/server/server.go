// Package server exposes the board view model over a JSON HTTP API.
package server

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/lepinkainen/postboard/pkg/agent"
	"github.com/lepinkainen/postboard/pkg/feed"
	"github.com/lepinkainen/postboard/pkg/preview"
	"github.com/lepinkainen/postboard/pkg/viewmodel"
)

// Config holds the server dependencies
type Config struct {
	// VM is shared by every request
	VM *viewmodel.FeedViewModel

	// Generator renders /api/feed, nil disables the route
	Generator *feed.Generator

	// ImagesDir is served under /images when set
	ImagesDir string
}

// Server binds a view model to a fiber application
type Server struct {
	app       *fiber.App
	vm        *viewmodel.FeedViewModel
	generator *feed.Generator

	// busy gates fetches so at most one runs at a time
	busy atomic.Bool
}

type messageResponse struct {
	Message string `json:"message"`
}

type labelResponse struct {
	Label string `json:"label"`
}

// New creates the server and registers its routes
func New(config *Config) *Server {
	s := &Server{
		app:       fiber.New(fiber.Config{DisableStartupMessage: true}),
		vm:        config.VM,
		generator: config.Generator,
	}

	// Middleware to track the latency of each request
	s.app.Use(requestid.New())
	s.app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		slog.Info("Request",
			"method", c.Method(),
			"route", c.Route().Path,
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
			"request_id", c.Locals(requestid.ConfigDefault.ContextKey))
		return err
	})

	api := s.app.Group("/api")
	api.Get("/state", s.handleState)
	api.Post("/load", s.handleFetch(false))
	api.Post("/refresh", s.handleFetch(true))
	api.Post("/click", s.handleClick)
	api.Post("/submit", s.handleSubmit)
	api.Get("/agent", s.handleAgent)
	api.Get("/gallery", s.handleGallery)
	api.Get("/feed/:type", s.handleFeed)

	s.app.Get("/cards", s.handleCards)

	if config.ImagesDir != "" {
		s.app.Static("/images", config.ImagesDir)
	}

	return s
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// fetch runs a Load or Refresh unless one is already in flight
func (s *Server) fetch(ctx context.Context, refresh bool) bool {
	if !s.busy.CompareAndSwap(false, true) {
		return false
	}
	defer s.busy.Store(false)

	if refresh {
		s.vm.Refresh(ctx)
	} else {
		s.vm.Load(ctx)
	}
	return true
}

// Start triggers the initial load in the background and listens on addr until shut down
func (s *Server) Start(ctx context.Context, addr string) error {
	go s.fetch(ctx, false)

	slog.Info("Starting server", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the listener and closes the view model
func (s *Server) Shutdown(ctx context.Context) error {
	defer s.vm.Close()

	slog.Info("Gracefully shutting down server")
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.vm.State())
}

func (s *Server) handleFetch(refresh bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !s.fetch(c.UserContext(), refresh) {
			return c.Status(fiber.StatusConflict).JSON(s.vm.State())
		}
		return c.JSON(s.vm.State())
	}
}

func (s *Server) handleClick(c *fiber.Ctx) error {
	s.vm.IncrementClick()
	return c.JSON(s.vm.State())
}

func (s *Server) handleSubmit(c *fiber.Ctx) error {
	var form viewmodel.FormSnapshot
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&form); err != nil {
			slog.Warn("Invalid form body", "error", err)
			return c.Status(fiber.StatusBadRequest).JSON(messageResponse{Message: "invalid form body"})
		}
	}

	return c.JSON(messageResponse{Message: s.vm.SubmitForm(form)})
}

func (s *Server) handleAgent(c *fiber.Ctx) error {
	label := agent.Detect(agent.Header(c.Get(fiber.HeaderUserAgent)))
	return c.JSON(labelResponse{Label: label})
}

func (s *Server) handleGallery(c *fiber.Ctx) error {
	return c.JSON(s.vm.Gallery())
}

func (s *Server) handleFeed(c *fiber.Ctx) error {
	if s.generator == nil {
		return c.Status(fiber.StatusNotFound).SendString("Feed export disabled")
	}

	feedType, err := feed.ParseFeedType(c.Params("type"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	data, err := feed.Render(s.generator.Generate(s.vm.State().Items), feedType)
	if err != nil {
		slog.Error("Error rendering feed", "type", feedType, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error rendering feed")
	}

	switch feedType {
	case feed.Atom:
		c.Set(fiber.HeaderContentType, "application/atom+xml; charset=utf-8")
	case feed.RSS:
		c.Set(fiber.HeaderContentType, "application/rss+xml; charset=utf-8")
	default:
		c.Set(fiber.HeaderContentType, "application/feed+json; charset=utf-8")
	}
	return c.Send(data)
}

func (s *Server) handleCards(c *fiber.Ctx) error {
	data, err := preview.RenderCardsHTML(s.vm.State().Items)
	if err != nil {
		slog.Error("Error rendering cards", "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Error rendering cards")
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(data)
}
