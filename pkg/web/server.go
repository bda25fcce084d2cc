// Package web serves a real-time debug dashboard over the detection
// pipeline, the scene registry, and the agent.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/strayware/go-wisp/internal/log"
	"github.com/strayware/go-wisp/pkg/agent"
	"github.com/strayware/go-wisp/pkg/frameloop"
	"github.com/strayware/go-wisp/pkg/hub"
	"github.com/strayware/go-wisp/pkg/scene"
)

// Server is the dashboard server. It reads pipeline, registry, and
// agent state and exposes manual controls over the scene.
type Server struct {
	app  *fiber.App
	port string

	pipeline *frameloop.Pipeline
	registry *scene.Registry
	agent    *agent.Agent

	stateHub  *hub.Hub
	cameraHub *hub.Hub
}

// NewServer wires the dashboard over live components.
func NewServer(port string, p *frameloop.Pipeline, r *scene.Registry, a *agent.Agent) *Server {
	s := &Server{
		port:      port,
		pipeline:  p,
		registry:  r,
		agent:     a,
		stateHub:  hub.New("state"),
		cameraHub: hub.New("camera"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Wisp Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development.
	app.Use(cors.New())

	app.Static("/", "./web")

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Get("/objects", s.handleListObjects)
	api.Post("/objects/:id/select", s.handleSelectObject)
	api.Post("/objects/:id/navigate", s.handleNavigateToObject)
	api.Delete("/objects/selected", s.handleRemoveSelected)
	api.Post("/agent/cancel", s.handleCancelAgent)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/state", websocket.New(s.handleStateWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until shutdown.
func (s *Server) Start() error {
	log.Info("dashboard listening", "addr", "http://localhost:"+s.port)

	go s.stateHub.Run()
	go s.cameraHub.Run()

	return s.app.Listen(":" + s.port)
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("dashboard server failed", "err", err)
		}
	}()
}

// PublishState broadcasts a state snapshot to websocket clients. The
// main loop calls this once per processed frame.
func (s *Server) PublishState() {
	s.stateHub.BroadcastJSON(s.snapshot())
}

// SendCameraFrame broadcasts an encoded camera frame.
func (s *Server) SendCameraFrame(encoded []byte) {
	s.cameraHub.BroadcastBinary(encoded)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
