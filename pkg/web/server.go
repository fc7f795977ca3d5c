// Package web serves the robot's control dashboard: a small REST API for
// status and commands, plus websocket streams for live status and logs.
package web

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/ninjabotics/ninja/internal/log"
	"github.com/ninjabotics/ninja/pkg/brain"
	"github.com/ninjabotics/ninja/pkg/hub"
)

const maxLogEntries = 500

// LogEntry is one dashboard log line.
type LogEntry struct {
	Time    string `json:"time"`
	Type    string `json:"type"` // info, command, error
	Message string `json:"message"`
}

// Server is the dashboard server.
type Server struct {
	app   *fiber.App
	port  string
	brain *brain.Brain

	logs   []LogEntry
	logsMu sync.RWMutex

	statusHub *hub.Hub
	logHub    *hub.Hub
}

// NewServer wires the routes around a brain. Call Start to listen.
func NewServer(port string, b *brain.Brain) *Server {
	s := &Server{
		port:      port,
		brain:     b,
		logs:      make([]LogEntry, 0, maxLogEntries),
		statusHub: hub.New("status"),
		logHub:    hub.New("logs"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Ninja Dashboard",
		DisableStartupMessage: true,
	})

	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Post("/command", s.handleCommand)
	api.Post("/say", s.handleSay)
	api.Get("/logs", s.handleGetLogs)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(func(c *websocket.Conn) {
		hub.NewClient(s.statusHub, c).Run()
	}))
	app.Get("/ws/logs", websocket.New(func(c *websocket.Conn) {
		hub.NewClient(s.logHub, c).Run()
	}))

	s.app = app
	return s
}

// Start runs the hubs and listens. Blocks until Shutdown.
func (s *Server) Start() error {
	go s.statusHub.Run()
	go s.logHub.Run()

	log.Info("web: dashboard listening", "port", s.port)
	return s.app.Listen(":" + s.port)
}

// StartAsync runs Start on its own goroutine.
func (s *Server) StartAsync() {
	go func() {
		if err := s.Start(); err != nil {
			log.Error("web: server stopped", "err", err)
		}
	}()
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// AddLog appends a dashboard log line and streams it to live clients.
func (s *Server) AddLog(logType, message string) {
	entry := LogEntry{
		Time:    time.Now().Format("15:04:05"),
		Type:    logType,
		Message: message,
	}

	s.logsMu.Lock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = s.logs[1:]
	}
	s.logsMu.Unlock()

	s.logHub.BroadcastJSON(entry)
}

// broadcastStatus pushes the current status to websocket clients.
func (s *Server) broadcastStatus() {
	s.statusHub.BroadcastJSON(s.currentStatus())
}
