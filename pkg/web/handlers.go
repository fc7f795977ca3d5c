package web

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ninjabotics/ninja/pkg/brain"
)

// statusView is the wire form of the controller status.
type statusView struct {
	State string `json:"state"`
	Gait  string `json:"gait,omitempty"`
	Speed string `json:"speed,omitempty"`
}

func (s *Server) currentStatus() statusView {
	st := s.brain.Status()
	view := statusView{State: st.State.String()}
	if view.State == "running" {
		view.Gait = st.Gait.String()
		view.Speed = st.Speed.String()
	}
	return view
}

// handleStatus returns the current controller state.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.currentStatus())
}

// CommandRequest is the body of POST /api/command.
type CommandRequest struct {
	Command string `json:"command"`
	Speed   string `json:"speed"`
}

// handleCommand executes one vocabulary command.
func (s *Server) handleCommand(c *fiber.Ctx) error {
	var req CommandRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Command == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "command is required"})
	}

	id := uuid.NewString()
	res, err := s.brain.Execute(req.Command, req.Speed)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, brain.ErrUnknownCommand) {
			status = fiber.StatusBadRequest
		}
		s.AddLog("error", req.Command+": "+err.Error())
		return c.Status(status).JSON(fiber.Map{"id": id, "error": err.Error()})
	}

	s.AddLog("command", req.Command)
	s.broadcastStatus()
	return c.JSON(fiber.Map{"id": id, "result": res})
}

// SayRequest is the body of POST /api/say: free text for the interpreter.
type SayRequest struct {
	Text string `json:"text"`
}

// handleSay routes free text through the Gemini interpreter.
func (s *Server) handleSay(c *fiber.Ctx) error {
	var req SayRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "text is required"})
	}

	id := uuid.NewString()
	res, err := s.brain.Ask(c.UserContext(), req.Text)
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, brain.ErrNoInterpreter) {
			status = fiber.StatusNotImplemented
		}
		s.AddLog("error", "say: "+err.Error())
		return c.Status(status).JSON(fiber.Map{"id": id, "error": err.Error()})
	}

	s.AddLog("command", "say: "+req.Text+" -> "+res.Command)
	s.broadcastStatus()
	return c.JSON(fiber.Map{"id": id, "result": res})
}

// handleGetLogs returns the recent dashboard log lines.
func (s *Server) handleGetLogs(c *fiber.Ctx) error {
	s.logsMu.RLock()
	defer s.logsMu.RUnlock()
	return c.JSON(s.logs)
}
