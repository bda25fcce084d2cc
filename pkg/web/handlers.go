package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/strayware/go-wisp/internal/log"
	"github.com/strayware/go-wisp/pkg/frameloop"
	"github.com/strayware/go-wisp/pkg/hub"
	"github.com/strayware/go-wisp/pkg/scene"
)

// Position is a world position in dashboard JSON.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ObjectInfo describes one placed object.
type ObjectInfo struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Selected bool     `json:"selected"`
}

// State is the dashboard's combined snapshot.
type State struct {
	Stats        frameloop.Stats `json:"stats"`
	ObjectCount  int             `json:"object_count"`
	SelectedID   string          `json:"selected_id,omitempty"`
	AgentPhase   string          `json:"agent_phase"`
	AgentPos     Position        `json:"agent_position"`
	AgentHeading float64         `json:"agent_heading"`
}

func toPosition(p scene.Pose) Position {
	return Position{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z}
}

func (s *Server) snapshot() State {
	pose := s.agent.Pose()
	state := State{
		Stats:        s.pipeline.Stats(),
		ObjectCount:  s.registry.Count(),
		AgentPhase:   s.agent.Phase().String(),
		AgentPos:     toPosition(pose),
		AgentHeading: pose.Heading,
	}
	if sel := s.registry.Selected(); sel != nil {
		state.SelectedID = sel.ID.String()
	}
	return state
}

func (s *Server) objectInfos() []ObjectInfo {
	selected := s.registry.Selected()
	objs := s.registry.Objects()
	out := make([]ObjectInfo, 0, len(objs))
	for _, o := range objs {
		out = append(out, ObjectInfo{
			ID:       o.ID.String(),
			Position: toPosition(o.Anchor.Pose()),
			Selected: o == selected,
		})
	}
	return out
}

// handleState returns the combined snapshot.
func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.snapshot())
}

// handleListObjects returns every placed object.
func (s *Server) handleListObjects(c *fiber.Ctx) error {
	return c.JSON(s.objectInfos())
}

func (s *Server) lookupObject(c *fiber.Ctx) (*scene.PlacedObject, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid object id",
		})
	}
	obj := s.registry.Get(id)
	if obj == nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "object not found",
		})
	}
	return obj, nil
}

// handleSelectObject moves the selection to the given object.
func (s *Server) handleSelectObject(c *fiber.Ctx) error {
	obj, err := s.lookupObject(c)
	if obj == nil {
		return err
	}
	s.registry.Select(obj)
	return c.JSON(fiber.Map{"selected": obj.ID.String()})
}

// handleNavigateToObject sends the agent toward the object.
func (s *Server) handleNavigateToObject(c *fiber.Ctx) error {
	obj, err := s.lookupObject(c)
	if obj == nil {
		return err
	}
	id := obj.ID
	s.agent.NavigateToObject(obj, func(err error) {
		if err != nil {
			log.Debug("navigation ended early", "object", id, "err", err)
			return
		}
		log.Info("navigation complete", "object", id)
	})
	return c.JSON(fiber.Map{"navigating_to": id.String()})
}

// handleRemoveSelected removes the selected object. Manual scene edits
// take precedence over in-flight motion, so the agent is cancelled
// first in case it is heading for the object being removed.
func (s *Server) handleRemoveSelected(c *fiber.Ctx) error {
	if s.registry.Selected() == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "nothing selected",
		})
	}
	s.agent.Cancel()
	s.registry.RemoveSelected()
	return c.JSON(fiber.Map{"removed": true})
}

// handleCancelAgent aborts any active motion.
func (s *Server) handleCancelAgent(c *fiber.Ctx) error {
	s.agent.Cancel()
	return c.JSON(fiber.Map{"phase": s.agent.Phase().String()})
}

// handleStateWS streams state snapshots to the client.
func (s *Server) handleStateWS(c *websocket.Conn) {
	c.WriteJSON(s.snapshot())
	hub.NewClient(s.stateHub, c).Run()
}

// handleCameraWS streams camera frames to the client.
func (s *Server) handleCameraWS(c *websocket.Conn) {
	hub.NewClient(s.cameraHub, c).Run()
}
