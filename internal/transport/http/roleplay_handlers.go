package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/roleplay"
	"github.com/floorcast/floorcast-server/internal/store"
)

// RoleplayHandlers exposes session lifecycle over REST; the conversation
// itself flows over the WebSocket.
type RoleplayHandlers struct {
	engine    *roleplay.Engine
	scenarios *roleplay.ScenarioSet
	log       *zerolog.Logger
}

// NewRoleplayHandlers creates the roleplay REST handlers.
func NewRoleplayHandlers(engine *roleplay.Engine, scenarios *roleplay.ScenarioSet, logger *zerolog.Logger) *RoleplayHandlers {
	return &RoleplayHandlers{engine: engine, scenarios: scenarios, log: logger}
}

// StartSessionRequest picks the scenario to train against.
type StartSessionRequest struct {
	ScenarioID string `json:"scenario_id" binding:"required"`
}

// SessionResponse is the REST view of a session.
type SessionResponse struct {
	ID           string                 `json:"id"`
	ScenarioID   string                 `json:"scenario_id"`
	Difficulty   string                 `json:"difficulty"`
	Status       string                 `json:"status"`
	MistakeCount int                    `json:"mistake_count"`
	DoorSlammed  bool                   `json:"door_slammed"`
	Score        int                    `json:"score"`
	XPEarned     int                    `json:"xp_earned"`
	Transcript   []store.SessionMessage `json:"transcript"`
	CreatedAt    time.Time              `json:"created_at"`
	CompletedAt  *time.Time             `json:"completed_at,omitempty"`
}

func sessionResponse(s *store.Session) SessionResponse {
	return SessionResponse{
		ID:           s.ID,
		ScenarioID:   s.ScenarioID,
		Difficulty:   s.Difficulty,
		Status:       string(s.Status),
		MistakeCount: s.MistakeCount,
		DoorSlammed:  s.DoorSlammed,
		Score:        s.Score,
		XPEarned:     s.XPEarned,
		Transcript:   s.Transcript,
		CreatedAt:    s.CreatedAt,
		CompletedAt:  s.CompletedAt,
	}
}

// StartSession handles POST /api/roleplay/sessions.
func (h *RoleplayHandlers) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	userID := c.GetInt64(ContextKeyUserID)

	sess, err := h.engine.StartSession(c.Request.Context(), userID, req.ScenarioID)
	if err != nil {
		var ce *core.CoreError
		if errors.As(err, &ce) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: ce.Message})
			return
		}
		h.log.Error().Err(err).Msg("start session failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not start session"})
		return
	}
	c.JSON(http.StatusCreated, sessionResponse(sess))
}

// GetSession handles GET /api/roleplay/sessions/:id.
func (h *RoleplayHandlers) GetSession(c *gin.Context) {
	userID := c.GetInt64(ContextKeyUserID)

	sess, err := h.engine.GetSession(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		var ce *core.CoreError
		if errors.As(err, &ce) && ce.Code == core.ErrCodeSessionNotFound {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
			return
		}
		h.log.Error().Err(err).Msg("get session failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "could not load session"})
		return
	}
	c.JSON(http.StatusOK, sessionResponse(sess))
}

// ScenarioResponse is the public view of a scenario. The persona stays
// server-side.
type ScenarioResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Difficulty        string `json:"difficulty"`
	DoorSlamThreshold int    `json:"door_slam_threshold"`
}

// ListScenarios handles GET /api/scenarios.
func (h *RoleplayHandlers) ListScenarios(c *gin.Context) {
	scenarios := h.scenarios.List()
	out := make([]ScenarioResponse, 0, len(scenarios))
	for _, s := range scenarios {
		out = append(out, ScenarioResponse{
			ID:                s.ID,
			Name:              s.Name,
			Difficulty:        s.Difficulty,
			DoorSlamThreshold: s.DoorSlamThreshold,
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": out})
}
