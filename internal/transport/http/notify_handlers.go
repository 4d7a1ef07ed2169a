package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/achieve"
	"github.com/floorcast/floorcast-server/internal/events"
)

// NotifyHandlers is the REST ingestion surface the platform's CRUD backends
// call to push business happenings into the broadcast service.
type NotifyHandlers struct {
	events    *events.Broadcaster
	evaluator achieve.Evaluator
	log       *zerolog.Logger
}

// NewNotifyHandlers creates the ingestion handlers.
func NewNotifyHandlers(broadcaster *events.Broadcaster, evaluator achieve.Evaluator, logger *zerolog.Logger) *NotifyHandlers {
	return &NotifyHandlers{events: broadcaster, evaluator: evaluator, log: logger}
}

// RankingRequest carries fresh leaderboard standings.
type RankingRequest struct {
	Standings []events.RankingEntry `json:"standings" binding:"required,min=1"`
}

// Ranking handles POST /api/notify/ranking.
func (h *NotifyHandlers) Ranking(c *gin.Context) {
	var req RankingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.events.RankingsUpdate(req.Standings)
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// RankChangeRequest reports a user's rank movement.
type RankChangeRequest struct {
	UserID       int64  `json:"user_id" binding:"required"`
	Name         string `json:"name"`
	PreviousRank int    `json:"previous_rank" binding:"required,min=1"`
	NewRank      int    `json:"new_rank" binding:"required,min=1"`
}

// RankChange handles POST /api/notify/rank-change.
func (h *NotifyHandlers) RankChange(c *gin.Context) {
	var req RankChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.events.RankChanged(req.UserID, req.Name, req.PreviousRank, req.NewRank)
	h.evaluate(c, achieve.BusinessEvent{
		Kind:     achieve.KindRankChange,
		UserID:   req.UserID,
		UserName: req.Name,
		Value:    float64(req.NewRank),
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// ContestRequest reports a contest submission or tally change.
type ContestRequest struct {
	ContestID int64  `json:"contest_id" binding:"required"`
	UserID    int64  `json:"user_id" binding:"required"`
	Name      string `json:"name"`
	Value     int    `json:"value"`
	Update    bool   `json:"update"`
}

// Contest handles POST /api/notify/contest.
func (h *NotifyHandlers) Contest(c *gin.Context) {
	var req ContestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	entry := events.ContestEntry{
		ContestID: req.ContestID,
		UserID:    req.UserID,
		Name:      req.Name,
		Value:     req.Value,
	}
	if req.Update {
		h.events.ContestEntryUpdate(entry)
	} else {
		h.events.ContestNewEntry(entry)
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// ProgressRequest reports training progress within a module.
type ProgressRequest struct {
	UserID   int64  `json:"user_id" binding:"required"`
	ModuleID string `json:"module_id" binding:"required"`
	Percent  int    `json:"percent" binding:"min=0,max=100"`
}

// Progress handles POST /api/notify/progress.
func (h *NotifyHandlers) Progress(c *gin.Context) {
	var req ProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.events.ProgressUpdate(req.ModuleID, req.UserID, req.Percent)
	h.events.ProgressChanged(req.UserID, req.ModuleID, req.Percent)
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// QuizRequest reports a completed quiz.
type QuizRequest struct {
	UserID int64  `json:"user_id" binding:"required"`
	QuizID string `json:"quiz_id" binding:"required"`
	Score  int    `json:"score" binding:"min=0,max=100"`
}

// Quiz handles POST /api/notify/quiz.
func (h *NotifyHandlers) Quiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.events.QuizCompleted(req.UserID, req.QuizID, req.Score)
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// ModuleRequest announces updated module content.
type ModuleRequest struct {
	ModuleID string `json:"module_id" binding:"required"`
	Title    string `json:"title"`
}

// Module handles POST /api/notify/module.
func (h *NotifyHandlers) Module(c *gin.Context) {
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.events.ModuleUpdate(req.ModuleID, req.Title)
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// TVRequest pushes an arbitrary celebration frame to the display.
type TVRequest struct {
	Kind string `json:"kind" binding:"required"`
	Data any    `json:"data"`
}

// TV handles POST /api/notify/tv.
func (h *NotifyHandlers) TV(c *gin.Context) {
	var req TVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.events.TVUpdate(req.Kind, req.Data)
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// Refresh handles POST /api/notify/leaderboard-refresh.
func (h *NotifyHandlers) Refresh(c *gin.Context) {
	h.events.LeaderboardRefresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "broadcast"})
}

// BusinessEventRequest feeds the achievement rule engine.
type BusinessEventRequest struct {
	Kind     string            `json:"kind" binding:"required,oneof=sales_figure signups streak rank_change training_milestone"`
	UserID   int64             `json:"user_id" binding:"required"`
	UserName string            `json:"user_name"`
	Value    float64           `json:"value"`
	Meta     map[string]string `json:"meta"`
}

// Business handles POST /api/events/business.
func (h *NotifyHandlers) Business(c *gin.Context) {
	var req BusinessEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	h.evaluate(c, achieve.BusinessEvent{
		Kind:     achieve.Kind(req.Kind),
		UserID:   req.UserID,
		UserName: req.UserName,
		Value:    req.Value,
		Meta:     req.Meta,
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "evaluated"})
}

func (h *NotifyHandlers) evaluate(c *gin.Context, ev achieve.BusinessEvent) {
	if h.evaluator == nil {
		return
	}
	if err := h.evaluator.Evaluate(c.Request.Context(), ev); err != nil {
		h.log.Warn().Err(err).Str("kind", string(ev.Kind)).Msg("achievement evaluation failed")
	}
}
