package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/floorcast/floorcast-server/internal/achieve"
	"github.com/floorcast/floorcast-server/internal/auth"
	"github.com/floorcast/floorcast-server/internal/config"
	"github.com/floorcast/floorcast-server/internal/core"
	"github.com/floorcast/floorcast-server/internal/events"
	"github.com/floorcast/floorcast-server/internal/roleplay"
)

// NewServer builds the HTTP server: the WebSocket endpoint plus the REST
// ingestion and roleplay surfaces.
func NewServer(hub *core.Hub, broadcaster *events.Broadcaster, evaluator achieve.Evaluator,
	engine *roleplay.Engine, scenarios *roleplay.ScenarioSet, authService *auth.Service,
	cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	limiter := newRateLimiter(cfg.APIRateLimit)
	limiter.startReset(make(chan struct{}))

	notify := NewNotifyHandlers(broadcaster, evaluator, logger)
	rp := NewRoleplayHandlers(engine, scenarios, logger)

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(limiter))
	api.Use(AuthMiddleware(authService, logger))
	{
		api.POST("/notify/ranking", notify.Ranking)
		api.POST("/notify/rank-change", notify.RankChange)
		api.POST("/notify/contest", notify.Contest)
		api.POST("/notify/progress", notify.Progress)
		api.POST("/notify/quiz", notify.Quiz)
		api.POST("/notify/module", notify.Module)
		api.POST("/notify/tv", notify.TV)
		api.POST("/notify/leaderboard-refresh", notify.Refresh)
		api.POST("/events/business", notify.Business)

		api.GET("/scenarios", rp.ListScenarios)
		api.POST("/roleplay/sessions", rp.StartSession)
		api.GET("/roleplay/sessions/:id", rp.GetSession)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
