package http

import (
	"time"

	"casino_engine/internal/config"
	"casino_engine/internal/http/handlers"
	"casino_engine/internal/http/middleware"
	"casino_engine/internal/ledger"
	"casino_engine/internal/service"
	"casino_engine/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Services bundles the wired engine services the routes dispatch to.
type Services struct {
	Play       *service.PlayService
	HiLo       *service.HiLoService
	Blackjack  *service.BlackjackService
	VideoPoker *service.VideoPokerService
	Seeds      *service.SeedService
	AutoBet    *service.AutoBetService
	Jackpot    *service.JackpotService
	Feed       *service.FeedService
}

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, rdb *redis.Client, hub *ws.Hub, svcs Services, cfg *config.Config, version string) {
	h := &handlers.Handler{
		DB:         db,
		Ledger:     ledger.NewGateway(db),
		Play:       svcs.Play,
		HiLo:       svcs.HiLo,
		Blackjack:  svcs.Blackjack,
		VideoPoker: svcs.VideoPoker,
		Seeds:      svcs.Seeds,
		AutoBet:    svcs.AutoBet,
		Jackpot:    svcs.Jackpot,
		Feed:       svcs.Feed,
		Hub:        hub,
	}
	healthHandler := handlers.NewHealthHandler(db, rdb, version)

	// Health checks, never rate limited
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	apiRateWindow := time.Duration(cfg.APIRateWindow) * time.Second
	gameRateWindow := time.Duration(cfg.GameRateWindow) * time.Second

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiRateWindow))

	// Public surface: anyone can audit a seed triple or watch the lobby.
	api.GET("/verify", h.Verify)
	api.GET("/seeds/revealed/:hash", h.RevealedSeed)
	api.GET("/games", h.ListGames)
	api.GET("/jackpot", h.JackpotPools)
	api.GET("/feed", h.RecentFeed)

	// Seed management
	api.GET("/seeds", middleware.JWT(), h.CurrentSeed)
	api.POST("/seeds/rotate", middleware.JWT(), h.RotateSeed)
	api.PUT("/seeds/client", middleware.JWT(), h.SetClientSeed)

	// Per-user game rate limiter, JWT must run first
	gameRL := middleware.GameRateLimit(cfg.GameRateLimit, gameRateWindow)

	// Instant games: one settled round per call. Kept off the /games
	// subtree so the slug wildcard cannot collide with the stateful routes.
	api.POST("/play/:slug", middleware.JWT(), gameRL, h.PlayGame)

	// HiLo
	api.POST("/games/hilo/start", middleware.JWT(), gameRL, h.HiLoStart)
	api.POST("/games/hilo/guess", middleware.JWT(), gameRL, h.HiLoGuess)
	api.POST("/games/hilo/cashout", middleware.JWT(), h.HiLoCashout)
	api.GET("/games/hilo/state", middleware.JWT(), h.HiLoState)

	// Blackjack
	api.POST("/games/blackjack/deal", middleware.JWT(), gameRL, h.BlackjackDeal)
	api.POST("/games/blackjack/hit", middleware.JWT(), gameRL, h.BlackjackHit)
	api.POST("/games/blackjack/stand", middleware.JWT(), gameRL, h.BlackjackStand)
	api.POST("/games/blackjack/double", middleware.JWT(), gameRL, h.BlackjackDouble)
	api.POST("/games/blackjack/split", middleware.JWT(), gameRL, h.BlackjackSplit)
	api.GET("/games/blackjack/state", middleware.JWT(), h.BlackjackState)

	// Video poker
	api.POST("/games/videopoker/deal", middleware.JWT(), gameRL, h.VideoPokerDeal)
	api.POST("/games/videopoker/draw", middleware.JWT(), gameRL, h.VideoPokerDraw)
	api.GET("/games/videopoker/state", middleware.JWT(), h.VideoPokerState)

	// AutoBet
	api.POST("/autobet/start", middleware.JWT(), h.AutoBetStart)
	api.POST("/autobet/stop/:slug", middleware.JWT(), h.AutoBetStop)
	api.GET("/autobet/status/:slug", middleware.JWT(), h.AutoBetStatus)

	// Account
	api.GET("/rounds", middleware.JWT(), h.MyRounds)
	api.GET("/balance", middleware.JWT(), h.Balance)

	// Live feed stream
	r.GET("/ws/feed", h.FeedWS)
}
