package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"casino_engine/internal/config"
	"casino_engine/internal/db"
	"casino_engine/internal/game"
	httpServer "casino_engine/internal/http"
	"casino_engine/internal/http/middleware"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/service"
	"casino_engine/internal/session"
	"casino_engine/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var version = "dev"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")
	cfg := config.Load()
	middleware.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer rdb.Close()
	middleware.SetRedisClient(rdb)

	registry := game.NewRegistry(
		&game.Dice{HouseEdge: cfg.HouseEdge},
		&game.Limbo{HouseEdge: cfg.HouseEdge},
		&game.Plinko{},
	)

	gw := ledger.NewGateway(dbPool)
	store := session.NewStore(rdb, time.Duration(cfg.SessionTTLSecs)*time.Second)
	limits := service.GameLimits{MinBet: cfg.MinBet, MaxBet: cfg.MaxBet}

	hub := ws.NewHub()
	go hub.Run()

	feed := service.NewFeedService(rdb, hub)
	jackpot := service.NewJackpotService(dbPool, gw, feed, cfg.JackpotRate, cfg.JackpotRateOverrides)
	seeds := service.NewSeedService(dbPool)
	play := service.NewPlayService(dbPool, registry, gw, seeds, jackpot, feed, limits)
	autoBet := service.NewAutoBetService(rdb, play)

	// Rotation reveals the server seed, so it must wait for every consumer
	// of the active seed to finish.
	statefulSlugs := []string{game.SlugHiLo, game.SlugBlackjack, game.SlugVideoPoker}
	seeds.BlockRotationWhen(func(ctx context.Context, userID int64) (bool, error) {
		for _, slug := range statefulSlugs {
			exists, err := store.Exists(ctx, userID, slug)
			if err != nil || exists {
				return exists, err
			}
		}
		return false, nil
	})
	seeds.BlockRotationWhen(autoBet.AnyRunning)

	svcs := httpServer.Services{
		Play:       play,
		HiLo:       service.NewHiLoService(dbPool, gw, seeds, store, jackpot, feed, limits, cfg.HouseEdge),
		Blackjack:  service.NewBlackjackService(dbPool, gw, seeds, store, jackpot, feed, limits, cfg.HouseEdge),
		VideoPoker: service.NewVideoPokerService(dbPool, gw, seeds, store, jackpot, feed, limits, cfg.HouseEdge),
		Seeds:      seeds,
		AutoBet:    autoBet,
		Jackpot:    jackpot,
		Feed:       feed,
	}

	r := gin.Default()

	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, dbPool, rdb, hub, svcs, cfg, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
