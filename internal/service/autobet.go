package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"casino_engine/internal/domain"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	autoBetTTL     = 24 * time.Hour
	minDelay       = 100 * time.Millisecond
	maxDelay       = 5 * time.Second
	maxAutoBetRuns = 10000
)

// AutoBetService runs sequential instant-game bet series. Each series is
// an in-process loop whose state lives in Redis; stopping is a flag the
// loop checks before every bet, so a stop lands between rounds, never
// mid-round.
type AutoBetService struct {
	rdb  *redis.Client
	play *PlayService
}

func NewAutoBetService(rdb *redis.Client, play *PlayService) *AutoBetService {
	return &AutoBetService{rdb: rdb, play: play}
}

func autoBetKey(userID int64, slug string) string {
	return fmt.Sprintf("ab:%d:%s", userID, slug)
}

func autoBetStopKey(userID int64, slug string) string {
	return fmt.Sprintf("abstop:%d:%s", userID, slug)
}

func autoBetLockKey(userID int64, slug string) string {
	return fmt.Sprintf("ablock:%d:%s", userID, slug)
}

// Start validates the config and launches the loop. Only instant games can
// be auto-bet; the multi-step games need a decision per action.
func (s *AutoBetService) Start(ctx context.Context, userID int64, slug string, cfg domain.AutoBetConfig, params json.RawMessage) (*domain.AutoBetSession, error) {
	g, ok := s.play.registry.Get(slug)
	if !ok {
		if game.IsStateful(slug) {
			return nil, ErrNotInstantGame
		}
		return nil, ErrUnsupportedGame
	}
	if err := g.ValidateParams(params); err != nil {
		return nil, invalidParams(err)
	}
	if err := validateAutoBetConfig(cfg); err != nil {
		return nil, err
	}

	// One loop per (user, game). The lock is taken before any state is
	// written, so two concurrent starts can never both spawn a loop; it is
	// released only when a loop finishes.
	acquired, err := s.rdb.SetNX(ctx, autoBetLockKey(userID, slug), "1", autoBetTTL).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrAutoBetRunning
	}

	sess := &domain.AutoBetSession{
		ID:         uuid.New().String(),
		UserID:     userID,
		GameSlug:   slug,
		Config:     cfg,
		GameParams: append([]byte(nil), params...),
		CurrentBet: cfg.BetAmount,
		Status:     domain.AutoBetStatusRunning,
		StartedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := s.save(ctx, sess); err != nil {
		s.releaseLock(ctx, userID, slug)
		return nil, err
	}
	if err := s.rdb.Del(ctx, autoBetStopKey(userID, slug)).Err(); err != nil {
		s.releaseLock(ctx, userID, slug)
		return nil, err
	}

	// The loop outlives the HTTP request that started it.
	go s.run(context.WithoutCancel(ctx), sess)
	return sess, nil
}

// Stop raises the stop flag. The loop honors it before its next bet.
func (s *AutoBetService) Stop(ctx context.Context, userID int64, slug string) error {
	sess, err := s.load(ctx, autoBetKey(userID, slug))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrAutoBetNotFound
		}
		return err
	}
	if sess.Status != domain.AutoBetStatusRunning {
		return ErrAutoBetNotFound
	}
	return s.rdb.Set(ctx, autoBetStopKey(userID, slug), "1", autoBetTTL).Err()
}

// Status returns the latest persisted loop state.
func (s *AutoBetService) Status(ctx context.Context, userID int64, slug string) (*domain.AutoBetSession, error) {
	sess, err := s.load(ctx, autoBetKey(userID, slug))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAutoBetNotFound
		}
		return nil, err
	}
	return sess, nil
}

// AnyRunning reports whether the user has a live loop on any game.
func (s *AutoBetService) AnyRunning(ctx context.Context, userID int64) (bool, error) {
	for _, slug := range s.play.registry.Slugs() {
		sess, err := s.load(ctx, autoBetKey(userID, slug))
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return false, err
		}
		if sess.Status == domain.AutoBetStatusRunning {
			return true, nil
		}
	}
	return false, nil
}

func (s *AutoBetService) releaseLock(ctx context.Context, userID int64, slug string) {
	_ = s.rdb.Del(ctx, autoBetLockKey(userID, slug)).Err()
}

func (s *AutoBetService) run(ctx context.Context, sess *domain.AutoBetSession) {
	delay := clampDelay(time.Duration(sess.Config.DelayMs) * time.Millisecond)

	for {
		stopped, err := s.rdb.Exists(ctx, autoBetStopKey(sess.UserID, sess.GameSlug)).Result()
		if err == nil && stopped > 0 {
			s.finish(ctx, sess, domain.AutoBetStatusStopped, "")
			return
		}

		if status := terminalStatus(sess); status != "" {
			s.finish(ctx, sess, status, "")
			return
		}

		res, err := s.play.Play(ctx, sess.UserID, sess.GameSlug, sess.CurrentBet, sess.Config.Currency, sess.GameParams)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientBalance) {
				s.finish(ctx, sess, domain.AutoBetStatusStopped, "")
				return
			}
			logger.Error("autobet round failed",
				"user_id", sess.UserID, "game", sess.GameSlug, "error", err)
			s.finish(ctx, sess, domain.AutoBetStatusError, err.Error())
			return
		}

		sess.BetsCompleted++
		sess.TotalWagered += sess.CurrentBet
		sess.TotalProfit += res.Profit
		if res.IsWin {
			sess.Wins++
		} else {
			sess.Losses++
		}
		sess.CurrentBet = nextBet(sess.Config, sess.CurrentBet, res.IsWin)
		sess.UpdatedAt = time.Now()

		if err := s.save(ctx, sess); err != nil {
			logger.Error("autobet state save failed",
				"user_id", sess.UserID, "game", sess.GameSlug, "error", err)
			return
		}

		time.Sleep(delay)
	}
}

func (s *AutoBetService) finish(ctx context.Context, sess *domain.AutoBetSession, status, errMsg string) {
	sess.Status = status
	sess.Error = errMsg
	sess.UpdatedAt = time.Now()
	if err := s.save(ctx, sess); err != nil {
		logger.Error("autobet finish save failed",
			"user_id", sess.UserID, "game", sess.GameSlug, "error", err)
	}
	logger.Info("autobet finished",
		"user_id", sess.UserID, "game", sess.GameSlug, "status", status,
		"bets", sess.BetsCompleted, "profit", sess.TotalProfit)
	s.releaseLock(ctx, sess.UserID, sess.GameSlug)
}

func (s *AutoBetService) save(ctx context.Context, sess *domain.AutoBetSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, autoBetKey(sess.UserID, sess.GameSlug), data, autoBetTTL).Err()
}

func (s *AutoBetService) load(ctx context.Context, key string) (*domain.AutoBetSession, error) {
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var sess domain.AutoBetSession
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func validateAutoBetConfig(cfg domain.AutoBetConfig) error {
	if cfg.BetAmount <= 0 {
		return ErrAutoBetConfig
	}
	if cfg.NumberOfBets <= 0 || cfg.NumberOfBets > maxAutoBetRuns {
		return ErrAutoBetConfig
	}
	if !validWinAction(cfg.OnWinAction) || !validLossAction(cfg.OnLossAction) {
		return ErrAutoBetConfig
	}
	if cfg.OnWinAction == domain.AutoBetActionIncrease && cfg.OnWinPercent <= 0 {
		return ErrAutoBetConfig
	}
	if cfg.OnLossAction == domain.AutoBetActionIncrease && cfg.OnLossPercent <= 0 {
		return ErrAutoBetConfig
	}
	if cfg.StopOnProfit != nil && *cfg.StopOnProfit <= 0 {
		return ErrAutoBetConfig
	}
	if cfg.StopOnLoss != nil && *cfg.StopOnLoss <= 0 {
		return ErrAutoBetConfig
	}
	return nil
}

func validWinAction(a string) bool {
	switch a {
	case domain.AutoBetActionReset, domain.AutoBetActionIncrease:
		return true
	}
	return false
}

// Martingale doubles a lost stake; it has no meaning on a win.
func validLossAction(a string) bool {
	return validWinAction(a) || a == domain.AutoBetActionMartingale
}

// terminalStatus reports whether the series has hit a stop condition before
// the next bet is placed. Empty string means keep going.
func terminalStatus(sess *domain.AutoBetSession) string {
	if sess.BetsCompleted >= sess.Config.NumberOfBets {
		return domain.AutoBetStatusCompleted
	}
	if sess.Config.StopOnProfit != nil && sess.TotalProfit >= *sess.Config.StopOnProfit {
		return domain.AutoBetStatusStopped
	}
	if sess.Config.StopOnLoss != nil && sess.TotalProfit <= -*sess.Config.StopOnLoss {
		return domain.AutoBetStatusStopped
	}
	return ""
}

// nextBet applies the win/loss progression to the stake of the coming round.
func nextBet(cfg domain.AutoBetConfig, current float64, won bool) float64 {
	action, pct := cfg.OnLossAction, cfg.OnLossPercent
	if won {
		action, pct = cfg.OnWinAction, cfg.OnWinPercent
	}
	switch action {
	case domain.AutoBetActionIncrease:
		return game.FloorAmount(current * (1 + pct/100))
	case domain.AutoBetActionMartingale:
		// loss-only action, validation rejects it for wins
		return game.FloorAmount(current * 2)
	default:
		return cfg.BetAmount
	}
}

func clampDelay(d time.Duration) time.Duration {
	if d < minDelay {
		return minDelay
	}
	if d > maxDelay {
		return maxDelay
	}
	return d
}
