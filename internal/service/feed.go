package service

import (
	"context"
	"encoding/json"
	"time"

	"casino_engine/internal/domain"
	"casino_engine/internal/logger"
	"casino_engine/internal/ws"

	"github.com/redis/go-redis/v9"
)

const (
	feedKey = "feed:recent"
	feedLen = 50
)

// FeedEvent is the public live-feed payload. No seed material, no params,
// just what a lobby ticker shows.
type FeedEvent struct {
	Type       string    `json:"type"`
	RoundID    string    `json:"round_id,omitempty"`
	Game       string    `json:"game,omitempty"`
	UserID     int64     `json:"user_id"`
	BetAmount  float64   `json:"bet_amount,omitempty"`
	Payout     float64   `json:"payout"`
	Multiplier float64   `json:"multiplier,omitempty"`
	IsWin      bool      `json:"is_win"`
	Currency   string    `json:"currency,omitempty"`
	Tier       string    `json:"tier,omitempty"`
	At         time.Time `json:"at"`
}

// FeedService keeps the last settled rounds in a Redis list and pushes
// each one to connected websocket clients. Every path is best-effort: a
// feed failure is logged and never fails the round that produced it.
type FeedService struct {
	rdb *redis.Client
	hub *ws.Hub
}

func NewFeedService(rdb *redis.Client, hub *ws.Hub) *FeedService {
	return &FeedService{rdb: rdb, hub: hub}
}

// Push publishes a settled round.
func (s *FeedService) Push(ctx context.Context, round *domain.Round) {
	s.publish(ctx, feedEventFromRound(round))
}

// feedEventFromRound shapes a settled round into its public feed form.
func feedEventFromRound(round *domain.Round) FeedEvent {
	return FeedEvent{
		Type:       "round",
		RoundID:    round.ID,
		Game:       round.GameSlug,
		UserID:     round.UserID,
		BetAmount:  round.BetAmount,
		Payout:     round.Payout,
		Multiplier: round.Multiplier,
		IsWin:      round.IsWin,
		Currency:   round.Currency,
		At:         round.CreatedAt,
	}
}

// PushJackpot publishes a jackpot hit.
func (s *FeedService) PushJackpot(ctx context.Context, tier domain.JackpotTier, userID int64, amount float64) {
	s.publish(ctx, FeedEvent{
		Type:   "jackpot",
		UserID: userID,
		Payout: amount,
		IsWin:  true,
		Tier:   string(tier),
		At:     time.Now(),
	})
}

func (s *FeedService) publish(ctx context.Context, ev FeedEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("feed marshal failed", "error", err)
		return
	}

	pipe := s.rdb.Pipeline()
	pipe.LPush(ctx, feedKey, payload)
	pipe.LTrim(ctx, feedKey, 0, feedLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warn("feed redis push failed", "error", err)
	}

	s.hub.Broadcast(payload)
}

// Recent returns the stored events, newest first.
func (s *FeedService) Recent(ctx context.Context) ([]FeedEvent, error) {
	raw, err := s.rdb.LRange(ctx, feedKey, 0, feedLen-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]FeedEvent, 0, len(raw))
	for _, item := range raw {
		var ev FeedEvent
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
