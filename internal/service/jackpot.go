package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"

	"casino_engine/internal/domain"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Jackpot trial odds per round, rarest tier checked first. Trials draw
// from crypto/rand, not the user's seed chain: pool hits depend on every
// player's activity, so they are intentionally outside the per-user
// provable-fairness commitment.
const (
	grandOdds = 1e-6
	majorOdds = 1e-5
	miniOdds  = 1e-4
)

// Contribution split of the per-round jackpot rake across tiers.
var tierSplit = map[domain.JackpotTier]float64{
	domain.JackpotMini:  0.50,
	domain.JackpotMajor: 0.30,
	domain.JackpotGrand: 0.20,
}

// JackpotService rakes a slice of every stake into three progressive
// pools and runs the per-round win trials.
type JackpotService struct {
	db    *pgxpool.Pool
	pools *repository.JackpotRepository
	gw    *ledger.Gateway
	feed  *FeedService
	rate  float64
	rates map[string]float64
}

func NewJackpotService(db *pgxpool.Pool, gw *ledger.Gateway, feed *FeedService, rate float64, overrides map[string]float64) *JackpotService {
	return &JackpotService{
		db:    db,
		pools: repository.NewJackpotRepository(db),
		gw:    gw,
		feed:  feed,
		rate:  rate,
		rates: overrides,
	}
}

// rateFor returns the game's own contribution rate when one is configured,
// else the platform default.
func (s *JackpotService) rateFor(slug string) float64 {
	if r, ok := s.rates[slug]; ok {
		return r
	}
	return s.rate
}

// ContributeTx adds the round's rake to each pool inside the round's own
// transaction, so a rolled-back stake contributes nothing.
func (s *JackpotService) ContributeTx(ctx context.Context, tx pgx.Tx, slug string, stake float64) error {
	rake := stake * s.rateFor(slug)
	if rake <= 0 {
		return nil
	}
	for tier, share := range tierSplit {
		if err := s.pools.ContributeTx(ctx, tx, tier, game.FloorAmount(rake*share)); err != nil {
			return err
		}
	}
	jackpotContribTotal.Add(rake)
	return nil
}

// RunTrials rolls each tier once for the finished round, rarest first, and
// awards at most one pool. Runs after the round commits; a trial failure
// is logged and never surfaces to the player.
func (s *JackpotService) RunTrials(ctx context.Context, userID int64, currency string) {
	for _, t := range []struct {
		tier domain.JackpotTier
		odds float64
	}{
		{domain.JackpotGrand, grandOdds},
		{domain.JackpotMajor, majorOdds},
		{domain.JackpotMini, miniOdds},
	} {
		if randomFloat() >= t.odds {
			continue
		}
		if err := s.award(ctx, t.tier, userID, currency); err != nil {
			logger.Error("jackpot award failed",
				"tier", string(t.tier), "user_id", userID, "error", err)
		}
		return
	}
}

// award pays the locked pool to the winner and snaps it back to its seed
// amount, all in one transaction.
func (s *JackpotService) award(ctx context.Context, tier domain.JackpotTier, userID int64, currency string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	pool, err := s.pools.LockForAwardTx(ctx, tx, tier)
	if err != nil {
		return err
	}
	amount := game.FloorAmount(pool.Amount)
	if amount <= 0 {
		return fmt.Errorf("pool %s is empty", tier)
	}
	if _, _, err := s.gw.CreditTx(ctx, tx, userID, amount, currency, domain.LedgerTypeJackpotWin, nil); err != nil {
		return err
	}
	if err := s.pools.ResetAfterAwardTx(ctx, tx, tier, userID, amount); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	jackpotWinsTotal.WithLabelValues(string(tier)).Inc()
	logger.Info("jackpot won",
		"tier", string(tier), "user_id", userID, "amount", amount)
	s.feed.PushJackpot(ctx, tier, userID, amount)
	return nil
}

// Pools returns the current state of every pool.
func (s *JackpotService) Pools(ctx context.Context) ([]*domain.JackpotPool, error) {
	return s.pools.GetAll(ctx)
}

// randomFloat draws a uniform float in [0,1) from crypto/rand.
func randomFloat() float64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return math.MaxFloat64 // fail closed: never award on a broken RNG
	}
	return float64(binary.BigEndian.Uint64(buf[:])>>11) / (1 << 53)
}
