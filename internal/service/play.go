package service

import (
	"context"
	"encoding/json"
	"fmt"

	"casino_engine/internal/domain"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameLimits holds bet limits configuration.
type GameLimits struct {
	MinBet float64 `json:"min_bet"`
	MaxBet float64 `json:"max_bet"`
}

// Fairness is the commitment returned with every result so the round can
// be verified once the server seed is revealed.
type Fairness struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}

// PlayResult is the engine's result payload for one settled round.
type PlayResult struct {
	RoundID    string         `json:"round_id"`
	Game       string         `json:"game"`
	BetAmount  float64        `json:"bet_amount"`
	Payout     float64        `json:"payout"`
	Profit     float64        `json:"profit"`
	Multiplier float64        `json:"multiplier"`
	IsWin      bool           `json:"is_win"`
	Result     domain.Outcome `json:"result"`
	Fairness   Fairness       `json:"fairness"`
	NewBalance float64        `json:"new_balance"`
}

// PlayService runs the shared game lifecycle for instant games:
// validate, charge stake, resolve, settle, record round, advance nonce.
type PlayService struct {
	db       *pgxpool.Pool
	registry *game.Registry
	ledger   *ledger.Gateway
	seeds    *SeedService
	seedRepo *repository.SeedRepository
	rounds   *repository.RoundRepository
	jackpot  *JackpotService
	feed     *FeedService
	limits   GameLimits
}

func NewPlayService(db *pgxpool.Pool, registry *game.Registry, gw *ledger.Gateway, seeds *SeedService, jackpot *JackpotService, feed *FeedService, limits GameLimits) *PlayService {
	return &PlayService{
		db:       db,
		registry: registry,
		ledger:   gw,
		seeds:    seeds,
		seedRepo: repository.NewSeedRepository(db),
		rounds:   repository.NewRoundRepository(db),
		jackpot:  jackpot,
		feed:     feed,
		limits:   limits,
	}
}

// Registry exposes the instant-game registry for dispatchers.
func (s *PlayService) Registry() *game.Registry { return s.registry }

// Limits exposes the configured bet limits.
func (s *PlayService) Limits() GameLimits { return s.limits }

// ValidateBet checks bet limits.
func (s *PlayService) ValidateBet(bet float64) error {
	if bet < s.limits.MinBet {
		return ErrBetTooLow
	}
	if bet > s.limits.MaxBet {
		return ErrBetTooHigh
	}
	return nil
}

// Play settles one instant-game round end to end. The stake is charged
// before the outcome is computed; the debit's check-and-decrement is the
// only gate against concurrent overspend.
func (s *PlayService) Play(ctx context.Context, userID int64, slug string, bet float64, currency string, params json.RawMessage) (*PlayResult, error) {
	g, ok := s.registry.Get(slug)
	if !ok {
		if game.IsStateful(slug) {
			return nil, ErrNotInstantGame
		}
		return nil, ErrUnsupportedGame
	}
	if err := s.ValidateBet(bet); err != nil {
		return nil, err
	}
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}
	if err := g.ValidateParams(params); err != nil {
		return nil, invalidParams(err)
	}
	if err := s.ledger.ValidateBet(ctx, userID, bet, currency); err != nil {
		return nil, err
	}

	// Make sure a seed pair (and its published hash) exists before the
	// settlement transaction locks it.
	if _, err := s.seeds.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	seed, err := s.seedRepo.GetActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	roundID := uuid.New().String()
	if _, _, err := s.ledger.DebitTx(ctx, tx, userID, bet, currency, &roundID); err != nil {
		return nil, err
	}

	res, err := g.Resolve(game.Seed{
		ServerSeed: seed.ServerSeed,
		ClientSeed: seed.ClientSeed,
		Nonce:      seed.Nonce,
	}, params)
	if err != nil {
		return nil, invalidParams(err)
	}

	payout := 0.0
	if slug == game.SlugPlinko || res.Win {
		payout = game.FloorAmount(bet * res.Multiplier)
	}

	newBalance := 0.0
	if payout > 0 {
		if _, newBalance, err = s.ledger.CreditTx(ctx, tx, userID, payout, currency, domain.LedgerTypeWin, &roundID); err != nil {
			return nil, err
		}
	} else {
		if newBalance, err = balanceTx(ctx, tx, userID, currency); err != nil {
			return nil, err
		}
	}

	if _, err := s.seedRepo.IncrementNonceTx(ctx, tx, seed.ID); err != nil {
		return nil, err
	}

	round := &domain.Round{
		ID:             roundID,
		UserID:         userID,
		GameSlug:       slug,
		BetAmount:      bet,
		Payout:         payout,
		Multiplier:     res.Multiplier,
		Currency:       currency,
		Result:         res.Outcome,
		ServerSeedHash: seed.ServerSeedHash,
		ClientSeed:     seed.ClientSeed,
		Nonce:          seed.Nonce,
		IsWin:          res.Win,
	}
	if err := s.rounds.CreateTx(ctx, tx, round); err != nil {
		return nil, err
	}

	if err := s.jackpot.ContributeTx(ctx, tx, slug, bet); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		// The commit outcome is ambiguous: the stake may be charged with
		// no settled round visible to the caller. Surface it for
		// reconciliation instead of treating it like a validation error.
		logger.Error("round settlement commit failed after stake charged",
			"user_id", userID, "game", slug, "round_id", roundID, "error", err)
		unsettledFaults.Inc()
		s.ledger.RecordUnsettledFault(ctx, userID, slug, bet, currency,
			fmt.Sprintf("round %s: commit failed: %v", roundID, err))
		return nil, err
	}

	observeRound(slug, res.Win, bet, payout)
	s.jackpot.RunTrials(ctx, userID, currency)
	s.feed.Push(ctx, round)

	return &PlayResult{
		RoundID:    roundID,
		Game:       slug,
		BetAmount:  bet,
		Payout:     payout,
		Profit:     payout - bet,
		Multiplier: res.Multiplier,
		IsWin:      res.Win,
		Result:     res.Outcome,
		Fairness: Fairness{
			ServerSeedHash: seed.ServerSeedHash,
			ClientSeed:     seed.ClientSeed,
			Nonce:          seed.Nonce,
		},
		NewBalance: newBalance,
	}, nil
}

// ListRounds returns a user's recent round history.
func (s *PlayService) ListRounds(ctx context.Context, userID int64, limit int) ([]*domain.Round, error) {
	return s.rounds.ListByUser(ctx, userID, limit)
}

func balanceTx(ctx context.Context, tx pgx.Tx, userID int64, currency string) (float64, error) {
	var balance float64
	err := tx.QueryRow(ctx, `
		SELECT balance FROM wallets WHERE user_id = $1 AND currency = $2
	`, userID, currency).Scan(&balance)
	return balance, err
}
