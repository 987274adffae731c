package service

import (
	"context"
	"fmt"

	"casino_engine/internal/domain"
	"casino_engine/internal/fair"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/repository"
	"casino_engine/internal/session"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// statefulDeps is the wiring shared by every multi-step game service.
type statefulDeps struct {
	db        *pgxpool.Pool
	ledger    *ledger.Gateway
	seeds     *SeedService
	seedRepo  *repository.SeedRepository
	rounds    *repository.RoundRepository
	store     *session.Store
	jackpot   *JackpotService
	feed      *FeedService
	limits    GameLimits
	houseEdge float64
}

func newStatefulDeps(db *pgxpool.Pool, gw *ledger.Gateway, seeds *SeedService, store *session.Store, jackpot *JackpotService, feed *FeedService, limits GameLimits, houseEdge float64) statefulDeps {
	return statefulDeps{
		db:        db,
		ledger:    gw,
		seeds:     seeds,
		seedRepo:  repository.NewSeedRepository(db),
		rounds:    repository.NewRoundRepository(db),
		store:     store,
		jackpot:   jackpot,
		feed:      feed,
		limits:    limits,
		houseEdge: houseEdge,
	}
}

func (d *statefulDeps) validateStake(ctx context.Context, userID int64, bet float64, currency string) error {
	if bet < d.limits.MinBet {
		return ErrBetTooLow
	}
	if bet > d.limits.MaxBet {
		return ErrBetTooHigh
	}
	return d.ledger.ValidateBet(ctx, userID, bet, currency)
}

// chargeAndShuffle debits the stake, advances the nonce and derives the
// session's shuffled deck, all under one transaction. The whole multi-step
// sequence draws from this single deck, so the nonce moves exactly once per
// session, at deal time.
func (d *statefulDeps) chargeAndShuffle(ctx context.Context, userID int64, slug string, bet float64, currency string) (deck []int, ref domain.FairnessRef, err error) {
	if _, err = d.seeds.GetOrCreate(ctx, userID); err != nil {
		return nil, ref, err
	}

	tx, err := d.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, ref, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	seed, err := d.seedRepo.GetActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, ref, err
	}
	if _, _, err = d.ledger.DebitTx(ctx, tx, userID, bet, currency, nil); err != nil {
		return nil, ref, err
	}
	if _, err = d.seedRepo.IncrementNonceTx(ctx, tx, seed.ID); err != nil {
		return nil, ref, err
	}
	if err = d.jackpot.ContributeTx(ctx, tx, slug, bet); err != nil {
		return nil, ref, err
	}
	if err = tx.Commit(ctx); err != nil {
		logger.Error("deal commit failed after stake charged",
			"user_id", userID, "game", slug, "error", err)
		unsettledFaults.Inc()
		d.ledger.RecordUnsettledFault(ctx, userID, slug, bet, currency,
			fmt.Sprintf("deal commit failed: %v", err))
		return nil, ref, err
	}

	deck = fair.ShuffledDeck(seed.ServerSeed, seed.ClientSeed, seed.Nonce)
	ref = domain.FairnessRef{
		ServerSeedHash: seed.ServerSeedHash,
		ClientSeed:     seed.ClientSeed,
		Nonce:          seed.Nonce,
	}

	wageredTotal.WithLabelValues(slug).Add(bet)
	d.jackpot.RunTrials(ctx, userID, currency)
	return deck, ref, nil
}

// finishSession tears the session down, then settles. The teardown comes
// first so a retried terminal action finds no session left to settle: one
// deck settles at most once, and its (seed, nonce) never backs a second
// round record.
func (d *statefulDeps) finishSession(ctx context.Context, userID int64, slug string, bet, payout, multiplier float64, currency string, win bool, outcome domain.Outcome, ref domain.FairnessRef) (*PlayResult, error) {
	if err := d.store.Delete(ctx, userID, slug); err != nil {
		return nil, err
	}
	result, err := d.settle(ctx, userID, slug, bet, payout, multiplier, currency, win, outcome, ref)
	if err != nil {
		logger.Error("settlement failed after session teardown",
			"user_id", userID, "game", slug, "error", err)
		return nil, err
	}
	return result, nil
}

// settle credits the payout (if any), appends the round record and deletes
// nothing itself; session teardown belongs to the caller.
func (d *statefulDeps) settle(ctx context.Context, userID int64, slug string, bet, payout, multiplier float64, currency string, win bool, outcome domain.Outcome, ref domain.FairnessRef) (*PlayResult, error) {
	tx, err := d.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	roundID := uuid.New().String()
	newBalance := 0.0
	if payout > 0 {
		if _, newBalance, err = d.ledger.CreditTx(ctx, tx, userID, payout, currency, domain.LedgerTypeWin, &roundID); err != nil {
			return nil, err
		}
	} else {
		if newBalance, err = balanceTx(ctx, tx, userID, currency); err != nil {
			return nil, err
		}
	}

	round := &domain.Round{
		ID:             roundID,
		UserID:         userID,
		GameSlug:       slug,
		BetAmount:      bet,
		Payout:         payout,
		Multiplier:     multiplier,
		Currency:       currency,
		Result:         outcome,
		ServerSeedHash: ref.ServerSeedHash,
		ClientSeed:     ref.ClientSeed,
		Nonce:          ref.Nonce,
		IsWin:          win,
	}
	if err := d.rounds.CreateTx(ctx, tx, round); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		logger.Error("round settlement commit failed after stake charged",
			"user_id", userID, "game", slug, "round_id", roundID, "error", err)
		unsettledFaults.Inc()
		d.ledger.RecordUnsettledFault(ctx, userID, slug, bet, currency,
			fmt.Sprintf("round %s: settle commit failed: %v", roundID, err))
		return nil, err
	}

	roundsTotal.WithLabelValues(slug, winLabel(win)).Inc()
	if payout > 0 {
		payoutTotal.WithLabelValues(slug).Add(payout)
	}
	d.feed.Push(ctx, round)

	return &PlayResult{
		RoundID:    roundID,
		Game:       slug,
		BetAmount:  bet,
		Payout:     payout,
		Profit:     payout - bet,
		Multiplier: multiplier,
		IsWin:      win,
		Result:     outcome,
		Fairness:   Fairness(ref),
		NewBalance: newBalance,
	}, nil
}

func winLabel(win bool) string {
	if win {
		return "win"
	}
	return "lose"
}
