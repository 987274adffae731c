package service

import (
	"context"
	"errors"
	"time"

	"casino_engine/internal/domain"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

// VideoPokerService runs Jacks or Better: deal five, hold any subset,
// draw replacements, pay on the final hand rank.
type VideoPokerService struct {
	statefulDeps
}

func NewVideoPokerService(db *pgxpool.Pool, gw *ledger.Gateway, seeds *SeedService, store *session.Store, jackpot *JackpotService, feed *FeedService, limits GameLimits, houseEdge float64) *VideoPokerService {
	return &VideoPokerService{statefulDeps: newStatefulDeps(db, gw, seeds, store, jackpot, feed, limits, houseEdge)}
}

type VideoPokerState struct {
	Hand      []int    `json:"hand"`
	CardNames []string `json:"card_names"`
	BetAmount float64  `json:"bet_amount"`
	Fairness  Fairness `json:"fairness"`
}

// Deal charges the stake and deals the first five cards.
func (s *VideoPokerService) Deal(ctx context.Context, userID int64, bet float64, currency string) (*VideoPokerState, error) {
	acquired, err := s.store.Acquire(ctx, userID, game.SlugVideoPoker)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugVideoPoker)

	if exists, err := s.store.Exists(ctx, userID, game.SlugVideoPoker); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrGameInProgress
	}
	if err := s.validateStake(ctx, userID, bet, currency); err != nil {
		return nil, err
	}

	deck, ref, err := s.chargeAndShuffle(ctx, userID, game.SlugVideoPoker, bet, currency)
	if err != nil {
		return nil, err
	}

	sess := &domain.VideoPokerSession{
		Version:   domain.SessionVersion,
		UserID:    userID,
		BetAmount: bet,
		Currency:  currency,
		Deck:      deck,
		Cursor:    5,
		Hand:      append([]int(nil), deck[:5]...),
		Fairness:  ref,
		StartedAt: time.Now(),
	}
	if err := s.store.Save(ctx, userID, game.SlugVideoPoker, sess); err != nil {
		return nil, err
	}
	return s.state(sess), nil
}

// Draw replaces every unheld card from the top of the deck, evaluates the
// final hand and settles the round.
func (s *VideoPokerService) Draw(ctx context.Context, userID int64, holds [5]bool) (*PlayResult, error) {
	acquired, err := s.store.Acquire(ctx, userID, game.SlugVideoPoker)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugVideoPoker)

	var sess domain.VideoPokerSession
	if err := s.store.Load(ctx, userID, game.SlugVideoPoker, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}

	dealt := append([]int(nil), sess.Hand...)
	final := append([]int(nil), sess.Hand...)
	for i := 0; i < 5; i++ {
		if !holds[i] {
			final[i] = sess.Deck[sess.Cursor]
			sess.Cursor++
		}
	}

	rank := game.EvaluateHand(final)
	mult := game.VideoPokerPayout(rank)
	payout := game.FloorAmount(sess.BetAmount * mult)
	win := payout > 0

	held := make([]bool, 5)
	copy(held, holds[:])

	outcome := domain.Outcome{
		Version: domain.OutcomeVersion,
		Kind:    game.SlugVideoPoker,
		VideoPoker: &domain.VideoPokerOutcome{
			Dealt:    dealt,
			Held:     held,
			Final:    final,
			HandRank: rank,
		},
	}
	return s.finishSession(ctx, userID, game.SlugVideoPoker, sess.BetAmount, payout, mult, sess.Currency, win, outcome, sess.Fairness)
}

// State returns the dealt hand awaiting a draw, if any.
func (s *VideoPokerService) State(ctx context.Context, userID int64) (*VideoPokerState, error) {
	var sess domain.VideoPokerSession
	if err := s.store.Load(ctx, userID, game.SlugVideoPoker, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}
	return s.state(&sess), nil
}

func (s *VideoPokerService) state(sess *domain.VideoPokerSession) *VideoPokerState {
	names := make([]string, len(sess.Hand))
	for i, c := range sess.Hand {
		names[i] = game.CardName(c)
	}
	return &VideoPokerState{
		Hand:      sess.Hand,
		CardNames: names,
		BetAmount: sess.BetAmount,
		Fairness:  Fairness(sess.Fairness),
	}
}
