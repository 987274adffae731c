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

// HiLoService runs the hi-lo guessing chain over one shuffled deck.
type HiLoService struct {
	statefulDeps
}

func NewHiLoService(db *pgxpool.Pool, gw *ledger.Gateway, seeds *SeedService, store *session.Store, jackpot *JackpotService, feed *FeedService, limits GameLimits, houseEdge float64) *HiLoService {
	return &HiLoService{statefulDeps: newStatefulDeps(db, gw, seeds, store, jackpot, feed, limits, houseEdge)}
}

// HiLoState is what the player sees mid-chain: the dealt cards, never the
// undealt remainder of the deck.
type HiLoState struct {
	Cards      []int    `json:"cards"`
	CardNames  []string `json:"card_names"`
	Guesses    []string `json:"guesses"`
	Multiplier float64  `json:"multiplier"`
	BetAmount  float64  `json:"bet_amount"`
	NextHigher float64  `json:"next_higher_multiplier"`
	NextLower  float64  `json:"next_lower_multiplier"`
	CardsLeft  int      `json:"cards_left"`
	Fairness   Fairness `json:"fairness"`
}

// Start deals the first card of a fresh chain.
func (s *HiLoService) Start(ctx context.Context, userID int64, bet float64, currency string) (*HiLoState, error) {
	acquired, err := s.store.Acquire(ctx, userID, game.SlugHiLo)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugHiLo)

	if exists, err := s.store.Exists(ctx, userID, game.SlugHiLo); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrGameInProgress
	}
	if err := s.validateStake(ctx, userID, bet, currency); err != nil {
		return nil, err
	}

	deck, ref, err := s.chargeAndShuffle(ctx, userID, game.SlugHiLo, bet, currency)
	if err != nil {
		return nil, err
	}

	sess := &domain.HiLoSession{
		Version:    domain.SessionVersion,
		UserID:     userID,
		BetAmount:  bet,
		Currency:   currency,
		Deck:       deck,
		Cursor:     1, // first card dealt
		Guesses:    []string{},
		Multiplier: 1.0,
		Fairness:   ref,
		StartedAt:  time.Now(),
	}
	if err := s.store.Save(ctx, userID, game.SlugHiLo, sess); err != nil {
		return nil, err
	}

	return s.state(sess), nil
}

// Guess draws the next card from the deck cursor and compounds the
// multiplier on a correct call. A wrong call settles the round as a loss.
func (s *HiLoService) Guess(ctx context.Context, userID int64, direction string) (*HiLoState, *PlayResult, error) {
	if direction != game.HiLoGuessHigher && direction != game.HiLoGuessLower {
		return nil, nil, ErrInvalidAction
	}

	acquired, err := s.store.Acquire(ctx, userID, game.SlugHiLo)
	if err != nil {
		return nil, nil, err
	}
	if !acquired {
		return nil, nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugHiLo)

	var sess domain.HiLoSession
	if err := s.store.Load(ctx, userID, game.SlugHiLo, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil, ErrNoActiveGame
		}
		return nil, nil, err
	}

	if sess.Cursor >= len(sess.Deck) {
		// Ran through all 52 cards; the only move left is cashing out.
		return nil, nil, ErrDeckExhausted
	}

	current := sess.Deck[sess.Cursor-1]
	next := sess.Deck[sess.Cursor]
	sess.Cursor++
	sess.Guesses = append(sess.Guesses, direction)

	if !game.HiLoCorrect(current, next, direction == game.HiLoGuessHigher) {
		outcome := domain.Outcome{
			Version: domain.OutcomeVersion,
			Kind:    game.SlugHiLo,
			HiLo: &domain.HiLoOutcome{
				Cards:     sess.Deck[:sess.Cursor],
				Guesses:   sess.Guesses,
				CashedOut: false,
			},
		}
		result, err := s.finishSession(ctx, userID, game.SlugHiLo, sess.BetAmount, 0, 0, sess.Currency, false, outcome, sess.Fairness)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	}

	mult, ok := game.HiLoMultiplier(game.CardValue(current), direction == game.HiLoGuessHigher, s.houseEdge)
	if !ok {
		// Unreachable on a correct guess: an impossible direction can
		// never have matched the drawn card.
		return nil, nil, ErrInvalidAction
	}
	sess.Multiplier = game.FloorMultiplier(sess.Multiplier * mult)

	if err := s.store.Save(ctx, userID, game.SlugHiLo, &sess); err != nil {
		return nil, nil, err
	}
	return s.state(&sess), nil, nil
}

// Cashout settles the chain at the current compounded multiplier.
func (s *HiLoService) Cashout(ctx context.Context, userID int64) (*PlayResult, error) {
	acquired, err := s.store.Acquire(ctx, userID, game.SlugHiLo)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugHiLo)

	var sess domain.HiLoSession
	if err := s.store.Load(ctx, userID, game.SlugHiLo, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}

	payout := game.FloorAmount(sess.BetAmount * sess.Multiplier)
	outcome := domain.Outcome{
		Version: domain.OutcomeVersion,
		Kind:    game.SlugHiLo,
		HiLo: &domain.HiLoOutcome{
			Cards:     sess.Deck[:sess.Cursor],
			Guesses:   sess.Guesses,
			CashedOut: true,
		},
	}
	return s.finishSession(ctx, userID, game.SlugHiLo, sess.BetAmount, payout, sess.Multiplier, sess.Currency, true, outcome, sess.Fairness)
}

// State returns the in-progress chain, if any.
func (s *HiLoService) State(ctx context.Context, userID int64) (*HiLoState, error) {
	var sess domain.HiLoSession
	if err := s.store.Load(ctx, userID, game.SlugHiLo, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}
	return s.state(&sess), nil
}

func (s *HiLoService) state(sess *domain.HiLoSession) *HiLoState {
	dealt := sess.Deck[:sess.Cursor]
	names := make([]string, len(dealt))
	for i, c := range dealt {
		names[i] = game.CardName(c)
	}

	currentValue := game.CardValue(dealt[len(dealt)-1])
	nextHigher, _ := game.HiLoMultiplier(currentValue, true, s.houseEdge)
	nextLower, _ := game.HiLoMultiplier(currentValue, false, s.houseEdge)

	return &HiLoState{
		Cards:      dealt,
		CardNames:  names,
		Guesses:    sess.Guesses,
		Multiplier: sess.Multiplier,
		BetAmount:  sess.BetAmount,
		NextHigher: nextHigher,
		NextLower:  nextLower,
		CardsLeft:  len(sess.Deck) - sess.Cursor,
		Fairness:   Fairness(sess.Fairness),
	}
}
