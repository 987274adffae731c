package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casino_engine/internal/domain"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/logger"
	"casino_engine/internal/session"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BlackjackService runs the blackjack state machine: deal, hit, stand,
// double, split, then dealer play and per-hand settlement.
type BlackjackService struct {
	statefulDeps
}

func NewBlackjackService(db *pgxpool.Pool, gw *ledger.Gateway, seeds *SeedService, store *session.Store, jackpot *JackpotService, feed *FeedService, limits GameLimits, houseEdge float64) *BlackjackService {
	return &BlackjackService{statefulDeps: newStatefulDeps(db, gw, seeds, store, jackpot, feed, limits, houseEdge)}
}

// BlackjackState is the mid-round view: the dealer's hole card stays
// hidden until the round finishes.
type BlackjackState struct {
	PlayerHands  [][]int   `json:"player_hands"`
	HandTotals   []int     `json:"hand_totals"`
	HandBets     []float64 `json:"hand_bets"`
	HandDone     []bool    `json:"hand_done"`
	ActiveHand   int       `json:"active_hand"`
	DealerUpcard int       `json:"dealer_upcard"`
	CanDouble    bool      `json:"can_double"`
	CanSplit     bool      `json:"can_split"`
	Fairness     Fairness  `json:"fairness"`
}

// Deal starts a round: two cards each, natural check first.
func (s *BlackjackService) Deal(ctx context.Context, userID int64, bet float64, currency string) (*BlackjackState, *PlayResult, error) {
	acquired, err := s.store.Acquire(ctx, userID, game.SlugBlackjack)
	if err != nil {
		return nil, nil, err
	}
	if !acquired {
		return nil, nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugBlackjack)

	if exists, err := s.store.Exists(ctx, userID, game.SlugBlackjack); err != nil {
		return nil, nil, err
	} else if exists {
		return nil, nil, ErrGameInProgress
	}
	if err := s.validateStake(ctx, userID, bet, currency); err != nil {
		return nil, nil, err
	}

	deck, ref, err := s.chargeAndShuffle(ctx, userID, game.SlugBlackjack, bet, currency)
	if err != nil {
		return nil, nil, err
	}

	// Deal order: player, dealer, player, dealer.
	player := []int{deck[0], deck[2]}
	dealer := []int{deck[1], deck[3]}

	sess := &domain.BlackjackSession{
		Version:     domain.SessionVersion,
		UserID:      userID,
		BetAmount:   bet,
		Currency:    currency,
		Deck:        deck,
		Cursor:      4,
		PlayerHands: [][]int{player},
		HandBets:    []float64{bet},
		HandDone:    []bool{false},
		ActiveHand:  0,
		DealerHand:  dealer,
		Fairness:    ref,
		StartedAt:   time.Now(),
	}

	if game.IsBlackjack(player) || game.IsBlackjack(dealer) {
		result, err := s.settleNaturals(ctx, sess)
		return nil, result, err
	}

	if err := s.store.Save(ctx, userID, game.SlugBlackjack, sess); err != nil {
		return nil, nil, err
	}
	return s.state(sess), nil, nil
}

// settleNaturals resolves a round decided at deal time: a natural pays
// 3:2, a double natural pushes, a dealer natural takes the stake.
func (s *BlackjackService) settleNaturals(ctx context.Context, sess *domain.BlackjackSession) (*PlayResult, error) {
	player, dealer := sess.PlayerHands[0], sess.DealerHand

	var (
		payout float64
		label  string
		win    bool
	)
	switch {
	case game.IsBlackjack(player) && game.IsBlackjack(dealer):
		payout, label, win = game.FloorAmount(sess.BetAmount*game.BJPayoutPush), game.BJResultPush, false
	case game.IsBlackjack(player):
		payout, label, win = game.FloorAmount(sess.BetAmount*game.BJPayoutNatural), game.BJResultBlackjack, true
	default:
		payout, label, win = 0, game.BJResultLose, false
	}

	multiplier := 0.0
	if sess.BetAmount > 0 {
		multiplier = game.FloorMultiplier(payout / sess.BetAmount)
	}

	outcome := domain.Outcome{
		Version: domain.OutcomeVersion,
		Kind:    game.SlugBlackjack,
		Blackjack: &domain.BlackjackOutcome{
			PlayerHands: sess.PlayerHands,
			DealerHand:  dealer,
			Results:     []string{label},
		},
	}
	return s.settle(ctx, sess.UserID, game.SlugBlackjack, sess.BetAmount, payout, multiplier, sess.Currency, win, outcome, sess.Fairness)
}

// Hit draws one card onto the active hand.
func (s *BlackjackService) Hit(ctx context.Context, userID int64) (*BlackjackState, *PlayResult, error) {
	return s.withSession(ctx, userID, func(ctx context.Context, sess *domain.BlackjackSession) error {
		hand := sess.PlayerHands[sess.ActiveHand]
		hand = append(hand, sess.Deck[sess.Cursor])
		sess.Cursor++
		sess.PlayerHands[sess.ActiveHand] = hand

		if game.IsBust(hand) {
			sess.HandDone[sess.ActiveHand] = true
			s.advanceHand(sess)
		}
		return nil
	})
}

// Stand finishes the active hand.
func (s *BlackjackService) Stand(ctx context.Context, userID int64) (*BlackjackState, *PlayResult, error) {
	return s.withSession(ctx, userID, func(ctx context.Context, sess *domain.BlackjackSession) error {
		sess.HandDone[sess.ActiveHand] = true
		s.advanceHand(sess)
		return nil
	})
}

// Double doubles the stake on an untouched two-card hand, draws exactly
// one card and stands.
func (s *BlackjackService) Double(ctx context.Context, userID int64) (*BlackjackState, *PlayResult, error) {
	return s.withSession(ctx, userID, func(ctx context.Context, sess *domain.BlackjackSession) error {
		hand := sess.PlayerHands[sess.ActiveHand]
		if !game.CanDouble(hand) {
			return ErrInvalidAction
		}
		extra := sess.HandBets[sess.ActiveHand]
		if err := s.chargeExtra(ctx, sess.UserID, extra, sess.Currency); err != nil {
			return err
		}
		sess.HandBets[sess.ActiveHand] += extra
		sess.BetAmount += extra

		hand = append(hand, sess.Deck[sess.Cursor])
		sess.Cursor++
		sess.PlayerHands[sess.ActiveHand] = hand
		sess.HandDone[sess.ActiveHand] = true
		s.advanceHand(sess)
		return nil
	})
}

// Split turns an equal-rank pair into two hands, each drawing one card.
func (s *BlackjackService) Split(ctx context.Context, userID int64) (*BlackjackState, *PlayResult, error) {
	return s.withSession(ctx, userID, func(ctx context.Context, sess *domain.BlackjackSession) error {
		hand := sess.PlayerHands[sess.ActiveHand]
		if !game.CanSplit(hand, len(sess.PlayerHands)) {
			return ErrInvalidAction
		}
		stake := sess.HandBets[sess.ActiveHand]
		if err := s.chargeExtra(ctx, sess.UserID, stake, sess.Currency); err != nil {
			return err
		}
		sess.BetAmount += stake

		first := []int{hand[0], sess.Deck[sess.Cursor]}
		second := []int{hand[1], sess.Deck[sess.Cursor+1]}
		sess.Cursor += 2

		i := sess.ActiveHand
		sess.PlayerHands[i] = first
		sess.PlayerHands = append(sess.PlayerHands[:i+1], append([][]int{second}, sess.PlayerHands[i+1:]...)...)
		sess.HandBets = append(sess.HandBets[:i+1], append([]float64{stake}, sess.HandBets[i+1:]...)...)
		sess.HandDone = append(sess.HandDone[:i+1], append([]bool{false}, sess.HandDone[i+1:]...)...)
		return nil
	})
}

// State returns the in-progress round, if any.
func (s *BlackjackService) State(ctx context.Context, userID int64) (*BlackjackState, error) {
	var sess domain.BlackjackSession
	if err := s.store.Load(ctx, userID, game.SlugBlackjack, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrNoActiveGame
		}
		return nil, err
	}
	return s.state(&sess), nil
}

// withSession wraps an action with the busy lock, session load, and the
// finish check: once every hand is done the dealer plays and the round
// settles.
func (s *BlackjackService) withSession(ctx context.Context, userID int64, action func(context.Context, *domain.BlackjackSession) error) (*BlackjackState, *PlayResult, error) {
	acquired, err := s.store.Acquire(ctx, userID, game.SlugBlackjack)
	if err != nil {
		return nil, nil, err
	}
	if !acquired {
		return nil, nil, ErrSessionBusy
	}
	defer s.store.Release(ctx, userID, game.SlugBlackjack)

	var sess domain.BlackjackSession
	if err := s.store.Load(ctx, userID, game.SlugBlackjack, &sess); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil, ErrNoActiveGame
		}
		return nil, nil, err
	}

	if err := action(ctx, &sess); err != nil {
		return nil, nil, err
	}

	if allDone(sess.HandDone) {
		// Teardown precedes settlement so a retry cannot settle this deck
		// twice.
		if err := s.store.Delete(ctx, userID, game.SlugBlackjack); err != nil {
			return nil, nil, err
		}
		result, err := s.finishRound(ctx, &sess)
		if err != nil {
			return nil, nil, err
		}
		return nil, result, nil
	}

	if err := s.store.Save(ctx, userID, game.SlugBlackjack, &sess); err != nil {
		return nil, nil, err
	}
	return s.state(&sess), nil, nil
}

// finishRound plays the dealer (only if a player hand survived) and
// settles every hand.
func (s *BlackjackService) finishRound(ctx context.Context, sess *domain.BlackjackSession) (*PlayResult, error) {
	dealer := sess.DealerHand
	anyAlive := false
	for _, hand := range sess.PlayerHands {
		if !game.IsBust(hand) {
			anyAlive = true
			break
		}
	}
	if anyAlive {
		dealer, sess.Cursor = game.DealerPlay(sess.Deck, sess.Cursor, dealer)
	}

	totalPayout := 0.0
	results := make([]string, len(sess.PlayerHands))
	anyWin := false
	for i, hand := range sess.PlayerHands {
		label, mult := game.SettleHand(hand, dealer)
		results[i] = label
		if mult > 0 {
			totalPayout += game.FloorAmount(sess.HandBets[i] * mult)
		}
		if label == game.BJResultWin {
			anyWin = true
		}
	}

	multiplier := 0.0
	if sess.BetAmount > 0 {
		multiplier = game.FloorMultiplier(totalPayout / sess.BetAmount)
	}

	outcome := domain.Outcome{
		Version: domain.OutcomeVersion,
		Kind:    game.SlugBlackjack,
		Blackjack: &domain.BlackjackOutcome{
			PlayerHands: sess.PlayerHands,
			DealerHand:  dealer,
			Results:     results,
		},
	}
	return s.settle(ctx, sess.UserID, game.SlugBlackjack, sess.BetAmount, totalPayout, multiplier, sess.Currency, anyWin, outcome, sess.Fairness)
}

// chargeExtra debits the additional stake a double or split needs, in its
// own check-and-decrement transaction.
func (s *BlackjackService) chargeExtra(ctx context.Context, userID int64, amount float64, currency string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, _, err := s.ledger.DebitTx(ctx, tx, userID, amount, currency, nil); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		logger.Error("extra stake commit failed",
			"user_id", userID, "amount", amount, "currency", currency, "error", err)
		unsettledFaults.Inc()
		s.ledger.RecordUnsettledFault(ctx, userID, game.SlugBlackjack, amount, currency,
			fmt.Sprintf("extra stake commit failed: %v", err))
		return err
	}
	wageredTotal.WithLabelValues(game.SlugBlackjack).Add(amount)
	return nil
}

func (s *BlackjackService) advanceHand(sess *domain.BlackjackSession) {
	for i := sess.ActiveHand + 1; i < len(sess.PlayerHands); i++ {
		if !sess.HandDone[i] {
			sess.ActiveHand = i
			return
		}
	}
}

func allDone(done []bool) bool {
	for _, d := range done {
		if !d {
			return false
		}
	}
	return true
}

func (s *BlackjackService) state(sess *domain.BlackjackSession) *BlackjackState {
	totals := make([]int, len(sess.PlayerHands))
	for i, hand := range sess.PlayerHands {
		totals[i], _ = game.HandTotal(hand)
	}
	active := sess.PlayerHands[sess.ActiveHand]

	return &BlackjackState{
		PlayerHands:  sess.PlayerHands,
		HandTotals:   totals,
		HandBets:     sess.HandBets,
		HandDone:     sess.HandDone,
		ActiveHand:   sess.ActiveHand,
		DealerUpcard: sess.DealerHand[0],
		CanDouble:    game.CanDouble(active),
		CanSplit:     game.CanSplit(active, len(sess.PlayerHands)),
		Fairness:     Fairness(sess.Fairness),
	}
}
