// Package ledger implements the wallet gateway contract the game engine
// settles against. The debit is a serializable check-and-decrement; two
// concurrent bets can never both succeed past the available balance.
package ledger

import (
	"context"
	"errors"
	"time"

	"casino_engine/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInvalidAmount       = domain.NewEngineError("INVALID_AMOUNT", "amount must be positive")
	ErrInsufficientBalance = domain.NewEngineError("INSUFFICIENT_BALANCE", "insufficient balance")
	ErrCurrencyNotFound    = domain.NewEngineError("CURRENCY_NOT_FOUND", "no wallet for currency")
	ErrUserNotFound        = domain.NewEngineError("USER_NOT_FOUND", "user not found")
	ErrUserBanned          = domain.NewEngineError("USER_BANNED", "account is banned")
	ErrSelfExcluded        = domain.NewEngineError("SELF_EXCLUDED", "account is self-excluded")
	ErrCoolingOff          = domain.NewEngineError("COOLING_OFF", "account is in a cooling-off period")
)

type Gateway struct {
	db *pgxpool.Pool
}

func NewGateway(db *pgxpool.Pool) *Gateway {
	return &Gateway{db: db}
}

// ValidateBet runs the eligibility and wallet checks a stake must pass
// before any funds move. The balance itself is only checked by the debit;
// this keeps check-and-decrement as the single race-free gate.
func (g *Gateway) ValidateBet(ctx context.Context, userID int64, amount float64, currency string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if err := g.checkEligibility(ctx, userID); err != nil {
		return err
	}

	var exists bool
	err := g.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1 AND currency = $2)
	`, userID, currency).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCurrencyNotFound
	}
	return nil
}

func (g *Gateway) checkEligibility(ctx context.Context, userID int64) error {
	var u domain.User
	err := g.db.QueryRow(ctx, `
		SELECT id, is_banned, self_excluded_until, cooling_off_until
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.IsBanned, &u.SelfExcludedUntil, &u.CoolingOffUntil)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	now := time.Now()
	switch {
	case u.IsBanned:
		return ErrUserBanned
	case u.SelfExcludedUntil != nil && u.SelfExcludedUntil.After(now):
		return ErrSelfExcluded
	case u.CoolingOffUntil != nil && u.CoolingOffUntil.After(now):
		return ErrCoolingOff
	}
	return nil
}

// DebitTx charges a stake inside the settlement transaction. The UPDATE
// only matches when the balance covers the amount, so the check and the
// decrement are one statement.
func (g *Gateway) DebitTx(ctx context.Context, tx pgx.Tx, userID int64, amount float64, currency string, roundID *string) (ref string, newBalance float64, err error) {
	if amount <= 0 {
		return "", 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance - $1
		WHERE user_id = $2 AND currency = $3 AND balance >= $1
		RETURNING balance
	`, amount, userID, currency).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Could be a missing wallet or not enough funds, check which.
			var exists bool
			_ = tx.QueryRow(ctx, `
				SELECT EXISTS(SELECT 1 FROM wallets WHERE user_id = $1 AND currency = $2)
			`, userID, currency).Scan(&exists)
			if !exists {
				return "", 0, ErrCurrencyNotFound
			}
			return "", 0, ErrInsufficientBalance
		}
		return "", 0, err
	}

	ref = uuid.New().String()
	if err := g.recordEntry(ctx, tx, ref, userID, currency, -amount, domain.LedgerTypeBet, roundID); err != nil {
		return "", 0, err
	}
	return ref, newBalance, nil
}

// CreditTx pays out inside the settlement transaction.
func (g *Gateway) CreditTx(ctx context.Context, tx pgx.Tx, userID int64, amount float64, currency string, entryType string, roundID *string) (ref string, newBalance float64, err error) {
	if amount <= 0 {
		return "", 0, ErrInvalidAmount
	}

	err = tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $1
		WHERE user_id = $2 AND currency = $3
		RETURNING balance
	`, amount, userID, currency).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", 0, ErrCurrencyNotFound
		}
		return "", 0, err
	}

	ref = uuid.New().String()
	if err := g.recordEntry(ctx, tx, ref, userID, currency, amount, entryType, roundID); err != nil {
		return "", 0, err
	}
	return ref, newBalance, nil
}

func (g *Gateway) recordEntry(ctx context.Context, tx pgx.Tx, ref string, userID int64, currency string, amount float64, entryType string, roundID *string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO ledger_entries (id, user_id, currency, amount, type, round_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ref, userID, currency, amount, entryType, roundID)
	return err
}

// GetBalance returns one wallet balance.
func (g *Gateway) GetBalance(ctx context.Context, userID int64, currency string) (float64, error) {
	var balance float64
	err := g.db.QueryRow(ctx, `
		SELECT balance FROM wallets WHERE user_id = $1 AND currency = $2
	`, userID, currency).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrCurrencyNotFound
		}
		return 0, err
	}
	return balance, nil
}

// RecordUnsettledFault persists a reconciliation-worthy fault: a stake may
// have been charged without its round settling (ambiguous commit). Best
// effort, outside any transaction.
func (g *Gateway) RecordUnsettledFault(ctx context.Context, userID int64, gameSlug string, amount float64, currency, detail string) {
	_, _ = g.db.Exec(ctx, `
		INSERT INTO unsettled_faults (user_id, game_slug, amount, currency, detail)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, gameSlug, amount, currency, detail)
}
