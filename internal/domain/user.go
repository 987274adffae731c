package domain

import "time"

// User carries only what the engine needs for eligibility checks; account
// lifecycle is owned elsewhere.
type User struct {
	ID                int64      `db:"id" json:"id"`
	Username          string     `db:"username" json:"username"`
	IsBanned          bool       `db:"is_banned" json:"is_banned"`
	SelfExcludedUntil *time.Time `db:"self_excluded_until" json:"self_excluded_until,omitempty"`
	CoolingOffUntil   *time.Time `db:"cooling_off_until" json:"cooling_off_until,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
}

// Wallet is one currency balance of a user.
type Wallet struct {
	UserID   int64   `db:"user_id" json:"user_id"`
	Currency string  `db:"currency" json:"currency"`
	Balance  float64 `db:"balance" json:"balance"`
}

// LedgerEntry records one balance mutation made by the engine.
type LedgerEntry struct {
	ID        string    `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Currency  string    `db:"currency" json:"currency"`
	Amount    float64   `db:"amount" json:"amount"`
	Type      string    `db:"type" json:"type"`
	RoundID   *string   `db:"round_id" json:"round_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Ledger entry types.
const (
	LedgerTypeBet        = "bet"
	LedgerTypeWin        = "win"
	LedgerTypeJackpotWin = "jackpot_win"
)
