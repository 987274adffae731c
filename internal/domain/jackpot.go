package domain

import "time"

type JackpotTier string

const (
	JackpotMini  JackpotTier = "MINI"
	JackpotMajor JackpotTier = "MAJOR"
	JackpotGrand JackpotTier = "GRAND"
)

// JackpotPool is a shared progressive pool. Contributions only ever grow
// Amount; an award resets it to SeedAmount exactly.
type JackpotPool struct {
	Tier          JackpotTier `db:"tier" json:"tier"`
	Amount        float64     `db:"amount" json:"amount"`
	SeedAmount    float64     `db:"seed_amount" json:"seed_amount"`
	LastWonAt     *time.Time  `db:"last_won_at" json:"last_won_at,omitempty"`
	LastWonBy     *int64      `db:"last_won_by" json:"last_won_by,omitempty"`
	LastWonAmount *float64    `db:"last_won_amount" json:"last_won_amount,omitempty"`
}
