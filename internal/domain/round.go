package domain

import "time"

// Round is an append-only record of one settled bet. Together with the
// revealed server seed, (server_seed_hash, client_seed, nonce, game_slug)
// lets any third party recompute the stored result bit for bit.
type Round struct {
	ID             string    `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	GameSlug       string    `db:"game_slug" json:"game_slug"`
	BetAmount      float64   `db:"bet_amount" json:"bet_amount"`
	Payout         float64   `db:"payout" json:"payout"`
	Multiplier     float64   `db:"multiplier" json:"multiplier"`
	Currency       string    `db:"currency" json:"currency"`
	Result         Outcome   `db:"result" json:"result"`
	ServerSeedHash string    `db:"server_seed_hash" json:"server_seed_hash"`
	ClientSeed     string    `db:"client_seed" json:"client_seed"`
	Nonce          uint64    `db:"nonce" json:"nonce"`
	IsWin          bool      `db:"is_win" json:"is_win"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// OutcomeVersion is bumped whenever an outcome payload changes shape.
const OutcomeVersion = 1

// Outcome is the per-game result payload stored on a round. Exactly one of
// the game fields is set, selected by Kind, so deserialization stays typed
// instead of going through a free-form map.
type Outcome struct {
	Version    int                `json:"v"`
	Kind       string             `json:"kind"`
	Dice       *DiceOutcome       `json:"dice,omitempty"`
	Limbo      *LimboOutcome      `json:"limbo,omitempty"`
	Plinko     *PlinkoOutcome     `json:"plinko,omitempty"`
	HiLo       *HiLoOutcome       `json:"hilo,omitempty"`
	Blackjack  *BlackjackOutcome  `json:"blackjack,omitempty"`
	VideoPoker *VideoPokerOutcome `json:"videopoker,omitempty"`
}

type DiceOutcome struct {
	Target    float64 `json:"target"`
	IsOver    bool    `json:"is_over"`
	Roll      float64 `json:"roll"`
	WinChance float64 `json:"win_chance"`
}

type LimboOutcome struct {
	Target     float64 `json:"target"`
	CrashPoint float64 `json:"crash_point"`
}

type PlinkoOutcome struct {
	Rows   int    `json:"rows"`
	Risk   string `json:"risk"`
	Path   []int  `json:"path"`
	Bucket int    `json:"bucket"`
}

type HiLoOutcome struct {
	Cards     []int    `json:"cards"`
	Guesses   []string `json:"guesses"`
	CashedOut bool     `json:"cashed_out"`
}

type BlackjackOutcome struct {
	PlayerHands [][]int  `json:"player_hands"`
	DealerHand  []int    `json:"dealer_hand"`
	Results     []string `json:"results"`
}

type VideoPokerOutcome struct {
	Dealt    []int  `json:"dealt"`
	Held     []bool `json:"held"`
	Final    []int  `json:"final"`
	HandRank string `json:"hand_rank"`
}
