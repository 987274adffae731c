package domain

import "time"

// SessionVersion is bumped whenever a session payload changes shape.
const SessionVersion = 1

// FairnessRef is the seed triple a stateful session was dealt under. The
// whole draw set (shuffled deck) derives from this one triple, so the nonce
// advances once at deal time, not per action.
type FairnessRef struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
}

// HiLoSession is the in-progress state of a hi-lo chain.
type HiLoSession struct {
	Version    int         `json:"v"`
	UserID     int64       `json:"user_id"`
	BetAmount  float64     `json:"bet_amount"`
	Currency   string      `json:"currency"`
	Deck       []int       `json:"deck"`
	Cursor     int         `json:"cursor"`
	Guesses    []string    `json:"guesses"`
	Multiplier float64     `json:"multiplier"`
	Fairness   FairnessRef `json:"fairness"`
	StartedAt  time.Time   `json:"started_at"`
}

// BlackjackSession is the in-progress state of a blackjack round. Split
// hands share the deck cursor; HandBets carries the per-hand stake so that
// doubles settle correctly.
type BlackjackSession struct {
	Version     int         `json:"v"`
	UserID      int64       `json:"user_id"`
	BetAmount   float64     `json:"bet_amount"`
	Currency    string      `json:"currency"`
	Deck        []int       `json:"deck"`
	Cursor      int         `json:"cursor"`
	PlayerHands [][]int     `json:"player_hands"`
	HandBets    []float64   `json:"hand_bets"`
	HandDone    []bool      `json:"hand_done"`
	ActiveHand  int         `json:"active_hand"`
	DealerHand  []int       `json:"dealer_hand"`
	Fairness    FairnessRef `json:"fairness"`
	StartedAt   time.Time   `json:"started_at"`
}

// VideoPokerSession is the dealt-awaiting-draw state of a video poker hand.
type VideoPokerSession struct {
	Version   int         `json:"v"`
	UserID    int64       `json:"user_id"`
	BetAmount float64     `json:"bet_amount"`
	Currency  string      `json:"currency"`
	Deck      []int       `json:"deck"`
	Cursor    int         `json:"cursor"`
	Hand      []int       `json:"hand"`
	Fairness  FairnessRef `json:"fairness"`
	StartedAt time.Time   `json:"started_at"`
}

// AutoBet session statuses.
const (
	AutoBetStatusRunning   = "running"
	AutoBetStatusStopped   = "stopped"
	AutoBetStatusCompleted = "completed"
	AutoBetStatusError     = "error"
)

// AutoBet win/loss actions.
const (
	AutoBetActionReset      = "reset"
	AutoBetActionIncrease   = "increase"
	AutoBetActionMartingale = "martingale"
)

// AutoBetConfig drives a sequential series of instant-game bets.
type AutoBetConfig struct {
	BetAmount     float64  `json:"bet_amount"`
	Currency      string   `json:"currency"`
	NumberOfBets  int      `json:"number_of_bets"`
	StopOnProfit  *float64 `json:"stop_on_profit,omitempty"`
	StopOnLoss    *float64 `json:"stop_on_loss,omitempty"`
	OnWinAction   string   `json:"on_win_action"`
	OnWinPercent  float64  `json:"on_win_percent,omitempty"`
	OnLossAction  string   `json:"on_loss_action"`
	OnLossPercent float64  `json:"on_loss_percent,omitempty"`
	DelayMs       int      `json:"delay_ms"`
}

// AutoBetSession is the Redis-persisted state of one autobet loop. The loop
// itself runs in-process; if the process dies mid-loop the session stays
// marked running until its key TTL fires (see UpdatedAt heartbeat).
type AutoBetSession struct {
	ID            string        `json:"id"`
	UserID        int64         `json:"user_id"`
	GameSlug      string        `json:"game_slug"`
	Config        AutoBetConfig `json:"config"`
	GameParams    []byte        `json:"game_params"`
	CurrentBet    float64       `json:"current_bet"`
	BetsCompleted int           `json:"bets_completed"`
	TotalProfit   float64       `json:"total_profit"`
	TotalWagered  float64       `json:"total_wagered"`
	Wins          int           `json:"wins"`
	Losses        int           `json:"losses"`
	Status        string        `json:"status"`
	Error         string        `json:"error,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
