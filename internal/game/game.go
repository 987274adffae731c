// Package game holds the pure resolution logic for every game variant.
// Nothing here touches the database, Redis or the clock; all randomness
// comes in through the fair-derivation seed triple so that outcomes replay
// bit-exactly.
package game

import (
	"encoding/json"
	"math"
	"sort"

	"casino_engine/internal/domain"
)

// Game slugs.
const (
	SlugDice       = "dice"
	SlugLimbo      = "limbo"
	SlugPlinko     = "plinko"
	SlugHiLo       = "hilo"
	SlugBlackjack  = "blackjack"
	SlugVideoPoker = "videopoker"
)

// IsStateful reports whether the slug names a multi-step game. Those play
// through their own action endpoints, never through single-call play.
func IsStateful(slug string) bool {
	switch slug {
	case SlugHiLo, SlugBlackjack, SlugVideoPoker:
		return true
	}
	return false
}

// Seed is the triple a single round derives from.
type Seed struct {
	ServerSeed string
	ClientSeed string
	Nonce      uint64
}

// Result is a resolved instant-game round before settlement. Payout is
// computed by the caller as floor(bet*Multiplier*1e8)/1e8 when Win, except
// plinko where every bucket pays its table multiplier.
type Result struct {
	Win        bool
	Multiplier float64
	Outcome    domain.Outcome
}

// Instant is a game that resolves in a single derivation, with no session
// state between requests.
type Instant interface {
	Slug() string
	// ValidateParams rejects malformed or out-of-range game parameters
	// before any funds move.
	ValidateParams(raw json.RawMessage) error
	Resolve(seed Seed, raw json.RawMessage) (*Result, error)
}

// Registry maps slugs to instant games. It is built once at process start
// and passed by value reference to everything that dispatches by slug.
type Registry struct {
	games map[string]Instant
}

func NewRegistry(games ...Instant) *Registry {
	r := &Registry{games: make(map[string]Instant, len(games))}
	for _, g := range games {
		r.games[g.Slug()] = g
	}
	return r
}

func (r *Registry) Get(slug string) (Instant, bool) {
	g, ok := r.games[slug]
	return g, ok
}

func (r *Registry) Slugs() []string {
	out := make([]string, 0, len(r.games))
	for slug := range r.games {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// FloorAmount floors a monetary amount to 8 decimal places. Every payout
// passes through this so replays agree with the recorded amounts.
func FloorAmount(v float64) float64 {
	return math.Floor(v*1e8) / 1e8
}

// FloorMultiplier floors a multiplier to 4 decimal places.
func FloorMultiplier(v float64) float64 {
	return math.Floor(v*1e4) / 1e4
}
