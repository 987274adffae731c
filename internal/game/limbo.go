package game

import (
	"encoding/json"
	"errors"

	"casino_engine/internal/domain"
	"casino_engine/internal/fair"
)

const (
	LimboMinTarget = 1.01
	LimboMaxTarget = 1000000.0
)

var ErrLimboTarget = errors.New("limbo target must be between 1.01 and 1000000")

type LimboParams struct {
	Target float64 `json:"target"`
}

// Limbo wins when the derived crash point reaches the player's target; the
// payout multiplier is the target itself.
type Limbo struct {
	HouseEdge float64
}

func (Limbo) Slug() string { return SlugLimbo }

func (Limbo) ValidateParams(raw json.RawMessage) error {
	var p LimboParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if p.Target < LimboMinTarget || p.Target > LimboMaxTarget {
		return ErrLimboTarget
	}
	return nil
}

func (g Limbo) Resolve(seed Seed, raw json.RawMessage) (*Result, error) {
	var p LimboParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Target < LimboMinTarget || p.Target > LimboMaxTarget {
		return nil, ErrLimboTarget
	}

	crash := fair.CrashPoint(seed.ServerSeed, seed.ClientSeed, seed.Nonce, g.HouseEdge)
	win := crash >= p.Target

	mult := 0.0
	if win {
		mult = p.Target
	}

	return &Result{
		Win:        win,
		Multiplier: mult,
		Outcome: domain.Outcome{
			Version: domain.OutcomeVersion,
			Kind:    SlugLimbo,
			Limbo: &domain.LimboOutcome{
				Target:     p.Target,
				CrashPoint: crash,
			},
		},
	}, nil
}
