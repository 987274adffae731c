package game

import (
	"encoding/json"
	"errors"

	"casino_engine/internal/domain"
	"casino_engine/internal/fair"
)

const (
	DiceMinTarget = 1.0
	DiceMaxTarget = 98.0
)

var ErrDiceTarget = errors.New("dice target must be between 1 and 98")

// DiceParams is the player's call: roll over or under the target.
type DiceParams struct {
	Target float64 `json:"target"`
	IsOver bool    `json:"is_over"`
}

// Dice resolves a two-decimal roll in [0.00, 99.99] against the target.
type Dice struct {
	HouseEdge float64
}

func (Dice) Slug() string { return SlugDice }

func (Dice) ValidateParams(raw json.RawMessage) error {
	var p DiceParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	if p.Target < DiceMinTarget || p.Target > DiceMaxTarget {
		return ErrDiceTarget
	}
	return nil
}

func (g Dice) Resolve(seed Seed, raw json.RawMessage) (*Result, error) {
	var p DiceParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if p.Target < DiceMinTarget || p.Target > DiceMaxTarget {
		return nil, ErrDiceTarget
	}

	roll := fair.DiceRoll(seed.ServerSeed, seed.ClientSeed, seed.Nonce)

	winChance := p.Target
	if p.IsOver {
		winChance = 100 - p.Target
	}

	win := roll < p.Target
	if p.IsOver {
		win = roll > p.Target
	}

	mult := FloorMultiplier((100 - g.HouseEdge*100) / winChance)

	return &Result{
		Win:        win,
		Multiplier: mult,
		Outcome: domain.Outcome{
			Version: domain.OutcomeVersion,
			Kind:    SlugDice,
			Dice: &domain.DiceOutcome{
				Target:    p.Target,
				IsOver:    p.IsOver,
				Roll:      roll,
				WinChance: winChance,
			},
		},
	}, nil
}
