package game

import (
	"encoding/json"
	"errors"

	"casino_engine/internal/domain"
	"casino_engine/internal/fair"
)

var (
	ErrPlinkoRows = errors.New("plinko rows must be 8, 12 or 16")
	ErrPlinkoRisk = errors.New("plinko risk must be low, medium or high")
)

type PlinkoParams struct {
	Rows int    `json:"rows"`
	Risk string `json:"risk"`
}

// Plinko drops a ball through rows of pegs; each row's derived float picks
// left or right and the landing bucket indexes a static payout curve.
type Plinko struct{}

func (Plinko) Slug() string { return SlugPlinko }

func (Plinko) ValidateParams(raw json.RawMessage) error {
	var p PlinkoParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	return validatePlinko(p)
}

func validatePlinko(p PlinkoParams) error {
	if p.Rows != 8 && p.Rows != 12 && p.Rows != 16 {
		return ErrPlinkoRows
	}
	if _, ok := plinkoTables[p.Risk]; !ok {
		return ErrPlinkoRisk
	}
	return nil
}

func (Plinko) Resolve(seed Seed, raw json.RawMessage) (*Result, error) {
	var p PlinkoParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	if err := validatePlinko(p); err != nil {
		return nil, err
	}

	path := fair.PlinkoPath(seed.ServerSeed, seed.ClientSeed, seed.Nonce, p.Rows)
	bucket := 0
	for _, step := range path {
		bucket += step
	}

	mult := plinkoTables[p.Risk][p.Rows][bucket]

	return &Result{
		// Every bucket pays floor(bet*mult); a round only counts as a win
		// when the curve returns at least the stake.
		Win:        mult >= 1.0,
		Multiplier: mult,
		Outcome: domain.Outcome{
			Version: domain.OutcomeVersion,
			Kind:    SlugPlinko,
			Plinko: &domain.PlinkoOutcome{
				Rows:   p.Rows,
				Risk:   p.Risk,
				Path:   path,
				Bucket: bucket,
			},
		},
	}, nil
}
