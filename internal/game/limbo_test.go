package game

import (
	"encoding/json"
	"testing"

	"casino_engine/internal/fair"
)

func TestLimboResolve(t *testing.T) {
	g := Limbo{HouseEdge: 0.02}
	seed := testSeed(7)
	crash := fair.CrashPoint(testServerSeed, testClientSeed, 7, 0.02)

	raw, _ := json.Marshal(LimboParams{Target: 1.5})
	res, err := g.Resolve(seed, raw)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Limbo.CrashPoint != crash {
		t.Fatalf("crash point = %v, want %v", res.Outcome.Limbo.CrashPoint, crash)
	}
	if res.Win != (crash >= 1.5) {
		t.Fatalf("win = %v with crash %v and target 1.5", res.Win, crash)
	}
	if res.Win && res.Multiplier != 1.5 {
		t.Fatalf("winning multiplier = %v, want target 1.5", res.Multiplier)
	}
	if !res.Win && res.Multiplier != 0 {
		t.Fatalf("losing multiplier = %v, want 0", res.Multiplier)
	}
}

func TestLimboCrashAlwaysAtLeastOne(t *testing.T) {
	for nonce := uint64(0); nonce < 200; nonce++ {
		crash := fair.CrashPoint(testServerSeed, testClientSeed, nonce, 0.02)
		if crash < 1.0 {
			t.Fatalf("nonce %d: crash point %v below 1.00", nonce, crash)
		}
	}
}

func TestLimboValidateParams(t *testing.T) {
	g := Limbo{HouseEdge: 0.02}

	tests := []struct {
		name   string
		target float64
		ok     bool
	}{
		{"min target", 1.01, true},
		{"max target", 1000000, true},
		{"below min", 1.0, false},
		{"above max", 1000001, false},
		{"zero", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, _ := json.Marshal(LimboParams{Target: tt.target})
			err := g.ValidateParams(raw)
			if tt.ok && err != nil {
				t.Errorf("target %v rejected: %v", tt.target, err)
			}
			if !tt.ok && err == nil {
				t.Errorf("target %v accepted", tt.target)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(
		&Dice{HouseEdge: 0.02},
		&Limbo{HouseEdge: 0.02},
		&Plinko{},
	)

	if _, ok := r.Get(SlugDice); !ok {
		t.Fatal("dice missing from registry")
	}
	if _, ok := r.Get("roulette"); ok {
		t.Fatal("unknown slug resolved")
	}

	want := []string{SlugDice, SlugLimbo, SlugPlinko}
	got := r.Slugs()
	if len(got) != len(want) {
		t.Fatalf("slugs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slugs = %v, want %v (sorted)", got, want)
		}
	}
}

func TestFloorHelpers(t *testing.T) {
	if got := FloorAmount(0.123456789); got != 0.12345678 {
		t.Errorf("FloorAmount = %v, want 0.12345678", got)
	}
	if got := FloorMultiplier(1.96009); got != 1.9600 {
		t.Errorf("FloorMultiplier = %v, want 1.9600", got)
	}
}
