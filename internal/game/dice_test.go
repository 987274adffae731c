package game

import (
	"encoding/json"
	"testing"
)

const (
	testServerSeed = "fb30c5e2bbd8537b76c6df8e8e86533121cbeeae0bda9d306117147e656ad46e"
	testClientSeed = "customer-seed"
)

func testSeed(nonce uint64) Seed {
	return Seed{ServerSeed: testServerSeed, ClientSeed: testClientSeed, Nonce: nonce}
}

func TestDiceMultiplier(t *testing.T) {
	g := Dice{HouseEdge: 0.02}

	raw, _ := json.Marshal(DiceParams{Target: 50, IsOver: true})
	res, err := g.Resolve(testSeed(1), raw)
	if err != nil {
		t.Fatal(err)
	}
	if res.Outcome.Dice.WinChance != 50 {
		t.Fatalf("win chance = %v, want 50", res.Outcome.Dice.WinChance)
	}
	if res.Multiplier != 1.9600 {
		t.Fatalf("multiplier = %v, want 1.9600", res.Multiplier)
	}
}

func TestDiceWinLogic(t *testing.T) {
	g := Dice{HouseEdge: 0.02}

	// The same nonce produces the same roll, so over/under at the same
	// target must disagree unless the roll lands exactly on it.
	over, _ := json.Marshal(DiceParams{Target: 50, IsOver: true})
	under, _ := json.Marshal(DiceParams{Target: 50, IsOver: false})

	resOver, err := g.Resolve(testSeed(7), over)
	if err != nil {
		t.Fatal(err)
	}
	resUnder, err := g.Resolve(testSeed(7), under)
	if err != nil {
		t.Fatal(err)
	}

	roll := resOver.Outcome.Dice.Roll
	if roll != resUnder.Outcome.Dice.Roll {
		t.Fatalf("rolls diverge for one nonce: %v vs %v", roll, resUnder.Outcome.Dice.Roll)
	}
	if roll < 0 || roll > 99.99 {
		t.Fatalf("roll out of range: %v", roll)
	}
	if roll != 50 && resOver.Win == resUnder.Win {
		t.Fatalf("over and under both %v at roll %v", resOver.Win, roll)
	}
	if (roll > 50) != resOver.Win {
		t.Fatalf("over-win mismatch: roll=%v win=%v", roll, resOver.Win)
	}
}

func TestDiceValidateParams(t *testing.T) {
	g := Dice{HouseEdge: 0.02}
	cases := []struct {
		target  float64
		wantErr bool
	}{
		{1, false},
		{98, false},
		{50.55, false},
		{0.5, true},
		{98.01, true},
		{-3, true},
	}
	for _, tc := range cases {
		raw, _ := json.Marshal(DiceParams{Target: tc.target})
		err := g.ValidateParams(raw)
		if (err != nil) != tc.wantErr {
			t.Errorf("target=%v err=%v, wantErr=%v", tc.target, err, tc.wantErr)
		}
	}
}
