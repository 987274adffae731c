package service

import "testing"

func TestJackpotRateFor(t *testing.T) {
	svc := &JackpotService{
		rate:  0.001,
		rates: map[string]float64{"dice": 0.002, "plinko": 0},
	}

	tests := []struct {
		slug string
		want float64
	}{
		{"dice", 0.002},
		{"plinko", 0}, // explicit zero opts the game out entirely
		{"limbo", 0.001},
		{"blackjack", 0.001},
	}
	for _, tt := range tests {
		if got := svc.rateFor(tt.slug); got != tt.want {
			t.Errorf("rateFor(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestTierSplitIsComplete(t *testing.T) {
	total := 0.0
	for _, share := range tierSplit {
		total += share
	}
	if total != 1.0 {
		t.Fatalf("tier shares sum to %v, want 1.0", total)
	}
}
