package service

import (
	"encoding/json"
	"strings"
	"testing"

	"casino_engine/internal/domain"
)

func TestFeedEventFromRound(t *testing.T) {
	round := &domain.Round{
		ID:             "r-123",
		UserID:         7,
		GameSlug:       "dice",
		BetAmount:      2,
		Payout:         3.96,
		Multiplier:     1.98,
		Currency:       "USD",
		ServerSeedHash: "secret-hash",
		ClientSeed:     "secret-client",
		IsWin:          true,
	}

	ev := feedEventFromRound(round)
	if ev.Type != "round" || ev.RoundID != "r-123" {
		t.Fatalf("event = %+v, want type round with the round id", ev)
	}
	if ev.Game != "dice" || !ev.IsWin || ev.Payout != 3.96 {
		t.Fatalf("event = %+v, want round fields carried over", ev)
	}

	// The feed is public; seed material must never ride along.
	payload, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"secret-hash", "secret-client"} {
		if strings.Contains(string(payload), secret) {
			t.Fatalf("feed payload leaked %q: %s", secret, payload)
		}
	}
}
