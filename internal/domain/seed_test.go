package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSeedPairPublicSerialization(t *testing.T) {
	pair := SeedPair{
		ID:             1,
		UserID:         7,
		ServerSeed:     "aabbccdd",
		ServerSeedHash: "hash",
		ClientSeed:     "client",
		Nonce:          42,
	}

	active, err := json.Marshal(pair.Public())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(active), "aabbccdd") {
		t.Fatalf("active pair leaked server seed: %s", active)
	}

	pair.IsRevealed = true
	revealed, err := json.Marshal(pair.Public())
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(revealed, &got); err != nil {
		t.Fatal(err)
	}
	if got["server_seed"] != "aabbccdd" {
		t.Fatalf("revealed pair must disclose server_seed, got %s", revealed)
	}
}
