package service

import (
	"context"
	"errors"
	"testing"

	"casino_engine/internal/game"
)

func TestPlayRejectsNonInstantSlugs(t *testing.T) {
	registry := game.NewRegistry(&game.Dice{HouseEdge: 0.02})
	svc := NewPlayService(nil, registry, nil, nil, nil, nil, GameLimits{MinBet: 0.01, MaxBet: 100})
	ctx := context.Background()

	// Multi-step games have their own endpoints.
	for _, slug := range []string{game.SlugHiLo, game.SlugBlackjack, game.SlugVideoPoker} {
		if _, err := svc.Play(ctx, 1, slug, 1, "USD", nil); !errors.Is(err, ErrNotInstantGame) {
			t.Errorf("Play(%q) err = %v, want ErrNotInstantGame", slug, err)
		}
	}

	if _, err := svc.Play(ctx, 1, "roulette", 1, "USD", nil); !errors.Is(err, ErrUnsupportedGame) {
		t.Errorf("Play(unknown) err = %v, want ErrUnsupportedGame", err)
	}
}
