package service

import (
	"testing"
	"time"

	"casino_engine/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestNextBet(t *testing.T) {
	base := domain.AutoBetConfig{
		BetAmount:    1.0,
		OnWinAction:  domain.AutoBetActionReset,
		OnLossAction: domain.AutoBetActionReset,
	}

	tests := []struct {
		name    string
		mutate  func(*domain.AutoBetConfig)
		current float64
		won     bool
		want    float64
	}{
		{"reset on win", nil, 4.0, true, 1.0},
		{"reset on loss", nil, 4.0, false, 1.0},
		{
			"increase on win",
			func(c *domain.AutoBetConfig) { c.OnWinAction = domain.AutoBetActionIncrease; c.OnWinPercent = 50 },
			2.0, true, 3.0,
		},
		{
			"increase on loss",
			func(c *domain.AutoBetConfig) { c.OnLossAction = domain.AutoBetActionIncrease; c.OnLossPercent = 100 },
			2.0, false, 4.0,
		},
		{
			"martingale doubles on loss",
			func(c *domain.AutoBetConfig) { c.OnLossAction = domain.AutoBetActionMartingale },
			2.0, false, 4.0,
		},
		{
			"martingale chain resets on win",
			func(c *domain.AutoBetConfig) { c.OnLossAction = domain.AutoBetActionMartingale },
			8.0, true, 1.0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			if got := nextBet(cfg, tt.current, tt.won); got != tt.want {
				t.Errorf("nextBet(current=%v, won=%v) = %v, want %v", tt.current, tt.won, got, tt.want)
			}
		})
	}
}

func TestTerminalStatus(t *testing.T) {
	mk := func(completed int, profit float64, cfg domain.AutoBetConfig) *domain.AutoBetSession {
		cfg.BetAmount = 1
		if cfg.NumberOfBets == 0 {
			cfg.NumberOfBets = 5
		}
		return &domain.AutoBetSession{
			Config:        cfg,
			BetsCompleted: completed,
			TotalProfit:   profit,
		}
	}

	tests := []struct {
		name string
		sess *domain.AutoBetSession
		want string
	}{
		{"keeps going", mk(3, 0, domain.AutoBetConfig{}), ""},
		{"exhausted after configured count", mk(5, 0, domain.AutoBetConfig{}), domain.AutoBetStatusCompleted},
		{"stop on profit reached", mk(2, 10, domain.AutoBetConfig{StopOnProfit: fptr(10)}), domain.AutoBetStatusStopped},
		{"profit below threshold", mk(2, 9.99, domain.AutoBetConfig{StopOnProfit: fptr(10)}), ""},
		{"stop on loss reached", mk(2, -5, domain.AutoBetConfig{StopOnLoss: fptr(5)}), domain.AutoBetStatusStopped},
		{"loss below threshold", mk(2, -4.99, domain.AutoBetConfig{StopOnLoss: fptr(5)}), ""},
		{"exhaustion wins over stop checks", mk(5, 10, domain.AutoBetConfig{StopOnProfit: fptr(10)}), domain.AutoBetStatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := terminalStatus(tt.sess); got != tt.want {
				t.Errorf("terminalStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateAutoBetConfig(t *testing.T) {
	valid := domain.AutoBetConfig{
		BetAmount:    1,
		Currency:     "USD",
		NumberOfBets: 5,
		OnWinAction:  domain.AutoBetActionReset,
		OnLossAction: domain.AutoBetActionMartingale,
	}
	if err := validateAutoBetConfig(valid); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*domain.AutoBetConfig)
	}{
		{"zero bet", func(c *domain.AutoBetConfig) { c.BetAmount = 0 }},
		{"zero bets", func(c *domain.AutoBetConfig) { c.NumberOfBets = 0 }},
		{"too many bets", func(c *domain.AutoBetConfig) { c.NumberOfBets = maxAutoBetRuns + 1 }},
		{"unknown win action", func(c *domain.AutoBetConfig) { c.OnWinAction = "triple" }},
		{"martingale on win", func(c *domain.AutoBetConfig) { c.OnWinAction = domain.AutoBetActionMartingale }},
		{"unknown loss action", func(c *domain.AutoBetConfig) { c.OnLossAction = "" }},
		{"increase without percent", func(c *domain.AutoBetConfig) { c.OnWinAction = domain.AutoBetActionIncrease }},
		{"non-positive stop on profit", func(c *domain.AutoBetConfig) { c.StopOnProfit = fptr(0) }},
		{"non-positive stop on loss", func(c *domain.AutoBetConfig) { c.StopOnLoss = fptr(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := validateAutoBetConfig(cfg); err == nil {
				t.Error("expected config rejection, got nil")
			}
		})
	}
}

func TestClampDelay(t *testing.T) {
	tests := []struct {
		in, want time.Duration
	}{
		{0, minDelay},
		{50 * time.Millisecond, minDelay},
		{time.Second, time.Second},
		{time.Minute, maxDelay},
	}
	for _, tt := range tests {
		if got := clampDelay(tt.in); got != tt.want {
			t.Errorf("clampDelay(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
