package service

import (
	"context"
	"errors"
	"testing"
)

func TestRotateBlockedWhileSeedInUse(t *testing.T) {
	svc := NewSeedService(nil)
	calls := 0
	svc.BlockRotationWhen(func(ctx context.Context, userID int64) (bool, error) {
		calls++
		return true, nil
	})

	// The refusal must come before any database work, so a nil pool is
	// never touched.
	if _, err := svc.Rotate(context.Background(), 7, ""); !errors.Is(err, ErrSeedInUse) {
		t.Fatalf("err = %v, want ErrSeedInUse", err)
	}
	if calls != 1 {
		t.Fatalf("liveness check ran %d times, want 1", calls)
	}
}

func TestRotateBlockerErrorPropagates(t *testing.T) {
	svc := NewSeedService(nil)
	boom := errors.New("redis down")
	svc.BlockRotationWhen(func(ctx context.Context, userID int64) (bool, error) {
		return false, boom
	})

	if _, err := svc.Rotate(context.Background(), 7, ""); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want the check's error", err)
	}
}
