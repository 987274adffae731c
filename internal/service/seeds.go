package service

import (
	"context"
	"errors"

	"casino_engine/internal/domain"
	"casino_engine/internal/fair"
	"casino_engine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedService owns the active/revealed seed-pair lifecycle per user.
type SeedService struct {
	db    *pgxpool.Pool
	seeds *repository.SeedRepository
	inUse []func(context.Context, int64) (bool, error)
}

func NewSeedService(db *pgxpool.Pool) *SeedService {
	return &SeedService{db: db, seeds: repository.NewSeedRepository(db)}
}

// BlockRotationWhen registers a liveness check consulted before every
// rotation. While any check reports true the active seed still backs live
// state (an open stateful session, a running autobet loop) and rotating
// would hand the player the server seed behind an undecided deck.
func (s *SeedService) BlockRotationWhen(fn func(context.Context, int64) (bool, error)) {
	s.inUse = append(s.inUse, fn)
}

// GetOrCreate returns the user's active seed pair, lazily creating one
// with nonce 0 on first play. The hash is thereby published before any
// round can run under the seed.
func (s *SeedService) GetOrCreate(ctx context.Context, userID int64) (*domain.SeedPair, error) {
	pair, err := s.seeds.GetActive(ctx, userID)
	if err == nil {
		return pair, nil
	}
	if !errors.Is(err, repository.ErrNoActiveSeed) {
		return nil, err
	}

	serverSeed, hash, err := fair.NewSeedPair()
	if err != nil {
		return nil, err
	}
	clientSeed, err := fair.NewClientSeed()
	if err != nil {
		return nil, err
	}

	pair = &domain.SeedPair{
		UserID:         userID,
		ServerSeed:     serverSeed,
		ServerSeedHash: hash,
		ClientSeed:     clientSeed,
	}
	if err := s.seeds.Create(ctx, pair); err != nil {
		// Lost a create race: the partial unique index rejected the second
		// insert, so the winner's pair is the active one.
		if existing, getErr := s.seeds.GetActive(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return pair, nil
}

// RotateResult carries the retired pair (server seed now public) and its
// successor.
type RotateResult struct {
	Previous domain.SeedPair `json:"previous"`
	Current  domain.SeedPair `json:"current"`
}

// Rotate reveals the active pair and atomically creates its successor,
// preserving the client seed unless a new one is supplied.
func (s *SeedService) Rotate(ctx context.Context, userID int64, newClientSeed string) (*RotateResult, error) {
	if newClientSeed != "" && len(newClientSeed) > 64 {
		return nil, ErrBadClientSeed
	}
	for _, fn := range s.inUse {
		busy, err := fn(ctx, userID)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, ErrSeedInUse
		}
	}

	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	locked, err := s.seeds.GetActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.seeds.RevealTx(ctx, tx, locked.ID); err != nil {
		return nil, err
	}

	serverSeed, hash, err := fair.NewSeedPair()
	if err != nil {
		return nil, err
	}
	clientSeed := locked.ClientSeed
	if newClientSeed != "" {
		clientSeed = newClientSeed
	}

	next := &domain.SeedPair{
		UserID:         userID,
		ServerSeed:     serverSeed,
		ServerSeedHash: hash,
		ClientSeed:     clientSeed,
	}
	if err := s.seeds.CreateTx(ctx, tx, next); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	revealed := *locked
	revealed.IsRevealed = true

	return &RotateResult{Previous: revealed, Current: next.Public()}, nil
}

// SetClientSeed mutates only the active, unrevealed pair.
func (s *SeedService) SetClientSeed(ctx context.Context, userID int64, clientSeed string) (*domain.SeedPair, error) {
	if clientSeed == "" || len(clientSeed) > 64 {
		return nil, ErrBadClientSeed
	}
	if _, err := s.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	pair, err := s.seeds.SetClientSeed(ctx, userID, clientSeed)
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// GetRevealed looks up a retired pair by its public hash.
func (s *SeedService) GetRevealed(ctx context.Context, serverSeedHash string) (*domain.SeedPair, error) {
	return s.seeds.GetRevealed(ctx, serverSeedHash)
}
