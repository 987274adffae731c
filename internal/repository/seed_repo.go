package repository

import (
	"context"
	"errors"

	"casino_engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoActiveSeed = errors.New("no active seed pair")

type SeedRepository struct {
	db *pgxpool.Pool
}

func NewSeedRepository(db *pgxpool.Pool) *SeedRepository {
	return &SeedRepository{db: db}
}

const seedColumns = `id, user_id, server_seed, server_seed_hash, client_seed, nonce, is_revealed, revealed_at, created_at`

func scanSeed(row pgx.Row) (*domain.SeedPair, error) {
	var s domain.SeedPair
	err := row.Scan(
		&s.ID, &s.UserID, &s.ServerSeed, &s.ServerSeedHash, &s.ClientSeed,
		&s.Nonce, &s.IsRevealed, &s.RevealedAt, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSeed
		}
		return nil, err
	}
	return &s, nil
}

// GetActive returns the user's single unrevealed seed pair.
func (r *SeedRepository) GetActive(ctx context.Context, userID int64) (*domain.SeedPair, error) {
	return scanSeed(r.db.QueryRow(ctx, `
		SELECT `+seedColumns+`
		FROM seed_pairs
		WHERE user_id = $1 AND is_revealed = FALSE
	`, userID))
}

// GetActiveTx is GetActive inside an existing transaction, locking the row
// so the nonce cannot advance concurrently.
func (r *SeedRepository) GetActiveTx(ctx context.Context, tx pgx.Tx, userID int64) (*domain.SeedPair, error) {
	return scanSeed(tx.QueryRow(ctx, `
		SELECT `+seedColumns+`
		FROM seed_pairs
		WHERE user_id = $1 AND is_revealed = FALSE
		FOR UPDATE
	`, userID))
}

// Create inserts a fresh active pair with nonce 0. The partial unique index
// on (user_id) WHERE NOT is_revealed enforces at most one active pair.
func (r *SeedRepository) Create(ctx context.Context, s *domain.SeedPair) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO seed_pairs (user_id, server_seed, server_seed_hash, client_seed, nonce, is_revealed)
		VALUES ($1, $2, $3, $4, 0, FALSE)
		RETURNING id, created_at
	`, s.UserID, s.ServerSeed, s.ServerSeedHash, s.ClientSeed).Scan(&s.ID, &s.CreatedAt)
}

// CreateTx inserts a fresh active pair within an existing transaction.
func (r *SeedRepository) CreateTx(ctx context.Context, tx pgx.Tx, s *domain.SeedPair) error {
	return tx.QueryRow(ctx, `
		INSERT INTO seed_pairs (user_id, server_seed, server_seed_hash, client_seed, nonce, is_revealed)
		VALUES ($1, $2, $3, $4, 0, FALSE)
		RETURNING id, created_at
	`, s.UserID, s.ServerSeed, s.ServerSeedHash, s.ClientSeed).Scan(&s.ID, &s.CreatedAt)
}

// RevealTx marks the active pair revealed. Revealed pairs are immutable
// from then on.
func (r *SeedRepository) RevealTx(ctx context.Context, tx pgx.Tx, seedID int64) error {
	ct, err := tx.Exec(ctx, `
		UPDATE seed_pairs SET is_revealed = TRUE, revealed_at = NOW()
		WHERE id = $1 AND is_revealed = FALSE
	`, seedID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNoActiveSeed
	}
	return nil
}

// SetClientSeed mutates the client seed of the active pair only.
func (r *SeedRepository) SetClientSeed(ctx context.Context, userID int64, clientSeed string) (*domain.SeedPair, error) {
	return scanSeed(r.db.QueryRow(ctx, `
		UPDATE seed_pairs SET client_seed = $2
		WHERE user_id = $1 AND is_revealed = FALSE
		RETURNING `+seedColumns+`
	`, userID, clientSeed))
}

// IncrementNonceTx advances the active pair's nonce by exactly one and
// returns the new value. Called once per completed round inside the round's
// transaction.
func (r *SeedRepository) IncrementNonceTx(ctx context.Context, tx pgx.Tx, seedID int64) (uint64, error) {
	var nonce uint64
	err := tx.QueryRow(ctx, `
		UPDATE seed_pairs SET nonce = nonce + 1
		WHERE id = $1 AND is_revealed = FALSE
		RETURNING nonce
	`, seedID).Scan(&nonce)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNoActiveSeed
		}
		return 0, err
	}
	return nonce, nil
}

// GetRevealed returns a revealed pair by hash for verification lookups.
func (r *SeedRepository) GetRevealed(ctx context.Context, serverSeedHash string) (*domain.SeedPair, error) {
	return scanSeed(r.db.QueryRow(ctx, `
		SELECT `+seedColumns+`
		FROM seed_pairs
		WHERE server_seed_hash = $1 AND is_revealed = TRUE
	`, serverSeedHash))
}
