package repository

import (
	"context"
	"errors"

	"casino_engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPoolNotFound = errors.New("jackpot pool not found")

type JackpotRepository struct {
	db *pgxpool.Pool
}

func NewJackpotRepository(db *pgxpool.Pool) *JackpotRepository {
	return &JackpotRepository{db: db}
}

// ContributeTx atomically grows one tier's pool. Runs inside the round
// settlement transaction so a rolled-back stake never contributes.
func (r *JackpotRepository) ContributeTx(ctx context.Context, tx pgx.Tx, tier domain.JackpotTier, amount float64) error {
	ct, err := tx.Exec(ctx, `
		UPDATE jackpot_pools SET amount = amount + $2 WHERE tier = $1
	`, tier, amount)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrPoolNotFound
	}
	return nil
}

// GetAll returns every pool, largest tier first.
func (r *JackpotRepository) GetAll(ctx context.Context) ([]*domain.JackpotPool, error) {
	rows, err := r.db.Query(ctx, `
		SELECT tier, amount, seed_amount, last_won_at, last_won_by, last_won_amount
		FROM jackpot_pools
		ORDER BY seed_amount DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.JackpotPool
	for rows.Next() {
		var p domain.JackpotPool
		if err := rows.Scan(&p.Tier, &p.Amount, &p.SeedAmount, &p.LastWonAt, &p.LastWonBy, &p.LastWonAmount); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// LockForAwardTx locks one pool row and returns its current amounts. The
// caller settles the award under the same transaction.
func (r *JackpotRepository) LockForAwardTx(ctx context.Context, tx pgx.Tx, tier domain.JackpotTier) (*domain.JackpotPool, error) {
	var p domain.JackpotPool
	err := tx.QueryRow(ctx, `
		SELECT tier, amount, seed_amount, last_won_at, last_won_by, last_won_amount
		FROM jackpot_pools
		WHERE tier = $1
		FOR UPDATE
	`, tier).Scan(&p.Tier, &p.Amount, &p.SeedAmount, &p.LastWonAt, &p.LastWonBy, &p.LastWonAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ResetAfterAwardTx snaps the pool back to its seed amount and records the
// winner. Amount == seed_amount exactly after every award.
func (r *JackpotRepository) ResetAfterAwardTx(ctx context.Context, tx pgx.Tx, tier domain.JackpotTier, winnerID int64, wonAmount float64) error {
	_, err := tx.Exec(ctx, `
		UPDATE jackpot_pools
		SET amount = seed_amount, last_won_at = NOW(), last_won_by = $2, last_won_amount = $3
		WHERE tier = $1
	`, tier, winnerID, wonAmount)
	return err
}
