package repository

import (
	"context"
	"encoding/json"

	"casino_engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoundRepository struct {
	db *pgxpool.Pool
}

func NewRoundRepository(db *pgxpool.Pool) *RoundRepository {
	return &RoundRepository{db: db}
}

// CreateTx appends a round record within the settlement transaction.
// Rounds are immutable once written.
func (r *RoundRepository) CreateTx(ctx context.Context, tx pgx.Tx, round *domain.Round) error {
	resultJSON, err := json.Marshal(round.Result)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO rounds
			(id, user_id, game_slug, bet_amount, payout, multiplier, currency,
			 result, server_seed_hash, client_seed, nonce, is_win)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`,
		round.ID, round.UserID, round.GameSlug, round.BetAmount, round.Payout,
		round.Multiplier, round.Currency, resultJSON, round.ServerSeedHash,
		round.ClientSeed, round.Nonce, round.IsWin,
	).Scan(&round.CreatedAt)
}

// GetByID returns one round.
func (r *RoundRepository) GetByID(ctx context.Context, id string) (*domain.Round, error) {
	rows, err := r.db.Query(ctx, roundSelect+` WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rounds, err := scanRounds(rows)
	if err != nil {
		return nil, err
	}
	if len(rounds) == 0 {
		return nil, pgx.ErrNoRows
	}
	return rounds[0], nil
}

// ListByUser returns a user's most recent rounds.
func (r *RoundRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Round, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := r.db.Query(ctx, roundSelect+`
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRounds(rows)
}

// ListBySeedHash returns all rounds played under one seed commitment, the
// unit a verifier replays after a reveal.
func (r *RoundRepository) ListBySeedHash(ctx context.Context, serverSeedHash string) ([]*domain.Round, error) {
	rows, err := r.db.Query(ctx, roundSelect+`
		WHERE server_seed_hash = $1
		ORDER BY nonce ASC
	`, serverSeedHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRounds(rows)
}

const roundSelect = `
	SELECT id, user_id, game_slug, bet_amount, payout, multiplier, currency,
	       result, server_seed_hash, client_seed, nonce, is_win, created_at
	FROM rounds`

func scanRounds(rows pgx.Rows) ([]*domain.Round, error) {
	var out []*domain.Round
	for rows.Next() {
		var round domain.Round
		var resultJSON []byte
		if err := rows.Scan(
			&round.ID, &round.UserID, &round.GameSlug, &round.BetAmount,
			&round.Payout, &round.Multiplier, &round.Currency, &resultJSON,
			&round.ServerSeedHash, &round.ClientSeed, &round.Nonce,
			&round.IsWin, &round.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(resultJSON) > 0 {
			if err := json.Unmarshal(resultJSON, &round.Result); err != nil {
				return nil, err
			}
		}
		out = append(out, &round)
	}
	return out, rows.Err()
}
