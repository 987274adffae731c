package repository

import (
	"context"
	"errors"

	"casino_engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO users (username) VALUES ($1)
		RETURNING id, created_at
	`, u.Username).Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `
		SELECT id, username, is_banned, self_excluded_until, cooling_off_until, created_at
		FROM users WHERE id = $1
	`, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(r.db.QueryRow(ctx, `
		SELECT id, username, is_banned, self_excluded_until, cooling_off_until, created_at
		FROM users WHERE username = $1
	`, username))
}

// EnsureWallet creates a zero-balance wallet if none exists and tops it up
// by the given amount.
func (r *UserRepository) EnsureWallet(ctx context.Context, userID int64, currency string, amount float64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO wallets (user_id, currency, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, currency) DO UPDATE SET balance = wallets.balance + $3
	`, userID, currency, amount)
	return err
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.IsBanned, &u.SelfExcludedUntil, &u.CoolingOffUntil, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
