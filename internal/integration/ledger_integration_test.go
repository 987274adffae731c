package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"casino_engine/internal/domain"
	"casino_engine/internal/ledger"
	"casino_engine/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)
	applyMigrations(t, db)
	return db
}

func createFundedUser(t *testing.T, db *pgxpool.Pool, balance float64) int64 {
	t.Helper()
	ctx := context.Background()
	users := repository.NewUserRepository(db)

	u := &domain.User{Username: fmt.Sprintf("it-%d", time.Now().UnixNano())}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := users.EnsureWallet(ctx, u.ID, "USD", balance); err != nil {
		t.Fatalf("fund wallet: %v", err)
	}
	return u.ID
}

func TestGatewayDebitCredit(t *testing.T) {
	db := connectTestDB(t)
	gw := ledger.NewGateway(db)
	ctx := context.Background()

	userID := createFundedUser(t, db, 100)

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback(ctx)

	_, newBalance, err := gw.DebitTx(ctx, tx, userID, 30, "USD", nil)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if newBalance != 70 {
		t.Fatalf("balance after debit = %v, want 70", newBalance)
	}

	_, newBalance, err = gw.CreditTx(ctx, tx, userID, 58.8, "USD", domain.LedgerTypeWin, nil)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if newBalance != 128.8 {
		t.Fatalf("balance after credit = %v, want 128.8", newBalance)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	balance, err := gw.GetBalance(ctx, userID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 128.8 {
		t.Fatalf("committed balance = %v, want 128.8", balance)
	}
}

func TestGatewayDebitInsufficient(t *testing.T) {
	db := connectTestDB(t)
	gw := ledger.NewGateway(db)
	ctx := context.Background()

	userID := createFundedUser(t, db, 10)

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback(ctx)

	if _, _, err := gw.DebitTx(ctx, tx, userID, 10.00000001, "USD", nil); !errors.Is(err, ledger.ErrInsufficientBalance) {
		t.Fatalf("err = %v, want ErrInsufficientBalance", err)
	}
	if _, _, err := gw.DebitTx(ctx, tx, userID, 5, "EUR", nil); !errors.Is(err, ledger.ErrCurrencyNotFound) {
		t.Fatalf("err = %v, want ErrCurrencyNotFound", err)
	}
}

func TestSeedRepositoryLifecycle(t *testing.T) {
	db := connectTestDB(t)
	seeds := repository.NewSeedRepository(db)
	ctx := context.Background()

	userID := createFundedUser(t, db, 0)

	if _, err := seeds.GetActive(ctx, userID); !errors.Is(err, repository.ErrNoActiveSeed) {
		t.Fatalf("err = %v, want ErrNoActiveSeed", err)
	}

	pair := &domain.SeedPair{
		UserID:         userID,
		ServerSeed:     fmt.Sprintf("server-%d", userID),
		ServerSeedHash: fmt.Sprintf("hash-%d", userID),
		ClientSeed:     "client",
	}
	if err := seeds.Create(ctx, pair); err != nil {
		t.Fatalf("create seed: %v", err)
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		t.Fatal(err)
	}
	defer tx.Rollback(ctx)

	for want := uint64(1); want <= 3; want++ {
		nonce, err := seeds.IncrementNonceTx(ctx, tx, pair.ID)
		if err != nil {
			t.Fatalf("increment: %v", err)
		}
		if nonce != want {
			t.Fatalf("nonce = %d, want %d", nonce, want)
		}
	}

	if err := seeds.RevealTx(ctx, tx, pair.ID); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	// revealed pairs are immutable
	if _, err := seeds.IncrementNonceTx(ctx, tx, pair.ID); !errors.Is(err, repository.ErrNoActiveSeed) {
		t.Fatalf("increment after reveal: err = %v, want ErrNoActiveSeed", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatal(err)
	}

	revealed, err := seeds.GetRevealed(ctx, pair.ServerSeedHash)
	if err != nil {
		t.Fatalf("get revealed: %v", err)
	}
	if !revealed.IsRevealed || revealed.Nonce != 3 {
		t.Fatalf("revealed = %+v, want is_revealed with nonce 3", revealed)
	}
}
