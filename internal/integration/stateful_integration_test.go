package integration

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"casino_engine/internal/domain"
	"casino_engine/internal/game"
	"casino_engine/internal/ledger"
	"casino_engine/internal/service"
	"casino_engine/internal/session"
	"casino_engine/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func connectTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

type gameStack struct {
	gw      *ledger.Gateway
	store   *session.Store
	seeds   *service.SeedService
	jackpot *service.JackpotService
	feed    *service.FeedService
	limits  service.GameLimits
	hilo    *service.HiLoService
}

func newGameStack(t *testing.T, db *pgxpool.Pool, rdb *redis.Client) *gameStack {
	t.Helper()
	gw := ledger.NewGateway(db)
	store := session.NewStore(rdb, time.Minute)
	feed := service.NewFeedService(rdb, ws.NewHub())
	jackpot := service.NewJackpotService(db, gw, feed, 0.001, nil)
	seeds := service.NewSeedService(db)
	limits := service.GameLimits{MinBet: 0.00000001, MaxBet: 100000}
	return &gameStack{
		gw:      gw,
		store:   store,
		seeds:   seeds,
		jackpot: jackpot,
		feed:    feed,
		limits:  limits,
		hilo:    service.NewHiLoService(db, gw, seeds, store, jackpot, feed, limits, 0.01),
	}
}

func countRounds(t *testing.T, db *pgxpool.Pool, userID int64) int {
	t.Helper()
	var n int
	err := db.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM rounds WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

func TestHiLoCashoutSettlesExactlyOnce(t *testing.T) {
	db := connectTestDB(t)
	rdb := connectTestRedis(t)
	stack := newGameStack(t, db, rdb)
	ctx := context.Background()

	userID := createFundedUser(t, db, 100)

	if _, err := stack.hilo.Start(ctx, userID, 10, "USD"); err != nil {
		t.Fatalf("start: %v", err)
	}

	res, err := stack.hilo.Cashout(ctx, userID)
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if res.Payout != 10 {
		t.Fatalf("payout = %v, want the stake back at multiplier 1.0", res.Payout)
	}

	// The deck settled; a second terminal action finds nothing to settle.
	if _, err := stack.hilo.Cashout(ctx, userID); !errors.Is(err, service.ErrNoActiveGame) {
		t.Fatalf("second cashout err = %v, want ErrNoActiveGame", err)
	}

	if n := countRounds(t, db, userID); n != 1 {
		t.Fatalf("rounds recorded = %d, want exactly 1", n)
	}
	balance, err := stack.gw.GetBalance(ctx, userID, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if balance != 100 {
		t.Fatalf("balance = %v, want 100 after a single even settlement", balance)
	}
}

func TestRotateRefusedDuringOpenSession(t *testing.T) {
	db := connectTestDB(t)
	rdb := connectTestRedis(t)
	stack := newGameStack(t, db, rdb)
	ctx := context.Background()

	stack.seeds.BlockRotationWhen(func(ctx context.Context, userID int64) (bool, error) {
		return stack.store.Exists(ctx, userID, game.SlugHiLo)
	})

	userID := createFundedUser(t, db, 100)

	if _, err := stack.hilo.Start(ctx, userID, 5, "USD"); err != nil {
		t.Fatalf("start: %v", err)
	}

	// The open chain's deck derives from the active seed; rotating now
	// would reveal it with the outcome still undecided.
	if _, err := stack.seeds.Rotate(ctx, userID, ""); !errors.Is(err, service.ErrSeedInUse) {
		t.Fatalf("rotate mid-session err = %v, want ErrSeedInUse", err)
	}

	if _, err := stack.hilo.Cashout(ctx, userID); err != nil {
		t.Fatalf("cashout: %v", err)
	}

	rotated, err := stack.seeds.Rotate(ctx, userID, "")
	if err != nil {
		t.Fatalf("rotate after cashout: %v", err)
	}
	if !rotated.Previous.IsRevealed || rotated.Previous.ServerSeed == "" {
		t.Fatalf("previous = %+v, want revealed with server seed disclosed", rotated.Previous)
	}
	payload, err := json.Marshal(rotated.Previous)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatal(err)
	}
	if fields["server_seed"] != rotated.Previous.ServerSeed {
		t.Fatalf("rotation response must carry server_seed, got %s", payload)
	}
}

func TestAutoBetStartAdmitsOneLoop(t *testing.T) {
	db := connectTestDB(t)
	rdb := connectTestRedis(t)
	stack := newGameStack(t, db, rdb)
	ctx := context.Background()

	userID := createFundedUser(t, db, 100)

	registry := game.NewRegistry(&game.Dice{HouseEdge: 0.02})
	play := service.NewPlayService(db, registry, stack.gw, stack.seeds, stack.jackpot, stack.feed, stack.limits)
	autoBet := service.NewAutoBetService(rdb, play)

	cfg := domain.AutoBetConfig{
		BetAmount:    1,
		Currency:     "USD",
		NumberOfBets: 3,
		OnWinAction:  domain.AutoBetActionReset,
		OnLossAction: domain.AutoBetActionReset,
		DelayMs:      5000,
	}
	params := json.RawMessage(`{"target":50,"is_over":true}`)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = autoBet.Start(ctx, userID, game.SlugDice, cfg, params)
		}(i)
	}
	wg.Wait()

	started, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			started++
		case errors.Is(err, service.ErrAutoBetRunning):
			rejected++
		default:
			t.Fatalf("unexpected start error: %v", err)
		}
	}
	if started != 1 || rejected != 1 {
		t.Fatalf("started = %d, rejected = %d, want exactly one loop admitted", started, rejected)
	}

	if err := autoBet.Stop(ctx, userID, game.SlugDice); err != nil {
		t.Fatalf("stop: %v", err)
	}
}
