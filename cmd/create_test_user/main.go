package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"casino_engine/internal/db"
	"casino_engine/internal/domain"
	"casino_engine/internal/http/middleware"
	"casino_engine/internal/repository"
)

// Creates (or reuses) a named user with a funded wallet and prints a JWT
// for manual testing against a local server.
func main() {
	username := flag.String("username", "testuser", "username to create or reuse")
	currency := flag.String("currency", "USD", "wallet currency")
	balance := flag.Float64("balance", 1000, "amount to fund the wallet with")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	u, err := repo.GetByUsername(ctx, *username)
	switch {
	case err == nil:
		log.Printf("user already exists id=%d", u.ID)
	case errors.Is(err, repository.ErrUserNotFound):
		u = &domain.User{Username: *username}
		if err := repo.Create(ctx, u); err != nil {
			log.Fatalf("create user failed: %v", err)
		}
		log.Printf("user created id=%d", u.ID)
	default:
		log.Fatalf("lookup failed: %v", err)
	}

	if err := repo.EnsureWallet(ctx, u.ID, *currency, *balance); err != nil {
		log.Fatalf("fund wallet failed: %v", err)
	}
	log.Printf("wallet funded user=%d currency=%s amount=%.2f", u.ID, *currency, *balance)

	middleware.InitJWT(secret)
	token, err := middleware.GenerateToken(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s", token)
}
