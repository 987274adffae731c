// Package session is the ephemeral store for in-progress stateful games.
// Keys are scoped to (user, game slug) and carry a TTL purely as a
// crash-safety net; a normal play sequence finishes long before it fires.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// lockTTL bounds how long one action can hold a session before a stuck
// request stops blocking the player.
const lockTTL = 10 * time.Second

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func sessionKey(userID int64, gameSlug string) string {
	return fmt.Sprintf("gs:%d:%s", userID, gameSlug)
}

func lockKey(userID int64, gameSlug string) string {
	return fmt.Sprintf("gslock:%d:%s", userID, gameSlug)
}

// Save stores the session state, refreshing the TTL.
func (s *Store) Save(ctx context.Context, userID int64, gameSlug string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(userID, gameSlug), data, s.ttl).Err()
}

// Load reads the session state into dest. Returns ErrNotFound when no
// session exists.
func (s *Store) Load(ctx context.Context, userID int64, gameSlug string, dest any) error {
	data, err := s.rdb.Get(ctx, sessionKey(userID, gameSlug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dest)
}

// Exists reports whether a session is in progress.
func (s *Store) Exists(ctx context.Context, userID int64, gameSlug string) (bool, error) {
	n, err := s.rdb.Exists(ctx, sessionKey(userID, gameSlug)).Result()
	return n > 0, err
}

// Delete removes the session on terminal actions.
func (s *Store) Delete(ctx context.Context, userID int64, gameSlug string) error {
	return s.rdb.Del(ctx, sessionKey(userID, gameSlug)).Err()
}

// Acquire takes the per-session action lock. Actions on one session are
// strictly serialized; a second concurrent action sees acquired == false
// and must be rejected, never interleaved.
func (s *Store) Acquire(ctx context.Context, userID int64, gameSlug string) (acquired bool, err error) {
	return s.rdb.SetNX(ctx, lockKey(userID, gameSlug), 1, lockTTL).Result()
}

// Release frees the action lock.
func (s *Store) Release(ctx context.Context, userID int64, gameSlug string) {
	_ = s.rdb.Del(context.WithoutCancel(ctx), lockKey(userID, gameSlug)).Err()
}
