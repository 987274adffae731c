package domain

import "time"

// SeedPair is a user's provably-fair seed commitment. The server seed stays
// secret while the pair is active; the SHA-256 hash is published up front so
// every round played under it can be verified after the reveal.
type SeedPair struct {
	ID             int64      `db:"id" json:"id"`
	UserID         int64      `db:"user_id" json:"user_id"`
	ServerSeed     string     `db:"server_seed" json:"server_seed,omitempty"`
	ServerSeedHash string     `db:"server_seed_hash" json:"server_seed_hash"`
	ClientSeed     string     `db:"client_seed" json:"client_seed"`
	Nonce          uint64     `db:"nonce" json:"nonce"`
	IsRevealed     bool       `db:"is_revealed" json:"is_revealed"`
	RevealedAt     *time.Time `db:"revealed_at" json:"revealed_at,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Public returns a copy safe to hand to the owning user. A revealed seed
// exposes the server seed, an active one only its hash.
func (s *SeedPair) Public() SeedPair {
	out := *s
	if !s.IsRevealed {
		out.ServerSeed = ""
	}
	return out
}
