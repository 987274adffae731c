// Package fair derives every game outcome deterministically from a
// (serverSeed, clientSeed, nonce) triple. All functions are pure; identical
// inputs produce bit-identical outputs on any platform, which is what makes
// rounds independently verifiable after the server seed is revealed.
package fair

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// DeckSize is a standard 52-card deck, indices 0..51.
const DeckSize = 52

// MineCells is the 5x5 mines board, indices 0..24.
const MineCells = 25

// NewSeedPair generates a fresh server seed (32 random bytes, hex) and its
// public SHA-256 commitment.
func NewSeedPair() (serverSeed, hash string, err error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	serverSeed = hex.EncodeToString(buf)
	return serverSeed, HashSeed(serverSeed), nil
}

// HashSeed returns the hex SHA-256 of the hex-encoded server seed string.
func HashSeed(serverSeed string) string {
	sum := sha256.Sum256([]byte(serverSeed))
	return hex.EncodeToString(sum[:])
}

// NewClientSeed generates a default client seed (16 hex chars).
func NewClientSeed() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// digest computes HMAC-SHA256(key=serverSeed, "clientSeed:nonce") or, with
// a sub-index, "clientSeed:nonce:subIndex". The message format is part of
// the verification contract and must never change.
func digest(serverSeed, clientSeed string, nonce uint64, subIndex int, withSub bool) []byte {
	mac := hmac.New(sha256.New, []byte(serverSeed))
	if withSub {
		fmt.Fprintf(mac, "%s:%d:%d", clientSeed, nonce, subIndex)
	} else {
		fmt.Fprintf(mac, "%s:%d", clientSeed, nonce)
	}
	return mac.Sum(nil)
}

// head32 takes the first 4 digest bytes as a big-endian uint32.
func head32(sum []byte) uint32 {
	return binary.BigEndian.Uint32(sum[:4])
}

// Float derives a float in [0,1) from the bare triple.
func Float(serverSeed, clientSeed string, nonce uint64) float64 {
	return float64(head32(digest(serverSeed, clientSeed, nonce, 0, false))) / (1 << 32)
}

// FloatAt derives a float in [0,1) for one sub-index of the triple.
func FloatAt(serverSeed, clientSeed string, nonce uint64, subIndex int) float64 {
	return float64(head32(digest(serverSeed, clientSeed, nonce, subIndex, true))) / (1 << 32)
}

// Floats derives n floats using sub-indices 0..n-1.
func Floats(serverSeed, clientSeed string, nonce uint64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = FloatAt(serverSeed, clientSeed, nonce, i)
	}
	return out
}

// ShuffledDeck derives a permutation of 0..51 by Fisher-Yates over a
// 52-float sequence: position i swaps with floor(r[i]*(i+1)), i = 51..1.
func ShuffledDeck(serverSeed, clientSeed string, nonce uint64) []int {
	r := Floats(serverSeed, clientSeed, nonce, DeckSize)
	deck := make([]int, DeckSize)
	for i := range deck {
		deck[i] = i
	}
	for i := DeckSize - 1; i >= 1; i-- {
		j := int(r[i] * float64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}

// CrashPoint derives a multiplier >= 1.00 with the given house edge,
// floored to 2 decimals. h == MaxUint32 short-circuits to 1.00 so the
// division below can never hit zero.
func CrashPoint(serverSeed, clientSeed string, nonce uint64, houseEdge float64) float64 {
	h := head32(digest(serverSeed, clientSeed, nonce, 0, false))
	return crashFromUint(h, houseEdge)
}

func crashFromUint(h uint32, houseEdge float64) float64 {
	if h == math.MaxUint32 {
		return 1.00
	}
	result := (1 - houseEdge) * (1 << 32) / float64(uint64(1)<<32-uint64(h))
	result = math.Floor(result*100) / 100
	if result < 1.00 {
		return 1.00
	}
	return result
}

// MinePositions derives count unique cell indices in [0, MineCells). Each
// draw maps into the remaining cells and removes the chosen slot.
func MinePositions(serverSeed, clientSeed string, nonce uint64, count int) []int {
	if count < 1 {
		return nil
	}
	if count > MineCells {
		count = MineCells
	}
	avail := make([]int, MineCells)
	for i := range avail {
		avail[i] = i
	}
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		f := FloatAt(serverSeed, clientSeed, nonce, i)
		idx := int(f * float64(len(avail)))
		out = append(out, avail[idx])
		avail = append(avail[:idx], avail[idx+1:]...)
	}
	return out
}
