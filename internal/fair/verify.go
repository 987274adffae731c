package fair

import (
	"errors"
	"math"
)

var ErrUnknownGameType = errors.New("unknown game type for verification")

// VerifyRequest declares which derivation to replay and with what
// parameters. HouseEdge, Rows and Mines are only read by the game types
// that need them.
type VerifyRequest struct {
	ServerSeed string  `json:"server_seed"`
	ClientSeed string  `json:"client_seed"`
	Nonce      uint64  `json:"nonce"`
	GameType   string  `json:"game_type"`
	HouseEdge  float64 `json:"house_edge,omitempty"`
	Rows       int     `json:"rows,omitempty"`
	Mines      int     `json:"mines,omitempty"`
}

// VerifyResult carries the seed commitment plus the recomputed primitive
// outcome for the declared game type.
type VerifyResult struct {
	ServerSeedHash string   `json:"server_seed_hash"`
	GameType       string   `json:"game_type"`
	Roll           *float64 `json:"roll,omitempty"`
	CrashPoint     *float64 `json:"crash_point,omitempty"`
	Path           []int    `json:"path,omitempty"`
	Bucket         *int     `json:"bucket,omitempty"`
	Deck           []int    `json:"deck,omitempty"`
	MinePositions  []int    `json:"mine_positions,omitempty"`
}

// Verify recomputes the derived value(s) for a revealed seed triple.
func Verify(req VerifyRequest) (*VerifyResult, error) {
	res := &VerifyResult{
		ServerSeedHash: HashSeed(req.ServerSeed),
		GameType:       req.GameType,
	}

	switch req.GameType {
	case "dice":
		roll := DiceRoll(req.ServerSeed, req.ClientSeed, req.Nonce)
		res.Roll = &roll
	case "limbo":
		cp := CrashPoint(req.ServerSeed, req.ClientSeed, req.Nonce, req.HouseEdge)
		res.CrashPoint = &cp
	case "plinko":
		rows := req.Rows
		if rows == 0 {
			rows = 16
		}
		path := PlinkoPath(req.ServerSeed, req.ClientSeed, req.Nonce, rows)
		bucket := 0
		for _, p := range path {
			bucket += p
		}
		res.Path = path
		res.Bucket = &bucket
	case "hilo", "blackjack", "videopoker":
		res.Deck = ShuffledDeck(req.ServerSeed, req.ClientSeed, req.Nonce)
	case "mines":
		mines := req.Mines
		if mines == 0 {
			mines = 3
		}
		res.MinePositions = MinePositions(req.ServerSeed, req.ClientSeed, req.Nonce, mines)
	default:
		return nil, ErrUnknownGameType
	}

	return res, nil
}

// DiceRoll derives a dice roll in [0.00, 99.99] with 2-decimal precision.
func DiceRoll(serverSeed, clientSeed string, nonce uint64) float64 {
	return math.Floor(Float(serverSeed, clientSeed, nonce)*10000) / 100
}

// PlinkoPath derives one left/right decision per row: 0 for r < 0.5,
// 1 otherwise.
func PlinkoPath(serverSeed, clientSeed string, nonce uint64, rows int) []int {
	r := Floats(serverSeed, clientSeed, nonce, rows)
	path := make([]int, rows)
	for i, f := range r {
		if f >= 0.5 {
			path[i] = 1
		}
	}
	return path
}
