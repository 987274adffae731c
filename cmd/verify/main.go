package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"casino_engine/internal/fair"
)

// Standalone verifier: replays a revealed seed triple without touching the
// server, so players can audit rounds offline.
func main() {
	var req fair.VerifyRequest

	flag.StringVar(&req.ServerSeed, "server-seed", "", "revealed server seed")
	flag.StringVar(&req.ClientSeed, "client-seed", "", "client seed at play time")
	flag.Uint64Var(&req.Nonce, "nonce", 0, "round nonce")
	flag.StringVar(&req.GameType, "game", "dice", "game type: dice, limbo, plinko, hilo, blackjack, videopoker, mines")
	flag.Float64Var(&req.HouseEdge, "house-edge", 0.02, "house edge used for limbo")
	flag.IntVar(&req.Rows, "rows", 16, "plinko rows")
	flag.IntVar(&req.Mines, "mines", 3, "mine count")
	flag.Parse()

	if req.ServerSeed == "" || req.ClientSeed == "" {
		fmt.Fprintln(os.Stderr, "both -server-seed and -client-seed are required")
		flag.Usage()
		os.Exit(2)
	}

	res, err := fair.Verify(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
