// Command madness computes Colley and Massey ratings from a season's results
// feed and simulates a tournament bracket.
//
// Usage:
//
//	madness ratings --algorithm massey --limit 25
//	madness ratings --games-file games.csv --teams-file teams.csv --segments 0.5,1,1.5
//	madness simulate --bracket-file bracket.json --decider rating
//	madness segments --segments 1,1,2
//	madness serve
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
