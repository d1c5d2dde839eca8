// Package main boots the SmartMarket catalog HTTP server.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/smartmarket-catalog/internal/obs"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	// Prices travel as JSON numbers, matching what catalog clients send.
	decimal.MarshalJSONWithoutQuotes = true

	if err := newRootCommand().Execute(); err != nil {
		obs.Logger.Error("command_failed", "error", err)
		os.Exit(1)
	}
}
