package main

import (
	"github.com/joho/godotenv"

	"docrag/internal/cli"
)

func main() {
	// Best effort: API keys may come from a .env file next to the binary.
	_ = godotenv.Load()

	cli.Execute()
}
