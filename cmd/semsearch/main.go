package main

import (
	"github.com/joho/godotenv"

	"semsearch/internal/cli"
)

func main() {
	// API keys for remote encoders may live in a .env file.
	_ = godotenv.Load()

	cli.Execute()
}
