package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/threadcraft/backend/internal/app"
)

func main() {
	// Missing .env is fine; configuration falls back to process env vars.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
