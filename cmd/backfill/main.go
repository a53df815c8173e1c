// Package main provides a tool to backfill catalog IDs for books that were
// added before catalog matching existed, or whose lookup failed at the time.
//
// Usage:
//
//	DB_PATH=~/BookNotes/booknotes.db go run ./cmd/backfill
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/booknotesapp/booknotes-server/internal/catalog"
	"github.com/booknotesapp/booknotes-server/internal/service"
	"github.com/booknotesapp/booknotes-server/internal/store/sqlite"
)

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/BookNotes/booknotes.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	client := catalog.NewClient(logger)
	defer client.Close()

	books := service.NewBookService(s, client, logger)

	matched, err := books.BackfillCatalogIDs(context.Background())
	if err != nil {
		log.Fatalf("Backfill failed: %v", err)
	}

	fmt.Printf("Done. Matched %d books against the catalog\n", matched)
}
