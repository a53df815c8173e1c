// Package main provides a tool to seed the database with sample readers and
// books for local development.
//
// Usage:
//
//	DB_PATH=~/BookNotes/booknotes.db go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/booknotesapp/booknotes-server/internal/auth"
	"github.com/booknotesapp/booknotes-server/internal/domain"
	"github.com/booknotesapp/booknotes-server/internal/store"
	"github.com/booknotesapp/booknotes-server/internal/store/sqlite"
)

// seedPassword is the login password for every seeded account.
const seedPassword = "password123"

type seedReader struct {
	name      string
	email     string
	interests []string
	books     []seedBook
}

type seedBook struct {
	title  string
	author string
	rating int
	review string
}

var seedReaders = []seedReader{
	{
		name:      "Ada",
		email:     "ada@example.com",
		interests: []string{"sci-fi", "mathematics"},
		books: []seedBook{
			{title: "Dune", author: "Frank Herbert", rating: 9, review: "A sweeping desert epic with politics to spare."},
			{title: "The Dispossessed", author: "Ursula K. Le Guin", rating: 10, review: "Two worlds, one wall. Still thinking about it."},
			{title: "Snow Crash", author: "Neal Stephenson", rating: 7, review: "The first half is unbeatable."},
		},
	},
	{
		name:      "Basil",
		email:     "basil@example.com",
		interests: []string{"history", "biography"},
		books: []seedBook{
			{title: "The Making of the Atomic Bomb", author: "Richard Rhodes", rating: 10, review: "Exhaustive and gripping at once."},
			{title: "SPQR", author: "Mary Beard", rating: 8, review: "Rome without the varnish."},
		},
	},
	{
		name:      "Clara",
		email:     "clara@example.com",
		interests: []string{"poetry"},
		books:     nil,
	},
}

func main() {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/BookNotes/booknotes.db")
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	created := 0
	for _, sr := range seedReaders {
		hash, err := auth.HashPassword(seedPassword)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}

		reader := &domain.Reader{
			Name:         sr.name,
			Email:        sr.email,
			PasswordHash: hash,
			Interests:    sr.interests,
		}
		if err := s.CreateReader(ctx, reader); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				fmt.Printf("Skipping %s (already exists)\n", sr.email)
				continue
			}
			log.Fatalf("Failed to create reader %s: %v", sr.email, err)
		}

		for _, sb := range sr.books {
			book := &domain.Book{
				ReaderID:      reader.ID,
				Title:         sb.title,
				Author:        sb.author,
				Rating:        sb.rating,
				ReviewComment: sb.review,
			}
			if err := s.CreateBook(ctx, book); err != nil {
				log.Fatalf("Failed to create book %q: %v", sb.title, err)
			}
		}

		fmt.Printf("Created %s with %d books\n", sr.email, len(sr.books))
		created++
	}

	fmt.Printf("Done. Seeded %d readers, password for all: %s\n", created, seedPassword)
}
