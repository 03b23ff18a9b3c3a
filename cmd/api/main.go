package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/artist-atlas/backend/internal/database"
	"github.com/artist-atlas/backend/internal/seed"
	"github.com/artist-atlas/backend/internal/server"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	db := database.New()

	// Bulk import runs to completion before the server serves anything
	// that depends on its output. Both imports are guarded and skip when
	// the store already has data.
	if usersFile := os.Getenv("SEED_USERS_FILE"); usersFile != "" {
		if err := seed.ImportUsers(db.GetDB(), usersFile); err != nil {
			log.Fatalf("Failed to seed users: %v", err)
		}
	}
	if commentsFile := os.Getenv("SEED_COMMENTS_FILE"); commentsFile != "" {
		records, err := seed.LoadRecords(commentsFile)
		if err != nil {
			log.Fatalf("Failed to load comment seed data: %v", err)
		}
		if err := seed.ImportComments(db.GetDB(), records); err != nil {
			log.Fatalf("Failed to seed comments: %v", err)
		}
	}

	srv := server.NewServer(db)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
