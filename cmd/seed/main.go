// Seeds a SurrealDB instance with the sample notes. Useful for standing
// up a demo database before pointing the server at it.
package main

import (
	"fmt"
	"os"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/kuitang/notes-service/internal/config"
	"github.com/kuitang/notes-service/internal/notes"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(false, "")
	if err != nil {
		return err
	}
	if cfg.SurrealURL == "" {
		return fmt.Errorf("SURREALDB_URL must be set to seed a database")
	}

	db, err := surrealdb.New(cfg.SurrealURL)
	if err != nil {
		return fmt.Errorf("failed to connect to SurrealDB at %s: %w", cfg.SurrealURL, err)
	}
	defer db.Close()

	if cfg.SurrealUser != "" {
		if _, err := db.Signin(map[string]any{
			"user": cfg.SurrealUser,
			"pass": cfg.SurrealPass,
		}); err != nil {
			return fmt.Errorf("SurrealDB signin failed: %w", err)
		}
	}
	if _, err := db.Use(cfg.SurrealNS, cfg.SurrealDB); err != nil {
		return fmt.Errorf("failed to select namespace %q db %q: %w", cfg.SurrealNS, cfg.SurrealDB, err)
	}

	for _, n := range notes.SeedNotes() {
		if _, err := db.Create("notes:"+n.ID, map[string]any{
			"content":   n.Content,
			"important": n.Important,
			"category":  n.Category,
			"date":      n.Date,
		}); err != nil {
			return fmt.Errorf("failed to create note %s: %w", n.ID, err)
		}
		fmt.Printf("created note %s: %q (%s)\n", n.ID, n.Content, n.Category)
	}

	fmt.Println("seed complete")
	return nil
}
