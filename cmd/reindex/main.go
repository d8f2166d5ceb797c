// Command main rebuilds the full-text search vectors for all questions and
// answers. Run it after bulk imports or after enabling SEARCH_FTS on an
// existing database.
package main

import (
	"log"

	"starprep/internal/config"
	"starprep/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	n, err := database.ReindexAll(db)
	if err != nil {
		log.Fatalf("Reindex failed: %v", err)
	}
	log.Printf("Search vectors refreshed for %d rows", n)
}
