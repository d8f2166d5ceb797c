// Command main runs the database seeder for StarPrep.
package main

import (
	"flag"
	"log"

	"starprep/internal/config"
	"starprep/internal/database"
	"starprep/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numQuestions := flag.Int("questions", 100, "Number of questions to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d questions, clean=%v\n", *numUsers, *numQuestions, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	tags, err := s.PublicTags()
	if err != nil {
		log.Fatalf("Tag seeding failed: %v", err)
	}
	users, err := s.Users(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	questions, err := s.Questions(users, tags, *numQuestions)
	if err != nil {
		log.Fatalf("Question seeding failed: %v", err)
	}
	if _, err := s.Answers(questions); err != nil {
		log.Fatalf("Answer seeding failed: %v", err)
	}
	if _, err := s.Votes(users, questions); err != nil {
		log.Fatalf("Vote seeding failed: %v", err)
	}

	// Seeding bypasses the repositories, so the vectors need one explicit pass.
	if n, err := database.ReindexAll(db); err != nil {
		log.Printf("Search reindex skipped: %v", err)
	} else {
		log.Printf("Search vectors refreshed for %d rows", n)
	}

	log.Println("Seeding complete")
}
