// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	_ "embed"
	"fmt"
	"log"
	"math/rand"
	"time"

	"starprep/internal/models"
	"starprep/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed fixtures/tags.yml
var tagFixture []byte

// Seeder populates the database with demo users, questions and answers.
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// ClearAll wipes every domain table. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	for _, stmt := range []string{
		"DELETE FROM question_votes",
		"DELETE FROM answers",
		"DELETE FROM question_tags",
		"DELETE FROM questions",
		"DELETE FROM tags",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("clearing: %w", err)
		}
	}
	return nil
}

// PublicTags loads the canonical shared tags from the bundled fixture.
// Re-running is safe: existing names are left alone.
func (s *Seeder) PublicTags() ([]models.Tag, error) {
	var fixture struct {
		Tags []string `yaml:"tags"`
	}
	if err := yaml.Unmarshal(tagFixture, &fixture); err != nil {
		return nil, fmt.Errorf("parsing tag fixture: %w", err)
	}

	tags := make([]models.Tag, 0, len(fixture.Tags))
	for _, name := range fixture.Tags {
		tag := models.Tag{
			Name:     name,
			Slug:     validation.Slugify(name),
			IsPublic: true,
		}
		if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tag).Error; err != nil {
			return nil, fmt.Errorf("seeding tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	log.Printf("Seeded %d public tags", len(tags))
	return tags, nil
}

// Users creates n accounts with a shared development password. The first
// account is always an admin.
func (s *Seeder) Users(n int) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("user%d@%s", i, gofakeit.DomainName()),
			Password: string(hash),
			IsAdmin:  i == 0,
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("seeding user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users (first one is admin)", len(users))
	return users, nil
}

// pickTags returns up to n distinct tags chosen at random.
func pickTags(tags []models.Tag, n int) []models.Tag {
	if n > len(tags) {
		n = len(tags)
	}
	picked := make([]models.Tag, len(tags))
	copy(picked, tags)
	rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	return picked[:n]
}

var questionTemplates = []string{
	"Tell me about a time you %s",
	"Describe a situation where you had to %s",
	"How would you %s",
	"What is your approach when you need to %s",
}

// Questions creates n questions spread across the given users and tags.
// Roughly a third are public; public ones land in every review state so the
// moderation queue has content.
func (s *Seeder) Questions(users []*models.User, tags []models.Tag, n int) ([]*models.Question, error) {
	statuses := []string{models.StatusPending, models.StatusApproved, models.StatusDenied}

	questions := make([]*models.Question, 0, n)
	for i := 0; i < n; i++ {
		owner := users[rand.Intn(len(users))]
		isPublic := rand.Intn(3) == 0

		status := models.StatusApproved
		if isPublic {
			status = statuses[rand.Intn(len(statuses))]
		}

		question := &models.Question{
			OwnerID:  owner.ID,
			Title:    fmt.Sprintf(questionTemplates[rand.Intn(len(questionTemplates))], gofakeit.HackerVerb()+" a "+gofakeit.HackerNoun()),
			Body:     gofakeit.Paragraph(1, 3, 8, "\n"),
			IsPublic: isPublic,
			Status:   status,
		}
		if err := s.db.Create(question).Error; err != nil {
			return nil, fmt.Errorf("seeding question: %w", err)
		}

		for _, tag := range pickTags(tags, rand.Intn(4)) {
			if err := s.db.Model(question).Association("Tags").Append(&tag); err != nil {
				return nil, fmt.Errorf("tagging question: %w", err)
			}
		}
		questions = append(questions, question)
	}
	log.Printf("Seeded %d questions", len(questions))
	return questions, nil
}

// Answers gives each private question up to three answers from its owner,
// mixing STAR and free-text variants.
func (s *Seeder) Answers(questions []*models.Question) (int, error) {
	count := 0
	for _, q := range questions {
		if q.IsPublic {
			continue
		}
		for i := 0; i < rand.Intn(4); i++ {
			answer := &models.Answer{
				QuestionID: q.ID,
				UserID:     q.OwnerID,
				IsPublic:   false,
			}
			if rand.Intn(2) == 0 {
				answer.Type = models.AnswerTypeStar
				answer.Situation = gofakeit.Sentence(12)
				answer.Task = gofakeit.Sentence(10)
				answer.Action = gofakeit.Sentence(14)
				answer.Result = gofakeit.Sentence(10)
			} else {
				answer.Type = models.AnswerTypeBasic
				answer.Text = gofakeit.Paragraph(1, 2, 10, "\n")
			}
			if err := s.db.Create(answer).Error; err != nil {
				return count, fmt.Errorf("seeding answer: %w", err)
			}
			count++
		}
	}
	log.Printf("Seeded %d answers", count)
	return count, nil
}

// Votes sprinkles ratings over the approved public questions.
func (s *Seeder) Votes(users []*models.User, questions []*models.Question) (int, error) {
	count := 0
	for _, q := range questions {
		if !q.IsVisiblePublicly() {
			continue
		}
		for _, u := range users {
			if rand.Intn(3) != 0 {
				continue
			}
			vote := &models.QuestionVote{
				UserID:     u.ID,
				QuestionID: q.ID,
				Rating:     1 + rand.Intn(5),
			}
			if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(vote).Error; err != nil {
				return count, fmt.Errorf("seeding vote: %w", err)
			}
			count++
		}
	}
	log.Printf("Seeded %d votes", count)
	return count, nil
}
