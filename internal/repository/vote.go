package repository

import (
	"context"

	"starprep/internal/models"
	"starprep/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines the interface for question vote operations.
type VoteRepository interface {
	// Cast records the user's rating on a question, replacing any earlier
	// rating from the same user.
	Cast(ctx context.Context, userID, questionID uint, rating int) error
	Remove(ctx context.Context, userID, questionID uint) error
	Summary(ctx context.Context, questionID uint) (*VoteSummary, error)
	UserRating(ctx context.Context, userID, questionID uint) (int, error)
}

// VoteSummary aggregates the votes on one question.
type VoteSummary struct {
	QuestionID uint    `json:"question_id"`
	Count      int64   `json:"count"`
	Average    float64 `json:"average"`
}

type voteRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewVoteRepository creates a new vote repository.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{
		db:   db,
		logs: observability.NewRepoLogger("question_votes"),
	}
}

func (r *voteRepository) Cast(ctx context.Context, userID, questionID uint, rating int) error {
	vote := &models.QuestionVote{
		UserID:     userID,
		QuestionID: questionID,
		Rating:     rating,
	}
	// One row per (user, question); re-voting updates in place.
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating"}),
		}).
		Create(vote).Error
	if err != nil {
		r.logs.LogError(ctx, err, "cast")
		return err
	}
	r.logs.LogWrite(ctx, "cast", map[string]interface{}{
		"question_id": questionID,
		"rating":      rating,
	})
	return nil
}

func (r *voteRepository) Remove(ctx context.Context, userID, questionID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&models.QuestionVote{})
	if res.Error != nil {
		r.logs.LogError(ctx, res.Error, "remove")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *voteRepository) Summary(ctx context.Context, questionID uint) (*VoteSummary, error) {
	summary := &VoteSummary{QuestionID: questionID}
	err := r.db.WithContext(ctx).
		Model(&models.QuestionVote{}).
		Where("question_id = ?", questionID).
		Select("COUNT(*) AS count, COALESCE(AVG(rating), 0) AS average").
		Row().
		Scan(&summary.Count, &summary.Average)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// UserRating returns the viewer's rating on a question, or 0 when they have
// not voted.
func (r *voteRepository) UserRating(ctx context.Context, userID, questionID uint) (int, error) {
	var vote models.QuestionVote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&vote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return vote.Rating, nil
}
