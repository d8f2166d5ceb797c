package repository

import (
	"context"

	"starprep/internal/database"
	"starprep/internal/models"
	"starprep/internal/observability"

	"gorm.io/gorm"
)

// AnswerRepository defines the interface for answer data operations.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	Update(ctx context.Context, answer *models.Answer) error
	GetByID(ctx context.Context, id uint) (*models.Answer, error)
	Delete(ctx context.Context, id uint) error
	// ListForQuestion returns the answers on a question that the viewer may
	// see, oldest first. The question must already have passed its own
	// visibility check.
	ListForQuestion(ctx context.Context, question *models.Question, viewer models.Viewer) ([]*models.Answer, error)
	CountForQuestion(ctx context.Context, questionID uint) (int64, error)
}

type answerRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewAnswerRepository creates a new answer repository.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{
		db:   db,
		logs: observability.NewRepoLogger("answers"),
	}
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(answer).Error; err != nil {
			return err
		}
		return database.RefreshAnswerVector(tx, answer.ID, answer.SearchText())
	})
	if err != nil {
		r.logs.LogError(ctx, err, "create")
		return err
	}
	r.logs.LogWrite(ctx, "create", map[string]interface{}{
		"id":          answer.ID,
		"question_id": answer.QuestionID,
		"type":        answer.Type,
	})
	return nil
}

func (r *answerRepository) Update(ctx context.Context, answer *models.Answer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(answer).Error; err != nil {
			return err
		}
		return database.RefreshAnswerVector(tx, answer.ID, answer.SearchText())
	})
	if err != nil {
		r.logs.LogError(ctx, err, "update")
		return err
	}
	r.logs.LogWrite(ctx, "update", map[string]interface{}{"id": answer.ID})
	return nil
}

func (r *answerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	var answer models.Answer
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&answer, id).Error
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (r *answerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Answer{}, id)
	if res.Error != nil {
		r.logs.LogError(ctx, res.Error, "delete")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.logs.LogWrite(ctx, "delete", map[string]interface{}{"id": id})
	return nil
}

func (r *answerRepository) ListForQuestion(ctx context.Context, question *models.Question, viewer models.Viewer) ([]*models.Answer, error) {
	query := r.db.WithContext(ctx).
		Where("question_id = ?", question.ID).
		Preload("User").
		Order("created_at ASC")

	// SQL mirror of models.Answer.VisibleTo: the viewer's own answers, plus
	// shared ones when the question itself is in the public library. Answers
	// carry no admin override.
	switch {
	case viewer.Anonymous() && question.IsVisiblePublicly():
		query = query.Where("is_public = ?", true)
	case viewer.Anonymous():
		return nil, nil
	case question.IsVisiblePublicly():
		query = query.Where("is_public = ? OR user_id = ?", true, viewer.ID)
	default:
		query = query.Where("user_id = ?", viewer.ID)
	}

	var answers []*models.Answer
	if err := query.Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) CountForQuestion(ctx context.Context, questionID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("question_id = ?", questionID).
		Count(&count).Error
	return count, err
}
