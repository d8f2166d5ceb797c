package service

import (
	"context"
	"strings"

	"starprep/internal/models"
	"starprep/internal/repository"
)

type AnswerService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
}

func NewAnswerService(answerRepo repository.AnswerRepository, questionRepo repository.QuestionRepository) *AnswerService {
	return &AnswerService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
	}
}

type AnswerContentInput struct {
	Type      string `json:"type"`
	Situation string `json:"situation"`
	Task      string `json:"task"`
	Action    string `json:"action"`
	Result    string `json:"result"`
	Text      string `json:"text"`
}

type CreateAnswerInput struct {
	Viewer     models.Viewer
	QuestionID uint
	Content    AnswerContentInput
}

type UpdateAnswerInput struct {
	Viewer   models.Viewer
	AnswerID uint
	Content  AnswerContentInput
}

const maxAnswerFieldLen = 20000

// validateContent checks the variant payload. Exactly the fields of the
// declared variant must be filled; an unknown type never reaches storage.
func validateContent(in AnswerContentInput) error {
	switch in.Type {
	case models.AnswerTypeStar:
		if strings.TrimSpace(in.Situation) == "" ||
			strings.TrimSpace(in.Task) == "" ||
			strings.TrimSpace(in.Action) == "" ||
			strings.TrimSpace(in.Result) == "" {
			return models.NewValidationError(
				"STAR answers require situation, task, action, and result")
		}
		for _, f := range []string{in.Situation, in.Task, in.Action, in.Result} {
			if len(f) > maxAnswerFieldLen {
				return models.NewValidationError("Answer field too long (max 20000 characters)")
			}
		}
	case models.AnswerTypeBasic:
		if strings.TrimSpace(in.Text) == "" {
			return models.NewValidationError("Answer text is required")
		}
		if len(in.Text) > maxAnswerFieldLen {
			return models.NewValidationError("Answer text too long (max 20000 characters)")
		}
	default:
		return models.NewValidationError("Answer type must be STAR or BASIC")
	}
	return nil
}

// applyContent writes the variant payload onto the row, zeroing the fields
// of the other variant so a type switch leaves no stale content behind.
func applyContent(answer *models.Answer, in AnswerContentInput) {
	answer.Type = in.Type
	switch in.Type {
	case models.AnswerTypeStar:
		answer.Situation = in.Situation
		answer.Task = in.Task
		answer.Action = in.Action
		answer.Result = in.Result
		answer.Text = ""
	case models.AnswerTypeBasic:
		answer.Text = in.Text
		answer.Situation = ""
		answer.Task = ""
		answer.Action = ""
		answer.Result = ""
	}
}

// Create adds an answer to one of the viewer's own private questions.
// Library questions are templates: they take no direct answers, and the
// refusal is a NOT_FOUND so the route confirms nothing.
func (s *AnswerService) Create(ctx context.Context, in CreateAnswerInput) (*models.Answer, error) {
	if in.Viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	question, err := s.questionRepo.GetByID(ctx, in.QuestionID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", in.QuestionID)
		}
		return nil, models.NewInternalError(err)
	}
	if !question.OwnedBy(in.Viewer) || question.IsVisiblePublicly() {
		return nil, models.NewNotFoundError("Question", in.QuestionID)
	}

	if err := validateContent(in.Content); err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		UserID:     in.Viewer.ID,
		IsPublic:   false,
	}
	applyContent(answer, in.Content)

	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, models.NewInternalError(err)
	}
	return answer, nil
}

// Get returns an answer the viewer may see: their own, or a public answer
// attached to a library question. Anyone else gets a NOT_FOUND, never a
// FORBIDDEN. A row matching no known variant surfaces as an integrity fault.
func (s *AnswerService) Get(ctx context.Context, id uint, viewer models.Viewer) (*models.Answer, error) {
	answer, err := s.answerRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Answer", id)
		}
		return nil, models.NewInternalError(err)
	}

	var question *models.Question
	if !answer.OwnedBy(viewer) {
		// The public branch of the visibility rule needs the parent's status.
		question, err = s.questionRepo.GetByID(ctx, answer.QuestionID)
		if err != nil && !isNotFound(err) {
			return nil, models.NewInternalError(err)
		}
	}
	if !answer.VisibleTo(viewer, question) {
		return nil, models.NewNotFoundError("Answer", id)
	}

	if _, err := answer.Variant(); err != nil {
		return nil, err
	}
	return answer, nil
}

func (s *AnswerService) Update(ctx context.Context, in UpdateAnswerInput) (*models.Answer, error) {
	answer, err := s.getOwned(ctx, in.AnswerID, in.Viewer)
	if err != nil {
		return nil, err
	}

	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	applyContent(answer, in.Content)
	// Edits always land private, whatever the row held before.
	answer.IsPublic = false

	if err := s.answerRepo.Update(ctx, answer); err != nil {
		return nil, models.NewInternalError(err)
	}
	return answer, nil
}

func (s *AnswerService) Delete(ctx context.Context, id uint, viewer models.Viewer) error {
	if _, err := s.getOwned(ctx, id, viewer); err != nil {
		return err
	}
	if err := s.answerRepo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return models.NewNotFoundError("Answer", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (s *AnswerService) getOwned(ctx context.Context, id uint, viewer models.Viewer) (*models.Answer, error) {
	if viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	answer, err := s.answerRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Answer", id)
		}
		return nil, models.NewInternalError(err)
	}
	if !answer.OwnedBy(viewer) {
		return nil, models.NewNotFoundError("Answer", id)
	}
	return answer, nil
}
