package service

import (
	"context"

	"starprep/internal/cache"
	"starprep/internal/models"
	"starprep/internal/observability"
	"starprep/internal/repository"
)

// ModerationService handles the admin review queue and the save-to-my-list
// flow on public questions.
type ModerationService struct {
	questionRepo repository.QuestionRepository
}

func NewModerationService(questionRepo repository.QuestionRepository) *ModerationService {
	return &ModerationService{questionRepo: questionRepo}
}

// ModerationResult reports a moderation decision. Changed is false when the
// question was already in the requested state; repeating a decision is not
// an error.
type ModerationResult struct {
	Question *models.Question `json:"question"`
	Changed  bool             `json:"changed"`
	Message  string           `json:"message"`
}

// SaveResult reports a save-to-my-list attempt. When AlreadySaved is true no
// new question was created and Question points at nothing.
type SaveResult struct {
	Question     *models.Question `json:"question,omitempty"`
	AlreadySaved bool             `json:"already_saved"`
}

func (s *ModerationService) Approve(ctx context.Context, id uint, viewer models.Viewer) (*ModerationResult, error) {
	return s.decide(ctx, id, viewer, models.StatusApproved, "approve")
}

func (s *ModerationService) Deny(ctx context.Context, id uint, viewer models.Viewer) (*ModerationResult, error) {
	return s.decide(ctx, id, viewer, models.StatusDenied, "deny")
}

func (s *ModerationService) decide(ctx context.Context, id uint, viewer models.Viewer, status, action string) (*ModerationResult, error) {
	// Moderation is the one surface that answers 403 instead of 404: the
	// route itself is admin-only, so it reveals nothing about the resource.
	if !viewer.IsAdmin {
		return nil, models.NewForbiddenError("Admin access required")
	}

	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}
	// Only public questions go through review; a private one is outside the
	// queue and reads as absent, exactly like a missing id.
	if !question.IsPublic {
		return nil, models.NewNotFoundError("Question", id)
	}

	if question.Status == status {
		observability.ModerationActions.WithLabelValues(action, "noop").Inc()
		return &ModerationResult{
			Question: question,
			Changed:  false,
			Message:  "Question was already " + statusWord(status),
		}, nil
	}

	if err := s.questionRepo.UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}
	question.Status = status

	cache.InvalidateQuestion(ctx, id)
	cache.InvalidatePublicLists(ctx)
	observability.ModerationActions.WithLabelValues(action, "applied").Inc()

	return &ModerationResult{
		Question: question,
		Changed:  true,
		Message:  "Question " + statusWord(status),
	}, nil
}

func statusWord(status string) string {
	if status == models.StatusDenied {
		return "denied"
	}
	return "approved"
}

// SaveCopy clones a library question into the viewer's private collection:
// same title and tags, empty body, APPROVED outright. Matching is by title,
// so two library questions sharing a title count as one saved copy.
func (s *ModerationService) SaveCopy(ctx context.Context, id uint, viewer models.Viewer) (*SaveResult, error) {
	if viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	source, err := s.questionRepo.GetVisible(ctx, id, viewer)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}
	if !source.IsVisiblePublicly() {
		return nil, models.NewNotFoundError("Question", id)
	}
	if source.OwnerID == viewer.ID {
		return nil, models.NewValidationError("Cannot save your own question")
	}

	exists, err := s.questionRepo.ExistsPrivateCopy(ctx, viewer.ID, source.Title)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return &SaveResult{AlreadySaved: true}, nil
	}

	copyQ := &models.Question{
		OwnerID:  viewer.ID,
		Title:    source.Title,
		IsPublic: false,
		Status:   models.StatusApproved,
	}
	if err := s.questionRepo.Create(ctx, copyQ, source.Tags); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &SaveResult{Question: copyQ}, nil
}
