package service

import (
	"context"

	"starprep/internal/models"
	"starprep/internal/repository"
)

type VoteService struct {
	voteRepo     repository.VoteRepository
	questionRepo repository.QuestionRepository
}

func NewVoteService(voteRepo repository.VoteRepository, questionRepo repository.QuestionRepository) *VoteService {
	return &VoteService{
		voteRepo:     voteRepo,
		questionRepo: questionRepo,
	}
}

type CastVoteInput struct {
	Viewer     models.Viewer
	QuestionID uint
	Rating     int
}

// Cast records a 1..5 rating on a question the viewer can see and returns
// the updated aggregate. Voting again replaces the earlier rating.
func (s *VoteService) Cast(ctx context.Context, in CastVoteInput) (*repository.VoteSummary, error) {
	if in.Viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}

	if _, err := s.questionRepo.GetVisible(ctx, in.QuestionID, in.Viewer); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", in.QuestionID)
		}
		return nil, models.NewInternalError(err)
	}

	if err := s.voteRepo.Cast(ctx, in.Viewer.ID, in.QuestionID, in.Rating); err != nil {
		return nil, models.NewInternalError(err)
	}

	summary, err := s.voteRepo.Summary(ctx, in.QuestionID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summary, nil
}

// Remove withdraws the viewer's rating. Removing a rating that does not
// exist is NOT_FOUND.
func (s *VoteService) Remove(ctx context.Context, questionID uint, viewer models.Viewer) (*repository.VoteSummary, error) {
	if viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	if _, err := s.questionRepo.GetVisible(ctx, questionID, viewer); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", questionID)
		}
		return nil, models.NewInternalError(err)
	}

	if err := s.voteRepo.Remove(ctx, viewer.ID, questionID); err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Vote", questionID)
		}
		return nil, models.NewInternalError(err)
	}

	summary, err := s.voteRepo.Summary(ctx, questionID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summary, nil
}
