package service

import (
	"context"
	"testing"

	"starprep/internal/models"
	"starprep/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCastVote(t *testing.T) {
	vRepo := new(MockVoteRepository)
	qRepo := new(MockQuestionRepository)
	svc := NewVoteService(vRepo, qRepo)
	viewer := models.Viewer{ID: 3}

	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).
		Return(&models.Question{ID: 5, OwnerID: 2, IsPublic: true, Status: models.StatusApproved}, nil)
	vRepo.On("Cast", mock.Anything, uint(3), uint(5), 4).Return(nil)
	vRepo.On("Summary", mock.Anything, uint(5)).
		Return(&repository.VoteSummary{QuestionID: 5, Count: 2, Average: 4.5}, nil)

	summary, err := svc.Cast(context.Background(), CastVoteInput{Viewer: viewer, QuestionID: 5, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.Count)
	assert.InDelta(t, 4.5, summary.Average, 0.001)
	vRepo.AssertExpectations(t)
}

func TestCastVoteRatingBounds(t *testing.T) {
	svc := NewVoteService(new(MockVoteRepository), new(MockQuestionRepository))

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Cast(context.Background(), CastVoteInput{
			Viewer: models.Viewer{ID: 3}, QuestionID: 5, Rating: rating,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "between 1 and 5")
	}
}

func TestCastVoteOnInvisibleQuestion(t *testing.T) {
	vRepo := new(MockVoteRepository)
	qRepo := new(MockQuestionRepository)
	svc := NewVoteService(vRepo, qRepo)
	viewer := models.Viewer{ID: 3}

	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Cast(context.Background(), CastVoteInput{Viewer: viewer, QuestionID: 5, Rating: 3})
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	vRepo.AssertNotCalled(t, "Cast", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMissingVote(t *testing.T) {
	vRepo := new(MockVoteRepository)
	qRepo := new(MockQuestionRepository)
	svc := NewVoteService(vRepo, qRepo)
	viewer := models.Viewer{ID: 3}

	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).
		Return(&models.Question{ID: 5, OwnerID: 2, IsPublic: true, Status: models.StatusApproved}, nil)
	vRepo.On("Remove", mock.Anything, uint(3), uint(5)).Return(gorm.ErrRecordNotFound)

	_, err := svc.Remove(context.Background(), 5, viewer)
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
