package service

import (
	"context"
	"testing"

	"starprep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestModerationApprove(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	admin := models.Viewer{ID: 1, IsAdmin: true}

	qRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Question{ID: 5, OwnerID: 2, IsPublic: true, Status: models.StatusPending}, nil)
	qRepo.On("UpdateStatus", mock.Anything, uint(5), models.StatusApproved).Return(nil)

	result, err := svc.Approve(context.Background(), 5, admin)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, models.StatusApproved, result.Question.Status)
	qRepo.AssertExpectations(t)
}

func TestModerationApproveIdempotent(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	admin := models.Viewer{ID: 1, IsAdmin: true}

	qRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Question{ID: 5, OwnerID: 2, IsPublic: true, Status: models.StatusApproved}, nil)

	result, err := svc.Approve(context.Background(), 5, admin)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Contains(t, result.Message, "already")
	// No status write happens on a repeat decision.
	qRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestModerationDenyIdempotent(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	admin := models.Viewer{ID: 1, IsAdmin: true}

	qRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Question{ID: 5, OwnerID: 2, IsPublic: true, Status: models.StatusDenied}, nil)

	result, err := svc.Deny(context.Background(), 5, admin)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Contains(t, result.Message, "already denied")
}

func TestModerationRequiresAdmin(t *testing.T) {
	svc := NewModerationService(new(MockQuestionRepository))

	_, err := svc.Approve(context.Background(), 5, models.Viewer{ID: 2})
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeForbidden, appErr.Code)
}

func TestModerationPrivateQuestionReadsAsAbsent(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	admin := models.Viewer{ID: 1, IsAdmin: true}

	// A private question is outside the review queue; denying it answers
	// exactly like a missing id.
	qRepo.On("GetByID", mock.Anything, uint(5)).
		Return(&models.Question{ID: 5, OwnerID: 2, IsPublic: false, Status: models.StatusApproved}, nil)

	_, err := svc.Deny(context.Background(), 5, admin)
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
	qRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveCopy(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	viewer := models.Viewer{ID: 3}

	source := &models.Question{
		ID: 5, OwnerID: 2, Title: "Shared question",
		Body: "long body", IsPublic: true, Status: models.StatusApproved,
		Tags: []models.Tag{{ID: 1, Name: "Behavioral"}},
	}
	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).Return(source, nil)
	qRepo.On("ExistsPrivateCopy", mock.Anything, uint(3), "Shared question").Return(false, nil)
	qRepo.On("Create", mock.Anything, mock.MatchedBy(func(q *models.Question) bool {
		// The copy carries title and lands private/approved with an empty
		// body; content is the saver's to fill in.
		return q.OwnerID == 3 &&
			q.Title == "Shared question" &&
			q.Body == "" &&
			!q.IsPublic &&
			q.Status == models.StatusApproved
	}), source.Tags).Return(nil)

	result, err := svc.SaveCopy(context.Background(), 5, viewer)
	require.NoError(t, err)
	assert.False(t, result.AlreadySaved)
	require.NotNil(t, result.Question)
	qRepo.AssertExpectations(t)
}

func TestSaveCopyAlreadySaved(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	viewer := models.Viewer{ID: 3}

	source := &models.Question{ID: 5, OwnerID: 2, Title: "Shared question", IsPublic: true, Status: models.StatusApproved}
	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).Return(source, nil)
	qRepo.On("ExistsPrivateCopy", mock.Anything, uint(3), "Shared question").Return(true, nil)

	result, err := svc.SaveCopy(context.Background(), 5, viewer)
	require.NoError(t, err)
	assert.True(t, result.AlreadySaved)
	assert.Nil(t, result.Question)
	qRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveCopyOwnQuestion(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	viewer := models.Viewer{ID: 2}

	source := &models.Question{ID: 5, OwnerID: 2, Title: "Mine", IsPublic: true, Status: models.StatusApproved}
	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).Return(source, nil)

	_, err := svc.SaveCopy(context.Background(), 5, viewer)
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestSaveCopyPendingQuestionIsInvisible(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := NewModerationService(qRepo)
	// An admin can fetch a pending public question, but it is not part of
	// the library yet, so saving it is refused as not-found.
	admin := models.Viewer{ID: 1, IsAdmin: true}

	source := &models.Question{ID: 5, OwnerID: 2, Title: "Pending", IsPublic: true, Status: models.StatusPending}
	qRepo.On("GetVisible", mock.Anything, uint(5), admin).Return(source, nil)

	_, err := svc.SaveCopy(context.Background(), 5, admin)
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
