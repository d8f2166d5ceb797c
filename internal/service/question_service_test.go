package service

import (
	"context"
	"testing"

	"starprep/internal/cache"
	"starprep/internal/models"
	"starprep/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStatusOnCreate(t *testing.T) {
	member := models.Viewer{ID: 1}
	admin := models.Viewer{ID: 2, IsAdmin: true}

	tests := []struct {
		name     string
		viewer   models.Viewer
		isPublic bool
		want     string
	}{
		{"private by member", member, false, models.StatusApproved},
		{"private by admin", admin, false, models.StatusApproved},
		{"public by member enters review", member, true, models.StatusPending},
		{"public by admin skips review", admin, true, models.StatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOnCreate(tt.viewer, tt.isPublic))
		})
	}
}

func TestStatusOnEdit(t *testing.T) {
	owner := models.Viewer{ID: 1}
	admin := models.Viewer{ID: 2, IsAdmin: true}

	tests := []struct {
		name     string
		current  string
		editor   models.Viewer
		isPublic bool
		want     string
	}{
		{"made private lands approved", models.StatusDenied, owner, false, models.StatusApproved},
		{"owner edit of approved public re-enters review", models.StatusApproved, owner, true, models.StatusPending},
		{"owner edit of denied public re-enters review", models.StatusDenied, owner, true, models.StatusPending},
		{"owner edit of pending public stays pending", models.StatusPending, owner, true, models.StatusPending},
		{"admin edit keeps approved", models.StatusApproved, admin, true, models.StatusApproved},
		{"admin edit keeps denied", models.StatusDenied, admin, true, models.StatusDenied},
		{"admin making private lands approved", models.StatusPending, admin, false, models.StatusApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusOnEdit(tt.current, tt.editor, tt.isPublic))
		})
	}
}

func newQuestionService(qRepo *MockQuestionRepository, aRepo *MockAnswerRepository, vRepo *MockVoteRepository, tRepo *MockTagRepository) *QuestionService {
	return NewQuestionService(qRepo, aRepo, vRepo, NewTagService(tRepo))
}

func TestQuestionServiceCreateSetsStatus(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	tRepo := new(MockTagRepository)
	svc := newQuestionService(qRepo, new(MockAnswerRepository), new(MockVoteRepository), tRepo)

	qRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	q, err := svc.Create(context.Background(), CreateQuestionInput{
		Viewer:   models.Viewer{ID: 1},
		Title:    "Tell me about a failure",
		IsPublic: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, q.Status)
	assert.Equal(t, uint(1), q.OwnerID)

	q, err = svc.Create(context.Background(), CreateQuestionInput{
		Viewer: models.Viewer{ID: 1},
		Title:  "Private notes",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, q.Status)
}

func TestQuestionServiceCreateValidation(t *testing.T) {
	svc := newQuestionService(new(MockQuestionRepository), new(MockAnswerRepository), new(MockVoteRepository), new(MockTagRepository))

	_, err := svc.Create(context.Background(), CreateQuestionInput{
		Viewer: models.Viewer{ID: 1},
		Title:  "   ",
	})
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeValidation, appErr.Code)

	_, err = svc.Create(context.Background(), CreateQuestionInput{Title: "anon"})
	appErr, ok = err.(*models.AppError)
	require.True(t, ok)
	assert.Equal(t, models.CodeUnauthorized, appErr.Code)
}

func TestQuestionServiceCreateResolvesTags(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	tRepo := new(MockTagRepository)
	svc := newQuestionService(qRepo, new(MockAnswerRepository), new(MockVoteRepository), tRepo)

	tRepo.On("Resolve", mock.Anything, uint(1), "Leadership").
		Return(&models.Tag{ID: 10, Name: "Leadership"}, nil)
	tRepo.On("Resolve", mock.Anything, uint(1), "Conflict").
		Return(&models.Tag{ID: 11, Name: "Conflict"}, nil)
	qRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(tags []models.Tag) bool {
		return len(tags) == 2
	})).Return(nil)

	_, err := svc.Create(context.Background(), CreateQuestionInput{
		Viewer: models.Viewer{ID: 1},
		Title:  "Tagged",
		// Duplicate spelling collapses before resolution.
		Tags: "Leadership, Conflict, leadership",
	})
	require.NoError(t, err)
	tRepo.AssertNumberOfCalls(t, "Resolve", 2)
	qRepo.AssertExpectations(t)
}

func TestQuestionServiceUpdateNonOwnerGets404(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := newQuestionService(qRepo, new(MockAnswerRepository), new(MockVoteRepository), new(MockTagRepository))

	// Visible to everyone, but editing is owner/admin-only and the refusal
	// must not distinguish itself from a missing question.
	qRepo.On("GetByID", mock.Anything, uint(9)).
		Return(&models.Question{ID: 9, OwnerID: 1, IsPublic: true, Status: models.StatusApproved}, nil)

	_, err := svc.Update(context.Background(), UpdateQuestionInput{
		Viewer:     models.Viewer{ID: 2},
		QuestionID: 9,
		Title:      "Hijack",
	})
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestQuestionServiceAdminEditPreservesOwnerAndStatus(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	tRepo := new(MockTagRepository)
	svc := newQuestionService(qRepo, new(MockAnswerRepository), new(MockVoteRepository), tRepo)

	existing := &models.Question{ID: 9, OwnerID: 1, IsPublic: true, Status: models.StatusDenied, Title: "Old"}
	qRepo.On("GetByID", mock.Anything, uint(9)).Return(existing, nil)
	qRepo.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	q, err := svc.Update(context.Background(), UpdateQuestionInput{
		Viewer:     models.Viewer{ID: 99, IsAdmin: true},
		QuestionID: 9,
		Title:      "Fixed title",
		IsPublic:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), q.OwnerID, "admin edit must not capture the question")
	assert.Equal(t, models.StatusDenied, q.Status, "admin edit keeps the review status")
}

func TestQuestionServiceGetNotFound(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	svc := newQuestionService(qRepo, new(MockAnswerRepository), new(MockVoteRepository), new(MockTagRepository))

	qRepo.On("GetVisible", mock.Anything, uint(5), mock.Anything).
		Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 5, models.Viewer{ID: 3})
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestQuestionServiceGetDetail(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	aRepo := new(MockAnswerRepository)
	vRepo := new(MockVoteRepository)
	svc := newQuestionService(qRepo, aRepo, vRepo, new(MockTagRepository))

	viewer := models.Viewer{ID: 3}
	question := &models.Question{ID: 5, OwnerID: 1, Title: "Shared", IsPublic: true, Status: models.StatusApproved}

	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).Return(question, nil)
	aRepo.On("ListForQuestion", mock.Anything, question, viewer).
		Return([]*models.Answer{{ID: 1, Type: models.AnswerTypeBasic, Text: "a"}}, nil)
	vRepo.On("Summary", mock.Anything, uint(5)).
		Return(&repository.VoteSummary{QuestionID: 5, Count: 4, Average: 3.5}, nil)
	vRepo.On("UserRating", mock.Anything, uint(3), uint(5)).Return(4, nil)
	qRepo.On("ExistsPrivateCopy", mock.Anything, uint(3), "Shared").Return(true, nil)

	detail, err := svc.Get(context.Background(), 5, viewer)
	require.NoError(t, err)
	assert.Len(t, detail.Answers, 1)
	assert.Equal(t, 4, detail.ViewerRating)
	assert.True(t, detail.AlreadySaved)
	assert.Equal(t, int64(4), detail.Votes.Count)
}

func TestQuestionServiceGetCachesAnonymousDetail(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	qRepo := new(MockQuestionRepository)
	aRepo := new(MockAnswerRepository)
	vRepo := new(MockVoteRepository)
	svc := newQuestionService(qRepo, aRepo, vRepo, new(MockTagRepository))

	anon := models.Viewer{}
	question := &models.Question{ID: 5, OwnerID: 1, Title: "Shared", IsPublic: true, Status: models.StatusApproved}

	qRepo.On("GetVisible", mock.Anything, uint(5), anon).Return(question, nil).Once()
	aRepo.On("ListForQuestion", mock.Anything, question, anon).
		Return([]*models.Answer{{ID: 1, Type: models.AnswerTypeBasic, Text: "a", IsPublic: true}}, nil).Once()
	vRepo.On("Summary", mock.Anything, uint(5)).
		Return(&repository.VoteSummary{QuestionID: 5, Count: 2, Average: 4}, nil).Once()

	first, err := svc.Get(context.Background(), 5, anon)
	require.NoError(t, err)
	assert.True(t, mr.Exists(cache.QuestionKey(5)))

	// The second read is served from the cache; the Once expectations above
	// fail the test if any repository is hit again.
	second, err := svc.Get(context.Background(), 5, anon)
	require.NoError(t, err)
	assert.Equal(t, first.Question.Title, second.Question.Title)
	assert.Len(t, second.Answers, 1)
	assert.Equal(t, int64(2), second.Votes.Count)

	// Moderation and edits drop the entry.
	cache.InvalidateQuestion(context.Background(), 5)
	assert.False(t, mr.Exists(cache.QuestionKey(5)))
}

func TestQuestionServiceGetSurfacesCorruptAnswer(t *testing.T) {
	qRepo := new(MockQuestionRepository)
	aRepo := new(MockAnswerRepository)
	svc := newQuestionService(qRepo, aRepo, new(MockVoteRepository), new(MockTagRepository))

	viewer := models.Viewer{ID: 1}
	question := &models.Question{ID: 5, OwnerID: 1}
	qRepo.On("GetVisible", mock.Anything, uint(5), viewer).Return(question, nil)
	aRepo.On("ListForQuestion", mock.Anything, question, viewer).
		Return([]*models.Answer{{ID: 7, Type: "MYSTERY"}}, nil)

	_, err := svc.Get(context.Background(), 5, viewer)
	require.Error(t, err)
	appErr := err.(*models.AppError)
	assert.Equal(t, models.CodeIntegrityFault, appErr.Code)
}
