package service

import (
	"context"

	"starprep/internal/models"
	"starprep/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockQuestionRepository is a mock of the QuestionRepository interface
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *models.Question, tags []models.Tag) error {
	args := m.Called(ctx, question, tags)
	return args.Error(0)
}

func (m *MockQuestionRepository) Update(ctx context.Context, question *models.Question, tags []models.Tag) error {
	args := m.Called(ctx, question, tags)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetVisible(ctx context.Context, id uint, viewer models.Viewer) (*models.Question, error) {
	args := m.Called(ctx, id, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) List(ctx context.Context, spec repository.QuestionListSpec) (*repository.QuestionPage, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.QuestionPage), args.Error(1)
}

func (m *MockQuestionRepository) PendingModeration(ctx context.Context) ([]*models.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Question), args.Error(1)
}

func (m *MockQuestionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockQuestionRepository) ExistsPrivateCopy(ctx context.Context, ownerID uint, title string) (bool, error) {
	args := m.Called(ctx, ownerID, title)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) SavedTitles(ctx context.Context, ownerID uint) ([]string, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTagRepository is a mock of the TagRepository interface
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Resolve(ctx context.Context, ownerID uint, name string) (*models.Tag, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) FindPublicByName(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) FindPersonalByName(ctx context.Context, ownerID uint, name string) (*models.Tag, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTagRepository) AvailableFor(ctx context.Context, ownerID uint, publicOnly bool) ([]*models.Tag, error) {
	args := m.Called(ctx, ownerID, publicOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Tag), args.Error(1)
}

func (m *MockTagRepository) CreatePublic(ctx context.Context, name string) (*models.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

// MockAnswerRepository is a mock of the AnswerRepository interface
type MockAnswerRepository struct {
	mock.Mock
}

func (m *MockAnswerRepository) Create(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) Update(ctx context.Context, answer *models.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerRepository) GetByID(ctx context.Context, id uint) (*models.Answer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnswerRepository) ListForQuestion(ctx context.Context, question *models.Question, viewer models.Viewer) ([]*models.Answer, error) {
	args := m.Called(ctx, question, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Answer), args.Error(1)
}

func (m *MockAnswerRepository) CountForQuestion(ctx context.Context, questionID uint) (int64, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(int64), args.Error(1)
}

// MockVoteRepository is a mock of the VoteRepository interface
type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) Cast(ctx context.Context, userID, questionID uint, rating int) error {
	args := m.Called(ctx, userID, questionID, rating)
	return args.Error(0)
}

func (m *MockVoteRepository) Remove(ctx context.Context, userID, questionID uint) error {
	args := m.Called(ctx, userID, questionID)
	return args.Error(0)
}

func (m *MockVoteRepository) Summary(ctx context.Context, questionID uint) (*repository.VoteSummary, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.VoteSummary), args.Error(1)
}

func (m *MockVoteRepository) UserRating(ctx context.Context, userID, questionID uint) (int, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Int(0), args.Error(1)
}
