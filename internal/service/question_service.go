package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"starprep/internal/cache"
	"starprep/internal/models"
	"starprep/internal/repository"

	"gorm.io/gorm"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	answerRepo   repository.AnswerRepository
	voteRepo     repository.VoteRepository
	tags         *TagService
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	voteRepo repository.VoteRepository,
	tags *TagService,
) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
		tags:         tags,
	}
}

type CreateQuestionInput struct {
	Viewer   models.Viewer
	Title    string
	Body     string
	IsPublic bool
	Tags     string
}

type UpdateQuestionInput struct {
	Viewer     models.Viewer
	QuestionID uint
	Title      string
	Body       string
	IsPublic   bool
	Tags       string
}

type ListQuestionsInput struct {
	Viewer  models.Viewer
	Library bool
	View    string
	Tag     string
	Search  string
	Sort    string
	Page    int
}

// QuestionList is one page of questions plus the per-viewer extras the list
// pages render.
type QuestionList struct {
	*repository.QuestionPage
	// AlreadySaved marks library questions whose title matches one of the
	// viewer's private questions. Empty outside the library or for anonymous
	// viewers.
	AlreadySaved map[uint]bool `json:"already_saved,omitempty"`
	// Pending is the moderation queue, shown to admins on the library's
	// first page.
	Pending []*models.Question `json:"pending,omitempty"`
}

// QuestionDetail is everything the detail page needs in one shot.
type QuestionDetail struct {
	Question     *models.Question        `json:"question"`
	Answers      []*models.Answer        `json:"answers"`
	Votes        *repository.VoteSummary `json:"votes"`
	ViewerRating int                     `json:"viewer_rating"`
	AlreadySaved bool                    `json:"already_saved"`
}

// statusOnCreate decides the moderation status of a brand-new question.
// Private questions never enter review. Public ones do, unless an admin is
// the author.
func statusOnCreate(viewer models.Viewer, isPublic bool) string {
	if !isPublic {
		return models.StatusApproved
	}
	if viewer.IsAdmin {
		return models.StatusApproved
	}
	return models.StatusPending
}

// statusOnEdit decides the status after an edit. Going (or staying) private
// always lands on APPROVED. An owner editing a public question re-enters
// review regardless of the previous status; an admin's edit keeps whatever
// status the question had.
func statusOnEdit(current string, editor models.Viewer, isPublic bool) string {
	if !isPublic {
		return models.StatusApproved
	}
	if editor.IsAdmin {
		return current
	}
	return models.StatusPending
}

func validateQuestionFields(title, body string) error {
	const maxTitleLen = 255
	const maxBodyLen = 50000

	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 255 characters)")
	}
	if len(body) > maxBodyLen {
		return models.NewValidationError("Body too long (max 50000 characters)")
	}
	return nil
}

func (s *QuestionService) Create(ctx context.Context, in CreateQuestionInput) (*models.Question, error) {
	if in.Viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validateQuestionFields(in.Title, in.Body); err != nil {
		return nil, err
	}

	tags, err := s.tags.ResolveInput(ctx, in.Viewer.ID, in.Tags)
	if err != nil {
		return nil, err
	}

	question := &models.Question{
		OwnerID:  in.Viewer.ID,
		Title:    strings.TrimSpace(in.Title),
		Body:     in.Body,
		IsPublic: in.IsPublic,
		Status:   statusOnCreate(in.Viewer, in.IsPublic),
	}
	if err := s.questionRepo.Create(ctx, question, tags); err != nil {
		return nil, models.NewInternalError(err)
	}

	if question.IsVisiblePublicly() {
		cache.InvalidatePublicLists(ctx)
	}
	return question, nil
}

func (s *QuestionService) Update(ctx context.Context, in UpdateQuestionInput) (*models.Question, error) {
	question, err := s.getEditable(ctx, in.QuestionID, in.Viewer)
	if err != nil {
		return nil, err
	}
	if err := validateQuestionFields(in.Title, in.Body); err != nil {
		return nil, err
	}

	// Tags always belong with the question's owner, also under admin edits.
	tags, err := s.tags.ResolveInput(ctx, question.OwnerID, in.Tags)
	if err != nil {
		return nil, err
	}

	wasVisible := question.IsVisiblePublicly()
	question.Title = strings.TrimSpace(in.Title)
	question.Body = in.Body
	question.IsPublic = in.IsPublic
	question.Status = statusOnEdit(question.Status, in.Viewer, in.IsPublic)
	// OwnerID deliberately untouched: an admin's edit must not capture the
	// question.

	if err := s.questionRepo.Update(ctx, question, tags); err != nil {
		return nil, models.NewInternalError(err)
	}

	if wasVisible || question.IsVisiblePublicly() {
		cache.InvalidateQuestion(ctx, question.ID)
		cache.InvalidatePublicLists(ctx)
	}
	return question, nil
}

// getEditable fetches a question for a write operation. Anyone who is not
// the owner or an admin gets NOT_FOUND, never FORBIDDEN: write access is not
// allowed to reveal more than read access does.
func (s *QuestionService) getEditable(ctx context.Context, id uint, viewer models.Viewer) (*models.Question, error) {
	if viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}
	if !question.OwnedBy(viewer) && !viewer.IsAdmin {
		return nil, models.NewNotFoundError("Question", id)
	}
	return question, nil
}

func (s *QuestionService) Delete(ctx context.Context, id uint, viewer models.Viewer) (int64, error) {
	question, err := s.getEditable(ctx, id, viewer)
	if err != nil {
		return 0, err
	}

	deletedAnswers, err := s.questionRepo.Delete(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return 0, models.NewNotFoundError("Question", id)
		}
		return 0, models.NewInternalError(err)
	}

	if question.IsVisiblePublicly() {
		cache.InvalidateQuestion(ctx, id)
		cache.InvalidatePublicLists(ctx)
	}
	return deletedAnswers, nil
}

func (s *QuestionService) Get(ctx context.Context, id uint, viewer models.Viewer) (*QuestionDetail, error) {
	if viewer.Anonymous() {
		// An anonymous detail view of a public question carries nothing
		// viewer-specific, so it is shared through the cache like the
		// library pages. Invisible questions fail before anything is stored.
		detail := &QuestionDetail{}
		err := cache.Aside(ctx, cache.QuestionKey(id), detail, cache.QuestionTTL, func() error {
			fresh, buildErr := s.buildDetail(ctx, id, viewer)
			if buildErr != nil {
				return buildErr
			}
			*detail = *fresh
			return nil
		})
		if err != nil {
			return nil, err
		}
		return detail, nil
	}
	return s.buildDetail(ctx, id, viewer)
}

func (s *QuestionService) buildDetail(ctx context.Context, id uint, viewer models.Viewer) (*QuestionDetail, error) {
	question, err := s.questionRepo.GetVisible(ctx, id, viewer)
	if err != nil {
		if isNotFound(err) {
			return nil, models.NewNotFoundError("Question", id)
		}
		return nil, models.NewInternalError(err)
	}

	answers, err := s.answerRepo.ListForQuestion(ctx, question, viewer)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	// Surface corrupted rows now rather than during rendering.
	for _, a := range answers {
		if _, err := a.Variant(); err != nil {
			return nil, err
		}
	}

	votes, err := s.voteRepo.Summary(ctx, question.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	detail := &QuestionDetail{
		Question: question,
		Answers:  answers,
		Votes:    votes,
	}
	if !viewer.Anonymous() {
		rating, err := s.voteRepo.UserRating(ctx, viewer.ID, question.ID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		detail.ViewerRating = rating

		if question.IsVisiblePublicly() && question.OwnerID != viewer.ID {
			saved, err := s.questionRepo.ExistsPrivateCopy(ctx, viewer.ID, question.Title)
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			detail.AlreadySaved = saved
		}
	}
	return detail, nil
}

func (s *QuestionService) List(ctx context.Context, in ListQuestionsInput) (*QuestionList, error) {
	if !in.Library && in.Viewer.Anonymous() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	spec := repository.QuestionListSpec{
		Library: in.Library,
		Viewer:  in.Viewer,
		View:    in.View,
		Tag:     in.Tag,
		Search:  in.Search,
		Sort:    in.Sort,
		Page:    in.Page,
	}

	var page *repository.QuestionPage
	var err error
	if in.Library && in.Viewer.Anonymous() {
		// Anonymous library pages carry nothing viewer-specific, so they are
		// safe to share through the cache.
		page = &repository.QuestionPage{}
		key := cache.PublicListKey(canonicalListQuery(spec))
		err = cache.Aside(ctx, key, page, cache.PublicListTTL, func() error {
			fresh, listErr := s.questionRepo.List(ctx, spec)
			if listErr != nil {
				return listErr
			}
			*page = *fresh
			return nil
		})
	} else {
		page, err = s.questionRepo.List(ctx, spec)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	list := &QuestionList{QuestionPage: page}

	if in.Library && !in.Viewer.Anonymous() {
		titles, err := s.questionRepo.SavedTitles(ctx, in.Viewer.ID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		saved := make(map[string]bool, len(titles))
		for _, t := range titles {
			saved[t] = true
		}
		list.AlreadySaved = make(map[uint]bool, len(page.Items))
		for _, q := range page.Items {
			if q.OwnerID != in.Viewer.ID && saved[q.Title] {
				list.AlreadySaved[q.ID] = true
			}
		}
	}

	if in.Library && in.Viewer.IsAdmin && page.Page == 1 {
		pending, err := s.questionRepo.PendingModeration(ctx)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		list.Pending = pending
	}
	return list, nil
}

// canonicalListQuery renders the filter parameters in a fixed order so that
// equivalent requests share one cache entry.
func canonicalListQuery(spec repository.QuestionListSpec) string {
	page := spec.Page
	if page < 1 {
		page = 1
	}
	return fmt.Sprintf("tag=%s&search=%s&sort=%s&page=%d",
		strings.ToLower(strings.TrimSpace(spec.Tag)),
		strings.TrimSpace(spec.Search),
		repository.NormalizeSort(spec.Sort),
		page,
	)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
