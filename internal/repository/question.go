// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"starprep/internal/database"
	"starprep/internal/models"
	"starprep/internal/observability"
	"starprep/internal/validation"

	"gorm.io/gorm"
)

// PageSize is the fixed page size for question lists.
const PageSize = 12

// View filters for the owner's question list. Invalid values silently fall
// back to ViewPersonal.
const (
	ViewPersonal = "personal"
	ViewPublic   = "public"
	ViewAll      = "all"
)

// SortNewest is the default sort for question lists.
const SortNewest = "-created_at"

// sortOrders is the allow-list of sort keys and their ORDER BY expressions.
// answer_count is the SELECT alias annotated by the list query.
var sortOrders = map[string]string{
	SortNewest:      "questions.created_at DESC",
	"created_at":    "questions.created_at ASC",
	"title":         "questions.title ASC",
	"-title":        "questions.title DESC",
	"-answer_count": "answer_count DESC, questions.created_at DESC",
	"answer_count":  "answer_count ASC, questions.created_at DESC",
}

// NormalizeSort maps an arbitrary sort value onto the allow-list, falling
// back to newest-first.
func NormalizeSort(sort string) string {
	if _, ok := sortOrders[sort]; ok {
		return sort
	}
	return SortNewest
}

// NormalizeView maps an arbitrary view value onto the allow-list, falling
// back to the personal view.
func NormalizeView(view string) string {
	switch view {
	case ViewPersonal, ViewPublic, ViewAll:
		return view
	default:
		return ViewPersonal
	}
}

// QuestionListSpec is the full set of list parameters. One spec builds one
// concrete query; there is no lazy recomposition.
type QuestionListSpec struct {
	// Library selects the shared public library instead of the viewer's own
	// collection.
	Library bool
	Viewer  models.Viewer
	View    string
	Tag     string
	Search  string
	Sort    string
	Page    int
}

// QuestionPage is one page of list results plus the metadata needed to
// rebuild pagination links that round-trip the list parameters.
type QuestionPage struct {
	Items      []*models.Question `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalItems int64              `json:"total_items"`
	TotalPages int                `json:"total_pages"`
	Sort       string             `json:"sort"`
	View       string             `json:"view,omitempty"`
	Tag        string             `json:"tag,omitempty"`
	Search     string             `json:"search,omitempty"`
}

// QuestionRepository defines the interface for question data operations.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question, tags []models.Tag) error
	Update(ctx context.Context, question *models.Question, tags []models.Tag) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	GetVisible(ctx context.Context, id uint, viewer models.Viewer) (*models.Question, error)
	Delete(ctx context.Context, id uint) (deletedAnswers int64, err error)
	List(ctx context.Context, spec QuestionListSpec) (*QuestionPage, error)
	PendingModeration(ctx context.Context) ([]*models.Question, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	ExistsPrivateCopy(ctx context.Context, ownerID uint, title string) (bool, error)
	SavedTitles(ctx context.Context, ownerID uint) ([]string, error)
}

type questionRepository struct {
	db *gorm.DB
	// fts reports whether the store supports tsvector search; injected
	// rather than sniffed per query.
	fts  bool
	logs *observability.RepoLogger
}

// NewQuestionRepository creates a new question repository. fullTextSearch
// should only be true when the connected store actually supports it.
func NewQuestionRepository(db *gorm.DB, fullTextSearch bool) QuestionRepository {
	return &questionRepository{
		db:   db,
		fts:  fullTextSearch && database.IsPostgres(db),
		logs: observability.NewRepoLogger("questions"),
	}
}

// answerCountSelect annotates every returned row; the display contract
// requires the count regardless of sort, and a subselect keeps it to one
// query instead of one count per row.
const answerCountSelect = "questions.*, " +
	"(SELECT COUNT(*) FROM answers WHERE answers.question_id = questions.id) AS answer_count"

func (r *questionRepository) Create(ctx context.Context, question *models.Question, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(question).Error; err != nil {
			return err
		}
		if err := tx.Model(question).Association("Tags").Replace(tags); err != nil {
			return err
		}
		// Search must reflect the new row on the very next read, so the
		// vector refresh commits with the insert.
		return database.RefreshQuestionVector(tx, question.ID)
	})
	if err != nil {
		r.logs.LogError(ctx, err, "create")
		return err
	}
	r.logs.LogWrite(ctx, "create", map[string]interface{}{"id": question.ID})
	return nil
}

func (r *questionRepository) Update(ctx context.Context, question *models.Question, tags []models.Tag) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(question).Error; err != nil {
			return err
		}
		if err := tx.Model(question).Association("Tags").Replace(tags); err != nil {
			return err
		}
		return database.RefreshQuestionVector(tx, question.ID)
	})
	if err != nil {
		r.logs.LogError(ctx, err, "update")
		return err
	}
	r.logs.LogWrite(ctx, "update", map[string]interface{}{"id": question.ID})
	return nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Select(answerCountSelect).
		Preload("Owner").
		Preload("Tags").
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// scopeVisibleTo composes the SQL mirror of models.Question.VisibleTo.
func scopeVisibleTo(viewer models.Viewer) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer.IsAdmin {
			return db
		}
		if viewer.Anonymous() {
			return db.Where("questions.is_public = ? AND questions.status = ?", true, models.StatusApproved)
		}
		return db.Where(
			"questions.owner_id = ? OR (questions.is_public = ? AND questions.status = ?)",
			viewer.ID, true, models.StatusApproved,
		)
	}
}

// GetVisible returns the question only when the viewer may see it; an
// invisible question is indistinguishable from an absent one.
func (r *questionRepository) GetVisible(ctx context.Context, id uint, viewer models.Viewer) (*models.Question, error) {
	var question models.Question
	err := r.db.WithContext(ctx).
		Select(answerCountSelect).
		Scopes(scopeVisibleTo(viewer)).
		Preload("Owner").
		Preload("Tags").
		First(&question, "questions.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var deletedAnswers int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("question_id = ?", id).Delete(&models.Answer{})
		if res.Error != nil {
			return res.Error
		}
		deletedAnswers = res.RowsAffected

		if err := tx.Where("question_id = ?", id).Delete(&models.QuestionVote{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM question_tags WHERE question_id = ?", id).Error; err != nil {
			return err
		}

		res = tx.Delete(&models.Question{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.logs.LogError(ctx, err, "delete")
		}
		return 0, err
	}
	r.logs.LogWrite(ctx, "delete", map[string]interface{}{"id": id, "answers": deletedAnswers})
	return deletedAnswers, nil
}

// applyFilters adds the scope/tag/search conditions shared by the count and
// page queries.
func (r *questionRepository) applyFilters(db *gorm.DB, spec QuestionListSpec) *gorm.DB {
	if spec.Library {
		db = db.Where("questions.is_public = ? AND questions.status = ?", true, models.StatusApproved)
	} else {
		db = db.Where("questions.owner_id = ?", spec.Viewer.ID)
		switch NormalizeView(spec.View) {
		case ViewPublic:
			db = db.Where("questions.is_public = ?", true)
		case ViewAll:
			// no extra filter
		default:
			db = db.Where("questions.is_public = ?", false)
		}
	}

	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		// EXISTS instead of a join: a question with the tag matches once, so
		// no deduplication pass is needed before counting or paging.
		db = db.Where(
			"EXISTS (SELECT 1 FROM question_tags qt JOIN tags t ON t.id = qt.tag_id "+
				"WHERE qt.question_id = questions.id AND LOWER(t.slug) = ?)",
			validation.Slugify(tag),
		)
	}

	if search := strings.TrimSpace(spec.Search); search != "" {
		if r.fts {
			observability.QuestionListSearches.WithLabelValues("fulltext").Inc()
			like := "%" + search + "%"
			db = db.Where(
				"questions.search_vector @@ websearch_to_tsquery('english', ?) "+
					"OR questions.title ILIKE ? "+
					"OR EXISTS (SELECT 1 FROM answers a WHERE a.question_id = questions.id "+
					"AND a.user_id = ? AND a.search_vector @@ websearch_to_tsquery('english', ?))",
				search, like, spec.Viewer.ID, search,
			)
		} else {
			// Reduced recall: title/body substring match only.
			observability.QuestionListSearches.WithLabelValues("substring").Inc()
			like := "%" + strings.ToLower(search) + "%"
			db = db.Where(
				"LOWER(questions.title) LIKE ? OR LOWER(questions.body) LIKE ?",
				like, like,
			)
		}
	}

	return db
}

func (r *questionRepository) List(ctx context.Context, spec QuestionListSpec) (*QuestionPage, error) {
	var total int64
	countQuery := r.applyFilters(
		r.db.WithContext(ctx).Model(&models.Question{}), spec)
	if err := countQuery.Count(&total).Error; err != nil {
		r.logs.LogError(ctx, err, "list-count")
		return nil, err
	}

	totalPages := int(total+PageSize-1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	// Out-of-range pages clamp to the nearest valid page, never error.
	page := spec.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	sort := NormalizeSort(spec.Sort)

	var items []*models.Question
	pageQuery := r.applyFilters(
		r.db.WithContext(ctx).Model(&models.Question{}).Select(answerCountSelect), spec).
		Preload("Owner").
		Preload("Tags").
		Order(sortOrders[sort]).
		Limit(PageSize).
		Offset((page - 1) * PageSize)
	if err := pageQuery.Find(&items).Error; err != nil {
		r.logs.LogError(ctx, err, "list")
		return nil, err
	}

	result := &QuestionPage{
		Items:      items,
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: totalPages,
		Sort:       sort,
		Tag:        strings.TrimSpace(spec.Tag),
		Search:     strings.TrimSpace(spec.Search),
	}
	if !spec.Library {
		result.View = NormalizeView(spec.View)
	}
	return result, nil
}

// PendingModeration returns the public questions queued for review, newest
// first. Admin-only surface.
func (r *questionRepository) PendingModeration(ctx context.Context) ([]*models.Question, error) {
	var items []*models.Question
	err := r.db.WithContext(ctx).
		Select(answerCountSelect).
		Where("questions.is_public = ? AND questions.status = ?", true, models.StatusPending).
		Preload("Owner").
		Preload("Tags").
		Order("questions.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus sets the moderation status directly. Returns
// gorm.ErrRecordNotFound when no row was touched.
func (r *questionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		r.logs.LogError(ctx, res.Error, "update-status")
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.logs.LogWrite(ctx, "update-status", map[string]interface{}{"id": id, "status": status})
	return nil
}

// ExistsPrivateCopy reports whether the owner already holds a private
// question with this exact title. Title-based matching is a known
// limitation: two distinct public questions with identical titles collide.
func (r *questionRepository) ExistsPrivateCopy(ctx context.Context, ownerID uint, title string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("owner_id = ? AND title = ? AND is_public = ?", ownerID, title, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SavedTitles returns the titles of the owner's private questions, used to
// mark already-saved entries in the public library.
func (r *questionRepository) SavedTitles(ctx context.Context, ownerID uint) ([]string, error) {
	var titles []string
	err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("owner_id = ? AND is_public = ?", ownerID, false).
		Pluck("title", &titles).Error
	if err != nil {
		return nil, err
	}
	return titles, nil
}
