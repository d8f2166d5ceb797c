package repository

import (
	"context"
	"errors"
	"strings"

	"starprep/internal/models"
	"starprep/internal/observability"
	"starprep/internal/validation"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository defines the interface for tag data operations.
type TagRepository interface {
	// Resolve maps a display name to a tag under the shared-first rule: a
	// public tag with the name wins, then the owner's personal tag, then a
	// fresh personal tag is created.
	Resolve(ctx context.Context, ownerID uint, name string) (*models.Tag, error)
	FindPublicByName(ctx context.Context, name string) (*models.Tag, error)
	FindPersonalByName(ctx context.Context, ownerID uint, name string) (*models.Tag, error)
	// AvailableFor lists the tags attachable in the given context. Public
	// questions only carry public tags, so publicOnly drops the owner's
	// personal ones.
	AvailableFor(ctx context.Context, ownerID uint, publicOnly bool) ([]*models.Tag, error)
	CreatePublic(ctx context.Context, name string) (*models.Tag, error)
}

type tagRepository struct {
	db   *gorm.DB
	logs *observability.RepoLogger
}

// NewTagRepository creates a new tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{
		db:   db,
		logs: observability.NewRepoLogger("tags"),
	}
}

func (r *tagRepository) FindPublicByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where("is_public = ? AND LOWER(name) = ?", true, strings.ToLower(name)).
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindPersonalByName(ctx context.Context, ownerID uint, name string) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND LOWER(name) = ?", ownerID, strings.ToLower(name)).
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) Resolve(ctx context.Context, ownerID uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)

	if tag, err := r.FindPublicByName(ctx, name); err == nil {
		observability.TagResolutions.WithLabelValues("public").Inc()
		return tag, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logs.LogError(ctx, err, "resolve")
		return nil, err
	}

	if tag, err := r.FindPersonalByName(ctx, ownerID, name); err == nil {
		observability.TagResolutions.WithLabelValues("personal").Inc()
		return tag, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		r.logs.LogError(ctx, err, "resolve")
		return nil, err
	}

	tag := &models.Tag{
		Name:     name,
		Slug:     validation.Slugify(name),
		OwnerID:  &ownerID,
		IsPublic: false,
	}
	// Two concurrent resolutions of the same new name race on the unique
	// (name, owner) index. DoNothing swallows the conflict and the refetch
	// below returns whichever row won.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(tag)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return r.refetchAfterRace(ctx, ownerID, name)
		}
		r.logs.LogError(ctx, res.Error, "resolve-create")
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return r.refetchAfterRace(ctx, ownerID, name)
	}

	observability.TagResolutions.WithLabelValues("created").Inc()
	r.logs.LogWrite(ctx, "create", map[string]interface{}{"id": tag.ID, "name": tag.Name})
	return tag, nil
}

func (r *tagRepository) refetchAfterRace(ctx context.Context, ownerID uint, name string) (*models.Tag, error) {
	observability.TagResolutions.WithLabelValues("race_refetch").Inc()
	if tag, err := r.FindPublicByName(ctx, name); err == nil {
		return tag, nil
	}
	return r.FindPersonalByName(ctx, ownerID, name)
}

// isUniqueViolation recognizes a unique-index conflict coming back from the
// Postgres driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// AvailableFor lists every tag the owner can attach in the given context,
// alphabetically. A public question only carries public tags; a private one
// also offers the owner's personal tags.
func (r *tagRepository) AvailableFor(ctx context.Context, ownerID uint, publicOnly bool) ([]*models.Tag, error) {
	q := r.db.WithContext(ctx)
	if publicOnly {
		q = q.Where("is_public = ?", true)
	} else {
		q = q.Where("is_public = ? OR owner_id = ?", true, ownerID)
	}

	var tags []*models.Tag
	if err := q.Order("LOWER(name) ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// CreatePublic inserts a shared tag. Used by seeding and admin tooling, not
// by the resolution path.
func (r *tagRepository) CreatePublic(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{
		Name:     strings.TrimSpace(name),
		Slug:     validation.Slugify(name),
		IsPublic: true,
	}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		r.logs.LogError(ctx, err, "create-public")
		return nil, err
	}
	return tag, nil
}
