// Package service contains the business logic behind the HTTP handlers.
package service

import (
	"context"
	"strings"

	"starprep/internal/models"
	"starprep/internal/repository"
	"starprep/internal/validation"
)

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// maxTagsPerQuestion caps how many tags one comma-separated input may carry.
const maxTagsPerQuestion = 10

// ParseNames splits a comma-separated tag input into trimmed, de-duplicated
// names. Duplicates compare case-insensitively; the first spelling wins.
func ParseNames(input string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(input, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)
	}
	return names
}

// ResolveInput resolves a comma-separated tag string into concrete tags for
// the given owner, creating personal tags for names nothing else claims.
func (s *TagService) ResolveInput(ctx context.Context, ownerID uint, input string) ([]models.Tag, error) {
	names := ParseNames(input)
	if len(names) > maxTagsPerQuestion {
		return nil, models.NewValidationError("Too many tags (max 10)")
	}

	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if err := validation.ValidateTagName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		tag, err := s.tagRepo.Resolve(ctx, ownerID, name)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// TagCheck reports what a tag name would resolve to without creating it.
// CanCreate is the inverse of Exists: a free name becomes a personal tag on
// first use.
type TagCheck struct {
	Name      string `json:"name"`
	Exists    bool   `json:"exists"`
	IsPublic  bool   `json:"is_public"`
	CanCreate bool   `json:"can_create"`
}

// Check previews resolution for one name: does a public tag claim it, does
// the viewer's personal tag claim it, or is it free.
func (s *TagService) Check(ctx context.Context, ownerID uint, name string) (*TagCheck, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateTagName(name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if tag, err := s.tagRepo.FindPublicByName(ctx, name); err == nil {
		return &TagCheck{Name: tag.Name, Exists: true, IsPublic: true}, nil
	} else if !isNotFound(err) {
		return nil, models.NewInternalError(err)
	}

	if tag, err := s.tagRepo.FindPersonalByName(ctx, ownerID, name); err == nil {
		return &TagCheck{Name: tag.Name, Exists: true, IsPublic: false}, nil
	} else if !isNotFound(err) {
		return nil, models.NewInternalError(err)
	}

	return &TagCheck{Name: name, Exists: false, CanCreate: true}, nil
}

// AvailableFor lists the tags the viewer can attach to a question. For a
// public question only public tags are offered; personal tags stay out of
// the shared library.
func (s *TagService) AvailableFor(ctx context.Context, ownerID uint, publicOnly bool) ([]*models.Tag, error) {
	tags, err := s.tagRepo.AvailableFor(ctx, ownerID, publicOnly)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}
