// Package placement assigns news items and projects to the homepage slots
// and resolves the slots back into display objects.
package placement

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/models"
	"centro-site/api/internal/readcache"
	"centro-site/api/internal/server/storage"
)

// Service reads and writes slot assignments.
type Service struct {
	repo  storage.PlacementRepository
	cache *readcache.Cache
}

// NewService creates a placement service. cache may be nil.
func NewService(repo storage.PlacementRepository, cache *readcache.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetFeatured resolves the three slots across news and projects.
func (s *Service) GetFeatured(ctx context.Context) (models.Slots[models.FeaturedItem], error) {
	return readcache.Fetch(s.cache, readcache.KeyFeatured, func() (models.Slots[models.FeaturedItem], error) {
		items, err := s.repo.FeaturedItems(ctx)
		if err != nil {
			return models.Slots[models.FeaturedItem]{}, err
		}
		return models.Bucket(items, func(f models.FeaturedItem) *models.Position {
			return f.Article().FeaturedPosition
		}), nil
	})
}

// SetFeatured replaces the whole assignment. Slots absent from a are emptied.
func (s *Service) SetFeatured(ctx context.Context, a models.Assignment) error {
	if err := ValidateAssignment(a); err != nil {
		return err
	}

	if err := s.repo.ReplaceFeatured(ctx, a); err != nil {
		return fmt.Errorf("set featured: %w", err)
	}
	s.cache.Flush()

	evt := log.Info()
	for _, p := range models.Positions {
		if ref := a.Ref(p); ref != nil {
			evt = evt.Str(string(p), ref.Key())
		}
	}
	evt.Msg("Featured slots updated")
	return nil
}

// GetProjectFeatured resolves the slots held by projects only.
func (s *Service) GetProjectFeatured(ctx context.Context) (models.Slots[models.ProjectItem], error) {
	return readcache.Fetch(s.cache, readcache.KeyFeaturedProjects, func() (models.Slots[models.ProjectItem], error) {
		projects, err := s.repo.FeaturedProjects(ctx)
		if err != nil {
			return models.Slots[models.ProjectItem]{}, err
		}
		return models.Bucket(projects, func(p models.ProjectItem) *models.Position {
			return p.FeaturedPosition
		}), nil
	})
}

// SetProjectFeatured replaces the project slots, evicting any news item that
// holds a requested slot.
func (s *Service) SetProjectFeatured(ctx context.Context, a models.ProjectAssignment) error {
	if err := ValidateProjectAssignment(a); err != nil {
		return err
	}

	if err := s.repo.ReplaceFeaturedProjects(ctx, a); err != nil {
		return fmt.Errorf("set featured projects: %w", err)
	}
	s.cache.Flush()

	log.Info().
		Str("A", a.Slug(models.PositionA)).
		Str("B", a.Slug(models.PositionB)).
		Str("C", a.Slug(models.PositionC)).
		Msg("Featured project slots updated")
	return nil
}

// ValidateAssignment checks each requested slot and rejects an item that is
// requested for more than one slot.
func ValidateAssignment(a models.Assignment) error {
	err := validation.ValidateStruct(&a,
		validation.Field(&a.PositionA, validation.By(validateRef)),
		validation.Field(&a.PositionB, validation.By(validateRef)),
		validation.Field(&a.PositionC, validation.By(validateRef)),
	)
	if err != nil {
		return err
	}

	seen := make(map[string]models.Position)
	for _, p := range models.Positions {
		ref := a.Ref(p)
		if ref == nil {
			continue
		}
		if first, dup := seen[ref.Key()]; dup {
			return apperrors.Invalid("position"+string(p),
				fmt.Sprintf("%s is already selected for position %s", ref.Key(), first))
		}
		seen[ref.Key()] = p
	}
	return nil
}

func validateRef(value any) error {
	ref, _ := value.(*models.SlotRef)
	if ref == nil || ref.IsZero() {
		return nil
	}
	return validation.ValidateStruct(ref,
		validation.Field(&ref.Type,
			validation.Required,
			validation.In(models.ContentNews, models.ContentProject).Error("invalid type"),
		),
		validation.Field(&ref.Slug, validation.Required),
	)
}

// ValidateProjectAssignment rejects a project requested for more than one slot.
func ValidateProjectAssignment(a models.ProjectAssignment) error {
	seen := make(map[string]models.Position)
	for _, p := range models.Positions {
		slug := a.Slug(p)
		if slug == "" {
			continue
		}
		if first, dup := seen[slug]; dup {
			return apperrors.Invalid("position"+string(p),
				fmt.Sprintf("project %s is already selected for position %s", slug, first))
		}
		seen[slug] = p
	}
	return nil
}
