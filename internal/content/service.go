// Package content implements the news and project editors.
package content

import (
	"context"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/rs/zerolog/log"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/models"
	"centro-site/api/internal/readcache"
	"centro-site/api/internal/server/storage"
)

// reservedSlugs collide with fixed routes under /api/news and /api/projects.
var reservedSlugs = map[string]bool{
	"featured": true,
}

// Service validates editor input for one content type.
type Service struct {
	kind  models.ContentType
	repo  storage.ContentRepository
	cache *readcache.Cache
}

// NewService creates an editor for kind. cache may be nil.
func NewService(kind models.ContentType, repo storage.ContentRepository, cache *readcache.Cache) *Service {
	return &Service{kind: kind, repo: repo, cache: cache}
}

// Kind returns the content type this service edits.
func (s *Service) Kind() models.ContentType {
	return s.kind
}

// List returns up to limit rows older than the cursor position.
func (s *Service) List(ctx context.Context, limit int, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error) {
	return s.repo.ListArticles(ctx, s.kind, limit, cursorTimestamp, cursorID)
}

// Get returns one row by slug.
func (s *Service) Get(ctx context.Context, slug string) (*models.Article, error) {
	return s.repo.GetArticle(ctx, s.kind, slug)
}

// Create validates and stores a new row.
func (s *Service) Create(ctx context.Context, in models.ArticleInput) (*models.Article, error) {
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.CreateArticle(ctx, s.kind, in)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()

	log.Info().Str("type", string(s.kind)).Str("slug", a.Slug).Msg("Content created")
	return a, nil
}

// Update replaces the row identified by slug.
func (s *Service) Update(ctx context.Context, slug string, in models.ArticleInput) (*models.Article, error) {
	if in.Slug == "" {
		in.Slug = slug
	}
	in, err := s.prepare(in)
	if err != nil {
		return nil, err
	}

	a, err := s.repo.UpdateArticle(ctx, s.kind, slug, in)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()

	log.Info().Str("type", string(s.kind)).Str("slug", a.Slug).Msg("Content updated")
	return a, nil
}

// Delete removes the row identified by slug and frees its slot.
func (s *Service) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteArticle(ctx, s.kind, slug); err != nil {
		return err
	}
	s.cache.Flush()

	log.Info().Str("type", string(s.kind)).Str("slug", slug).Msg("Content deleted")
	return nil
}

// prepare trims and validates input and derives the slug.
func (s *Service) prepare(in models.ArticleInput) (models.ArticleInput, error) {
	in.TitlePT = strings.TrimSpace(in.TitlePT)
	in.TitleEN = strings.TrimSpace(in.TitleEN)

	err := validation.ValidateStruct(&in,
		validation.Field(&in.TitlePT, validation.Required, validation.Length(1, 300)),
		validation.Field(&in.TitleEN, validation.Length(0, 300)),
		validation.Field(&in.BadgeColor, validation.Length(0, 32)),
	)
	if err != nil {
		return in, err
	}

	source := strings.TrimSpace(in.Slug)
	if source == "" {
		source = in.TitlePT
	}
	normalized, err := slug.Normalize(source)
	if err != nil || normalized == "" {
		return in, apperrors.Invalid("slug", "cannot derive a valid slug from "+source)
	}
	if reservedSlugs[normalized] {
		return in, apperrors.Invalid("slug", normalized+" is reserved")
	}
	in.Slug = normalized
	return in, nil
}
