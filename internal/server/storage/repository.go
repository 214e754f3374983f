package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/database"
	"centro-site/api/internal/models"
)

// ContentRepository defines operations on news items and projects.
type ContentRepository interface {
	ListArticles(ctx context.Context, t models.ContentType, limit int, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error)
	GetArticle(ctx context.Context, t models.ContentType, slug string) (*models.Article, error)
	CreateArticle(ctx context.Context, t models.ContentType, in models.ArticleInput) (*models.Article, error)
	UpdateArticle(ctx context.Context, t models.ContentType, slug string, in models.ArticleInput) (*models.Article, error)
	DeleteArticle(ctx context.Context, t models.ContentType, slug string) error
}

// PlacementRepository defines operations on the featured slots.
type PlacementRepository interface {
	FeaturedItems(ctx context.Context) ([]models.FeaturedItem, error)
	FeaturedProjects(ctx context.Context) ([]models.ProjectItem, error)
	ReplaceFeatured(ctx context.Context, a models.Assignment) error
	ReplaceFeaturedProjects(ctx context.Context, a models.ProjectAssignment) error
}

// VideoRepository defines operations on featured videos.
type VideoRepository interface {
	ListVideos(ctx context.Context) ([]models.Video, error)
	ActiveFeaturedVideos(ctx context.Context) ([]models.Video, error)
	GetVideo(ctx context.Context, id int64) (*models.Video, error)
	CreateVideo(ctx context.Context, v *models.Video) (*models.Video, error)
	UpdateVideo(ctx context.Context, v *models.Video) (*models.Video, error)
	DeleteVideo(ctx context.Context, id int64) error
}

// Store implements every repository on top of sqlx.
type Store struct {
	db *database.DB
}

// NewStore creates a new store instance.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// lookupArticleID resolves a slug to its row id inside tx.
func lookupArticleID(ctx context.Context, tx *sqlx.Tx, t models.ContentType, slug string) (int64, error) {
	var id int64
	query := tx.Rebind(fmt.Sprintf(`SELECT id FROM %s WHERE slug = ?`, t.Table()))
	if err := tx.GetContext(ctx, &id, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperrors.NotFound(string(t), slug)
		}
		return 0, fmt.Errorf("failed to look up %s %q: %w", t, slug, err)
	}
	return id, nil
}
