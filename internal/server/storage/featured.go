package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/database"
	"centro-site/api/internal/models"
)

// featuredSelect returns only rows that hold a slot, ordered by slot.
func featuredSelect(ct models.ContentType) string {
	return fmt.Sprintf(`SELECT %s, fs.slot AS featured_position
		FROM %s t
		JOIN featured_slots fs ON fs.content_type = '%s' AND fs.content_id = t.id
		ORDER BY fs.slot`,
		articleColumns, ct.Table(), ct)
}

// FeaturedItems returns every slotted row, news first then projects.
func (s *Store) FeaturedItems(ctx context.Context) ([]models.FeaturedItem, error) {
	var news []models.NewsItem
	if err := s.db.SelectContext(ctx, &news, featuredSelect(models.ContentNews)); err != nil {
		return nil, fmt.Errorf("failed to query featured news: %w", err)
	}

	projects, err := s.FeaturedProjects(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]models.FeaturedItem, 0, len(news)+len(projects))
	for _, n := range news {
		items = append(items, models.FeatureNews(n))
	}
	for _, p := range projects {
		items = append(items, models.FeatureProject(p))
	}
	return items, nil
}

// FeaturedProjects returns slotted projects only.
func (s *Store) FeaturedProjects(ctx context.Context) ([]models.ProjectItem, error) {
	var projects []models.ProjectItem
	if err := s.db.SelectContext(ctx, &projects, featuredSelect(models.ContentProject)); err != nil {
		return nil, fmt.Errorf("failed to query featured projects: %w", err)
	}
	return projects, nil
}

// ReplaceFeatured clears every slot and assigns the requested ones, all in
// one transaction. An unknown slug aborts the whole write.
func (s *Store) ReplaceFeatured(ctx context.Context, a models.Assignment) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM featured_slots`); err != nil {
			return fmt.Errorf("failed to clear featured slots: %w", err)
		}

		for _, p := range models.Positions {
			ref := a.Ref(p)
			if ref == nil {
				continue
			}

			id, err := lookupArticleID(ctx, tx, ref.Type, ref.Slug)
			if err != nil {
				return err
			}
			if err := insertSlot(ctx, tx, p, ref.Type, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceFeaturedProjects clears the slots held by projects and assigns the
// requested projects, evicting whatever else holds those slots.
func (s *Store) ReplaceFeaturedProjects(ctx context.Context, a models.ProjectAssignment) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		release := tx.Rebind(`DELETE FROM featured_slots WHERE content_type = ?`)
		if _, err := tx.ExecContext(ctx, release, models.ContentProject); err != nil {
			return fmt.Errorf("failed to clear project slots: %w", err)
		}

		for _, p := range models.Positions {
			slug := a.Slug(p)
			if slug == "" {
				continue
			}

			id, err := lookupArticleID(ctx, tx, models.ContentProject, slug)
			if err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM featured_slots WHERE slot = ?`), p); err != nil {
				return fmt.Errorf("failed to evict slot %s: %w", p, err)
			}
			if err := insertSlot(ctx, tx, p, models.ContentProject, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertSlot(ctx context.Context, tx *sqlx.Tx, p models.Position, ct models.ContentType, id int64) error {
	query := tx.Rebind(`INSERT INTO featured_slots (slot, content_type, content_id, assigned_at) VALUES (?, ?, ?, ?)`)
	if _, err := tx.ExecContext(ctx, query, p, ct, id, now()); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.Conflict("%s %d is already assigned to another position", ct, id)
		}
		return fmt.Errorf("failed to assign slot %s: %w", p, err)
	}
	return nil
}
