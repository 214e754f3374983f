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

const articleColumns = `t.id, t.slug, t.title_pt, t.title_en, t.description_pt, t.description_en,
	t.image, t.badge, t.badge_color, t.date_display, t.created_at, t.updated_at`

// articleSelect joins the slot table so featured_position is filled in.
func articleSelect(ct models.ContentType) string {
	return fmt.Sprintf(`SELECT %s, fs.slot AS featured_position
		FROM %s t
		LEFT JOIN featured_slots fs ON fs.content_type = '%s' AND fs.content_id = t.id `,
		articleColumns, ct.Table(), ct)
}

// ListArticles returns rows newest first, strictly after the cursor when one is given.
func (s *Store) ListArticles(ctx context.Context, ct models.ContentType, limit int, cursorTimestamp *time.Time, cursorID *int64) ([]models.Article, error) {
	query := articleSelect(ct)
	var args []any

	if cursorTimestamp != nil && cursorID != nil {
		query += `WHERE (t.created_at < ?) OR (t.created_at = ? AND t.id < ?) `
		args = append(args, cursorTimestamp.UTC(), cursorTimestamp.UTC(), *cursorID)
	}
	query += `ORDER BY t.created_at DESC, t.id DESC LIMIT ?`
	args = append(args, limit)

	items := []models.Article{}
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return items, nil
}

// GetArticle returns a single row by slug.
func (s *Store) GetArticle(ctx context.Context, ct models.ContentType, slug string) (*models.Article, error) {
	var a models.Article
	query := s.db.Rebind(articleSelect(ct) + `WHERE t.slug = ?`)
	if err := s.db.GetContext(ctx, &a, query, slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(string(ct), slug)
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &a, nil
}

// CreateArticle inserts a row. in.Slug must already be normalized.
func (s *Store) CreateArticle(ctx context.Context, ct models.ContentType, in models.ArticleInput) (*models.Article, error) {
	ts := now()
	query := s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (slug, title_pt, title_en, description_pt, description_en,
			image, badge, badge_color, date_display, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`, ct.Table()))

	var id int64
	err := s.db.QueryRowxContext(ctx, query,
		in.Slug, in.TitlePT, in.TitleEN, in.DescriptionPT, in.DescriptionEN,
		in.Image, in.Badge, in.BadgeColor, in.DateDisplay, ts, ts,
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("%s with slug %q already exists", ct, in.Slug)
		}
		return nil, fmt.Errorf("failed to insert %s: %w", ct, err)
	}

	return s.GetArticle(ctx, ct, in.Slug)
}

// UpdateArticle replaces the editable fields of the row identified by slug.
func (s *Store) UpdateArticle(ctx context.Context, ct models.ContentType, slug string, in models.ArticleInput) (*models.Article, error) {
	query := s.db.Rebind(fmt.Sprintf(`
		UPDATE %s SET slug = ?, title_pt = ?, title_en = ?, description_pt = ?, description_en = ?,
			image = ?, badge = ?, badge_color = ?, date_display = ?, updated_at = ?
		WHERE slug = ?`, ct.Table()))

	res, err := s.db.ExecContext(ctx, query,
		in.Slug, in.TitlePT, in.TitleEN, in.DescriptionPT, in.DescriptionEN,
		in.Image, in.Badge, in.BadgeColor, in.DateDisplay, now(), slug,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("%s with slug %q already exists", ct, in.Slug)
		}
		return nil, fmt.Errorf("failed to update %s: %w", ct, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return nil, apperrors.NotFound(string(ct), slug)
	}

	return s.GetArticle(ctx, ct, in.Slug)
}

// DeleteArticle removes the row and any slot pointing at it.
func (s *Store) DeleteArticle(ctx context.Context, ct models.ContentType, slug string) error {
	return s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		id, err := lookupArticleID(ctx, tx, ct, slug)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM featured_slots WHERE content_type = ? AND content_id = ?`), ct, id); err != nil {
			return fmt.Errorf("failed to release slot: %w", err)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, ct.Table())), id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", ct, err)
		}
		return nil
	})
}
