package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/models"
)

const videoColumns = `id, youtube_url, youtube_id, thumbnail_url, title_pt, title_en,
	description_pt, description_en, date_display, position, active, created_at, updated_at`

// ListVideos returns every video, newest first.
func (s *Store) ListVideos(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	query := `SELECT ` + videoColumns + ` FROM featured_videos ORDER BY created_at DESC, id DESC`
	if err := s.db.SelectContext(ctx, &videos, query); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return videos, nil
}

// ActiveFeaturedVideos returns active videos that hold a position.
func (s *Store) ActiveFeaturedVideos(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	query := s.db.Rebind(`SELECT ` + videoColumns + ` FROM featured_videos
		WHERE active = ? AND position IS NOT NULL
		ORDER BY position, id`)
	if err := s.db.SelectContext(ctx, &videos, query, true); err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return videos, nil
}

// GetVideo returns a single video.
func (s *Store) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	var v models.Video
	query := s.db.Rebind(`SELECT ` + videoColumns + ` FROM featured_videos WHERE id = ?`)
	if err := s.db.GetContext(ctx, &v, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("video", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return &v, nil
}

// CreateVideo inserts v, taking its position away from any other active video
// in the same transaction.
func (s *Store) CreateVideo(ctx context.Context, v *models.Video) (*models.Video, error) {
	var id int64
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		ts := now()
		if v.Position != nil {
			if err := releasePosition(ctx, tx, *v.Position, 0); err != nil {
				return err
			}
		}

		query := tx.Rebind(`
			INSERT INTO featured_videos (youtube_url, youtube_id, thumbnail_url, title_pt, title_en,
				description_pt, description_en, date_display, position, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`)
		err := tx.QueryRowxContext(ctx, query,
			v.YouTubeURL, v.YouTubeID, v.ThumbnailURL, v.TitlePT, v.TitleEN,
			v.DescriptionPT, v.DescriptionEN, v.DateDisplay, v.Position, v.Active, ts, ts,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert video: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetVideo(ctx, id)
}

// UpdateVideo replaces the fields of v.ID, taking its position away from any
// other active video in the same transaction.
func (s *Store) UpdateVideo(ctx context.Context, v *models.Video) (*models.Video, error) {
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		var exists int64
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT id FROM featured_videos WHERE id = ?`), v.ID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("video", strconv.FormatInt(v.ID, 10))
			}
			return fmt.Errorf("failed to look up video: %w", err)
		}

		if v.Position != nil {
			if err := releasePosition(ctx, tx, *v.Position, v.ID); err != nil {
				return err
			}
		}

		query := tx.Rebind(`
			UPDATE featured_videos SET youtube_url = ?, youtube_id = ?, thumbnail_url = ?,
				title_pt = ?, title_en = ?, description_pt = ?, description_en = ?,
				date_display = ?, position = ?, active = ?, updated_at = ?
			WHERE id = ?`)
		_, err := tx.ExecContext(ctx, query,
			v.YouTubeURL, v.YouTubeID, v.ThumbnailURL, v.TitlePT, v.TitleEN,
			v.DescriptionPT, v.DescriptionEN, v.DateDisplay, v.Position, v.Active, now(), v.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update video: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetVideo(ctx, v.ID)
}

// DeleteVideo removes a video.
func (s *Store) DeleteVideo(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM featured_videos WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("video", strconv.FormatInt(id, 10))
	}
	return nil
}

// releasePosition clears p on every other active video.
func releasePosition(ctx context.Context, tx *sqlx.Tx, p models.Position, exceptID int64) error {
	query := tx.Rebind(`UPDATE featured_videos SET position = NULL, updated_at = ?
		WHERE position = ? AND active = ? AND id <> ?`)
	if _, err := tx.ExecContext(ctx, query, now(), p, true, exceptID); err != nil {
		return fmt.Errorf("failed to release position %s: %w", p, err)
	}
	return nil
}
