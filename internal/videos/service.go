// Package videos manages the homepage videos and their A/B/C positions.
package videos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/models"
	"centro-site/api/internal/readcache"
	"centro-site/api/internal/server/storage"
	"centro-site/api/internal/youtube"
)

// Service validates video input and delegates persistence.
type Service struct {
	repo  storage.VideoRepository
	cache *readcache.Cache
}

// NewService creates a video service. cache may be nil.
func NewService(repo storage.VideoRepository, cache *readcache.Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// List returns every video for the admin editor.
func (s *Service) List(ctx context.Context) ([]models.Video, error) {
	return s.repo.ListVideos(ctx)
}

// Get returns one video.
func (s *Service) Get(ctx context.Context, id int64) (*models.Video, error) {
	return s.repo.GetVideo(ctx, id)
}

// Featured resolves the three video slots from active videos.
func (s *Service) Featured(ctx context.Context) (models.Slots[models.Video], error) {
	return readcache.Fetch(s.cache, readcache.KeyFeaturedVideos, func() (models.Slots[models.Video], error) {
		videos, err := s.repo.ActiveFeaturedVideos(ctx)
		if err != nil {
			return models.Slots[models.Video]{}, err
		}
		return models.Bucket(videos, func(v models.Video) *models.Position {
			return v.Position
		}), nil
	})
}

// Create validates in, derives the YouTube fields and stores the video.
func (s *Service) Create(ctx context.Context, in models.VideoInput) (*models.Video, error) {
	v, err := build(in)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateVideo(ctx, v)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()

	log.Info().Int64("id", created.ID).Str("youtube_id", created.YouTubeID).Msg("Video created")
	return created, nil
}

// Update validates in and replaces video id. A nil in.Active leaves the
// stored active flag unchanged.
func (s *Service) Update(ctx context.Context, id int64, in models.VideoInput) (*models.Video, error) {
	v, err := build(in)
	if err != nil {
		return nil, err
	}
	v.ID = id

	// An update without "active" keeps the stored flag.
	if in.Active == nil {
		current, err := s.repo.GetVideo(ctx, id)
		if err != nil {
			return nil, err
		}
		v.Active = current.Active
	}

	updated, err := s.repo.UpdateVideo(ctx, v)
	if err != nil {
		return nil, err
	}
	s.cache.Flush()

	log.Info().Int64("id", id).Str("youtube_id", updated.YouTubeID).Msg("Video updated")
	return updated, nil
}

// Delete removes video id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteVideo(ctx, id); err != nil {
		return err
	}
	s.cache.Flush()
	return nil
}

// Validate checks the required fields of a video payload.
func Validate(in models.VideoInput) error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.YouTubeURL, validation.Required),
		validation.Field(&in.TitlePT, validation.Required),
		validation.Field(&in.Position, validation.By(validPosition)),
	)
}

func validPosition(value any) error {
	p, _ := value.(models.Position)
	if p == "" || p.Valid() {
		return nil
	}
	return errors.New("must be A, B or C")
}

func build(in models.VideoInput) (*models.Video, error) {
	in.YouTubeURL = strings.TrimSpace(in.YouTubeURL)
	in.TitlePT = strings.TrimSpace(in.TitlePT)

	if err := Validate(in); err != nil {
		return nil, err
	}

	id, ok := youtube.ExtractID(in.YouTubeURL)
	if !ok {
		return nil, apperrors.Invalid("youtube_url", fmt.Sprintf("invalid YouTube URL: %s", in.YouTubeURL))
	}

	v := &models.Video{
		YouTubeURL:    in.YouTubeURL,
		YouTubeID:     id,
		ThumbnailURL:  youtube.ThumbnailURL(id),
		TitlePT:       in.TitlePT,
		TitleEN:       in.TitleEN,
		DescriptionPT: in.DescriptionPT,
		DescriptionEN: in.DescriptionEN,
		DateDisplay:   in.DateDisplay,
		Active:        in.IsActive(),
	}
	if in.Position != "" {
		p := in.Position
		v.Position = &p
	}
	return v, nil
}
