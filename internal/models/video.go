package models

import "time"

// Video is a row of the featured_videos table.
type Video struct {
	ID            int64     `db:"id" json:"id"`
	YouTubeURL    string    `db:"youtube_url" json:"youtube_url"`
	YouTubeID     string    `db:"youtube_id" json:"youtube_id"`
	ThumbnailURL  string    `db:"thumbnail_url" json:"thumbnail_url"`
	TitlePT       string    `db:"title_pt" json:"title_pt"`
	TitleEN       string    `db:"title_en" json:"title_en"`
	DescriptionPT string    `db:"description_pt" json:"description_pt"`
	DescriptionEN string    `db:"description_en" json:"description_en"`
	DateDisplay   string    `db:"date_display" json:"date_display"`
	Position      *Position `db:"position" json:"position"`
	Active        bool      `db:"active" json:"active"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// VideoInput is the create/update payload for a video.
// An empty Position clears the slot. A nil Active means true on create and
// "unchanged" on update.
type VideoInput struct {
	YouTubeURL    string   `json:"youtube_url"`
	TitlePT       string   `json:"title_pt"`
	TitleEN       string   `json:"title_en"`
	DescriptionPT string   `json:"description_pt"`
	DescriptionEN string   `json:"description_en"`
	DateDisplay   string   `json:"date_display"`
	Position      Position `json:"position"`
	Active        *bool    `json:"active"`
}

// IsActive resolves the Active default for a new video.
func (in VideoInput) IsActive() bool {
	return in.Active == nil || *in.Active
}
