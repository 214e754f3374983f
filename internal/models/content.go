package models

import "time"

// Article holds the fields shared by news items and projects.
type Article struct {
	ID               int64     `db:"id" json:"id"`
	Slug             string    `db:"slug" json:"slug"`
	TitlePT          string    `db:"title_pt" json:"title_pt"`
	TitleEN          string    `db:"title_en" json:"title_en"`
	DescriptionPT    string    `db:"description_pt" json:"description_pt"`
	DescriptionEN    string    `db:"description_en" json:"description_en"`
	Image            string    `db:"image" json:"image"`
	Badge            string    `db:"badge" json:"badge"`
	BadgeColor       string    `db:"badge_color" json:"badge_color"`
	DateDisplay      string    `db:"date_display" json:"date_display"`
	FeaturedPosition *Position `db:"featured_position" json:"featured_position"` // projected from featured_slots
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// NewsItem is a row of the news table.
type NewsItem struct {
	Article
}

// ProjectItem is a row of the projects table.
type ProjectItem struct {
	Article
}

// ArticleInput carries the editable fields of a news item or project.
type ArticleInput struct {
	Slug          string `json:"slug"`
	TitlePT       string `json:"title_pt"`
	TitleEN       string `json:"title_en"`
	DescriptionPT string `json:"description_pt"`
	DescriptionEN string `json:"description_en"`
	Image         string `json:"image"`
	Badge         string `json:"badge"`
	BadgeColor    string `json:"badge_color"`
	DateDisplay   string `json:"date_display"`
}
