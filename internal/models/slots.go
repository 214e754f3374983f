package models

import (
	"encoding/json"
	"fmt"
)

// Slots is the three-slot display object consumed by the homepage layout.
// Empty slots encode as null.
type Slots[T any] struct {
	A *T `json:"A"`
	B *T `json:"B"`
	C *T `json:"C"`
}

// Get returns the occupant of p, or nil.
func (s *Slots[T]) Get(p Position) *T {
	switch p {
	case PositionA:
		return s.A
	case PositionB:
		return s.B
	case PositionC:
		return s.C
	}
	return nil
}

// Set stores v in p. Unknown positions are ignored.
func (s *Slots[T]) Set(p Position, v *T) {
	switch p {
	case PositionA:
		s.A = v
	case PositionB:
		s.B = v
	case PositionC:
		s.C = v
	}
}

// Bucket places items into slots by their position. When two items claim the
// same position the first one in items wins.
func Bucket[T any](items []T, position func(T) *Position) Slots[T] {
	var slots Slots[T]
	for i := range items {
		p := position(items[i])
		if p == nil || !p.Valid() || slots.Get(*p) != nil {
			continue
		}
		slots.Set(*p, &items[i])
	}
	return slots
}

// FeaturedItem is either a news item or a project. Exactly one field is set;
// build values with FeatureNews or FeatureProject.
type FeaturedItem struct {
	News    *NewsItem
	Project *ProjectItem
}

// FeatureNews wraps a news item.
func FeatureNews(n NewsItem) FeaturedItem { return FeaturedItem{News: &n} }

// FeatureProject wraps a project.
func FeatureProject(p ProjectItem) FeaturedItem { return FeaturedItem{Project: &p} }

// Type reports which variant is set.
func (f FeaturedItem) Type() ContentType {
	if f.Project != nil {
		return ContentProject
	}
	return ContentNews
}

// Article returns the shared fields of whichever variant is set.
func (f FeaturedItem) Article() *Article {
	switch {
	case f.News != nil:
		return &f.News.Article
	case f.Project != nil:
		return &f.Project.Article
	}
	return nil
}

// Ref returns the (type, slug) reference of the item.
func (f FeaturedItem) Ref() SlotRef {
	a := f.Article()
	if a == nil {
		return SlotRef{}
	}
	return SlotRef{Type: f.Type(), Slug: a.Slug}
}

type featuredItemJSON struct {
	ContentType ContentType `json:"content_type"`
	*Article
}

// MarshalJSON flattens the item and adds its content_type tag.
func (f FeaturedItem) MarshalJSON() ([]byte, error) {
	a := f.Article()
	if a == nil {
		return []byte("null"), nil
	}
	return json.Marshal(featuredItemJSON{ContentType: f.Type(), Article: a})
}

// UnmarshalJSON picks the variant from content_type.
func (f *FeaturedItem) UnmarshalJSON(data []byte) error {
	var raw featuredItemJSON
	raw.Article = &Article{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.ContentType {
	case ContentNews:
		*f = FeatureNews(NewsItem{Article: *raw.Article})
	case ContentProject:
		*f = FeatureProject(ProjectItem{Article: *raw.Article})
	default:
		return fmt.Errorf("unknown content_type %q", raw.ContentType)
	}
	return nil
}

// SlotRef points a slot at one news item or project.
type SlotRef struct {
	Type ContentType `json:"type"`
	Slug string      `json:"slug"`
}

// IsZero reports whether the reference is empty.
func (r SlotRef) IsZero() bool {
	return r.Type == "" && r.Slug == ""
}

// Key is the "type:slug" form used for duplicate detection.
func (r SlotRef) Key() string {
	return string(r.Type) + ":" + r.Slug
}

// Assignment is the PUT /api/featured payload. Absent slots are cleared.
type Assignment struct {
	PositionA *SlotRef `json:"positionA,omitempty"`
	PositionB *SlotRef `json:"positionB,omitempty"`
	PositionC *SlotRef `json:"positionC,omitempty"`
}

// Ref returns the requested reference for p, or nil when the slot is empty.
func (a Assignment) Ref(p Position) *SlotRef {
	var r *SlotRef
	switch p {
	case PositionA:
		r = a.PositionA
	case PositionB:
		r = a.PositionB
	case PositionC:
		r = a.PositionC
	}
	if r == nil || r.IsZero() {
		return nil
	}
	return r
}

// ProjectAssignment is the PUT /api/projects/featured payload: bare slugs.
type ProjectAssignment struct {
	PositionA *string `json:"positionA,omitempty"`
	PositionB *string `json:"positionB,omitempty"`
	PositionC *string `json:"positionC,omitempty"`
}

// Slug returns the requested project slug for p, or "".
func (a ProjectAssignment) Slug(p Position) string {
	var s *string
	switch p {
	case PositionA:
		s = a.PositionA
	case PositionB:
		s = a.PositionB
	case PositionC:
		s = a.PositionC
	}
	if s == nil {
		return ""
	}
	return *s
}

// Set stores r as the request for p. A nil or zero r clears the slot.
func (a *Assignment) Set(p Position, r *SlotRef) {
	if r != nil && r.IsZero() {
		r = nil
	}
	switch p {
	case PositionA:
		a.PositionA = r
	case PositionB:
		a.PositionB = r
	case PositionC:
		a.PositionC = r
	}
}
