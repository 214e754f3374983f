package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/database/dbtest"
	"centro-site/api/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(dbtest.New(t))
}

func seed(t *testing.T, s *Store, ct models.ContentType, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		_, err := s.CreateArticle(context.Background(), ct, models.ArticleInput{Slug: slug, TitlePT: "Título " + slug})
		require.NoError(t, err)
	}
}

func ref(ct models.ContentType, slug string) *models.SlotRef {
	return &models.SlotRef{Type: ct, Slug: slug}
}

// positions maps "type:slug" to the projected featured_position of every row.
func positions(t *testing.T, s *Store) map[string]string {
	t.Helper()
	out := make(map[string]string)
	for _, ct := range []models.ContentType{models.ContentNews, models.ContentProject} {
		items, err := s.ListArticles(context.Background(), ct, 100, nil, nil)
		require.NoError(t, err)
		for _, a := range items {
			p := ""
			if a.FeaturedPosition != nil {
				p = string(*a.FeaturedPosition)
			}
			out[string(ct)+":"+a.Slug] = p
		}
	}
	return out
}

func TestArticleCRUD(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	created, err := s.CreateArticle(ctx, models.ContentNews, models.ArticleInput{
		Slug:    "lab-aberto",
		TitlePT: "Laboratório aberto",
		TitleEN: "Open lab",
		Badge:   "Evento",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Open lab", created.TitleEN)
	assert.Nil(t, created.FeaturedPosition)

	_, err = s.CreateArticle(ctx, models.ContentNews, models.ArticleInput{Slug: "lab-aberto", TitlePT: "Outro"})
	assert.True(t, apperrors.IsConflict(err), "duplicate slug should conflict, got %v", err)

	// Same slug in the other table is fine.
	_, err = s.CreateArticle(ctx, models.ContentProject, models.ArticleInput{Slug: "lab-aberto", TitlePT: "Projeto"})
	require.NoError(t, err)

	updated, err := s.UpdateArticle(ctx, models.ContentNews, "lab-aberto", models.ArticleInput{
		Slug:    "lab-aberto-2025",
		TitlePT: "Laboratório aberto 2025",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "lab-aberto-2025", updated.Slug)

	_, err = s.GetArticle(ctx, models.ContentNews, "lab-aberto")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = s.UpdateArticle(ctx, models.ContentNews, "missing", models.ArticleInput{Slug: "missing", TitlePT: "x"})
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, s.DeleteArticle(ctx, models.ContentNews, "lab-aberto-2025"))
	assert.True(t, apperrors.IsNotFound(s.DeleteArticle(ctx, models.ContentNews, "lab-aberto-2025")))
}

func TestListArticlesCursor(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "one", "two", "three", "four", "five")

	first, err := s.ListArticles(ctx, models.ContentNews, 2, nil, nil)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "five", first[0].Slug)
	assert.Equal(t, "four", first[1].Slug)

	last := first[1]
	ts := last.CreatedAt
	rest, err := s.ListArticles(ctx, models.ContentNews, 10, &ts, &last.ID)
	require.NoError(t, err)

	var slugs []string
	for _, a := range rest {
		slugs = append(slugs, a.Slug)
	}
	assert.Equal(t, []string{"three", "two", "one"}, slugs)
}

func TestReplaceFeaturedMapping(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "beta", "gamma")
	seed(t, s, models.ContentProject, "alpha", "delta")

	a := models.Assignment{
		PositionA: ref(models.ContentProject, "alpha"),
		PositionB: ref(models.ContentNews, "beta"),
		PositionC: ref(models.ContentNews, "gamma"),
	}
	require.NoError(t, s.ReplaceFeatured(ctx, a))

	want := map[string]string{
		"project:alpha": "A",
		"news:beta":     "B",
		"news:gamma":    "C",
		"project:delta": "",
	}
	assert.Equal(t, want, positions(t, s))

	// Idempotent.
	require.NoError(t, s.ReplaceFeatured(ctx, a))
	assert.Equal(t, want, positions(t, s))

	items, err := s.FeaturedItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestReplaceFeaturedReassignsAndClears(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "beta")
	seed(t, s, models.ContentProject, "alpha")

	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{PositionA: ref(models.ContentProject, "alpha")}))
	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{PositionA: ref(models.ContentNews, "beta")}))
	assert.Equal(t, map[string]string{"news:beta": "A", "project:alpha": ""}, positions(t, s))

	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{PositionB: ref(models.ContentProject, "alpha")}))
	assert.Equal(t, map[string]string{"news:beta": "", "project:alpha": "B"}, positions(t, s))
}

func TestReplaceFeaturedMissingSlugKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "beta")
	seed(t, s, models.ContentProject, "alpha")

	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{
		PositionA: ref(models.ContentProject, "alpha"),
		PositionB: ref(models.ContentNews, "beta"),
	}))
	before := positions(t, s)

	err := s.ReplaceFeatured(ctx, models.Assignment{
		PositionA: ref(models.ContentNews, "beta"),
		PositionC: ref(models.ContentNews, "ghost"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, before, positions(t, s))
}

func TestReplaceFeaturedRollsBackOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "beta", "gamma")
	seed(t, s, models.ContentProject, "alpha")

	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{PositionA: ref(models.ContentProject, "alpha")}))
	before := positions(t, s)

	dbtest.MustExec(t, s.db, `CREATE TRIGGER fail_slot_c BEFORE INSERT ON featured_slots
		WHEN NEW.slot = 'C' BEGIN SELECT RAISE(ABORT, 'boom'); END`)

	err := s.ReplaceFeatured(ctx, models.Assignment{
		PositionA: ref(models.ContentNews, "beta"),
		PositionC: ref(models.ContentNews, "gamma"),
	})
	require.Error(t, err)
	assert.Equal(t, before, positions(t, s))
}

func TestReplaceFeaturedProjectsEvictsNews(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "beta", "gamma")
	seed(t, s, models.ContentProject, "alpha", "delta")

	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{
		PositionA: ref(models.ContentNews, "beta"),
		PositionB: ref(models.ContentProject, "delta"),
		PositionC: ref(models.ContentNews, "gamma"),
	}))

	slug := "alpha"
	require.NoError(t, s.ReplaceFeaturedProjects(ctx, models.ProjectAssignment{PositionA: &slug}))

	assert.Equal(t, map[string]string{
		"news:beta":     "",
		"news:gamma":    "C",
		"project:alpha": "A",
		"project:delta": "",
	}, positions(t, s))

	projects, err := s.FeaturedProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "alpha", projects[0].Slug)
}

func TestDeleteArticleReleasesSlot(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	seed(t, s, models.ContentNews, "beta")

	require.NoError(t, s.ReplaceFeatured(ctx, models.Assignment{PositionB: ref(models.ContentNews, "beta")}))
	require.NoError(t, s.DeleteArticle(ctx, models.ContentNews, "beta"))

	items, err := s.FeaturedItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	// A new row with the same slug starts unplaced.
	seed(t, s, models.ContentNews, "beta")
	assert.Equal(t, map[string]string{"news:beta": ""}, positions(t, s))
}

func newVideo(title string, p models.Position, active bool) *models.Video {
	v := &models.Video{
		YouTubeURL:   "https://youtu.be/ga1g2xZ_FEY",
		YouTubeID:    "ga1g2xZ_FEY",
		ThumbnailURL: "https://img.youtube.com/vi/ga1g2xZ_FEY/maxresdefault.jpg",
		TitlePT:      title,
		Active:       active,
	}
	if p != "" {
		v.Position = &p
	}
	return v
}

func TestCreateVideoTakesPosition(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, err := s.CreateVideo(ctx, newVideo("primeiro", models.PositionA, true))
	require.NoError(t, err)
	second, err := s.CreateVideo(ctx, newVideo("segundo", models.PositionA, true))
	require.NoError(t, err)

	active, err := s.ActiveFeaturedVideos(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	old, err := s.GetVideo(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, old.Position)
	assert.True(t, old.Active)
}

func TestUpdateVideo(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	a, err := s.CreateVideo(ctx, newVideo("a", models.PositionA, true))
	require.NoError(t, err)
	b, err := s.CreateVideo(ctx, newVideo("b", models.PositionB, true))
	require.NoError(t, err)

	// Re-saving a video at its own position keeps it.
	a.TitleEN = "a-en"
	updated, err := s.UpdateVideo(ctx, a)
	require.NoError(t, err)
	require.NotNil(t, updated.Position)
	assert.Equal(t, models.PositionA, *updated.Position)
	assert.True(t, !updated.UpdatedAt.Before(a.UpdatedAt))

	// Moving b to A evicts a.
	b.Position = a.Position
	_, err = s.UpdateVideo(ctx, b)
	require.NoError(t, err)

	reloaded, err := s.GetVideo(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Position)

	missing := newVideo("x", "", true)
	missing.ID = 999
	_, err = s.UpdateVideo(ctx, missing)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestInactiveVideosDoNotHoldPositions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	hidden, err := s.CreateVideo(ctx, newVideo("hidden", models.PositionC, false))
	require.NoError(t, err)
	shown, err := s.CreateVideo(ctx, newVideo("shown", models.PositionC, true))
	require.NoError(t, err)

	active, err := s.ActiveFeaturedVideos(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, shown.ID, active[0].ID)

	// The inactive row keeps its stored position.
	h, err := s.GetVideo(ctx, hidden.ID)
	require.NoError(t, err)
	require.NotNil(t, h.Position)

	all, err := s.ListVideos(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, shown.ID, all[0].ID)

	require.NoError(t, s.DeleteVideo(ctx, hidden.ID))
	assert.True(t, apperrors.IsNotFound(s.DeleteVideo(ctx, hidden.ID)))
}
