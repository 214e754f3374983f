package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centro-site/api/internal/apperrors"
	"centro-site/api/internal/database/dbtest"
	"centro-site/api/internal/models"
	"centro-site/api/internal/server/storage"
)

func newService(t *testing.T, kind models.ContentType) *Service {
	t.Helper()
	return NewService(kind, storage.NewStore(dbtest.New(t)), nil)
}

func TestCreateNormalizesSlug(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, models.ContentNews)

	a, err := svc.Create(ctx, models.ArticleInput{TitlePT: "  Nova Parceria com a Universidade  "})
	require.NoError(t, err)
	assert.Equal(t, "Nova Parceria com a Universidade", a.TitlePT)
	assert.NotEmpty(t, a.Slug)
	assert.NotContains(t, a.Slug, " ")

	b, err := svc.Create(ctx, models.ArticleInput{Slug: "Relatório Anual", TitlePT: "Relatório"})
	require.NoError(t, err)
	assert.NotContains(t, b.Slug, " ")

	got, err := svc.Get(ctx, b.Slug)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
}

func TestCreateRejects(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, models.ContentProject)

	_, err := svc.Create(ctx, models.ArticleInput{TitlePT: "   "})
	assert.True(t, apperrors.IsValidation(err), "blank title: %v", err)

	_, err = svc.Create(ctx, models.ArticleInput{Slug: "featured", TitlePT: "Destaques"})
	assert.True(t, apperrors.IsValidation(err), "reserved slug: %v", err)

	_, err = svc.Create(ctx, models.ArticleInput{Slug: "alpha", TitlePT: "Alpha"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, models.ArticleInput{Slug: "alpha", TitlePT: "Alpha again"})
	assert.True(t, apperrors.IsConflict(err), "duplicate slug: %v", err)
}

func TestUpdateKeepsSlugWhenOmitted(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, models.ContentNews)

	_, err := svc.Create(ctx, models.ArticleInput{Slug: "beta", TitlePT: "Beta"})
	require.NoError(t, err)

	a, err := svc.Update(ctx, "beta", models.ArticleInput{TitlePT: "Beta revisto", TitleEN: "Beta revised"})
	require.NoError(t, err)
	assert.Equal(t, "beta", a.Slug)
	assert.Equal(t, "Beta revised", a.TitleEN)

	_, err = svc.Update(ctx, "missing", models.ArticleInput{TitlePT: "x"})
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, "beta"))
	_, err = svc.Get(ctx, "beta")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestListPages(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, models.ContentNews)
	for _, s := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, models.ArticleInput{Slug: s, TitlePT: s})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].Slug)
	assert.Equal(t, models.ContentNews, svc.Kind())
}
