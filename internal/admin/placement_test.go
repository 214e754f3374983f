package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centro-site/api/internal/models"
)

type fakeAPI struct {
	slots   models.Slots[models.FeaturedItem]
	getErr  error
	putErr  error
	puts    []models.Assignment
	getHits int
}

func (f *fakeAPI) GetFeatured(context.Context) (models.Slots[models.FeaturedItem], error) {
	f.getHits++
	return f.slots, f.getErr
}

func (f *fakeAPI) PutFeatured(_ context.Context, a models.Assignment) error {
	f.puts = append(f.puts, a)
	if f.putErr != nil {
		return f.putErr
	}
	// Mimic the server: store exactly what was sent.
	f.slots = models.Slots[models.FeaturedItem]{}
	for _, p := range models.Positions {
		if r := a.Ref(p); r != nil {
			item := featured(r.Type, r.Slug)
			f.slots.Set(p, &item)
		}
	}
	return nil
}

func featured(ct models.ContentType, slug string) models.FeaturedItem {
	a := models.Article{Slug: slug, TitlePT: slug}
	if ct == models.ContentProject {
		return models.FeatureProject(models.ProjectItem{Article: a})
	}
	return models.FeatureNews(models.NewsItem{Article: a})
}

func TestLoadPopulatesSelectors(t *testing.T) {
	alpha := featured(models.ContentProject, "alpha")
	api := &fakeAPI{slots: models.Slots[models.FeaturedItem]{A: &alpha}}
	e := NewEditor(api)
	assert.Equal(t, StateLoading, e.Snapshot().State)

	require.NoError(t, e.Load(context.Background()))

	snap := e.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, models.SlotRef{Type: models.ContentProject, Slug: "alpha"}, snap.Selection(models.PositionA))
	assert.True(t, snap.Selection(models.PositionB).IsZero())
}

func TestSnapshotsAreImmutable(t *testing.T) {
	e := NewEditor(&fakeAPI{})
	require.NoError(t, e.Load(context.Background()))

	before := e.Snapshot()
	require.NoError(t, e.Select(models.PositionB, models.SlotRef{Type: models.ContentNews, Slug: "beta"}))

	assert.True(t, before.Selection(models.PositionB).IsZero())
	assert.Equal(t, "beta", e.Snapshot().Selection(models.PositionB).Slug)
}

func TestSaveDuplicateStaysReady(t *testing.T) {
	api := &fakeAPI{}
	e := NewEditor(api)
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))

	beta := models.SlotRef{Type: models.ContentNews, Slug: "beta"}
	require.NoError(t, e.Select(models.PositionA, beta))
	require.NoError(t, e.Select(models.PositionC, beta))

	err := e.Save(ctx)
	assert.ErrorIs(t, err, ErrDuplicateSelection)
	assert.Empty(t, api.puts, "nothing should reach the server")

	snap := e.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Contains(t, snap.Warning, "news:beta")
}

func TestSaveReloadsFromServer(t *testing.T) {
	api := &fakeAPI{}
	e := NewEditor(api)
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))

	require.NoError(t, e.Select(models.PositionA, models.SlotRef{Type: models.ContentProject, Slug: "alpha"}))
	require.NoError(t, e.Select(models.PositionB, models.SlotRef{Type: models.ContentNews, Slug: "beta"}))
	require.NoError(t, e.Save(ctx))

	require.Len(t, api.puts, 1)
	assert.Equal(t, "alpha", api.puts[0].PositionA.Slug)
	assert.Nil(t, api.puts[0].PositionC)
	assert.Equal(t, 2, api.getHits, "save must reload")

	snap := e.Snapshot()
	assert.Equal(t, StateReady, snap.State)
	assert.Equal(t, "beta", snap.Selection(models.PositionB).Slug)
}

func TestSaveFailureCarriesServerMessage(t *testing.T) {
	api := &fakeAPI{putErr: &APIError{Status: 404, Message: "news not found: ghost"}}
	e := NewEditor(api)
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	require.NoError(t, e.Select(models.PositionA, models.SlotRef{Type: models.ContentNews, Slug: "ghost"}))

	require.Error(t, e.Save(ctx))

	snap := e.Snapshot()
	assert.Equal(t, StateError, snap.State)
	require.Error(t, snap.Err)
	assert.Equal(t, "news not found: ghost", snap.Err.Error())

	// Only a reload leaves the error state.
	assert.ErrorIs(t, e.Select(models.PositionA, models.SlotRef{}), ErrInvalidTransition)
	assert.ErrorIs(t, e.Save(ctx), ErrInvalidTransition)

	api.putErr = nil
	require.NoError(t, e.Load(ctx))
	assert.Equal(t, StateReady, e.Snapshot().State)
	assert.NoError(t, e.Snapshot().Err)
}

func TestLoadFailureAndCancel(t *testing.T) {
	api := &fakeAPI{getErr: errors.New("connection refused")}
	e := NewEditor(api)
	ctx := context.Background()

	require.Error(t, e.Load(ctx))
	assert.Equal(t, StateError, e.Snapshot().State)

	api.getErr = nil
	require.NoError(t, e.Cancel(ctx))
	require.NoError(t, e.Select(models.PositionC, models.SlotRef{Type: models.ContentNews, Slug: "gamma"}))
	require.NoError(t, e.Cancel(ctx))
	assert.True(t, e.Snapshot().Selection(models.PositionC).IsZero(), "cancel discards local edits")
}

func TestSelectRejectsUnknownPosition(t *testing.T) {
	e := NewEditor(&fakeAPI{})
	require.NoError(t, e.Load(context.Background()))
	assert.Error(t, e.Select("D", models.SlotRef{Type: models.ContentNews, Slug: "x"}))
}
