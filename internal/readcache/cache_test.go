package readcache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchCachesUntilFlush(t *testing.T) {
	c := New(time.Minute)
	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := Fetch(c, KeyFeatured, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = Fetch(c, KeyFeatured, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v, "second read should hit the cache")

	c.Flush()
	v, err = Fetch(c, KeyFeatured, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := New(time.Minute)
	fail := true
	load := func() (string, error) {
		if fail {
			return "", errors.New("db down")
		}
		return "ok", nil
	}

	_, err := Fetch(c, KeyFeaturedVideos, load)
	require.Error(t, err)

	fail = false
	v, err := Fetch(c, KeyFeaturedVideos, load)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestNilCacheAlwaysLoads(t *testing.T) {
	c := New(0)
	assert.Nil(t, c)

	calls := 0
	for i := 0; i < 3; i++ {
		_, err := Fetch(c, KeyFeaturedProjects, func() (int, error) {
			calls++
			return calls, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
	c.Flush()
}

func TestFetchDropsLoadThatOverlapsFlush(t *testing.T) {
	c := New(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan string)
	go func() {
		v, _ := Fetch(c, KeyFeatured, func() (string, error) {
			close(started)
			<-release
			return "before write", nil
		})
		done <- v
	}()

	<-started
	c.Flush()
	close(release)
	assert.Equal(t, "before write", <-done, "the overlapping caller still gets its own result")

	calls := 0
	v, err := Fetch(c, KeyFeatured, func() (string, error) {
		calls++
		return "after write", nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "stale result must not have been cached")
	assert.Equal(t, "after write", v)

	v, err = Fetch(c, KeyFeatured, func() (string, error) {
		calls++
		return "unexpected", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after write", v)
}
