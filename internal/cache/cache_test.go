package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasarini/trip-planner/internal/cache"
	"github.com/tasarini/trip-planner/internal/itinerary"
)

func newTestCache(t *testing.T) (*cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewCache(client), mr
}

func sampleSaved() *itinerary.Saved {
	return &itinerary.Saved{
		ID:    "itin-1",
		Title: "Paris weekend",
		Data: itinerary.Itinerary{
			Days: []itinerary.Day{
				{DayNumber: 1, Destination: "Paris", Activities: []itinerary.Activity{
					{ID: "a1", Title: "Louvre", Time: "09:00"},
				}},
			},
		},
	}
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleSaved()))

	got, err := c.Get(ctx, "itin-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Paris weekend", got.Title)
	require.Len(t, got.Data.Days, 1)
	assert.Equal(t, "Louvre", got.Data.Days[0].Activities[0].Title)
}

func TestCache_Get_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	got, err := c.Get(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, got, "cache miss should return nil, nil")
}

func TestCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleSaved()))
	require.NoError(t, c.Delete(ctx, "itin-1"))

	got, err := c.Get(ctx, "itin-1")
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be gone after delete")
}

func TestCache_Delete_NonExistent(t *testing.T) {
	c, _ := newTestCache(t)
	// Deleting a key that doesn't exist should not error.
	require.NoError(t, c.Delete(context.Background(), "ghost"))
}

func TestCache_Set_Nil(t *testing.T) {
	c, _ := newTestCache(t)
	// Setting nil is a no-op, not an error.
	require.NoError(t, c.Set(context.Background(), nil))
}

func TestCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, sampleSaved()))

	mr.FastForward(2 * time.Hour)

	got, err := c.Get(ctx, "itin-1")
	require.NoError(t, err)
	assert.Nil(t, got, "entry should be expired after TTL")
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := cache.Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}

func TestConnect_UnreachableServer(t *testing.T) {
	_, err := cache.Connect(context.Background(), "redis://localhost:19999")
	require.Error(t, err)
}
