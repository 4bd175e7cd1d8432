package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name string `json:"name"`
}

func withMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_FetchesOnceThenHits(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			calls++
			dest.Name = "books"
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, CategoriesKey, &first, CategoriesTTL, fetch(&first)))
	var second cachedThing
	require.NoError(t, Aside(ctx, CategoriesKey, &second, CategoriesTTL, fetch(&second)))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "books", second.Name)
	assert.True(t, mr.Exists(CategoriesKey))
}

func TestAside_FetchErrorIsNotCached(t *testing.T) {
	mr := withMiniredis(t)

	var dest cachedThing
	err := Aside(context.Background(), ProfileKey(3), &dest, ProfileTTL, func() error {
		return errors.New("db down")
	})
	assert.Error(t, err)
	assert.False(t, mr.Exists(ProfileKey(3)))
}

func TestInvalidateProfile(t *testing.T) {
	mr := withMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ProfileKey(5), cachedThing{Name: "x"}, ProfileTTL))
	InvalidateProfile(ctx, 5)
	assert.False(t, mr.Exists(ProfileKey(5)))
}

func TestAside_NoClientCallsFetch(t *testing.T) {
	SetClient(nil)

	var dest cachedThing
	called := false
	require.NoError(t, Aside(context.Background(), CategoriesKey, &dest, CategoriesTTL, func() error {
		called = true
		return nil
	}))
	assert.True(t, called)
}
