package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPage struct {
	Title string `json:"title"`
	Page  int    `json:"page"`
}

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	SetClient(rdb)
	t.Cleanup(func() {
		SetClient(nil)
		_ = rdb.Close()
	})
	return mr
}

func TestHelpersWithoutClient(t *testing.T) {
	// No client configured: reads miss, writes are no-ops, nothing errors.
	SetClient(nil)
	ctx := context.Background()

	var dest cachedPage
	found, err := GetJSON(ctx, "any", &dest)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "any", cachedPage{Title: "x"}, time.Minute))

	calls := 0
	err = Aside(ctx, "any", &dest, time.Minute, func() error {
		calls++
		dest = cachedPage{Title: "fetched", Page: 1}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", dest.Title)
}

func TestAsideCachesFetchResult(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()
	key := PublicListKey("tag=&search=&sort=-created_at&page=1")

	calls := 0
	fetch := func(dest *cachedPage) error {
		calls++
		*dest = cachedPage{Title: "library", Page: 1}
		return nil
	}

	var first cachedPage
	require.NoError(t, Aside(ctx, key, &first, PublicListTTL, func() error { return fetch(&first) }))
	assert.Equal(t, 1, calls)

	var second cachedPage
	require.NoError(t, Aside(ctx, key, &second, PublicListTTL, func() error { return fetch(&second) }))
	assert.Equal(t, 1, calls, "second read should come from the cache")
	assert.Equal(t, first, second)
}

func TestInvalidatePublicLists(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, PublicListKey("page=1"), cachedPage{Page: 1}, PublicListTTL))
	require.NoError(t, SetJSON(ctx, PublicListKey("page=2"), cachedPage{Page: 2}, PublicListTTL))
	require.NoError(t, SetJSON(ctx, QuestionKey(7), cachedPage{Title: "detail"}, QuestionTTL))

	InvalidatePublicLists(ctx)

	assert.False(t, mr.Exists(PublicListKey("page=1")))
	assert.False(t, mr.Exists(PublicListKey("page=2")))
	// Question details are keyed separately and survive a list flush.
	assert.True(t, mr.Exists(QuestionKey(7)))
}

func TestInvalidateQuestionAndUser(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, QuestionKey(7), cachedPage{Title: "detail"}, QuestionTTL))
	require.NoError(t, SetJSON(ctx, UserKey(3), cachedPage{Title: "profile"}, UserTTL))

	InvalidateQuestion(ctx, 7)
	InvalidateUser(ctx, 3)

	assert.False(t, mr.Exists(QuestionKey(7)))
	assert.False(t, mr.Exists(UserKey(3)))
}
