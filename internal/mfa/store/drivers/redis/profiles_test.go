package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/driftlock/mfahub/internal/mfa/domain"
	"github.com/driftlock/mfahub/internal/mfa/store"
)

func newTestCache(t *testing.T, fetch FetchFunc) *ProfileCache {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewProfileCache(rdb, fetch, time.Minute)
}

func TestCurrentFetchesOnMissAndCaches(t *testing.T) {
	ctx := context.Background()

	fetches := 0
	cache := newTestCache(t, func(_ context.Context, username string) (domain.UserRecord, error) {
		fetches++
		return domain.UserRecord{Username: username, TOTPEnabled: true}, nil
	})

	rec, err := cache.Current(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", rec.Username)
	require.Equal(t, 1, fetches)

	// Second read is served from the cache.
	rec, err = cache.Current(ctx, "alice")
	require.NoError(t, err)
	require.True(t, rec.TOTPEnabled)
	require.Equal(t, 1, fetches)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()

	method := domain.MethodNone
	cache := newTestCache(t, func(_ context.Context, username string) (domain.UserRecord, error) {
		return domain.UserRecord{Username: username, MFAMethod: method}, nil
	})

	rec, err := cache.Current(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.MethodNone, rec.MFAMethod)

	// Simulate a confirmed command changing server state.
	method = domain.MethodWeb3
	require.NoError(t, cache.Invalidate(ctx, "alice"))

	rec, err = cache.Current(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.MethodWeb3, rec.MFAMethod)
}

func TestCurrentPropagatesNotFound(t *testing.T) {
	ctx := context.Background()

	cache := newTestCache(t, func(context.Context, string) (domain.UserRecord, error) {
		return domain.UserRecord{}, store.ErrNotFound
	})

	_, err := cache.Current(ctx, "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}
