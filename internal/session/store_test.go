package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vehicle-fit/internal/domain"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var crate = domain.LoadItem{LengthM: 1, WidthM: 1, HeightM: 1, UnitWeightKg: 50, Quantity: 2}

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

// testStoreContract runs the behaviour every Store must share.
func testStoreContract(t *testing.T, store Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		sess, err := store.Create(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, sess.ID)
		assert.Zero(t, sess.Loads.Len())
		assert.Nil(t, sess.Last)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})

	t.Run("update commits", func(t *testing.T) {
		sess, err := store.Create(ctx)
		require.NoError(t, err)

		updated, err := store.Update(ctx, sess.ID, func(s *Session) error {
			s.Loads.Add(crate)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.LoadItem{crate}, updated.Loads.Items)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.LoadItem{crate}, got.Loads.Items)
	})

	t.Run("failed update leaves session unchanged", func(t *testing.T) {
		sess, err := store.Create(ctx)
		require.NoError(t, err)
		_, err = store.Update(ctx, sess.ID, func(s *Session) error {
			s.Loads.Add(crate)
			return nil
		})
		require.NoError(t, err)

		boom := errors.New("boom")
		_, err = store.Update(ctx, sess.ID, func(s *Session) error {
			s.Loads.Clear()
			s.Last = &domain.Evaluation{}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.Loads.Len())
		assert.Nil(t, got.Last)
	})

	t.Run("returned sessions are copies", func(t *testing.T) {
		sess, err := store.Create(ctx)
		require.NoError(t, err)
		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		got.Loads.Add(crate)

		again, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Zero(t, again.Loads.Len())
	})

	t.Run("unknown and deleted ids", func(t *testing.T) {
		_, err := store.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Update(ctx, "nope", func(*Session) error { return nil })
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "nope"), ErrNotFound)

		sess, err := store.Create(ctx)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, sess.ID))
		_, err = store.Get(ctx, sess.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		sess, err := store.Create(ctx)
		require.NoError(t, err)

		const writers = 4
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := store.Update(ctx, sess.ID, func(s *Session) error {
					s.Loads.Add(crate)
					return nil
				})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, writers, got.Loads.Len())
	})
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore(time.Hour))
}

func TestRedisStore(t *testing.T) {
	store, _ := newTestRedisStore(t, time.Hour)
	testStoreContract(t, store)
}

func TestMemoryStoreSlidingTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore(30 * time.Minute)
	store.now = func() time.Time { return now }

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	now = now.Add(20 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err, "access within the ttl")

	now = now.Add(20 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err, "the previous access refreshed the ttl")

	now = now.Add(31 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, store.Len())
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	store := NewMemoryStore(0)
	store.now = func() time.Time { return now }

	sess, err := store.Create(context.Background())
	require.NoError(t, err)

	now = now.Add(24 * 365 * time.Hour)
	_, err = store.Get(context.Background(), sess.ID)
	assert.NoError(t, err)
}

func TestRedisStoreExpires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, 10*time.Minute)

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, mr.TTL(store.key(sess.ID)))

	mr.FastForward(6 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, mr.TTL(store.key(sess.ID)), "reads refresh the ttl")

	mr.FastForward(11 * time.Minute)
	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStorePersistsEvaluation(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, time.Hour)

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	eval := &domain.Evaluation{
		Loads:   []domain.LoadItem{crate},
		Results: []domain.FeasibilityResult{{Vehicle: "Fiorino", Viability: 12.5, Recommended: true}},
	}
	_, err = store.Update(ctx, sess.ID, func(s *Session) error {
		s.Loads.Add(crate)
		s.Last = eval
		return nil
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Last)
	assert.Equal(t, eval.Results, got.Last.Results)
	assert.Equal(t, eval.Loads, got.Last.Loads)
}

func TestNewRedisStoreFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := NewRedisStoreFromURL("redis://"+mr.Addr()+"/0", 0)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, 2*time.Hour, store.ttl)
	assert.NoError(t, store.Ping(context.Background()))

	_, err = NewRedisStoreFromURL("not a url", time.Hour)
	assert.Error(t, err)
}
