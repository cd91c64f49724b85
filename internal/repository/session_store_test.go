package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FleetPro/service-dashboard/internal/domain/session"
	"github.com/FleetPro/service-dashboard/internal/platform/auth"
)

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()
	now := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := session.Session{ID: "s1", Email: "ops@fleetpro.in", Role: auth.RoleAdmin, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Find(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "ops@fleetpro.in", got.Email)

	now = now.Add(2 * time.Hour)
	_, err = store.Find(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "missing"))
}

func TestRedisSessionStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisSessionStoreWithClient(client, "")
	t.Cleanup(func() { _ = store.Close() })

	sess := session.Session{
		ID:        "abc",
		Email:     "root@fleetpro.in",
		Role:      auth.RoleSuperAdmin,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(30 * time.Minute),
	}
	require.NoError(t, store.Save(ctx, sess))
	assert.True(t, mr.Exists("fleetpro:session:abc"))
	assert.Greater(t, mr.TTL("fleetpro:session:abc"), 29*time.Minute)

	got, err := store.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleSuperAdmin, got.Role)
	assert.Equal(t, "true", got.Flags()["isLoggedIn"])

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Find(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestRedisSessionStore_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	store := NewRedisSessionStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")

	require.NoError(t, store.Save(ctx, session.Session{ID: "x", Email: "a@b.c", Role: auth.RoleAdmin, ExpiresAt: time.Now().Add(time.Minute)}))
	mr.FastForward(2 * time.Minute)

	_, err := store.Find(ctx, "x")
	assert.ErrorIs(t, err, session.ErrNotFound)
	require.NoError(t, store.Ping(ctx))
}
