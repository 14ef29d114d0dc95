package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/linusc17/fitness-planner/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T, ttl time.Duration) (*Sessions, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := NewSessions(NewRedisClient(config.RedisConfig{Address: mr.Addr(), PoolSize: 2}), ttl)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestCreateRequiresUser(t *testing.T) {
	s, mr := newTestSessions(t, time.Minute)

	_, err := s.Create(context.Background(), "")
	assert.Error(t, err)
	assert.Empty(t, mr.Keys())
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestSessions(t, time.Minute)
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)

	id, err := s.UserID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	require.NoError(t, s.Revoke(ctx, token))
	_, err = s.UserID(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, s.Revoke(ctx, token), "revoking twice")
}

func TestUnknownToken(t *testing.T) {
	s, _ := newTestSessions(t, time.Minute)

	_, err := s.UserID(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionExpires(t *testing.T) {
	ttl := 30 * time.Minute
	s, mr := newTestSessions(t, ttl)
	ctx := context.Background()

	token, err := s.Create(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, ttl, mr.TTL(sessionPrefix+token))

	mr.FastForward(ttl - time.Second)
	id, err := s.UserID(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)

	mr.FastForward(2 * time.Second)
	_, err = s.UserID(ctx, token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLookupFailsWhenServerIsDown(t *testing.T) {
	s, mr := newTestSessions(t, time.Minute)
	mr.Close()

	_, err := s.UserID(context.Background(), "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoSession)
}
