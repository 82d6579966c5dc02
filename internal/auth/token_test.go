package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	raw, issued, err := m.Issue(42)
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, issued.TokenID, claims.TokenID)
}

func TestTokenManager_RejectsTampering(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	raw, _, err := m.Issue(1)
	require.NoError(t, err)

	other := NewTokenManager("another-secret", time.Hour)
	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse(raw + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", time.Hour).WithClock(func() time.Time { return now })

	raw, _, err := m.Issue(7)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	list := NewMemoryRevocationList()

	require.NoError(t, list.Revoke(ctx, "abc", time.Now().Add(time.Hour)))
	revoked, err := list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	// Already expired tokens need no entry
	require.NoError(t, list.Revoke(ctx, "old", time.Now().Add(-time.Minute)))
	revoked, err = list.IsRevoked(ctx, "old")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationList(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	ctx := context.Background()
	list := NewRedisRevocationList(client)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	s.FastForward(2 * time.Minute)

	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
