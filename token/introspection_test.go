package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/gongxings/ai-creator/token"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	raw, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("server-side-secret"))
	require.NoError(t, err)
	return raw
}

func withNow(t *testing.T, now time.Time) {
	t.Helper()
	prev := token.NowTimeFunc
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = prev })
}

func TestIntrospect_AccessToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	withNow(t, now)

	raw := signed(t, jwtlib.MapClaims{"sub": "42", "exp": now.Add(30 * time.Minute).Unix()})
	info, err := token.Introspect(raw)
	require.NoError(t, err)

	require.Equal(t, "42", info.Subject)
	require.False(t, info.IsRefresh())
	require.False(t, info.Expired())
	require.Equal(t, 30*time.Minute, info.ExpiresIn())
}

func TestIntrospect_ExpiredRefreshToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	withNow(t, now)

	raw := signed(t, jwtlib.MapClaims{"sub": "42", "type": "refresh", "exp": now.Add(-time.Minute).Unix()})
	info, err := token.Introspect(raw)
	require.NoError(t, err)

	require.True(t, info.IsRefresh())
	require.True(t, info.Expired())
	require.Zero(t, info.ExpiresIn())
}

func TestIntrospect_NoExpiry(t *testing.T) {
	info, err := token.Introspect(signed(t, jwtlib.MapClaims{"sub": "1"}))
	require.NoError(t, err)
	require.False(t, info.Expired())
	require.True(t, info.ExpiresAt.IsZero())
}

func TestIntrospect_Malformed(t *testing.T) {
	_, err := token.Introspect("   ")
	require.ErrorIs(t, err, token.ErrEmptyToken)

	_, err = token.Introspect("T1")
	require.Error(t, err)
}
