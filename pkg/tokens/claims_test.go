package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	accessSecret  = []byte("test-access-secret")
	refreshSecret = []byte("test-refresh-secret")
)

func TestSignAccess_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	exp := time.Now().Add(AccessTTL).UTC()

	token, err := SignAccess(userID, "owner@example.com", exp, accessSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestSignRefresh_RoundTrip(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	token, jti, err := SignRefresh(userID, time.Now().Add(RefreshTTL), refreshSecret)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := RefreshClaimsFromToken(token, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, jti, claims.ID)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := SignAccess("u", "e", time.Now().Add(-time.Minute), accessSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(expired, accessSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	valid, err := SignAccess("u", "e", time.Now().Add(time.Minute), accessSecret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(valid, []byte("other-secret"))
	require.Error(t, err)

	_, err = AccessClaimsFromToken("garbage", accessSecret)
	require.Error(t, err)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	t.Parallel()

	shared := []byte("one-secret-for-both")
	refresh, _, err := SignRefresh("u", time.Now().Add(RefreshTTL), shared)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(refresh, shared)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)

	access, err := SignAccess("u", "e", time.Now().Add(AccessTTL), shared)
	require.NoError(t, err)
	_, err = RefreshClaimsFromToken(access, shared)
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)

	noAud, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString(shared)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(noAud, shared)
	assert.Error(t, err)
}

func TestSha256Hex_Stable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Sha256Hex("abc"), Sha256Hex("abc"))
	assert.NotEqual(t, Sha256Hex("abc"), Sha256Hex("abd"))
	assert.Len(t, Sha256Hex("abc"), 64)
}

func TestCookies(t *testing.T) {
	exp := time.Now().Add(time.Hour)
	c := CreateCookie(AccessCookie, "v", "/", exp)
	assert.Equal(t, "accessToken", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, Secure, c.Secure)
	assert.Equal(t, exp, c.Expires)

	d := DeleteCookie(RefreshCookie, "/")
	assert.Equal(t, -1, d.MaxAge)
	assert.Empty(t, d.Value)
}
