package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TagService/internal/model"
)

func testCodec() *JWTCodec {
	return NewJWTCodec("test-secret", 15*time.Minute, 24*time.Hour, "tag-service")
}

func testIdentity() model.Identity {
	return model.Identity{UserUUID: "user-uuid", Email: "user@example.com", Nickname: "user"}
}

func TestJWTCodec_CreateAndVerify(t *testing.T) {
	codec := testCodec()

	pair, err := codec.Create(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpireAt.After(pair.AccessExpireAt))

	for token, kind := range map[string]string{pair.AccessToken: KindAccess, pair.RefreshToken: KindRefresh} {
		claims, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, testIdentity(), claims.Identity())
		assert.Equal(t, "user-uuid", claims.Subject)
		assert.Equal(t, kind, claims.Kind)
	}
}

func TestJWTCodec_PairsNeverCollide(t *testing.T) {
	codec := testCodec()
	fixed := time.Now()
	codec.now = func() time.Time { return fixed }

	first, err := codec.Create(testIdentity())
	require.NoError(t, err)
	second, err := codec.Create(testIdentity())
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, first.RefreshToken)
}

func TestJWTCodec_VerifyExpired(t *testing.T) {
	codec := testCodec()
	codec.now = func() time.Time { return time.Now().Add(-time.Hour) }

	pair, err := codec.Create(testIdentity())
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Verify(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// refresh живет сутки и еще действителен
	_, err = codec.Verify(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestJWTCodec_MalformedAndExpiredAreIndistinguishable(t *testing.T) {
	codec := testCodec()
	codec.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	pair, err := codec.Create(testIdentity())
	require.NoError(t, err)
	codec.now = time.Now

	_, expiredErr := codec.Verify(pair.RefreshToken)
	_, malformedErr := codec.Verify("not.a.jwt")
	_, emptyErr := codec.Verify("")

	assert.Equal(t, expiredErr, malformedErr)
	assert.Equal(t, expiredErr, emptyErr)
	assert.ErrorIs(t, malformedErr, ErrInvalidToken)
}

func TestJWTCodec_VerifyRejectsForeignTokens(t *testing.T) {
	codec := testCodec()
	now := time.Now()

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTCodec("other-secret", time.Minute, time.Hour, "tag-service")
		pair, err := other.Create(testIdentity())
		require.NoError(t, err)

		_, err = codec.Verify(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong alg", func(t *testing.T) {
		claims := jwt.MapClaims{
			"uid": "user-uuid",
			"iss": "tag-service",
			"exp": now.Add(time.Minute).Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTCodec("test-secret", time.Minute, time.Hour, "someone-else")
		pair, err := other.Create(testIdentity())
		require.NoError(t, err)

		_, err = codec.Verify(pair.AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("tampered payload", func(t *testing.T) {
		pair, err := codec.Create(testIdentity())
		require.NoError(t, err)
		parts := strings.Split(pair.AccessToken, ".")
		parts[1] = parts[1] + "x"

		_, err = codec.Verify(strings.Join(parts, "."))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("no subject", func(t *testing.T) {
		claims := jwt.MapClaims{
			"iss": "tag-service",
			"exp": now.Add(time.Minute).Unix(),
		}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = codec.Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Fingerprint("token"), Fingerprint("token"))
	assert.NotEqual(t, Fingerprint("token"), Fingerprint("token2"))
	assert.NotContains(t, Fingerprint("token"), "token")
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "Secret123!"))
	assert.False(t, CheckPassword(hash, "secret123!"))
	assert.False(t, CheckPassword("not-a-hash", "Secret123!"))
}
