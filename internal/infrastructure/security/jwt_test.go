package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafabene/gearshare-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/gearshare-backend/internal/domain/errors"
)

func testUser() *entities.User {
	return &entities.User{ID: "1b9d6bcd-bbfd-4b2d-9b5d-ab8dfbbd4bed", Username: "dana", Role: entities.RoleVerifiedVolunteer}
}

func TestNewJWTManager(t *testing.T) {
	_, err := NewJWTManager("", time.Hour)
	assert.Error(t, err)

	_, err = NewJWTManager("secret", 0)
	assert.Error(t, err)

	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, m.TTL())
}

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m, err := NewJWTManager("secret", 7*24*time.Hour)
	require.NoError(t, err)

	token, issued, err := m.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, issued.TokenID)
	assert.Equal(t, 7*24*time.Hour, issued.ExpiresAt.Sub(issued.IssuedAt))

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issued.TokenID, claims.TokenID)
	assert.Equal(t, "dana", claims.Username)
	assert.Equal(t, entities.RoleVerifiedVolunteer, claims.Role)
	assert.Equal(t, testUser().ID, claims.UserID)
}

func TestJWTManager_IssueUniqueTokenIDs(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	_, a, err := m.Issue(testUser())
	require.NoError(t, err)
	_, b, err := m.Issue(testUser())
	require.NoError(t, err)
	assert.NotEqual(t, a.TokenID, b.TokenID)
}

func TestJWTManager_VerifyRejects(t *testing.T) {
	m, err := NewJWTManager("secret", time.Hour)
	require.NoError(t, err)

	t.Run("token expirado", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, _, err := m.Issue(testUser())
		require.NoError(t, err)
		m.now = time.Now

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("assinado com outro segredo", func(t *testing.T) {
		other, err := NewJWTManager("another-secret", time.Hour)
		require.NoError(t, err)
		token, _, err := other.Issue(testUser())
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("algoritmo none", func(t *testing.T) {
		claims := jwt.MapClaims{"userId": "x", "exp": time.Now().Add(time.Hour).Unix()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("lixo", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})

	t.Run("sem expiração", func(t *testing.T) {
		claims := jwt.MapClaims{"userId": "x"}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = m.Verify(token)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
	})
}
