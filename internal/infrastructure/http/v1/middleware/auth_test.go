package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
)

func signToken(t *testing.T, secret string, claims actorClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken_MapsClaimsToActor(t *testing.T) {
	v := NewJWTValidator("test-secret")

	signed := signToken(t, "test-secret", actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:       "Shop Attendant",
		Role:       "shop_staff",
		LocationID: "loc-1",
	})

	actor, err := v.ValidateToken(signed)
	require.NoError(t, err)

	assert.Equal(t, "u-42", actor.UserID)
	assert.Equal(t, "Shop Attendant", actor.Name)
	assert.Equal(t, appctx.RoleShopStaff, actor.Role)
	assert.Equal(t, "loc-1", actor.LocationID)
}

func TestValidateToken_MissingRoleIsCustomer(t *testing.T) {
	v := NewJWTValidator("test-secret")

	signed := signToken(t, "test-secret", actorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "c-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:     "Mrs. Adeyemi",
		Approved: true,
	})

	actor, err := v.ValidateToken(signed)
	require.NoError(t, err)

	assert.Equal(t, appctx.RoleCustomer, actor.Role)
	assert.True(t, actor.Approved)
}

func TestValidateToken_Rejects(t *testing.T) {
	v := NewJWTValidator("test-secret")

	t.Run("wrong secret", func(t *testing.T) {
		signed := signToken(t, "other-secret", actorClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "u-1"},
		})
		_, err := v.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		signed := signToken(t, "test-secret", actorClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "u-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})
		_, err := v.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		signed := signToken(t, "test-secret", actorClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		_, err := v.ValidateToken(signed)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.ValidateToken("not-a-token")
		assert.Error(t, err)
	})
}
