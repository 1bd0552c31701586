package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/appctx"
	"github.com/akeemsulekz-a11y/ocean-supply-link-sub000/internal/core/apperror"
)

// TokenValidator validates bearer tokens issued by the identity
// collaborator and resolves the calling actor.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.Actor, error)
}

// actorClaims is the claim set the identity collaborator issues. A
// missing role denotes an external wholesale customer.
type actorClaims struct {
	jwt.RegisteredClaims

	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	LocationID string `json:"locationId,omitempty"`
	Approved   bool   `json:"approved,omitempty"`
}

// JWTValidator validates HMAC-signed tokens.
type JWTValidator struct {
	secret []byte
}

// NewJWTValidator creates a validator for the shared signing secret.
func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(secret)}
}

// ValidateToken parses and verifies a token and maps its claims to an
// actor.
func (v *JWTValidator) ValidateToken(tokenString string) (*appctx.Actor, error) {
	var claims actorClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	role := appctx.Role(claims.Role)
	if claims.Role == "" {
		role = appctx.RoleCustomer
	}

	return &appctx.Actor{
		UserID:     claims.Subject,
		Name:       claims.Name,
		Role:       role,
		LocationID: claims.LocationID,
		Approved:   claims.Approved,
	}, nil
}

// Auth validates the bearer token and populates the actor context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		actor, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithActor(c.Request.Context(), actor)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", actor.UserID)
		c.Set("role", string(actor.Role))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
