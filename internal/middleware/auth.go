package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID    = "userID"
	ContextUserRole  = "userRole"
	ContextUserEmail = "userEmail"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is what a verified bearer token tells us about the caller.
type Identity struct {
	UserID string
	Role   string
	Email  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// ======================================================
// HMAC JWT
// ======================================================

type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Identity{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)

	return Identity{UserID: sub, Role: role, Email: email}, nil
}

// ======================================================
// MIDDLEWARE
// ======================================================

func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return authenticate(verifier, false)
}

// StreamAuthMiddleware also accepts ?access_token= because EventSource
// cannot set headers. Mount it only on the event stream route.
func StreamAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return authenticate(verifier, true)
}

func authenticate(verifier TokenVerifier, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c, allowQuery)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		id, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		c.Set(ContextUserID, id.UserID)
		c.Set(ContextUserRole, id.Role)
		c.Set(ContextUserEmail, id.Email)

		c.Next()
	}
}

func bearerToken(c *gin.Context, allowQuery bool) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if q := c.Query("access_token"); allowQuery && q != "" {
			return q, true
		}
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func UserRole(c *gin.Context) string {
	return c.GetString(ContextUserRole)
}

func UserEmail(c *gin.Context) string {
	return c.GetString(ContextUserEmail)
}
