package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ScopeClaims are the identity claims the core consumes: the acting user and
// the business (tenancy) scope every read and write is filtered by. Issuing
// and refreshing these tokens is an external collaborator's job.
type ScopeClaims struct {
	BusinessID string `json:"bid"`
	jwt.RegisteredClaims
}

// ScopeMiddleware validates the bearer token and places the userID/businessID
// scope into the request context for downstream handlers and services.
func ScopeMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		claims := &ScopeClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			logger.Warn("Token validation failed", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if claims.Subject == "" || claims.BusinessID == "" {
			logger.Warn("Token missing scope claims")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token missing required claims"})
			return
		}

		c.Set(string(userIDKey), claims.Subject)
		c.Set(string(businessIDKey), claims.BusinessID)
		c.Next()
	}
}
