package middleware

import (
	"net/http"
	"os"
	"strings"

	"canebill/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func GetJWTSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("FATAL: JWT_SECRET environment variable is required in production mode")
		}
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

// RequireAdmin validates the bearer JWT gating mutation endpoints.
// Missing header is 401; a malformed header or a bad/expired token is 400,
// matching the contract the billing clients already depend on.
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "No token provided, authorization denied"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Token format is incorrect. Expected 'Bearer <token>'"))
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid token claims"))
			return
		}

		sub, _ := claims["sub"].(string)
		username, _ := claims["username"].(string)
		c.Set("adminID", sub)
		c.Set("adminUsername", username)

		c.Next()
	}
}
