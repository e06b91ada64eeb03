package middleware

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmhmddd/PowerEV-Server/database"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson"
)

func JWTSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// BearerToken extracts the token from the Authorization header, with or
// without the Bearer prefix.
func BearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	return strings.TrimPrefix(token, "Bearer ")
}

func parseToken(c *gin.Context) (jwt.MapClaims, bool) {
	tokenString := BearerToken(c)
	if tokenString == "" {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	var blacklisted bson.M
	if err := database.BlacklistCollection.FindOne(ctx, bson.M{"token": tokenString}).Decode(&blacklisted); err == nil {
		return nil, false
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// AuthMiddleware requires a valid, non-blacklisted bearer token.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := parseToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false, "message": "invalid or expired token",
			})
			return
		}
		c.Set("userId", claims["userId"])
		c.Set("role", claims["role"])
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the user to the context when a valid
// token is present but lets anonymous requests through. Checkout uses it
// to tie orders to logged-in customers.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := parseToken(c); ok {
			c.Set("userId", claims["userId"])
			c.Set("role", claims["role"])
		}
		c.Next()
	}
}

func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false, "message": "access denied: admin only",
			})
			return
		}
		c.Next()
	}
}
