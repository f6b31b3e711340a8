package middleware

import (
	"net/http"

	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/AngelinaFiera614/wrenchmark-sub010/utils"
	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// AuthMiddleware validates JWT token from cookie or Authorization header
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("auth_token")
		if err != nil || token == "" {
			token, err = utils.ExtractTokenFromHeader(c.GetHeader("Authorization"))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(c, "Authorization required"))
				return
			}
		}

		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(c, "Invalid or expired token"))
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserIDFromContext returns the user set by AuthMiddleware
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok && id != ""
}
