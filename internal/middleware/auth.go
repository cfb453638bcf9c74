package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/fitlifehq/gym-api/internal/config"
	"github.com/fitlifehq/gym-api/internal/httperr"
	"github.com/fitlifehq/gym-api/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextUser     = "user"
)

func AuthMiddleware(cfg *config.Config, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: "missing_token", Message: "Authentication required."})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: "invalid_token", Message: "Invalid or expired token."})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: "invalid_token_claims", Message: "Invalid token."})
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: "invalid_token_payload", Message: "Invalid token."})
			return
		}

		// The token may outlive the account; re-resolve the user on every
		// request so deleted or deactivated users are rejected.
		var user models.User
		if err := db.First(&user, uint(sub)).Error; err != nil || !user.Active {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.HTTPError{Code: "user_not_found", Message: "Invalid or expired token."})
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Set(ContextUser, &user)

		c.Next()
	}
}

// RequireRoles gates a route to a closed set of roles. It must run after
// AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.MustGet(ContextUserRole).(string)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, httperr.HTTPError{Code: "forbidden", Message: "You do not have permission to perform this action."})
	}
}

func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUser).(*models.User)
}

// bearerToken extracts the token from the Authorization header, falling back
// to a "token" query parameter for the WebSocket endpoint, where browsers
// cannot set headers.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
