package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/talkthroughit/therapy-api/internal/config"
	"github.com/talkthroughit/therapy-api/internal/models"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// Actor is the authenticated party, resolved once at the boundary and
// passed explicitly downstream instead of re-derived from raw claims.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsClient() bool   { return a.Role == models.RoleClient }
func (a Actor) IsProvider() bool { return a.Role == models.RoleProvider }

// CounterpartType returns the participant label of the opposite role.
func (a Actor) CounterpartType() string {
	if a.IsClient() {
		return models.ParticipantProvider
	}
	return models.ParticipantClient
}

func (a Actor) ParticipantType() string {
	if a.IsClient() {
		return models.ParticipantClient
	}
	return models.ParticipantProvider
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing_authorization_header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_authorization_header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
			return
		}

		sub, ok1 := claims["sub"].(float64)
		role, ok2 := claims["role"].(string)
		if !ok1 || !ok2 || (role != models.RoleClient && role != models.RoleProvider) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
			return
		}

		c.Set(ContextUserID, uint(sub))
		c.Set(ContextUserRole, role)

		c.Next()
	}
}

// CurrentActor reads the authenticated party out of the gin context. Only
// valid behind AuthMiddleware.
func CurrentActor(c *gin.Context) Actor {
	return Actor{
		ID:   c.MustGet(ContextUserID).(uint),
		Role: c.MustGet(ContextUserRole).(string),
	}
}
