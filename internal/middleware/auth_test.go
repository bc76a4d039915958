package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkthroughit/therapy-api/internal/config"
	"github.com/talkthroughit/therapy-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret"}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", AuthMiddleware(cfg), func(c *gin.Context) {
		actor := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	return r
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	cfg := testConfig()
	token := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(42),
		"role": models.RoleClient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(cfg).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42,"role":"client"}`, w.Body.String())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	cfg := testConfig()

	expired := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(1),
		"role": models.RoleClient,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := signToken(t, "other-secret", jwt.MapClaims{
		"sub":  float64(1),
		"role": models.RoleClient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	badRole := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(1),
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
		{"unknown role", "Bearer " + badRole},
	}

	r := authRouter(cfg)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	cfg := testConfig()

	r := gin.New()
	r.GET("/providers-only",
		AuthMiddleware(cfg),
		RequireRole(models.RoleProvider),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	clientToken := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(1),
		"role": models.RoleClient,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	providerToken := signToken(t, cfg.JWTSecret, jwt.MapClaims{
		"sub":  float64(1),
		"role": models.RoleProvider,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/providers-only", nil)
	req.Header.Set("Authorization", "Bearer "+clientToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code, "wrong role is 403, not 401")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/providers-only", nil)
	req.Header.Set("Authorization", "Bearer "+providerToken)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestActor_ParticipantLabels(t *testing.T) {
	client := Actor{ID: 1, Role: models.RoleClient}
	provider := Actor{ID: 2, Role: models.RoleProvider}

	assert.Equal(t, models.ParticipantClient, client.ParticipantType())
	assert.Equal(t, models.ParticipantProvider, client.CounterpartType())
	assert.Equal(t, models.ParticipantProvider, provider.ParticipantType())
	assert.Equal(t, models.ParticipantClient, provider.CounterpartType())
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	r := gin.New()
	r.GET("/login", RateLimit(rl), func(c *gin.Context) { c.Status(http.StatusOK) })

	statuses := []int{}
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[3], "burst exhausted")

	// A different IP has its own bucket.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
