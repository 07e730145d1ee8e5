package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"

	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/storage"
	"precastcatalog/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	repos := services.NewRepositories(storage.NewMemoryKV(), time.Second, zap.NewNop())
	return services.NewAuthService(repos, utils.NewTokenIssuer("test-secret"), services.AuthConfig{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost}, zap.NewNop())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	auth := newAuth(t)
	_, err := auth.EnsureSuperAdmin(context.Background(), "")
	require.NoError(t, err)
	login, err := auth.Login(context.Background(), models.SuperAdminEmail, services.DefaultSuperAdminPassword, services.SessionMeta{})
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/me", RequireAuth(auth), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).Email, "session": CurrentSession(c).ID})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, w)["code"])

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, models.SuperAdminEmail, body["email"])
	assert.Equal(t, login.Session.ID, body["session"])
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestRoleGuards(t *testing.T) {
	client := &models.User{Email: "c@x.io"}
	admin := &models.User{Email: "a@x.io", IsAdmin: true}

	run := func(u *models.User, guard gin.HandlerFunc) int {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { c.Set(userKey, u) }, guard, func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, run(client, RequireAdmin()))
	assert.Equal(t, http.StatusNoContent, run(admin, RequireAdmin()))
	assert.Equal(t, http.StatusForbidden, run(admin, RequireClient("Clients only.")))
	assert.Equal(t, http.StatusNoContent, run(client, RequireClient("Clients only.")))
}

func TestRateLimiter_Local(t *testing.T) {
	rl := NewRateLimiter(nil, 2, time.Minute, "auth", zap.NewNop())
	r := gin.New()
	r.POST("/login", rl.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.Equal(t, "RATE_LIMITED", decodeError(t, w)["code"])
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocalLimiter_SweepsIdleEntries(t *testing.T) {
	l := newLocalLimiter()
	limit := NewRateLimiter(nil, 5, time.Minute, "x", zap.NewNop()).limit
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)

	l.allow("a", limit, now)
	l.allow("b", limit, now.Add(11*time.Minute))
	l.allow("c", limit, now.Add(22*time.Minute))
	assert.NotContains(t, l.entries, "a")
	assert.NotContains(t, l.entries, "b")
	assert.Contains(t, l.entries, "c")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/", func(*gin.Context) { panic("boom") })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w)["code"])
}

func TestRegisterValidations(t *testing.T) {
	require.NoError(t, RegisterValidations())

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req models.UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": services.BindingMessage(err)})
			return
		}
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"first_name":"A","last_name":"B","email":"a@b.c","phone":"05x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Phone number must be digits only.", decodeError(t, w)["error"])
}
