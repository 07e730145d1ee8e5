package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"

	"precastcatalog/configurator"
	"precastcatalog/middleware"
	"precastcatalog/models"
	"precastcatalog/services"
	"precastcatalog/storage"
	"precastcatalog/utils"
)

type apiTest struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPITest(t *testing.T, limiter *middleware.RateLimiter) *apiTest {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, middleware.RegisterValidations())

	log := zap.NewNop()
	repos := services.NewRepositories(storage.NewMemoryKV(), time.Second, log)
	auth := services.NewAuthService(repos, utils.NewTokenIssuer("test-secret"), services.AuthConfig{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost}, log)
	_, err := auth.EnsureSuperAdmin(context.Background(), "")
	require.NoError(t, err)

	cfg := configurator.New(nil)
	r := gin.New()
	r.Use(middleware.Recovery(log))
	RegisterRoutes(r, Deps{
		Configurator: cfg,
		Auth:         auth,
		Users:        services.NewUserAdminService(repos, bcrypt.MinCost, log),
		Projects:     services.NewProjectService(repos, log),
		Cart:         services.NewCartService(repos, cfg, log),
		Quotes:       services.NewQuoteService(repos, services.NewEmailService(services.SMTPConfig{}, log), log),
		Documents:    services.NewDocumentService("https://shop.example.com", "SAR"),
		AuthLimiter:  limiter,
	})
	return &apiTest{t: t, engine: r}
}

func (a *apiTest) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func signupBody(email string) models.SignupRequest {
	return models.SignupRequest{
		FirstName:       "Sara",
		LastName:        "Alharbi",
		IDNumber:        "1098765432",
		Phone:           "0551234567",
		Email:           email,
		CompanyName:     "Acme Contracting",
		CompanyType:     "Contractor",
		Location:        "Riyadh",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func (a *apiTest) login(email, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: email, Password: password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	return decode[models.LoginResponse](a.t, w).Token
}

func TestPublicEndpoints(t *testing.T) {
	api := newAPITest(t, nil)

	w := api.do(http.MethodGet, "/api/catalog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	catalog := decode[CatalogResponse](t, w)
	require.Len(t, catalog.Shapes, 4)
	assert.Equal(t, "culvert", catalog.Shapes[0].Type)
	assert.Equal(t, "SAR", catalog.Catalog.Currency)

	w = api.do(http.MethodPost, "/api/configure/culvert", "", map[string]interface{}{"units": "mm", "dims": map[string]float64{"Wi": 1500}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[configurator.Result](t, w)
	assert.Equal(t, "Box Culvert", res.Product)
	assert.Equal(t, 1500.0, res.Dims["Wi"])

	w = api.do(http.MethodPost, "/api/configure/cube", "", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "UNKNOWN_SHAPE", decode[models.ErrorResponse](t, w).Code)

	w = api.do(http.MethodGet, "/api/cities", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[[]string](t, w), "Riyadh")

	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/health", "", nil).Code)
}

func TestAuthEndpoints(t *testing.T) {
	api := newAPITest(t, nil)

	bad := signupBody("client@example.com")
	bad.Phone = "05-123"
	w := api.do(http.MethodPost, "/api/auth/signup", "", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Phone number must be digits only.", decode[models.ErrorResponse](t, w).Error)

	w = api.do(http.MethodPost, "/api/auth/signup", "", signupBody("client@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	signup := decode[models.LoginResponse](t, w)
	assert.NotEmpty(t, signup.Token)
	assert.False(t, signup.User.IsAdmin)

	w = api.do(http.MethodPost, "/api/auth/signup", "", signupBody("client@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login", "", models.LoginRequest{Email: "client@example.com", Password: "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password.", decode[models.ErrorResponse](t, w).Error)

	token := api.login("client@example.com", "secret123")
	w = api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[MeResponse](t, w)
	assert.Equal(t, "client@example.com", me.User.Email)
	assert.False(t, me.Capabilities.IsAdmin)

	w = api.do(http.MethodPut, "/api/auth/password", token, models.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newpass1", ConfirmPassword: "newpass1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logged out successfully", decode[models.MessageResponse](t, w).Message)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/auth/me", token, nil).Code)

	api.login("client@example.com", "newpass1")
}

func TestAdminRoutesRejectClients(t *testing.T) {
	api := newAPITest(t, nil)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/auth/signup", "", signupBody("client@example.com")).Code)
	token := api.login("client@example.com", "secret123")

	for _, path := range []string{"/api/admin/users", "/api/admin/quotations", "/api/admin/quotations/export"} {
		assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, path, token, nil).Code, path)
	}
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/admin/users", "", nil).Code)
}

func TestQuotationWorkflow(t *testing.T) {
	api := newAPITest(t, nil)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/auth/signup", "", signupBody("client@example.com")).Code)
	client := api.login("client@example.com", "secret123")
	admin := api.login(models.SuperAdminEmail, services.DefaultSuperAdminPassword)

	w := api.do(http.MethodPost, "/api/projects", client, models.ProjectRequest{Name: "Ring road", Location: "Tabuk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	project := decode[models.Project](t, w)

	add := map[string]interface{}{"type": "culvert", "qty": 2, "project_id": project.ID}
	w = api.do(http.MethodPost, "/api/cart/items", client, add)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[AddToCartResponse](t, w).Item
	assert.Equal(t, project.ID, item.ProjectID)

	w = api.do(http.MethodPost, "/api/cart/items", admin, add)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "you are admin you cant add items", decode[models.ErrorResponse](t, w).Error)

	w = api.do(http.MethodGet, "/api/cart", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	groups := decode[[]models.CartGroup](t, w)
	require.Len(t, groups, 1)
	assert.Equal(t, "Ring road", groups[0].ProjectName)

	w = api.do(http.MethodPost, "/api/quotations", admin, models.CreateQuotationRequest{ProjectID: project.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, services.MsgAdminCannotRequest, decode[models.ErrorResponse](t, w).Error)

	w = api.do(http.MethodPost, "/api/quotations", client, models.CreateQuotationRequest{ProjectID: project.ID, ClientNotes: "Gate 3"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	quote := decode[models.Quotation](t, w)
	assert.Equal(t, models.StatusPending, quote.Status)
	assert.Empty(t, decode[[]models.CartGroup](t, api.do(http.MethodGet, "/api/cart", client, nil)))

	w = api.do(http.MethodGet, "/api/admin/quotations?status=Pending", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[models.CountResponse](t, w).Total)

	w = api.do(http.MethodGet, "/api/admin/quotations/"+quote.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusInReview, decode[models.Quotation](t, w).Status)

	reply := models.AdminReplyRequest{
		PerItem:      []models.ItemPrice{{ID: item.ID, UnitPrice: 1000}},
		DeliveryCost: 300,
		Discount:     100,
	}
	w = api.do(http.MethodPost, "/api/admin/quotations/"+quote.ID+"/reply", admin, reply)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	quoted := decode[models.Quotation](t, w)
	assert.Equal(t, models.StatusQuoted, quoted.Status)
	assert.Equal(t, 2200.0, quoted.AdminReply.GrandTotal)
	assert.True(t, quoted.ClientUnread)

	w = api.do(http.MethodGet, "/api/quotations/"+quote.ID, client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Quotation](t, w).ClientUnread)

	w = api.do(http.MethodPost, "/api/quotations/"+quote.ID+"/approve", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusApproved, decode[models.Quotation](t, w).Status)

	w = api.do(http.MethodGet, "/api/quotations/"+quote.ID+"/pdf", client, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = api.do(http.MethodGet, "/api/quotations/"+quote.ID+"/label", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := jpeg.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)

	w = api.do(http.MethodGet, "/api/admin/quotations/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	v, err := f.GetCellValue("Quotations", "A2")
	require.NoError(t, err)
	assert.Equal(t, quote.ID, v)
	require.NoError(t, f.Close())

	w = api.do(http.MethodPut, "/api/admin/quotations/"+quote.ID+"/status", admin, models.ChangeStatusRequest{Status: "Shipped"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/admin/quotations/"+quote.ID, admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/quotations/"+quote.ID, client, nil).Code)
}

func TestAdminUserEndpoints(t *testing.T) {
	api := newAPITest(t, nil)
	admin := api.login(models.SuperAdminEmail, services.DefaultSuperAdminPassword)

	create := models.CreateAdminRequest{
		FirstName:   "Lina",
		LastName:    "Saleh",
		Email:       "lina@tnagadi.com",
		Password:    "secret123",
		IDNumber:    "ADM-0002",
		Location:    "Jeddah",
		Permissions: models.Permissions{ViewReplyQuotes: true},
	}
	w := api.do(http.MethodPost, "/api/admin/users", admin, create)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.UserResponse](t, w)
	assert.True(t, created.IsAdmin)
	assert.True(t, created.Permissions.ViewReplyQuotes)

	w = api.do(http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[models.CountResponse](t, w).Total)

	lina := api.login("lina@tnagadi.com", "secret123")
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/admin/users/"+models.SuperAdminEmail, lina, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/admin/users/"+models.SuperAdminEmail, admin, nil).Code)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/admin/users/lina@tnagadi.com", admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/admin/users/lina@tnagadi.com", admin, nil).Code)
}

func TestLoginRateLimit(t *testing.T) {
	api := newAPITest(t, middleware.NewRateLimiter(nil, 2, time.Minute, "auth", zap.NewNop()))
	body := models.LoginRequest{Email: "nobody@example.com", Password: "whatever"}

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodPost, "/api/auth/login", "", body).Code)
	w := api.do(http.MethodPost, "/api/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
