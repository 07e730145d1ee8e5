package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"go.uber.org/zap"

	"precastcatalog/configurator"
	"precastcatalog/models"
	"precastcatalog/storage"
	"precastcatalog/utils"
)

// MockNotifier is a mock implementation of Notifier.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyQuote(ctx context.Context, q models.Quotation, event QuoteEvent) error {
	args := m.Called(ctx, q, event)
	return args.Error(0)
}

type testEnv struct {
	now      time.Time
	repos    *Repositories
	auth     *AuthService
	users    *UserAdminService
	projects *ProjectService
	cart     *CartService
	quotes   *QuoteService
	notifier *MockNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()
	env := &testEnv{now: time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC), notifier: &MockNotifier{}}
	fixed := clock(func() time.Time { return env.now })

	env.repos = NewRepositories(storage.NewMemoryKV(), time.Second, log)
	env.auth = NewAuthService(env.repos, utils.NewTokenIssuer("test-secret"), AuthConfig{SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost}, log)
	env.auth.clock = fixed
	env.users = NewUserAdminService(env.repos, bcrypt.MinCost, log)
	env.users.clock = fixed
	env.projects = NewProjectService(env.repos, log)
	env.projects.clock = fixed
	env.cart = NewCartService(env.repos, configurator.New(nil), log)
	env.cart.clock = fixed
	env.quotes = NewQuoteService(env.repos, env.notifier, log)
	env.quotes.clock = fixed
	return env
}

func validSignup(email string) models.SignupRequest {
	return models.SignupRequest{
		FirstName:       "Sara",
		LastName:        "Alharbi",
		IDNumber:        "1098765432",
		Phone:           "0551234567",
		Email:           email,
		CompanyName:     "Acme Contracting",
		CompanyType:     "Contractor",
		Location:        "riyadh",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	}
}

func (e *testEnv) client(t *testing.T, email string) *models.User {
	t.Helper()
	res, err := e.auth.Signup(context.Background(), validSignup(email), SessionMeta{})
	require.NoError(t, err)
	u := res.User
	return &u
}

func (e *testEnv) superAdmin(t *testing.T) *models.User {
	t.Helper()
	_, err := e.auth.EnsureSuperAdmin(context.Background(), "")
	require.NoError(t, err)
	u, err := e.repos.Users.Get(context.Background(), models.SuperAdminEmail)
	require.NoError(t, err)
	return u
}

func (e *testEnv) admin(t *testing.T, email string, perms models.Permissions) *models.User {
	t.Helper()
	u, err := e.users.CreateAdmin(context.Background(), e.superAdmin(t), models.CreateAdminRequest{
		FirstName:   "Lina",
		LastName:    "Saleh",
		Email:       email,
		Password:    "secret123",
		IDNumber:    "ADM-" + email,
		Location:    "Jeddah",
		Permissions: perms,
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) addCulvert(t *testing.T, u *models.User, projectID string, qty int) models.CartItem {
	t.Helper()
	item, _, err := e.cart.Add(context.Background(), u, models.AddToCartRequest{
		Type:      "culvert",
		Request:   configurator.Request{Options: configurator.Options{Qty: qty}},
		ProjectID: projectID,
	})
	require.NoError(t, err)
	return *item
}
