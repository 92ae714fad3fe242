package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cleanly/database/repository"
	"cleanly/database/repository/memrepo"
	"cleanly/handlers"
	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/notification/notificationtest"
	"cleanly/services/owner"
	"cleanly/services/payment/paymenttest"
	"cleanly/services/perks"
	"cleanly/services/terms"
	"cleanly/services/user"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	router  *gin.Engine
	repos   *repository.Repos
	gateway *paymenttest.Gateway
}

func newTestRouter(t *testing.T) *gin.Engine {
	return newTestEnv(t).router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := memrepo.New()
	gateway := paymenttest.New()
	termsSvc := &terms.DefaultTermsService{Repo: repos.Terms, Users: repos.Users, Cache: utils.NewMemoryCache()}
	userSvc := &user.DefaultUserService{
		Repo:      repos.Users,
		Bills:     repos.Bills,
		Terms:     termsSvc,
		AuthCache: utils.NewMemoryCache(),
		Secret:    []byte("routes-secret"),
		TokenTTL:  time.Hour,
	}
	perksSvc := &perks.DefaultPerksService{Settings: repos.Settings, Users: repos.Users}
	ownerSvc := &owner.DefaultOwnerService{
		Users:          repos.Users,
		Appointments:   repos.Appointments,
		Requests:       repos.Requests,
		Payouts:        repos.Payouts,
		WithdrawalRepo: repos.Withdrawals,
		Sessions:       userSvc,
		Gateway:        gateway,
		Notifier:       &notificationtest.Recorder{},
	}

	hb := &handlers.HandlerBundle{
		Secret:           userSvc.Secret,
		Sessions:         userSvc,
		Auth:             handlers.NewAuthHandler(userSvc),
		Homes:            handlers.NewHomeHandler(nil),
		Appointments:     handlers.NewAppointmentHandler(nil),
		Cleaners:         handlers.NewCleanerHandler(nil),
		PendingRequests:  handlers.NewPendingRequestHandler(nil),
		PreferredCleaner: handlers.NewPreferredCleanerHandler(nil),
		Reviews:          handlers.NewReviewHandler(nil),
		Messages:         handlers.NewMessageHandler(nil),
		Owner:            handlers.NewOwnerHandler(ownerSvc),
		Terms:            handlers.NewTermsHandler(termsSvc),
		ServiceAreas:     handlers.NewServiceAreaHandler(nil),
		Perks:            handlers.NewPerksHandler(perksSvc),
	}
	r := gin.New()
	RegisterRoutes(r, hb, middleware.NewRateLimiter(1000))
	return &testEnv{router: r, repos: repos, gateway: gateway}
}

func call(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, r http.Handler, username, userType string) string {
	t.Helper()
	w := call(r, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "secret123",
		FirstName: "Test",
		Type:      userType,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t)
	token := register(t, r, "jane", models.UserTypeHomeowner)

	w := call(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"jane"`)

	w = call(r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(r, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "jane", Password: "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "jane", Password: "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGates(t *testing.T) {
	r := newTestRouter(t)
	homeowner := register(t, r, "jane", models.UserTypeHomeowner)
	cleaner := register(t, r, "sam", models.UserTypeCleaner)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"homeowner on employee-info", http.MethodGet, "/api/v1/employee-info", homeowner, http.StatusForbidden},
		{"cleaner on user-info", http.MethodGet, "/api/v1/user-info", cleaner, http.StatusForbidden},
		{"cleaner on owner dashboard", http.MethodGet, "/api/v1/owner-dashboard/stats", cleaner, http.StatusForbidden},
		{"homeowner publishing terms", http.MethodPost, "/api/v1/terms", homeowner, http.StatusForbidden},
		{"homeowner on my-tier", http.MethodGet, "/api/v1/perks/my-tier", homeowner, http.StatusForbidden},
		{"cleaner on my-tier", http.MethodGet, "/api/v1/perks/my-tier", cleaner, http.StatusOK},
		{"anyone reads tiers", http.MethodGet, "/api/v1/perks/config", homeowner, http.StatusOK},
		{"no token", http.MethodGet, "/api/v1/perks/config", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := call(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"mongo":false`)

	w = call(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestOwnerWithdrawals(t *testing.T) {
	env := newTestEnv(t)
	env.gateway.Balance = 50000

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, env.repos.Users.Create(context.Background(), &models.User{
		ID: "boss", Username: "boss", Email: "boss@example.com", PasswordHash: string(hash), Type: models.UserTypeOwner,
	}))
	w := call(env.router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "boss", Password: "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var auth models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	w = call(env.router, http.MethodPost, "/api/v1/owner-dashboard/withdrawals", auth.Token,
		models.WithdrawalRequest{Amount: 20000, Description: "May earnings"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"amount":20000`)

	w = call(env.router, http.MethodPost, "/api/v1/owner-dashboard/withdrawals", auth.Token,
		models.WithdrawalRequest{Amount: 90000})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = call(env.router, http.MethodGet, "/api/v1/owner-dashboard/withdrawals", auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Withdrawals []models.PlatformWithdrawal `json:"withdrawals"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Withdrawals, 1)
	assert.Equal(t, "May earnings", list.Withdrawals[0].Description)
}
