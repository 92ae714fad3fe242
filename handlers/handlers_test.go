package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cleanly/database/repository/memrepo"
	"cleanly/middleware"
	"cleanly/models"
	"cleanly/services/appointment"
	"cleanly/services/home"
	"cleanly/services/messaging"
	"cleanly/services/notification/notificationtest"
	"cleanly/services/owner"
	"cleanly/services/payment/paymenttest"
	"cleanly/services/perks"
	"cleanly/services/servicearea"
	"cleanly/services/storage/storagetest"
	"cleanly/services/tasks/taskstest"
	"cleanly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = func() time.Time { return time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC) }

// asUser stands in for JWTAuthMiddleware.
func asUser(userID, userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextUserType, userType)
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

type homeFixture struct {
	router *gin.Engine
	homes  *memrepo.Homes
}

func newHomeFixture(t *testing.T) *homeFixture {
	t.Helper()
	repos := memrepo.New()
	area := &servicearea.DefaultServiceAreaService{Settings: repos.Settings, Homes: repos.Homes, Cache: utils.NewMemoryCache()}
	homeSvc := &home.DefaultHomeService{
		Users:        repos.Users,
		Homes:        repos.Homes,
		Appointments: repos.Appointments,
		Bills:        repos.Bills,
		Requests:     repos.Requests,
		Area:         area,
		Storage:      storagetest.New(),
		Reminders:    taskstest.New(),
		Now:          fixedNow,
	}
	apptSvc := &appointment.DefaultAppointmentService{
		Appointments: repos.Appointments,
		Homes:        repos.Homes,
		Bills:        repos.Bills,
		Requests:     repos.Requests,
		Area:         area,
		Payments:     paymenttest.New(),
		Reminders:    taskstest.New(),
		Notifier:     &notificationtest.Recorder{},
		Policy:       appointment.BillingPolicy{CancellationFee: 2500, CancellationWindowDays: 7},
		Now:          fixedNow,
	}
	require.NoError(t, repos.Users.Create(context.Background(), &models.User{ID: "u1", Username: "jane", Type: models.UserTypeHomeowner}))
	require.NoError(t, repos.Bills.Create(context.Background(), &models.Bill{ID: "b1", UserID: "u1"}))

	hh := NewHomeHandler(homeSvc)
	ah := NewAppointmentHandler(apptSvc)
	r := gin.New()
	g := r.Group("", asUser("u1", models.UserTypeHomeowner))
	g.GET("/user-info", hh.DashboardHandler)
	g.POST("/user-info/home", hh.CreateHomeHandler)
	g.PATCH("/user-info/home/:homeID", hh.UpdateHomeHandler)
	g.POST("/user-info/home/:homeID/photo", hh.UploadPhotoHandler)
	g.POST("/appointments", ah.CreateAppointmentHandler)
	g.PATCH("/appointments/:id/sheets", ah.UpdateSheetsHandler)
	g.DELETE("/appointments/:id", ah.CancelAppointmentHandler)

	return &homeFixture{
		router: r,
		homes:  repos.Homes.(*memrepo.Homes),
	}
}

func validHome() models.HomeRequest {
	return models.HomeRequest{
		NickName:       "Lake house",
		Address:        "1 Main St",
		City:           "Austin",
		State:          "TX",
		Zipcode:        "78701",
		NumBeds:        3,
		NumBaths:       "2",
		CleanersNeeded: 1,
	}
}

func TestHomeHandlers(t *testing.T) {
	f := newHomeFixture(t)

	t.Run("create validates body", func(t *testing.T) {
		w := doJSON(t, f.router, http.MethodPost, "/user-info/home", "{not json")
		assert.Equal(t, http.StatusBadRequest, w.Code)

		req := validHome()
		req.NumBeds = 0
		w = doJSON(t, f.router, http.MethodPost, "/user-info/home", req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, errorOf(t, w), "numBeds")
	})

	var homeID string
	t.Run("create then dashboard", func(t *testing.T) {
		w := doJSON(t, f.router, http.MethodPost, "/user-info/home", validHome())
		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Home models.Home `json:"home"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		homeID = resp.Home.ID
		assert.Equal(t, "u1", resp.Home.UserID)

		w = doJSON(t, f.router, http.MethodGet, "/user-info", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Lake house")
	})

	t.Run("update of a missing home is 404", func(t *testing.T) {
		w := doJSON(t, f.router, http.MethodPatch, "/user-info/home/nope", models.HomeUpdateRequest{})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("photo requires a file", func(t *testing.T) {
		w := doJSON(t, f.router, http.MethodPost, "/user-info/home/"+homeID+"/photo", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("photo upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("photo", "kitchen.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/user-info/home/"+homeID+"/photo", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		h, err := f.homes.GetByID(context.Background(), homeID)
		require.NoError(t, err)
		assert.Len(t, h.PhotoIDs, 1)
	})

	t.Run("appointment sheets toggle", func(t *testing.T) {
		w := doJSON(t, f.router, http.MethodPost, "/appointments", models.CreateAppointmentRequest{HomeID: homeID, Date: "2026-05-20"})
		require.Equal(t, http.StatusCreated, w.Code)
		var resp struct {
			Appointment models.Appointment `json:"appointment"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		before := resp.Appointment.Price

		w = doJSON(t, f.router, http.MethodPatch, "/appointments/"+resp.Appointment.ID+"/sheets", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bringSheets is required", errorOf(t, w))

		w = doJSON(t, f.router, http.MethodPatch, "/appointments/"+resp.Appointment.ID+"/sheets", map[string]bool{"bringSheets": true})
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, before+3000, resp.Appointment.Price)
	})
}

func TestOwnerModerationHandlers(t *testing.T) {
	ctx := context.Background()
	repos := memrepo.New()
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "o1", Username: "boss", Type: models.UserTypeOwner}))
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "c1", Username: "sam", Type: models.UserTypeCleaner}))

	svc := &owner.DefaultOwnerService{
		Users:          repos.Users,
		Appointments:   repos.Appointments,
		Requests:       repos.Requests,
		Payouts:        repos.Payouts,
		WithdrawalRepo: repos.Withdrawals,
		Sessions:       noopRevoker{},
		Gateway:        paymenttest.New(),
		Notifier:       &notificationtest.Recorder{},
		Now:            fixedNow,
	}
	oh := NewOwnerHandler(svc)
	r := gin.New()
	g := r.Group("/owner-dashboard", asUser("o1", models.UserTypeOwner))
	g.POST("/cleaners/:id/freeze", oh.FreezeHandler)
	g.POST("/cleaners/:id/warn", oh.WarnHandler)
	g.GET("/cleaners/:id/warnings", oh.WarningsHandler)

	tests := []struct {
		name   string
		path   string
		reason string
		status int
	}{
		{"short freeze reason", "/owner-dashboard/cleaners/c1/freeze", "  too short ", http.StatusBadRequest},
		{"freeze unknown cleaner", "/owner-dashboard/cleaners/zz/freeze", "no-shows on three jobs", http.StatusNotFound},
		{"freeze", "/owner-dashboard/cleaners/c1/freeze", "no-shows on three jobs", http.StatusOK},
		{"freeze twice", "/owner-dashboard/cleaners/c1/freeze", "no-shows on three jobs", http.StatusBadRequest},
		{"warn", "/owner-dashboard/cleaners/c1/warn", "left the kitchen dirty", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, tt.path, models.ModerationRequest{Reason: tt.reason})
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := doJSON(t, r, http.MethodGet, "/owner-dashboard/cleaners/c1/warnings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "left the kitchen dirty")
}

type noopRevoker struct{}

func (noopRevoker) RevokeAllSessions(context.Context, string) error { return nil }

func TestMessageHandlers(t *testing.T) {
	ctx := context.Background()
	repos := memrepo.New()
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "u1", Username: "jane", Type: models.UserTypeHomeowner}))
	require.NoError(t, repos.Users.Create(ctx, &models.User{ID: "o1", Username: "boss", Type: models.UserTypeOwner}))

	mh := NewMessageHandler(&messaging.DefaultMessagingService{
		ConversationRepo: repos.Conversations,
		MessageRepo:      repos.Messages,
		Users:            repos.Users,
		Appointments:     repos.Appointments,
		Notifier:         &notificationtest.Recorder{},
		Now:              fixedNow,
	})
	r := gin.New()
	g := r.Group("/messages", asUser("u1", models.UserTypeHomeowner))
	g.POST("/support", mh.SupportHandler)
	g.POST("/conversations/:id/messages", mh.SendMessageHandler)
	g.GET("/unread-count", mh.UnreadCountHandler)
	g.POST("/broadcast", mh.BroadcastHandler)

	w := doJSON(t, r, http.MethodPost, "/messages/support", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Conversation models.Conversation `json:"conversation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Conversation.ParticipantIDs, "o1")

	path := "/messages/conversations/" + resp.Conversation.ID + "/messages"
	w = doJSON(t, r, http.MethodPost, path, map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, path, map[string]string{"content": strings.Repeat("a", 2001)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, path, map[string]string{"content": "My sink is leaking"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/messages/unread-count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"unreadCount":0}`, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/messages/broadcast", models.BroadcastRequest{Audience: "all", Content: "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSettingsHandlers(t *testing.T) {
	repos := memrepo.New()
	area := NewServiceAreaHandler(&servicearea.DefaultServiceAreaService{
		Settings: repos.Settings, Homes: repos.Homes, Cache: utils.NewMemoryCache(),
	})
	ph := NewPerksHandler(&perks.DefaultPerksService{Settings: repos.Settings, Users: repos.Users})

	r := gin.New()
	g := r.Group("", asUser("o1", models.UserTypeOwner))
	g.POST("/service-areas/check", area.CheckHandler)
	g.PUT("/service-areas/config", area.UpdateConfigHandler)
	g.GET("/perks/config", ph.GetConfigHandler)
	g.PUT("/perks/config", ph.UpdateConfigHandler)

	t.Run("check passes while disabled", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/service-areas/check", models.Address{Address: "1 Main St", City: "Austin", State: "TX", Zipcode: "78701"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"eligible":true`)
	})

	t.Run("list mode restricts addresses", func(t *testing.T) {
		cfg := servicearea.DefaultConfig()
		cfg.Enabled = true
		cfg.Zipcodes = []string{"78701"}
		w := doJSON(t, r, http.MethodPut, "/service-areas/config", cfg)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = doJSON(t, r, http.MethodPost, "/service-areas/check", models.Address{Address: "9 Elm", City: "Dallas", State: "TX", Zipcode: "75201"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"eligible":false`)
	})

	t.Run("perks defaults and validation", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/perks/config", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Platinum")

		w = doJSON(t, r, http.MethodPut, "/perks/config", map[string]any{"tiers": []models.Tier{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
