package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/evanmmo/vod-dashboard/config"
	"github.com/evanmmo/vod-dashboard/models"
	"github.com/evanmmo/vod-dashboard/testutil"
	"github.com/evanmmo/vod-dashboard/utils"
)

type testApp struct {
	router *gin.Engine
	db     *gorm.DB
	admin  string
	user   string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT(testutil.JWTSecret, time.Hour)

	cfg := &config.AppConfig{JWTTTL: time.Hour, LoginRatePerMin: 1000}
	config.App = cfg

	db := testutil.NewTestDB(t)
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin, true)
	user := testutil.CreateUser(t, db, "user@example.com", models.RoleUser, true)

	return &testApp{
		router: SetupRouter(gin.New(), db, cfg),
		db:     db,
		admin:  testutil.TokenFor(t, admin),
		user:   testutil.TokenFor(t, user),
	}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
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
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (a *testApp) createVOD(t *testing.T, date, description string, mp4s ...string) string {
	t.Helper()
	pieces := make([]gin.H, 0, len(mp4s))
	for _, u := range mp4s {
		pieces = append(pieces, gin.H{"mp4_url": u})
	}
	w := a.do(http.MethodPost, "/api/admin/vods", a.admin, gin.H{
		"stream_date": date,
		"description": description,
		"pieces":      pieces,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	vod := decode(t, w)["vod"].(map[string]any)
	return vod["id"].(string)
}

func TestDashboard_HiddenFromNonAdmins(t *testing.T) {
	app := setupApp(t)

	for name, token := range map[string]string{"anonymous": "", "user": app.user, "garbage": "x.y.z"} {
		w := app.do(http.MethodGet, "/dashboard", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, name)
	}

	w := app.do(http.MethodGet, "/dashboard", app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(0), body["total"])
	assert.Equal(t, []any{}, body["vods"])
	assert.Equal(t, float64(config.DescriptionPreviewLength), body["preview_length"])
}

func TestAdminAPI_ForbiddenForNonAdmins(t *testing.T) {
	app := setupApp(t)
	id := app.createVOD(t, "2023-01-01", "first", "https://cdn.example.com/1.mp4")

	for _, token := range []string{"", app.user} {
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/admin/vods", token, nil).Code)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/admin/vods/count", token, nil).Code)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/admin/vods/"+id, token, nil).Code)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodDelete, "/api/admin/vods/"+id, token, nil).Code)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodDelete, "/api/admin/vods/not-a-uuid", token, nil).Code)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/api/admin/vods/validate", token, gin.H{}).Code)
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/api/admin/vods", token, gin.H{
			"stream_date": "2023-01-02",
		}).Code)
		// ngày sai định dạng cũng không lộ lỗi validate cho người ngoài
		assert.Equal(t, http.StatusForbidden, app.do(http.MethodPost, "/api/admin/vods", token, gin.H{
			"stream_date": "nope",
		}).Code)
	}

	var count int64
	require.NoError(t, app.db.Model(&models.VOD{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateAndListVODs(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodPost, "/api/admin/vods", app.admin, gin.H{
		"stream_date": "2023-03-14",
		"description": "A sentence that is very long and goes on",
		"pieces": []gin.H{
			{"mp4_url": "https://cdn.example.com/a.mp4", "json_url": "https://cdn.example.com/a.json"},
			{"mp4_url": "https://cdn.example.com/b.mp4", "json_url": ""},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = app.do(http.MethodGet, "/api/admin/vods?page=0", app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["total_pages"])
	assert.Equal(t, float64(config.VODsPerPage), body["page_size"])

	data := body["data"].([]any)
	require.Len(t, data, 1)
	vod := data[0].(map[string]any)
	assert.Equal(t, "A sentence that is very long and goes on", vod["description"])
	assert.Equal(t, "A sentence that is very long and goes on", vod["description_preview"])

	pieces := vod["pieces"].([]any)
	require.Len(t, pieces, 2)
	first := pieces[0].(map[string]any)
	second := pieces[1].(map[string]any)
	assert.Equal(t, "https://cdn.example.com/a.mp4", first["mp4_url"])
	assert.Equal(t, "https://cdn.example.com/a.json", first["json_url"])
	assert.Equal(t, "https://cdn.example.com/b.mp4", second["mp4_url"])
	assert.Nil(t, second["json_url"])

	w = app.do(http.MethodGet, "/api/admin/vods/count", app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestListVODs_Pagination(t *testing.T) {
	app := setupApp(t)
	total := config.VODsPerPage + 3
	for i := 0; i < total; i++ {
		app.createVOD(t, fmt.Sprintf("2022-01-%02d", i+1), fmt.Sprintf("vod %d", i))
	}

	seen := map[string]bool{}
	for page := 0; page < 2; page++ {
		w := app.do(http.MethodGet, fmt.Sprintf("/api/admin/vods?page=%d", page), app.admin, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, float64(2), body["total_pages"])
		for _, raw := range body["data"].([]any) {
			id := raw.(map[string]any)["id"].(string)
			assert.False(t, seen[id], "duplicate %s", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, total)

	w := app.do(http.MethodGet, "/api/admin/vods?page=9", app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["data"])

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/api/admin/vods?page=-1", app.admin, nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/api/admin/vods?page=abc", app.admin, nil).Code)
}

func TestCreateVOD_ValidationErrors(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodPost, "/api/admin/vods", app.admin, gin.H{
		"description": "no date",
		"pieces":      []gin.H{{"mp4_url": ""}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode(t, w)["fields"].(map[string]any)
	assert.Equal(t, "You must specify a stream date", fields["stream_date"])
	assert.Equal(t, "You must specify an MP4 URL", fields["pieces.0.mp4_url"])

	w = app.do(http.MethodPost, "/api/admin/vods", app.admin, gin.H{"stream_date": "14/03/2023"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["fields"], "stream_date")

	var count int64
	require.NoError(t, app.db.Model(&models.VOD{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestValidateVOD(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodPost, "/api/admin/vods/validate", app.admin, gin.H{
		"stream_date": "2023-03-14",
		"pieces":      []gin.H{{"mp4_url": "https://cdn.example.com/a.mp4"}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["valid"])

	w = app.do(http.MethodPost, "/api/admin/vods/validate", app.admin, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["valid"])
	assert.Contains(t, body["fields"], "stream_date")
}

func TestDeleteVOD(t *testing.T) {
	app := setupApp(t)
	keep := app.createVOD(t, "2023-01-01", "keep", "https://cdn.example.com/k.mp4")
	gone := app.createVOD(t, "2023-01-02", "gone", "https://cdn.example.com/g.mp4")

	w := app.do(http.MethodDelete, "/api/admin/vods/"+gone, app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, gone, decode(t, w)["id"])

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/api/admin/vods/"+gone, app.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/api/admin/vods/"+uuid.NewString(), app.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/api/admin/vods/not-a-uuid", app.admin, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/api/admin/vods/"+gone, app.admin, nil).Code)

	w = app.do(http.MethodGet, "/api/admin/vods/"+keep, app.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "keep", decode(t, w)["description"])

	w = app.do(http.MethodGet, "/api/admin/vods/count", app.admin, nil)
	assert.Equal(t, float64(1), decode(t, w)["count"])
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ADMIN@example.com",
		"password": testutil.UserPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/dashboard", token, nil).Code)

	w = app.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decode(t, w)["user"].(map[string]any)["role"])

	require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/dashboard", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/auth/me", token, nil).Code)
}

func TestRegister_CreatesPlainUser(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "new@example.com",
		"password":  "secret123",
		"full_name": "New Person",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "user", decode(t, w)["user"].(map[string]any)["role"])

	w = app.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "new@example.com",
		"password":  "secret123",
		"full_name": "Again",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "new@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/dashboard", token, nil).Code)
}

func TestGoogleLogin_DisabledWithoutClientID(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodPost, "/api/auth/google", "", gin.H{"id_token": "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndPing(t *testing.T) {
	app := setupApp(t)

	w := app.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	w = app.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "vod_dashboard_http_requests_total")
}

func TestVODWebSocket_RequiresAdmin(t *testing.T) {
	app := setupApp(t)

	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/ws/vods", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/ws/vods?token="+app.user, "", nil).Code)
}
