package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/config"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/shenikar/incident_reporter/internal/service"
	"github.com/shenikar/incident_reporter/internal/service/mocks"
	"github.com/shenikar/incident_reporter/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerMocks struct {
	auth     *mocks.MockAuthProvider
	sessions *mocks.MockSessionStore
	repo     *mocks.MockIncidentRepository
	geocoder *mocks.MockGeocoder
}

// newTestHandler создает Handler поверх настоящего реестра рабочих сессий с моками хранилищ
func newTestHandler(t *testing.T) (*Handler, handlerMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := handlerMocks{
		auth:     mocks.NewMockAuthProvider(ctrl),
		sessions: mocks.NewMockSessionStore(ctrl),
		repo:     mocks.NewMockIncidentRepository(ctrl),
		geocoder: mocks.NewMockGeocoder(ctrl),
	}
	// сохраненных сессий нет, запись в хранилище сессий не проверяем
	m.sessions.EXPECT().Load(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	m.sessions.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.sessions.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	log := logger.Discard()
	registry := service.NewRegistry(m.auth, m.sessions, m.repo, m.geocoder, nil, log, service.IncidentStoreOptions{GeocodeFailureBlocks: true})
	cfg := &config.Config{SessionTTL: time.Hour}

	handler := NewHandler(registry, log, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return handler, m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	payload, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(payload)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatalf("response has no %s cookie", SessionCookie)
	return nil
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// loginAs выполняет вход; после входа хранилище загружает rows
func loginAs(t *testing.T, m handlerMocks, router *gin.Engine, userID uuid.UUID, rows ...models.Incident) *http.Cookie {
	session := &models.AuthSession{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         &models.AuthUser{ID: userID, Email: "jane@example.com"},
	}
	listed := make([]*models.Incident, len(rows))
	for i := range rows {
		listed[i] = &rows[i]
	}

	m.auth.EXPECT().SignInWithPassword(gomock.Any(), "jane@example.com", "secret").Return(session, nil).Times(1)
	m.repo.EXPECT().List(gomock.Any(), "access-token").Return(listed, nil).Times(1)

	w := makeRequest(router, http.MethodPost, "/api/v1/auth/login", jsonBody(t, LoginRequest{Email: "jane@example.com", Password: "secret"}))
	require.Equal(t, http.StatusOK, w.Code)
	return sessionCookie(t, w)
}

func testIncident(severity models.Severity, status models.Status) models.Incident {
	return models.Incident{
		ID:          uuid.New(),
		Title:       "Incident " + string(severity),
		Description: "Description",
		Severity:    severity,
		Status:      status,
		Latitude:    55.75,
		Longitude:   37.61,
		Address:     "Moscow",
		UserID:      uuid.New(),
		CreatedAt:   time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestGetMeta(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/meta", nil)

	require.Equal(t, http.StatusOK, w.Code)
	meta := decode[MetaResponse](t, w)
	require.Len(t, meta.Severities, 4)
	assert.Equal(t, OptionResponse{Value: "critical", Label: "Critical", Color: "#EF4444"}, meta.Severities[3])
	require.Len(t, meta.Statuses, 4)
	assert.Equal(t, "In Progress", meta.Statuses[1].Label)
}

func TestMe_Anonymous(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/auth/me", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"identity":null}`, w.Body.String())
	cookie := sessionCookie(t, w)
	_, err := uuid.Parse(cookie.Value)
	assert.NoError(t, err)
	assert.True(t, cookie.HttpOnly)
}

func TestMe_MalformedCookieIsReplaced(t *testing.T) {
	_, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/auth/me", nil, &http.Cookie{Name: SessionCookie, Value: "../etc"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "../etc", sessionCookie(t, w).Value)
}

func TestLogin_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	userID := uuid.New()

	cookie := loginAs(t, m, router, userID)
	w := makeRequest(router, http.MethodGet, "/api/v1/auth/me", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	me := decode[MeResponse](t, w)
	require.NotNil(t, me.Identity)
	assert.Equal(t, userID, me.Identity.ID)
	assert.Equal(t, "jane", me.Identity.Username)
	assert.True(t, me.Identity.IsAuthenticated)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.auth.EXPECT().SignInWithPassword(gomock.Any(), "jane@example.com", "wrong").
		Return(nil, &models.RemoteError{Status: 400, Message: "Invalid login credentials"}).
		Times(1)

	w := makeRequest(router, http.MethodPost, "/api/v1/auth/login", jsonBody(t, LoginRequest{Email: "jane@example.com", Password: "wrong"}))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid login credentials"}`, w.Body.String())

	me := makeRequest(router, http.MethodGet, "/api/v1/auth/me", nil, sessionCookie(t, w))
	assert.JSONEq(t, `{"identity":null}`, me.Body.String())
}

func TestLogin_ValidationError(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.auth.EXPECT().SignInWithPassword(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, http.MethodPost, "/api/v1/auth/login", jsonBody(t, LoginRequest{Email: "not-an-email", Password: "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = makeRequest(router, http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{invalid json"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignup_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	session := &models.AuthSession{
		AccessToken: "access-token",
		User:        &models.AuthUser{ID: uuid.New(), Email: "new@example.com"},
	}

	m.auth.EXPECT().SignUp(gomock.Any(), "new@example.com", "secret1").Return(session, nil).Times(1)
	m.repo.EXPECT().List(gomock.Any(), "access-token").Return([]*models.Incident{}, nil).Times(1)

	w := makeRequest(router, http.MethodPost, "/api/v1/auth/signup",
		jsonBody(t, SignupRequest{Email: "new@example.com", Password: "secret1", Username: "Reporter"}))
	require.Equal(t, http.StatusOK, w.Code)

	me := decode[MeResponse](t, makeRequest(router, http.MethodGet, "/api/v1/auth/me", nil, sessionCookie(t, w)))
	require.NotNil(t, me.Identity)
	assert.Equal(t, "Reporter", me.Identity.Username)
}

func TestSignup_Rejected(t *testing.T) {
	_, m, router := newTestHandler(t)

	m.auth.EXPECT().SignUp(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, &models.RemoteError{Status: 422, Message: "User already registered"}).
		Times(1)

	w := makeRequest(router, http.MethodPost, "/api/v1/auth/signup",
		jsonBody(t, SignupRequest{Email: "jane@example.com", Password: "secret1", Username: "jane"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"User already registered"}`, w.Body.String())
}

func TestIncidents_RequireIdentity(t *testing.T) {
	_, _, router := newTestHandler(t)

	for _, path := range []string{"/api/v1/incidents", "/api/v1/dashboard/summary", "/api/v1/map/markers"} {
		w := makeRequest(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.JSONEq(t, `{"success":false,"error":"User not authenticated"}`, w.Body.String())
	}
}

func TestListIncidents_Filter(t *testing.T) {
	_, m, router := newTestHandler(t)
	low := testIncident(models.SeverityLow, models.StatusOpen)
	critical := testIncident(models.SeverityCritical, models.StatusOpen)
	cookie := loginAs(t, m, router, uuid.New(), low, critical)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?severity=critical&status=all", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[ListIncidentsResponse](t, w)
	require.Len(t, resp.Incidents, 1)
	assert.Equal(t, critical.ID, resp.Incidents[0].ID)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "critical", resp.Severity)
	assert.Equal(t, "all", resp.Status)

	w = makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie)
	resp = decode[ListIncidentsResponse](t, w)
	require.Len(t, resp.Incidents, 2)
	assert.Equal(t, low.ID, resp.Incidents[0].ID)
}

func TestListIncidents_InvalidFilter(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New())

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?severity=urgent", nil, cookie)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	userID := uuid.New()
	existing := testIncident(models.SeverityLow, models.StatusResolved)
	cookie := loginAs(t, m, router, userID, existing)
	createdID := uuid.New()

	m.geocoder.EXPECT().ReverseGeocode(gomock.Any(), 55.75, 37.61).Return("Red Square, Moscow", nil).Times(1)
	m.repo.EXPECT().
		Create(gomock.Any(), "access-token", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, incident *models.Incident) error {
			assert.Equal(t, userID, incident.UserID)
			incident.ID = createdID
			return nil
		}).
		Times(1)

	reqBody := CreateIncidentRequest{
		Title:       "Pothole",
		Description: "Deep pothole",
		Severity:    "high",
		Location:    &LocationRequest{Lat: 55.75, Lng: 37.61},
	}
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), cookie)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	list := decode[ListIncidentsResponse](t, makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie))
	require.Len(t, list.Incidents, 2)
	assert.Equal(t, createdID, list.Incidents[0].ID)
	assert.Equal(t, "open", list.Incidents[0].Status)
	assert.Equal(t, "Red Square, Moscow", list.Incidents[0].Address)
}

func TestCreateIncident_ValidationError(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New())

	m.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	reqBody := CreateIncidentRequest{
		Title:       "Pothole",
		Description: "Deep pothole",
		Severity:    "urgent",
		Location:    &LocationRequest{Lat: 120, Lng: 37.61},
	}
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), cookie)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_LocationRequired(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New())

	m.geocoder.EXPECT().ReverseGeocode(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	tests := []struct {
		name string
		body string
	}{
		{"missing location", `{"title":"t","description":"d","severity":"low"}`},
		{"null location", `{"title":"t","description":"d","severity":"low","location":null}`},
		{"zero coordinate", `{"title":"t","description":"d","severity":"low","location":{"lat":0,"lng":0}}`},
		{"zero longitude", `{"title":"t","description":"d","severity":"low","location":{"lat":20,"lng":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewBufferString(tt.body), cookie)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}

	list := decode[ListIncidentsResponse](t, makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie))
	assert.Empty(t, list.Incidents)
}

func TestCreateIncident_GeocodeFailure(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New())

	m.geocoder.EXPECT().ReverseGeocode(gomock.Any(), gomock.Any(), gomock.Any()).Return("", io.ErrUnexpectedEOF).Times(1)

	reqBody := CreateIncidentRequest{
		Title:       "Pothole",
		Description: "Deep pothole",
		Severity:    "low",
		Location:    &LocationRequest{Lat: 20, Lng: 10},
	}
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", jsonBody(t, reqBody), cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Error reporting incident. Please try again."}`, w.Body.String())
}

func TestUpdateIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	target := testIncident(models.SeverityMedium, models.StatusOpen)
	cookie := loginAs(t, m, router, uuid.New(), target)

	m.repo.EXPECT().
		Update(gomock.Any(), "access-token", target.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ uuid.UUID, patch models.IncidentPatch) error {
			require.NotNil(t, patch.Status)
			assert.Equal(t, models.StatusResolved, *patch.Status)
			assert.NotNil(t, patch.UpdatedAt)
			return nil
		}).
		Times(1)

	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+target.ID.String(),
		bytes.NewBufferString(`{"status":"resolved"}`), cookie)

	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListIncidentsResponse](t, makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie))
	require.Len(t, list.Incidents, 1)
	assert.Equal(t, "resolved", list.Incidents[0].Status)
	assert.Equal(t, target.Title, list.Incidents[0].Title)
}

func TestUpdateIncident_BadRequests(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New())

	m.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/invalid-uuid", bytes.NewBufferString(`{"status":"resolved"}`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+uuid.NewString(), bytes.NewBufferString(`{}`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"no fields to update"}`, w.Body.String())

	w = makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+uuid.NewString(), bytes.NewBufferString(`{"status":"archived"}`), cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteIncident_Success(t *testing.T) {
	_, m, router := newTestHandler(t)
	target := testIncident(models.SeverityHigh, models.StatusOpen)
	cookie := loginAs(t, m, router, uuid.New(), target)

	m.repo.EXPECT().Delete(gomock.Any(), "access-token", target.ID).Return(nil).Times(1)

	w := makeRequest(router, http.MethodDelete, "/api/v1/incidents/"+target.ID.String(), nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	list := decode[ListIncidentsResponse](t, makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie))
	assert.Empty(t, list.Incidents)
}

func TestDeleteIncident_Rejected(t *testing.T) {
	_, m, router := newTestHandler(t)
	target := testIncident(models.SeverityHigh, models.StatusOpen)
	cookie := loginAs(t, m, router, uuid.New(), target)

	m.repo.EXPECT().Delete(gomock.Any(), "access-token", target.ID).
		Return(&models.RemoteError{Status: 403, Message: "permission denied for table incidents"}).
		Times(1)

	w := makeRequest(router, http.MethodDelete, "/api/v1/incidents/"+target.ID.String(), nil, cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"permission denied for table incidents"}`, w.Body.String())
}

func TestRefreshIncidents(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New())
	row := testIncident(models.SeverityLow, models.StatusOpen)

	m.repo.EXPECT().List(gomock.Any(), "access-token").Return([]*models.Incident{&row}, nil).Times(1)
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/refresh", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	m.repo.EXPECT().List(gomock.Any(), "access-token").Return(nil, io.ErrUnexpectedEOF).Times(1)
	w = makeRequest(router, http.MethodPost, "/api/v1/incidents/refresh", nil, cookie)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	list := decode[ListIncidentsResponse](t, makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie))
	assert.Empty(t, list.Incidents)
}

func TestGetSummary(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New(),
		testIncident(models.SeverityHigh, models.StatusOpen),
		testIncident(models.SeverityHigh, models.StatusResolved),
		testIncident(models.SeverityLow, models.StatusOpen),
	)

	w := makeRequest(router, http.MethodGet, "/api/v1/dashboard/summary", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[SummaryResponse](t, w)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, map[string]int{"low": 1, "medium": 0, "high": 2, "critical": 0}, summary.BySeverity)
	assert.Equal(t, map[string]int{"open": 2, "in_progress": 0, "resolved": 1, "closed": 0}, summary.ByStatus)
}

func TestGetMarkers(t *testing.T) {
	_, m, router := newTestHandler(t)
	placed := testIncident(models.SeverityCritical, models.StatusOpen)
	unplaced := testIncident(models.SeverityLow, models.StatusOpen)
	unplaced.Latitude = 0
	cookie := loginAs(t, m, router, uuid.New(), placed, unplaced)

	w := makeRequest(router, http.MethodGet, "/api/v1/map/markers", nil, cookie)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[MarkersResponse](t, w)
	require.Len(t, resp.Markers, 1)
	assert.Equal(t, placed.ID, resp.Markers[0].Incident.ID)
	assert.Equal(t, "#EF4444", resp.Markers[0].Color)
	assert.Equal(t, PointResponse{Lat: 20, Lng: 0}, resp.DefaultCenter)
	require.NotNil(t, resp.Bounds)
	assert.Equal(t, PointResponse{Lat: 55.75, Lng: 37.61}, resp.Bounds.SouthWest)
}

func TestLogout_ClearsIdentity(t *testing.T) {
	_, m, router := newTestHandler(t)
	cookie := loginAs(t, m, router, uuid.New(), testIncident(models.SeverityLow, models.StatusOpen))

	m.auth.EXPECT().SignOut(gomock.Any(), "access-token").Return(nil).Times(1)

	w := makeRequest(router, http.MethodPost, "/api/v1/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = makeRequest(router, http.MethodGet, "/api/v1/incidents", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
