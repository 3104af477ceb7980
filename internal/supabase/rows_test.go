package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/incident_reporter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIncidents_OrderedQuery(t *testing.T) {
	first, second := uuid.New(), uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, incidentsPath, r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "created_at.desc", r.URL.Query().Get("order"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[
			{"id":"`+first.String()+`","title":"Flood","severity":"high","status":"open","latitude":1.5,"longitude":2.5,"created_at":"2026-10-02T00:00:00.123456+00:00","updated_at":"2026-10-02T00:00:00+00:00"},
			{"id":"`+second.String()+`","title":"Fire","severity":"low","status":"closed","latitude":3,"longitude":4,"address":"Main st","created_at":"2026-10-01T00:00:00+00:00","updated_at":"2026-10-01T00:00:00+00:00"}
		]`)
	})

	incidents, err := client.ListIncidents(context.Background(), "user-token")
	require.NoError(t, err)
	require.Len(t, incidents, 2)
	assert.Equal(t, first, incidents[0].ID)
	assert.Equal(t, models.SeverityHigh, incidents[0].Severity)
	assert.Equal(t, "Main st", incidents[1].Address)
	assert.True(t, incidents[0].CreatedAt.After(incidents[1].CreatedAt))
}

func TestListIncidents_EmptyArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	incidents, err := client.ListIncidents(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, incidents)
	assert.Empty(t, incidents)
}

func TestInsertIncident_ReturnsRepresentation(t *testing.T) {
	id, userID := uuid.New(), uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "open", body["status"])
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "created_at")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode([]map[string]any{{
			"id": id.String(), "title": body["title"], "severity": body["severity"], "status": "open",
			"latitude": body["latitude"], "longitude": body["longitude"], "user_id": userID.String(),
			"created_at": "2026-10-16T09:00:00Z", "updated_at": "2026-10-16T09:00:00Z",
		}})
	})

	incident := &models.Incident{
		Title: "Pothole", Severity: models.SeverityMedium, Status: models.StatusOpen,
		Latitude: 48.85, Longitude: 2.35, UserID: userID,
	}
	require.NoError(t, client.InsertIncident(context.Background(), "user-token", incident))
	assert.Equal(t, id, incident.ID)
	assert.Equal(t, time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), incident.CreatedAt.UTC())
}

func TestInsertIncident_PostgrestError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"code":"42501","details":null,"hint":null,"message":"new row violates row-level security policy for table \"incidents\""}`)
	})

	err := client.InsertIncident(context.Background(), "user-token", &models.Incident{})
	var remote *models.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "42501", remote.Code)
	assert.Contains(t, remote.Message, "row-level security")
}

func TestUpdateAndDeleteIncident_FilterByID(t *testing.T) {
	id := uuid.New()
	var methods []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.Equal(t, "eq."+id.String(), r.URL.Query().Get("id"))
		if r.Method == http.MethodPatch {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "resolved", body["status"])
			assert.Contains(t, body, "updated_at")
			assert.NotContains(t, body, "title")
		}
		w.WriteHeader(http.StatusNoContent)
	})

	status := models.StatusResolved
	now := time.Now()
	require.NoError(t, client.UpdateIncident(context.Background(), "t", id, models.IncidentPatch{Status: &status, UpdatedAt: &now}))
	require.NoError(t, client.DeleteIncident(context.Background(), "t", id))
	assert.Equal(t, []string{http.MethodPatch, http.MethodDelete}, methods)
}
