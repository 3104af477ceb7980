package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNominatim(t *testing.T, handler http.HandlerFunc) *NominatimClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewNominatimClient(srv.URL, time.Second)
}

func TestReverseGeocode_Success(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "55.7539", r.URL.Query().Get("lat"))
		assert.Equal(t, "37.6208", r.URL.Query().Get("lon"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"place_id": 1, "display_name": "Red Square, Moscow, Russia"}`))
	})

	name, err := client.ReverseGeocode(context.Background(), 55.7539, 37.6208)

	require.NoError(t, err)
	assert.Equal(t, "Red Square, Moscow, Russia", name)
}

func TestReverseGeocode_NoAddress(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
	})

	name, err := client.ReverseGeocode(context.Background(), 0, -30)

	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestReverseGeocode_ServerError(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ReverseGeocode(context.Background(), 1, 1)
	assert.Error(t, err)
}

func TestReverseGeocode_JSONErrorStatusFallsBackToEmptyName(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "Parameter 'lat' out of range"}}`))
	})

	name, err := client.ReverseGeocode(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Empty(t, name)
}

func TestReverseGeocode_NonJSONErrorStatus(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`<html>Too Many Requests</html>`))
	})

	_, err := client.ReverseGeocode(context.Background(), 1, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestReverseGeocode_CanceledWhileWaitingForLimiter(t *testing.T) {
	client := newTestNominatim(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"display_name": "x"}`))
	})
	_, err := client.ReverseGeocode(context.Background(), 1, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = client.ReverseGeocode(ctx, 1, 1)
	assert.Error(t, err)
}
