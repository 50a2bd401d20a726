package httpserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	server "github.com/proSamik/airbnb-analytics/internal/adapters/http_server"
	"github.com/proSamik/airbnb-analytics/internal/app"
	"github.com/proSamik/airbnb-analytics/internal/domain"
	"github.com/proSamik/airbnb-analytics/internal/storage/jsonfile"
)

var today = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, rps int) *httptest.Server {
	t.Helper()
	store := jsonfile.NewStore(domain.Dataset{Rooms: map[string][]domain.BookingRecord{
		"M410": {
			{Date: "2024-01-15", IsBooked: true, Rate: 100},
			{Date: "2024-01-16", IsBooked: false, Rate: 150},
			{Date: "2024-02-01", IsBooked: true, Rate: 110},
		},
		"C221": {
			{Date: "2023-01-01", IsBooked: true, Rate: 90},
		},
	}})
	q := app.NewQueryService(store, nil, time.Minute, app.FixedClock(today))

	srv := server.New(rps)
	srv.MountHandlers(&server.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, hdr map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })
	return res
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, 0)
	res := get(t, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestListRooms_Sorted(t *testing.T) {
	ts := newTestServer(t, 0)
	res := get(t, ts.URL+"/v1/rooms", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Rooms []string `json:"rooms"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, []string{"C221", "M410"}, body.Rooms)
}

func TestAllRooms_JSONServerShape(t *testing.T) {
	ts := newTestServer(t, 0)
	res := get(t, ts.URL+"/rooms", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))

	var body map[string][]domain.BookingRecord
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Len(t, body, 2)
	assert.Len(t, body["M410"], 3)
}

func TestGetRoom(t *testing.T) {
	ts := newTestServer(t, 0)

	res := get(t, ts.URL+"/rooms/C221", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var recs []domain.BookingRecord
	require.NoError(t, json.NewDecoder(res.Body).Decode(&recs))
	assert.Equal(t, []domain.BookingRecord{{Date: "2023-01-01", IsBooked: true, Rate: 90}}, recs)

	res = get(t, ts.URL+"/rooms/Q000", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/problem+json", res.Header.Get("Content-Type"))
}

func TestGetAnalytics(t *testing.T) {
	ts := newTestServer(t, 0)
	res := get(t, ts.URL+"/v1/rooms/M410/analytics", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body domain.AnalyticsResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, domain.AnalyticsResponse{
		RoomID: "M410",
		MonthlyOccupancy: []domain.MonthlyOccupancy{
			{Month: "2024-01", OccupancyPercentage: 50},
			{Month: "2024-02", OccupancyPercentage: 100},
		},
		RateAnalytics: domain.RateAnalytics{AverageRate: 120, HighestRate: 150, LowestRate: 100},
	}, body)
}

func TestGetAnalytics_NotFound(t *testing.T) {
	ts := newTestServer(t, 0)

	// unknown room
	res := get(t, ts.URL+"/v1/rooms/Q000/analytics", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	// known room with nothing in the window
	res = get(t, ts.URL+"/v1/rooms/C221/analytics", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	var p struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	assert.Equal(t, "Not Found", p.Title)
	assert.Equal(t, http.StatusNotFound, p.Status)
}

func TestETag_NotModified(t *testing.T) {
	ts := newTestServer(t, 0)

	res := get(t, ts.URL+"/v1/rooms/M410/analytics", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	require.NotEmpty(t, etag)

	res = get(t, ts.URL+"/v1/rooms/M410/analytics", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, res.StatusCode)
	assert.Equal(t, etag, res.Header.Get("ETag"))

	res = get(t, ts.URL+"/v1/rooms/M410/analytics", map[string]string{"If-None-Match": `W/"stale"`})
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestRateLimit(t *testing.T) {
	ts := newTestServer(t, 1)

	first := get(t, ts.URL+"/v1/rooms", nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := get(t, ts.URL+"/v1/rooms", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.Equal(t, "1", second.Header.Get("Retry-After"))
}

func TestCORS_Preflight(t *testing.T) {
	ts := newTestServer(t, 0)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/rooms/M410/analytics", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = res.Body.Close() })

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Methods"), "GET")
	assert.Contains(t, res.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestCORS_SimpleGet(t *testing.T) {
	ts := newTestServer(t, 0)

	res := get(t, ts.URL+"/v1/rooms/M410/analytics", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))

	// errors carry the header too so the browser can read the problem body
	res = get(t, ts.URL+"/v1/rooms/Z999/analytics", map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}
