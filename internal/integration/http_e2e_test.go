package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	server "github.com/proSamik/airbnb-analytics/internal/adapters/http_server"
	"github.com/proSamik/airbnb-analytics/internal/adapters/observability"
	redisad "github.com/proSamik/airbnb-analytics/internal/adapters/redis"
	"github.com/proSamik/airbnb-analytics/internal/app"
	"github.com/proSamik/airbnb-analytics/internal/domain"
	"github.com/proSamik/airbnb-analytics/internal/storage/jsonfile"
)

// ---------- helpers ----------
func getJSON(t *testing.T, url string, dst any) {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", url, res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(dst); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

// ---------- the test ----------

// Generates db.json the way cmd/roomgen does, then serves it the way cmd/api does.
func TestGenerateThenServe(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "db.json")

	// 1) generate
	gen := app.NewGenerationService(jsonfile.NewWriter(path), app.DefaultParams(), app.FixedClock(now), app.NewRand(2024))
	ids, err := gen.Run(ctx)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var report bytes.Buffer
	if err := app.WriteReport(&report, path, ids); err != nil {
		t.Fatalf("report: %v", err)
	}
	if lines := strings.Count(report.String(), "\n- "); lines != len(ids) {
		t.Fatalf("report lists %d ids, want %d", lines, len(ids))
	}

	// 2) serve with a redis cache
	store, err := jsonfile.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	mr := miniredis.RunT(t)
	cache := redisad.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })

	q := app.NewQueryService(store, cache, 5*time.Minute, app.FixedClock(now))
	srv := server.New(0)
	srv.Mount("/metrics", observability.MetricsHandler(observability.InitRegistry()))
	srv.MountHandlers(&server.Handlers{Q: q})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	// 3) the raw view matches what was written
	var rooms map[string][]domain.BookingRecord
	getJSON(t, ts.URL+"/rooms", &rooms)
	for _, id := range ids {
		recs, ok := rooms[id]
		if !ok {
			t.Fatalf("room %s missing from /rooms", id)
		}
		if len(recs) != 211 || recs[0].Date != "2024-01-01" || recs[210].Date != "2024-07-29" {
			t.Fatalf("room %s: %d records from %s to %s", id, len(recs), recs[0].Date, recs[len(recs)-1].Date)
		}
	}

	// 4) analytics are computed once, then served from redis
	id := ids[0]
	var first, second domain.AnalyticsResponse
	getJSON(t, fmt.Sprintf("%s/v1/rooms/%s/analytics", ts.URL, id), &first)
	if !mr.Exists(fmt.Sprintf("roomgen:analytics:%s:2024-01-01", id)) {
		t.Fatalf("expected analytics to be cached, keys: %v", mr.Keys())
	}
	getJSON(t, fmt.Sprintf("%s/v1/rooms/%s/analytics", ts.URL, id), &second)

	if first.RoomID != id || len(first.MonthlyOccupancy) != 6 {
		t.Fatalf("unexpected analytics: %+v", first)
	}
	if first.MonthlyOccupancy[0].Month != "2024-01" || first.MonthlyOccupancy[5].Month != "2024-06" {
		t.Fatalf("unexpected months: %+v", first.MonthlyOccupancy)
	}
	ra := first.RateAnalytics
	if ra.LowestRate < 64 || ra.HighestRate > 240 || ra.AverageRate < ra.LowestRate || ra.AverageRate > ra.HighestRate {
		t.Fatalf("rate analytics out of bounds: %+v", ra)
	}
	if fmt.Sprint(first) != fmt.Sprint(second) {
		t.Fatalf("cached analytics differ: %+v vs %+v", first, second)
	}

	// 5) metrics endpoint is mounted next to the API
	res, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("metrics status %d", res.StatusCode)
	}
}
