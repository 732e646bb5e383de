package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/events", 200, time.Millisecond)
	m.LikeChanged(1, nil)
	m.ListingServed("store")
	m.StoreProbed(true, 3, time.Now())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 from nil metrics handler, got %d", rec.Code)
	}
}

func TestCounters(t *testing.T) {
	m := New()

	m.LikeChanged(1, nil)
	m.LikeChanged(1, nil)
	m.LikeChanged(-1, errors.New("boom"))
	m.ListingServed("empty")
	m.StoreProbed(true, 7, time.Unix(1700000000, 0))

	if got := testutil.ToFloat64(m.likeChanges.WithLabelValues("like", "ok")); got != 2 {
		t.Errorf("expected 2 likes, got %v", got)
	}
	if got := testutil.ToFloat64(m.likeChanges.WithLabelValues("unlike", "error")); got != 1 {
		t.Errorf("expected 1 failed unlike, got %v", got)
	}
	if got := testutil.ToFloat64(m.listings.WithLabelValues("empty")); got != 1 {
		t.Errorf("expected 1 empty listing, got %v", got)
	}
	if got := testutil.ToFloat64(m.stored); got != 7 {
		t.Errorf("expected stored gauge 7, got %v", got)
	}

	m.StoreProbed(false, 0, time.Now())
	if got := testutil.ToFloat64(m.storeUp); got != 0 {
		t.Errorf("expected store_up 0 after failed probe, got %v", got)
	}
	if got := testutil.ToFloat64(m.stored); got != 7 {
		t.Errorf("failed probe should keep last count, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/events", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `events_api_requests_total{method="GET",route="/events",status="200"} 1`) {
		t.Errorf("request counter missing from exposition:\n%s", rec.Body.String())
	}
}
