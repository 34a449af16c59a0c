package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/geometry"
	"irrigation_controller/internal/service"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || w.Body.String() != `{"status":"ok"}` {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("irrigation_active_zones 5\n"))
	})

	w := httptest.NewRecorder()
	newTestRouter(&service.Service{}, WithMetrics(metrics)).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.String() != "irrigation_active_zones 5\n" {
		t.Fatalf("metrics = %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	newTestRouter(&service.Service{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("metrics without handler: expected 404, got %d", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: 0", controller.ErrInvalidZoneCount), http.StatusBadRequest},
		{controller.ErrInvalidRainReading, http.StatusBadRequest},
		{geometry.ErrInvalidRange, http.StatusBadRequest},
		{service.ErrInvalidTimeRange, http.StatusBadRequest},
		{fmt.Errorf("%w: 7", controller.ErrZoneNotFound), http.StatusNotFound},
		{geometry.ErrEmptyCollection, http.StatusConflict},
		{service.ErrUserExists, http.StatusConflict},
		{errors.New("sql: database is closed"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
