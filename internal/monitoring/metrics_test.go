package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposition(t *testing.T) {
	m := NewMetrics()
	m.RecordDispatch("toggle_wifi")
	m.RecordSettingsOp("volume")
	m.RecordHTTPRequest("GET", "/state", "200", 2*time.Millisecond)
	m.Tick(3, 2)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, metric := range []string{
		"blued_hotkey_dispatches_total",
		"blued_settings_operations_total",
		"blued_http_requests_total",
		"blued_apps_tracked",
		"blued_windows_tracked",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("missing %s in exposition", metric)
		}
	}
}

func TestIsolatedRegistries(t *testing.T) {
	// Each Metrics owns its registry, so two instances never collide.
	a := NewMetrics()
	b := NewMetrics()
	a.HotkeyDispatches.WithLabelValues("volume_up").Inc()
	b.HotkeyDispatches.WithLabelValues("volume_up").Inc()
}
