package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHealthCheck(t *testing.T) {
	srv := New(Config{Port: 0})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := New(Config{Port: 0, AllowAll: true})

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestDefaultRequestTimeout(t *testing.T) {
	srv := New(Config{})
	if got := srv.cfg.RequestTimeout; got != 60*time.Second {
		t.Errorf("expected 60s default timeout, got %s", got)
	}
}

func TestTimeoutSkipsUpgrades(t *testing.T) {
	srv := New(Config{RequestTimeout: time.Minute})

	var hadDeadline, upgradeHadDeadline bool
	srv.Router().Get("/deadline", func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		if r.Header.Get("Upgrade") != "" {
			upgradeHadDeadline = ok
		} else {
			hadDeadline = ok
		}
	})

	req := httptest.NewRequest("GET", "/deadline", nil)
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("GET", "/deadline", nil)
	req.Header.Set("Upgrade", "websocket")
	srv.Router().ServeHTTP(httptest.NewRecorder(), req)

	if !hadDeadline {
		t.Error("expected a deadline on plain requests")
	}
	if upgradeHadDeadline {
		t.Error("expected no deadline on websocket upgrades")
	}
}

func TestConfiguredRequestTimeout(t *testing.T) {
	srv := New(Config{RequestTimeout: 5 * time.Second})

	var remaining time.Duration
	srv.Router().Get("/deadline", func(w http.ResponseWriter, r *http.Request) {
		if d, ok := r.Context().Deadline(); ok {
			remaining = time.Until(d)
		}
	})
	srv.Router().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/deadline", nil))

	if remaining <= 0 || remaining > 5*time.Second {
		t.Errorf("remaining = %s, want within 5s", remaining)
	}
}
