// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"idcards/internal/handlers"
	"idcards/internal/middleware"
)

// testRouter builds the router around handler groups without backing
// stores. Only routes that fail before touching a store can be called.
func testRouter(limiter *middleware.RateLimiter) chi.Router {
	return New(
		handlers.NewCards(nil, nil, nil, nil, nil, nil, nil, nil),
		handlers.NewTemplates(nil),
		handlers.NewAssociation(nil, nil, nil),
		handlers.NewEditorSessions(nil, nil, nil, nil),
		limiter,
	)
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestHealthThroughRouter(t *testing.T) {
	w := httptest.NewRecorder()
	testRouter(nil).ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestRoutesRegistered(t *testing.T) {
	want := []string{
		"GET /health",
		"GET /api/templates/",
		"POST /api/templates/",
		"GET /api/templates/{id}",
		"DELETE /api/templates/{id}",
		"POST /api/cards/resolve",
		"POST /api/cards/view",
		"POST /api/cards/fields",
		"POST /api/cards/export",
		"POST /api/cards/print",
		"GET /api/exports",
		"GET /api/roles",
		"POST /api/roles",
		"GET /api/settings",
		"PUT /api/settings",
		"POST /api/editor/sessions/",
		"GET /api/editor/sessions/{sid}/",
		"DELETE /api/editor/sessions/{sid}/",
		"POST /api/editor/sessions/{sid}/new",
		"POST /api/editor/sessions/{sid}/load/{id}",
		"PUT /api/editor/sessions/{sid}/name",
		"POST /api/editor/sessions/{sid}/elements",
		"PATCH /api/editor/sessions/{sid}/elements/{eid}",
		"DELETE /api/editor/sessions/{sid}/elements/{eid}",
		"POST /api/editor/sessions/{sid}/select",
		"POST /api/editor/sessions/{sid}/drag/start",
		"POST /api/editor/sessions/{sid}/drag/move",
		"POST /api/editor/sessions/{sid}/drag/end",
		"PUT /api/editor/sessions/{sid}/canvas",
		"POST /api/editor/sessions/{sid}/background",
		"DELETE /api/editor/sessions/{sid}/background",
		"POST /api/editor/sessions/{sid}/save",
		"GET /api/editor/sessions/{sid}/preview",
	}

	got := map[string]bool{}
	err := chi.Walk(testRouter(nil), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		got[method+" "+route] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	for _, route := range want {
		if !got[route] {
			t.Errorf("route %q not registered", route)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	r := testRouter(nil)
	for _, path := range []string{"/static/card.js", "/static/card.css"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("GET %s: status %d", path, w.Code)
		}
		if w.Body.Len() == 0 {
			t.Errorf("GET %s: empty body", path)
		}
	}

	// The viewer posts literal text edits by node id.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/static/card.js", nil))
	for _, want := range []string{"nodeId", "dataset.node"} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("card.js missing %q", want)
		}
	}
}

func TestExportRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	r := testRouter(limiter)

	send := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", path, strings.NewReader("not json"))
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	// Malformed bodies are rejected before any rendering.
	if code := send("/api/cards/export"); code != http.StatusBadRequest {
		t.Fatalf("first export: got %d, want 400", code)
	}
	if code := send("/api/cards/print"); code != http.StatusTooManyRequests {
		t.Errorf("second export: got %d, want 429", code)
	}
	// Resolving is not limited.
	if code := send("/api/cards/resolve"); code != http.StatusBadRequest {
		t.Errorf("resolve: got %d, want 400", code)
	}
}
