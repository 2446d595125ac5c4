// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Stores are in-memory fakes or the local JSON store; Valkey is miniredis.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"idcards/internal/cache"
	"idcards/internal/export"
	"idcards/internal/imaging"
	"idcards/internal/models"
	"idcards/internal/render"
	"idcards/internal/session"
	"idcards/internal/store"
)

// fakeSettings is an in-memory SettingsStore.
type fakeSettings struct {
	mu  sync.Mutex
	st  *models.Settings
	err error
}

func (f *fakeSettings) Get(context.Context) (*models.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.st == nil {
		return nil, nil
	}
	cp := *f.st
	return &cp, nil
}

func (f *fakeSettings) Save(_ context.Context, s *models.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	cp := *s
	f.st = &cp
	return nil
}

// fakeRoles is an in-memory RoleStore.
type fakeRoles struct {
	mu    sync.Mutex
	roles []string
}

func (f *fakeRoles) List(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.roles...), nil
}

func (f *fakeRoles) Add(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.roles {
		if r == name {
			return false, nil
		}
	}
	f.roles = append(f.roles, name)
	return true, nil
}

// fakeExportLog records entries in memory.
type fakeExportLog struct {
	mu      sync.Mutex
	entries []store.ExportLogEntry
}

func (f *fakeExportLog) Log(_ context.Context, e store.ExportLogEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = int64(len(f.entries) + 1)
	e.ExportedAt = time.Now()
	f.entries = append(f.entries, e)
}

func (f *fakeExportLog) Recent(_ context.Context, limit int) ([]store.ExportLogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []store.ExportLogEntry{}
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.entries[i])
	}
	return out, nil
}

func (f *fakeExportLog) all() []store.ExportLogEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.ExportLogEntry{}, f.entries...)
}

// fakeArchiver keeps archived objects by key.
type fakeArchiver struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (f *fakeArchiver) Archive(_ context.Context, key, _ string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return "https://archive.test/" + key, nil
}

func (f *fakeArchiver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// errStore fails every call, standing in for an unreachable database.
type errStore struct{}

var errDown = errors.New("connection refused")

func (errStore) List(context.Context) ([]string, error)       { return nil, errDown }
func (errStore) Add(context.Context, string) (bool, error)     { return false, errDown }
func (errStore) Get(context.Context) (*models.Settings, error) { return nil, errDown }
func (errStore) Save(context.Context, *models.Settings) error  { return errDown }

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Redis     *miniredis.Miniredis
	Valkey    *redis.Client
	Renderer  *render.Renderer
	Sessions  *session.Store
	Templates *store.LocalLayoutStore
	Settings  *fakeSettings
	Roles     *fakeRoles
	ExportLog *fakeExportLog
	Archiver  *fakeArchiver
	CardCache *cache.CardCache
	Pipeline  *export.Pipeline

	Cards       *Cards
	TemplatesH  *Templates
	Association *Association
	Editor      *EditorSessions
	Router      http.Handler
}

// newTestEnv creates a complete test environment with all handler
// dependencies and a router wired like the production one.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	vk := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { vk.Close() })

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	templates, err := store.NewLocalLayoutStore(filepath.Join(t.TempDir(), "templates.json"))
	if err != nil {
		t.Fatalf("NewLocalLayoutStore: %v", err)
	}

	env := &testEnv{
		Redis:     mr,
		Valkey:    vk,
		Renderer:  renderer,
		Sessions:  session.NewStore(vk, false),
		Templates: templates,
		Settings:  &fakeSettings{},
		Roles:     &fakeRoles{roles: []string{"Morador", "Presidente"}},
		ExportLog: &fakeExportLog{},
		Archiver:  &fakeArchiver{},
		CardCache: cache.NewCardCache(vk, time.Minute),
		Pipeline:  export.New(imaging.NewLoader(time.Second), 1),
	}
	env.Cards = NewCards(renderer, templates, env.Settings, env.Roles, env.Pipeline,
		env.CardCache, env.Archiver, env.ExportLog)
	env.TemplatesH = NewTemplates(templates)
	env.Association = NewAssociation(env.Settings, env.Roles, env.CardCache)
	env.Editor = NewEditorSessions(renderer, env.Sessions, templates, env.Settings)
	env.Router = env.routes()
	return env
}

// routes mounts the handlers on the same paths as the production router.
func (env *testEnv) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", env.TemplatesH.List)
		r.Post("/templates", env.TemplatesH.Save)
		r.Get("/templates/{id}", env.TemplatesH.Get)
		r.Delete("/templates/{id}", env.TemplatesH.Delete)

		r.Post("/cards/resolve", env.Cards.Resolve)
		r.Post("/cards/view", env.Cards.View)
		r.Post("/cards/fields", env.Cards.Fields)
		r.Post("/cards/export", env.Cards.Export)
		r.Post("/cards/print", env.Cards.Print)
		r.Get("/exports", env.Cards.Exports)

		r.Get("/roles", env.Association.Roles)
		r.Post("/roles", env.Association.AddRole)
		r.Get("/settings", env.Association.Settings)
		r.Put("/settings", env.Association.SaveSettings)

		r.Post("/editor/sessions", env.Editor.Create)
		r.Route("/editor/sessions/{sid}", func(r chi.Router) {
			r.Get("/", env.Editor.Show)
			r.Delete("/", env.Editor.Destroy)
			r.Post("/new", env.Editor.New)
			r.Post("/load/{id}", env.Editor.Load)
			r.Put("/name", env.Editor.Rename)
			r.Post("/elements", env.Editor.AddElement)
			r.Patch("/elements/{eid}", env.Editor.UpdateElement)
			r.Delete("/elements/{eid}", env.Editor.DeleteElement)
			r.Post("/select", env.Editor.Select)
			r.Post("/drag/start", env.Editor.DragStart)
			r.Post("/drag/move", env.Editor.DragMove)
			r.Post("/drag/end", env.Editor.DragEnd)
			r.Put("/canvas", env.Editor.Canvas)
			r.Post("/background", env.Editor.Background)
			r.Delete("/background", env.Editor.ClearBackground)
			r.Post("/save", env.Editor.Save)
			r.Get("/preview", env.Editor.Preview)
		})
	})
	return r
}

// do sends a request through the test router. body is JSON-encoded unless
// it is nil.
func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// doRaw sends a request with a raw body and content type.
func (env *testEnv) doRaw(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

// errorBody returns the "error" member of a JSON error response.
func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["error"]
}

// testLayout returns a valid custom template.
func testLayout(name string) *models.Layout {
	l := models.NewLayout(time.Now())
	l.Name = name
	l.Elements = append(l.Elements,
		models.Element{ID: "title", Type: models.ElementText, Label: "Título", Content: "CARTEIRINHA",
			X: 10, Y: 10, Width: 200, Height: 20, FontSize: 12, Color: "#000000", ZIndex: 1},
		models.Element{ID: "name", Type: models.ElementField, Field: models.FieldName, Label: "NAME",
			X: 10, Y: 40, Width: 200, Height: 20, FontSize: 10, Color: "#000000", ZIndex: 2},
	)
	return l
}
