// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the card
// service: the JSON API, the editor sessions and the embedded assets.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"idcards/internal/handlers"
	"idcards/internal/middleware"
	"idcards/web"
)

// New creates and returns the configured Chi router. exportLimiter guards
// the rasterizing endpoints and may be nil.
func New(cards *handlers.Cards, templates *handlers.Templates, association *handlers.Association, editor *handlers.EditorSessions, exportLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api", func(r chi.Router) {
		// Templates
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", templates.List)
			r.Post("/", templates.Save)
			r.Get("/{id}", templates.Get)
			r.Delete("/{id}", templates.Delete)
		})

		// Cards
		r.Route("/cards", func(r chi.Router) {
			r.Post("/resolve", cards.Resolve)
			r.Post("/view", cards.View)
			r.Post("/fields", cards.Fields)

			// Rasterizing is the expensive path.
			r.Group(func(r chi.Router) {
				if exportLimiter != nil {
					r.Use(exportLimiter.Middleware)
				}
				r.Post("/export", cards.Export)
				r.Post("/print", cards.Print)
			})
		})
		r.Get("/exports", cards.Exports)

		// Association
		r.Get("/roles", association.Roles)
		r.Post("/roles", association.AddRole)
		r.Get("/settings", association.Settings)
		r.Put("/settings", association.SaveSettings)

		// Template editor
		r.Route("/editor/sessions", func(r chi.Router) {
			r.Post("/", editor.Create)
			r.Route("/{sid}", func(r chi.Router) {
				r.Get("/", editor.Show)
				r.Delete("/", editor.Destroy)
				r.Post("/new", editor.New)
				r.Post("/load/{id}", editor.Load)
				r.Put("/name", editor.Rename)
				r.Post("/elements", editor.AddElement)
				r.Patch("/elements/{eid}", editor.UpdateElement)
				r.Delete("/elements/{eid}", editor.DeleteElement)
				r.Post("/select", editor.Select)
				r.Post("/drag/start", editor.DragStart)
				r.Post("/drag/move", editor.DragMove)
				r.Post("/drag/end", editor.DragEnd)
				r.Put("/canvas", editor.Canvas)
				r.Post("/background", editor.Background)
				r.Delete("/background", editor.ClearBackground)
				r.Post("/save", editor.Save)
				r.Get("/preview", editor.Preview)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
