package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures NewRouter
type RouterOptions struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	// Empty allows any origin.
	CORSOrigins []string
}

// NewRouter mounts the map API and the SSE stream on a chi router
func NewRouter(h *MapHandler, events http.Handler, opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/events", events)

	r.Route("/api", func(r chi.Router) {
		r.Get("/map", h.GetMap)
		r.Get("/lines", h.ListLines)
		r.Get("/stations", h.ListStations)

		r.Post("/closures", h.CloseStation)
		r.Post("/replacements", h.CreateReplacement)
		r.Post("/alternatives", h.CreateAlternative)

		r.Get("/edits", h.ListEdits)
		r.Get("/alerts", h.GetAlerts)
		r.Get("/alerts.pb", h.GetAlertsProto)

		r.Post("/import/{format}", h.ImportMap)
		r.Get("/export/{format}", h.ExportMap)
	})

	return r
}
