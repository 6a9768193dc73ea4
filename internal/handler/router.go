package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig holds the collaborators mounted next to the canvas API.
// Nil handlers are not mounted.
type RouterConfig struct {
	Events     http.Handler
	Metrics    http.Handler
	Static     http.FileSystem
	CORSOrigin string
	Logger     *slog.Logger
}

// NewRouter builds the complete HTTP handler for the server
func NewRouter(h *CanvasHandler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Get("/palette", h.GetPalette)
		r.Post("/sessions", h.OpenSession)

		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Use(h.SessionScope)

			r.Delete("/", h.CloseSession)
			r.Get("/state", h.GetState)

			r.Post("/nodes", h.CreateNode)
			r.Patch("/nodes/{id}", h.UpdateNode)
			r.Delete("/nodes/{id}", h.DeleteNode)

			r.Post("/connections", h.CreateConnection)
			r.Delete("/connections/{id}", h.DeleteConnection)

			r.Put("/viewport/zoom", h.SetZoom)
			r.Put("/viewport/pan", h.SetPan)
			r.Post("/viewport/zoom-in", h.ZoomIn)
			r.Post("/viewport/zoom-out", h.ZoomOut)
			r.Post("/viewport/reset", h.ResetView)

			r.Put("/selection", h.Select)
			r.Post("/drop", h.Drop)
			r.Post("/pointer/{kind}", h.Pointer)

			r.Get("/panel", h.GetPanel)
			r.Put("/panel", h.EditPanel)
			r.Delete("/panel", h.ClosePanel)
		})
	})

	if cfg.Events != nil {
		r.Method(http.MethodGet, "/events", cfg.Events)
	}
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}
	if cfg.Static != nil {
		r.Handle("/*", http.FileServer(cfg.Static))
	}

	return Chain(r,
		Recover(logger),
		middleware.RequestID,
		CORS(cfg.CORSOrigin),
		Logger(logger),
	)
}
