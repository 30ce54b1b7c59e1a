package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"lens-agent/internal/application/port/output"
	"lens-agent/internal/usecase/chat"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

type Config struct {
	// ServiceName tags access log lines.
	ServiceName string
	// AccessLog enables per-request logging through httplog.
	AccessLog bool
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "lens-agent",
		AccessLog:   true,
	}
}

// NewRouter mounts the landing page, the static assets and the chat API.
func NewRouter(sessions *chat.Store, logger output.LoggerPort, cfg Config) (http.Handler, error) {
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}

	h := &Handler{
		sessions: sessions,
		logger:   logger,
		page:     page,
	}

	r := chi.NewRouter()
	if cfg.AccessLog {
		r.Use(httplog.RequestLogger(httplog.NewLogger(cfg.ServiceName, httplog.Options{
			JSON:    true,
			Concise: true,
		})))
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/", h.Page)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/", h.State)
		r.Post("/", h.Submit)
		r.Put("/input", h.SetInput)
		r.Get("/ws", h.Stream)
	})

	return r, nil
}
