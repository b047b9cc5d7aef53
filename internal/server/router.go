package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/muurk/gymlog/internal/logging"
	"github.com/muurk/gymlog/internal/store"
	"github.com/muurk/gymlog/internal/urls"
)

// NewRouter builds the HTTP handler for repo. Mutations are published on hub.
func NewRouter(repo store.Repository, hub *Hub, basePath string) http.Handler {
	basePath = urls.NormalizeBasePath(basePath)
	a := &api{repo: repo, hub: hub, basePath: basePath}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(accessLog)
	r.Use(chimw.Recoverer)

	r.Get(urls.HealthRoute, a.health)

	mount := func(r chi.Router) {
		r.Route(urls.RecordsRoute, func(r chi.Router) {
			r.Get("/", a.listAll)
			r.Post("/", a.create)
			r.Get("/page", a.page)
			r.Get("/search", a.search)
			r.Handle("/events", hub)

			r.Get("/{id}", a.get)
			r.Put("/{id}", a.update)
			r.Patch("/{id}", a.patch)
			r.Delete("/{id}", a.remove)
		})
	}
	if basePath == "" {
		mount(r)
	} else {
		r.Route(basePath, mount)
	}

	return r
}

// accessLog writes one line per request through the zap logger
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			status := ww.Status()
			if status == 0 {
				// Hijacked (websocket) or nothing written
				status = http.StatusOK
			}
			logging.LogHTTPRequest(r.RemoteAddr, r.Method, r.URL.RequestURI(), status, ww.BytesWritten(), time.Since(start))
		}()
		next.ServeHTTP(ww, r)
	})
}
