// Package web serves the local front door of the download service: the /api
// proxy the clients talk to, a read-only overview of the jobs and a health probe.
package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ytgrab-cli/ytgrab/api"
	"github.com/ytgrab-cli/ytgrab/config"
	"github.com/ytgrab-cli/ytgrab/jobs"
	"github.com/ytgrab-cli/ytgrab/log"
	"github.com/ytgrab-cli/ytgrab/network"
)

type App struct {
	router  *chi.Mux
	backend *url.URL
	proxy   *httputil.ReverseProxy
	client  jobs.Client
}

// NewApp builds the handler forwarding /api/* to backend with the prefix stripped.
func NewApp(backend string) (*App, error) {
	target, err := url.Parse(backend)
	if err != nil {
		return nil, fmt.Errorf("invalid backend %q: %w", backend, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid backend %q: scheme and host are required", backend)
	}

	app := &App{
		router:  chi.NewRouter(),
		backend: target,
		client:  api.New(backend, api.WithPrefix(""), api.WithTimeout(config.Timeout())),
	}

	app.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
			if r.Out.URL.Path == "" {
				r.Out.URL.Path = "/"
			}
		},
		Transport:    network.Client.Transport,
		ErrorHandler: app.proxyError,
	}

	app.registerRoutes()
	return app, nil
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) registerRoutes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.RealIP)
	a.router.Use(a.logRequests)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/", a.index)
	a.router.Get("/healthz", a.health)

	proxy := http.StripPrefix("/api", a.proxy)
	a.router.Handle("/api", proxy)
	a.router.Handle("/api/*", proxy)
}

func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.With(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("request")
	})
}

func (a *App) proxyError(w http.ResponseWriter, r *http.Request, err error) {
	log.Warnf("proxy %s %s: %s", r.Method, r.URL.Path, err)
	http.Error(w, "backend unavailable", http.StatusBadGateway)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	a.respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"backend":   a.backend.String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	tab := jobs.TabAll
	switch strings.ToLower(r.URL.Query().Get("tab")) {
	case "completed":
		tab = jobs.TabCompleted
	case "scheduled":
		tab = jobs.TabScheduled
	}

	board := jobs.NewBoard(a.client)
	if err := board.Refresh(r.Context()); err != nil {
		log.Warnf("overview: %s", err)
		w.WriteHeader(http.StatusBadGateway)
		a.render(w, r, overviewPage(tab, nil, board.Message, time.Now()))
		return
	}

	a.render(w, r, overviewPage(tab, board.View(tab), "", time.Now()))
}

func (a *App) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		log.Errorf("render page: %s", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

func (a *App) respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("encode json: %s", err)
	}
}
