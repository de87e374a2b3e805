// Package web implements the dashboard web server for kingcrab application
package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/kingcrab/app/stats"
	"github.com/umputun/kingcrab/app/store"
)

//go:generate moq -out mocks/postings.go -pkg mocks -skip-ensure -fmt goimports . Postings

//go:embed templates/*.html templates/partials/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server represents the web server
type Server struct {
	postings       Postings
	templates      map[string]*template.Template
	statsOpts      stats.Options
	baseURL        string // base URL path for reverse proxy (e.g., /jobs), empty for root
	version        string
	backendInfo    string                      // backend description for the sidebar
	passwordHash   string                      // bcrypt hash for auth, empty to disable
	csrfProtection *http.CrossOriginProtection // csrf protection for POST endpoints
}

// Postings defines the data access the dashboard needs, implemented by store.Store
type Postings interface {
	List(ctx context.Context) ([]store.Posting, error)
	Search(ctx context.Context, query string) ([]store.Posting, error)
}

// Config holds server configuration
type Config struct {
	Postings     Postings
	Stats        stats.Options
	BaseURL      string // base URL path for reverse proxy, empty for root
	Version      string
	BackendInfo  string // shown in the sidebar, i.e. "local: data/trabajos.db"
	PasswordHash string // bcrypt hash for auth (empty to disable)
}

// TemplateData holds data for templates
type TemplateData struct {
	BaseURL     string
	Version     string
	BackendInfo string
	AuthEnabled bool
	CurrentYear int
	Query       string          // search query, trimmed
	Summary     stats.Summary   // statistics over all postings
	Bars        []barItem       // top words chart
	Line        lineChart       // postings per date chart
	Results     []store.Posting // search results, or all postings for empty query
	Errors      []string        // user-visible banners
}

// New creates a new web server
func New(cfg Config) (*Server, error) {
	if cfg.Postings == nil {
		return nil, fmt.Errorf("web server initialization failed: postings store is required")
	}

	s := &Server{
		postings:       cfg.Postings,
		statsOpts:      cfg.Stats,
		baseURL:        cfg.BaseURL,
		version:        cfg.Version,
		backendInfo:    cfg.BackendInfo,
		passwordHash:   cfg.PasswordHash,
		csrfProtection: http.NewCrossOriginProtection(),
	}

	templates, err := s.parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("web server initialization failed: failed to parse HTML templates: %w", err)
	}
	s.templates = templates

	return s, nil
}

// Run starts the web server and blocks until ctx canceled
func (s *Server) Run(ctx context.Context, address string) error {
	server := &http.Server{
		Addr:              address,
		Handler:           s.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] failed to shutdown server: %v", err)
		}
	}()

	log.Printf("[INFO] starting web server on %s", address)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server failed: %w", err)
	}
	return nil
}

// handler returns the http.Handler with base URL wrapping applied
func (s *Server) handler() http.Handler {
	routes := s.routes()
	if s.baseURL == "" {
		return routes
	}

	mux := http.NewServeMux()
	mux.HandleFunc(s.baseURL, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.baseURL+"/", http.StatusMovedPermanently)
	})
	mux.Handle(s.baseURL+"/", http.StripPrefix(s.baseURL, routes))
	return mux
}

// routes returns the http.Handler with all routes configured
func (s *Server) routes() http.Handler {
	router := routegroup.New(http.NewServeMux())

	router.Use(
		rest.RealIP,
		rest.Recoverer(log.Default()),
		rest.Throttle(1000),
		rest.AppInfo("kingcrab", "umputun", s.version),
		rest.Ping,
		rest.Trace,
		rest.SizeLimit(64*1024),
		logger.New(logger.Log(log.Default()), logger.Prefix("[DEBUG]")).Handler,
	)

	// must be set before any routes are defined
	if s.passwordHash != "" {
		log.Printf("[INFO] authentication enabled for web UI")
		router.Use(s.authMiddleware)
		router.HandleFunc("GET /login", s.handleLoginForm)
		router.With(s.csrfProtection.Handler, loginRateLimiter()).HandleFunc("POST /login", s.handleLogin)
		router.HandleFunc("GET /logout", s.handleLogout)
	}

	router.HandleFunc("GET /{$}", s.handleDashboard)

	// partials for live search
	router.Mount("/api").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /results", s.handleResultsPartial)
	})

	// JSON and markdown API for programmatic access
	router.Mount("/api/v1").Route(func(api *routegroup.Bundle) {
		api.Use(rest.NoCache)
		api.HandleFunc("GET /postings", s.handleAPIPostings)
		api.HandleFunc("GET /stats", s.handleAPIStats)
		api.HandleFunc("GET /results.md", s.handleAPIMarkdown)
	})

	fsys, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Printf("[ERROR] failed to create static file system: %v", err)
		router.Handle("GET /static/", http.FileServer(http.FS(staticFS)))
	} else {
		router.HandleFiles("/static/", http.FS(fsys))
	}

	return router
}

// render renders a template
func (s *Server) render(w http.ResponseWriter, page, tmplName string, data any) {
	tmpl, ok := s.templates[page]
	if !ok {
		log.Printf("[WARN] template %s not found", page)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, tmplName, data); err != nil {
		log.Printf("[WARN] failed to execute template: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

// parseTemplates parses all templates
func (s *Server) parseTemplates() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template)

	funcMap := template.FuncMap{
		"url":       s.url,
		"humanDate": humanDate,
		"linkText":  func() string { return linkText },
		"noLink":    func() string { return noLinkText },
	}

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templatesFS,
		"templates/base.html", "templates/dashboard.html", "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}
	templates["base.html"] = base

	// partials separately for live search requests
	partials, err := template.New("results.html").Funcs(funcMap).ParseFS(templatesFS, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse partials: %w", err)
	}
	templates["partials"] = partials

	login, err := template.New("login.html").Funcs(funcMap).ParseFS(templatesFS, "templates/login.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse login template: %w", err)
	}
	templates["login"] = login

	return templates, nil
}

// newTemplateData creates a TemplateData with common fields populated from request
func (s *Server) newTemplateData(r *http.Request) TemplateData {
	return TemplateData{
		BaseURL:     s.baseURL,
		Version:     shortVersion(s.version),
		BackendInfo: s.backendInfo,
		AuthEnabled: s.passwordHash != "",
		CurrentYear: time.Now().Year(),
		Query:       strings.TrimSpace(r.FormValue("q")),
	}
}

// url prepends the base URL to a path for reverse proxy support
func (s *Server) url(path string) string {
	return s.baseURL + path
}

// cookiePath returns the cookie path with base URL support
func (s *Server) cookiePath() string {
	if s.baseURL == "" {
		return "/"
	}
	return s.baseURL + "/"
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// shortVersion extracts a short version string from full version,
// for "v1.2.0-abc1234-20241225" returns "v1.2.0"
func shortVersion(fullVer string) string {
	if fullVer == "" || fullVer == "unknown" {
		return fullVer
	}
	if idx := strings.Index(fullVer, "-"); idx > 0 {
		return fullVer[:idx]
	}
	return fullVer
}
