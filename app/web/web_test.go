package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/kingcrab/app/store"
	"github.com/umputun/kingcrab/app/web/mocks"
)

func testPostings() []store.Posting {
	return []store.Posting{
		{Title: "Backend Developer", URL: "https://example.com/1", PublishedRaw: "2024-01-15"},
		{Title: "Frontend Developer", PublishedRaw: "2024-01-15"},
		{Title: "Analista de Datos", URL: "https://example.com/3", PublishedRaw: "not a date"},
	}
}

// newPostingsMock returns mock serving testPostings, search matches titles by substring
func newPostingsMock() *mocks.PostingsMock {
	return &mocks.PostingsMock{
		ListFunc: func(context.Context) ([]store.Posting, error) {
			return testPostings(), nil
		},
		SearchFunc: func(_ context.Context, query string) ([]store.Posting, error) {
			res := []store.Posting{}
			for _, p := range testPostings() {
				if strings.Contains(strings.ToLower(p.Title), strings.ToLower(query)) {
					res = append(res, p)
				}
			}
			return res, nil
		},
	}
}

func newTestServer(t *testing.T, postings Postings) *Server {
	t.Helper()
	srv, err := New(Config{Postings: postings, Version: "v1.2.3-abc-20250101", BackendInfo: "local: test.db"})
	require.NoError(t, err)
	return srv
}

func TestNew(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		srv, err := New(Config{Postings: newPostingsMock()})
		require.NoError(t, err)
		assert.NotNil(t, srv.templates["base.html"])
		assert.NotNil(t, srv.templates["partials"])
		assert.NotNil(t, srv.templates["login"])
	})

	t.Run("missing postings", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postings store is required")
	})
}

func TestServer_Routes(t *testing.T) {
	srv := newTestServer(t, newPostingsMock())
	handler := srv.routes()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"dashboard", "/", http.StatusOK, "KingCrab"},
		{"results partial", "/api/results?q=dev", http.StatusOK, "Backend Developer"},
		{"api postings", "/api/v1/postings", http.StatusOK, `"total":3`},
		{"api stats", "/api/v1/stats", http.StatusOK, `"top_words"`},
		{"api markdown", "/api/v1/results.md", http.StatusOK, "| titulo | url |"},
		{"ping", "/ping", http.StatusOK, "pong"},
		{"static css", "/static/style.css", http.StatusOK, ".results-table"},
		{"static js", "/static/app.js", http.StatusOK, "/api/results?q="},
		{"not found", "/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}

	t.Run("app info header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "kingcrab", rec.Header().Get("App-Name"))
	})
}

func TestServer_BaseURL(t *testing.T) {
	srv, err := New(Config{Postings: newPostingsMock(), BaseURL: "/jobs"})
	require.NoError(t, err)
	handler := srv.handler()

	t.Run("redirects bare base url", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/jobs", http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/jobs/", rec.Header().Get("Location"))
	})

	t.Run("dashboard links prefixed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/jobs/", http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `href="/jobs/static/style.css"`)
		assert.Contains(t, body, `data-base-url="/jobs"`)
	})

	t.Run("static under base url", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/jobs/static/app.js", http.NoBody)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	assert.Equal(t, "/jobs/", srv.cookiePath())
}

func TestServer_Run(t *testing.T) {
	srv := newTestServer(t, newPostingsMock())
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run(ctx, "127.0.0.1:0") }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestShortVersion(t *testing.T) {
	tests := []struct{ in, want string }{
		{"v1.2.0-abc1234-20241225", "v1.2.0"},
		{"v1.2.0", "v1.2.0"},
		{"unknown", "unknown"},
		{"", ""},
		{"-abc", "-abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, shortVersion(tt.in), tt.in)
	}
}

func TestHumanDate(t *testing.T) {
	assert.Equal(t, "-", humanDate(time.Time{}))
	assert.Equal(t, "2024-03-01", humanDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}
