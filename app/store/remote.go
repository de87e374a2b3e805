package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater"
	"github.com/go-pkgz/repeater/strategy"
)

// Remote implements Store over PostgREST table API, the one Supabase exposes at /rest/v1
type Remote struct {
	baseURL string
	key     string
	table   string
	client  *http.Client
	rptr    *repeater.Repeater
}

// RemoteParams defines remote backend parameters
type RemoteParams struct {
	URL     string
	Key     string
	Table   string
	Timeout time.Duration
	Retry   RetryParams
}

// RetryParams defines backoff for failed remote calls. Attempts <= 1 means no retries.
type RetryParams struct {
	Attempts int
	Duration time.Duration
	Factor   float64
	Jitter   bool
}

// remoteRow is a json representation of a row, nullable fields are pointers
type remoteRow struct {
	Title     string  `json:"titulo"`
	URL       *string `json:"url"`
	Published *string `json:"fecha_publicacion"`
}

// NewRemote makes remote backend
func NewRemote(p RemoteParams) *Remote {
	if p.Table == "" {
		p.Table = DefaultTable
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	attempts := p.Retry.Attempts
	if attempts < 1 {
		attempts = 1
	}
	factor := p.Retry.Factor
	if factor < 1 {
		factor = 1
	}

	return &Remote{
		baseURL: strings.TrimSuffix(p.URL, "/"),
		key:     p.Key,
		table:   p.Table,
		client:  &http.Client{Timeout: p.Timeout},
		rptr: repeater.New(&strategy.Backoff{Repeats: attempts, Duration: p.Retry.Duration,
			Factor: factor, Jitter: p.Retry.Jitter}),
	}
}

// List returns all postings
func (r *Remote) List(ctx context.Context) ([]Posting, error) {
	params := url.Values{}
	params.Set("select", "titulo,url,fecha_publicacion")
	res, err := r.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list postings: %w", err)
	}
	return res, nil
}

// Search returns title and url of postings with title containing query, case-insensitive
func (r *Remote) Search(ctx context.Context, query string) ([]Posting, error) {
	params := url.Values{}
	params.Set("select", "titulo,url")
	params.Set("titulo", "ilike.*"+escapeLike(query)+"*")
	res, err := r.get(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search postings for %q: %w", query, err)
	}
	return res, nil
}

// Close does nothing, http client has no state to release
func (r *Remote) Close() error { return nil }

func (r *Remote) get(ctx context.Context, params url.Values) (res []Posting, err error) {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", r.baseURL, url.PathEscape(r.table), params.Encode())

	err = r.rptr.Do(ctx, func() error {
		rows, e := r.fetch(ctx, reqURL)
		if e != nil {
			log.Printf("[DEBUG] remote request to %s failed: %v", r.baseURL, e)
			return e
		}
		res = make([]Posting, 0, len(rows))
		for _, row := range rows {
			p := Posting{Title: row.Title}
			if row.URL != nil {
				p.URL = *row.URL
			}
			if row.Published != nil {
				p.PublishedRaw = *row.Published
			}
			res = append(res, p)
		}
		return nil
	})
	return res, err
}

func (r *Remote) fetch(ctx context.Context, reqURL string) ([]remoteRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	rows := []remoteRow{}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return rows, nil
}
