// Package store provides access to job posting records. It defines the Posting record and
// implementations for different backends: a remote REST table (PostgREST, as exposed by Supabase)
// and a local SQLite file. New picks one of them once, from explicit configuration.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
)

// DefaultTable is the name of the table holding posting records
const DefaultTable = "Trabajos"

// ErrUnavailable returned by the backend which can't be used, i.e. missing credentials
var ErrUnavailable = errors.New("backend unavailable")

// Posting is a single job listing
type Posting struct {
	Title        string `json:"titulo"`
	URL          string `json:"url,omitempty"`               // empty if not set
	PublishedRaw string `json:"fecha_publicacion,omitempty"` // date-like text as stored, may be malformed
}

// HasURL reports whether the posting carries a link
func (p Posting) HasURL() bool {
	return strings.TrimSpace(p.URL) != ""
}

// Kind defines which backend to use
type Kind string

// enum of all backend kinds
const (
	KindAuto   Kind = "auto"
	KindRemote Kind = "remote"
	KindLocal  Kind = "local"
)

// ParseKind converts string to Kind, empty string is auto
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "", KindAuto:
		return KindAuto, nil
	case KindRemote, KindLocal:
		return k, nil
	default:
		return "", fmt.Errorf("unknown backend %q", s)
	}
}

// Params for New
type Params struct {
	Kind      Kind
	DBPath    string        // local sqlite file
	RemoteURL string        // base url of the rest endpoint, i.e. https://xyz.supabase.co
	RemoteKey string        // api key
	Table     string        // table name, DefaultTable if empty
	Timeout   time.Duration // remote http timeout
	Retry     RetryParams
}

// Resolve returns the effective backend kind. Auto means remote if both url and key are set.
func (p Params) Resolve() Kind {
	if p.Kind != KindAuto && p.Kind != "" {
		return p.Kind
	}
	if p.RemoteURL != "" && p.RemoteKey != "" {
		return KindRemote
	}
	return KindLocal
}

// New makes a backend for given params. Remote backend without url or key is not an error,
// it returns Unavailable store reporting the missing configuration on every call.
func New(ctx context.Context, p Params) (Store, error) {
	table := p.Table
	if table == "" {
		table = DefaultTable
	}

	switch kind := p.Resolve(); kind {
	case KindRemote:
		var missing []string
		if p.RemoteURL == "" {
			missing = append(missing, "url")
		}
		if p.RemoteKey == "" {
			missing = append(missing, "key")
		}
		if len(missing) > 0 {
			log.Printf("[WARN] remote backend not configured, missing %s", strings.Join(missing, " and "))
			return Unavailable{Reason: "remote backend not configured, missing " + strings.Join(missing, " and ")}, nil
		}
		log.Printf("[INFO] using remote backend %s, table %s", p.RemoteURL, table)
		return NewRemote(RemoteParams{URL: p.RemoteURL, Key: p.RemoteKey, Table: table, Timeout: p.Timeout, Retry: p.Retry}), nil
	case KindLocal:
		log.Printf("[INFO] using local backend %s, table %s", p.DBPath, table)
		return NewSQLite(ctx, p.DBPath, table)
	default:
		return nil, fmt.Errorf("unsupported backend kind %q", kind)
	}
}

// Store defines fetch-all and search capabilities shared by all backends
type Store interface {
	List(ctx context.Context) ([]Posting, error)
	Search(ctx context.Context, query string) ([]Posting, error)
	Close() error
}

// Unavailable is a backend which can't serve anything. Used when configuration is incomplete,
// so the caller can report the problem instead of failing on start.
type Unavailable struct {
	Reason string
}

// List always fails with ErrUnavailable
func (u Unavailable) List(context.Context) ([]Posting, error) {
	return nil, fmt.Errorf("%s: %w", u.Reason, ErrUnavailable)
}

// Search always fails with ErrUnavailable
func (u Unavailable) Search(context.Context, string) ([]Posting, error) {
	return nil, fmt.Errorf("%s: %w", u.Reason, ErrUnavailable)
}

// Close does nothing
func (u Unavailable) Close() error { return nil }

// escapeLike escapes LIKE wildcards and the escape char itself, so the query matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
