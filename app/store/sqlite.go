package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver
)

// SQLite implements Store over a local sqlite file
type SQLite struct {
	db    *sqlx.DB
	table string
}

// postingRow is a db representation of Posting, url and date can be NULL
type postingRow struct {
	Title     string         `db:"titulo"`
	URL       sql.NullString `db:"url"`
	Published sql.NullString `db:"fecha_publicacion"`
}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NewSQLite opens sqlite file and makes sure the table exists
func NewSQLite(ctx context.Context, dbPath, table string) (*SQLite, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	db, err := sqlx.Open("sqlite", fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// create the table if missing, the file is normally pre-populated
	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		titulo TEXT NOT NULL,
		url TEXT,
		fecha_publicacion TEXT
	)`, table)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to create table %s: %w (also failed to close db: %v)", table, err, closeErr)
		}
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	return &SQLite{db: db, table: table}, nil
}

// List returns all postings
func (s *SQLite) List(ctx context.Context) ([]Posting, error) {
	rows := []postingRow{}
	query := fmt.Sprintf(`SELECT titulo, url, fecha_publicacion FROM %q`, s.table)
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to query postings: %w", err)
	}
	return toPostings(rows), nil
}

// Search returns title and url of postings with title containing query, case-insensitive.
// Sqlite LIKE folds ASCII letters only.
func (s *SQLite) Search(ctx context.Context, query string) ([]Posting, error) {
	rows := []postingRow{}
	q := fmt.Sprintf(`SELECT titulo, url FROM %q WHERE titulo LIKE ? ESCAPE '\'`, s.table)
	if err := s.db.SelectContext(ctx, &rows, q, "%"+escapeLike(query)+"%"); err != nil {
		return nil, fmt.Errorf("failed to search postings for %q: %w", query, err)
	}
	return toPostings(rows), nil
}

// Replace drops all postings and inserts given ones in a single transaction
func (s *SQLite) Replace(ctx context.Context, postings []Posting) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %q`, s.table)); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.table, err)
	}

	insert := fmt.Sprintf(`INSERT INTO %q (titulo, url, fecha_publicacion) VALUES (:titulo, :url, :fecha_publicacion)`, s.table)
	for _, p := range postings {
		row := postingRow{
			Title:     p.Title,
			URL:       sql.NullString{String: p.URL, Valid: p.URL != ""},
			Published: sql.NullString{String: p.PublishedRaw, Valid: p.PublishedRaw != ""},
		}
		if _, err = tx.NamedExecContext(ctx, insert, row); err != nil {
			return fmt.Errorf("failed to insert posting %q: %w", p.Title, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

func toPostings(rows []postingRow) []Posting {
	res := make([]Posting, 0, len(rows))
	for _, r := range rows {
		res = append(res, Posting{Title: r.Title, URL: r.URL.String, PublishedRaw: r.Published.String})
	}
	return res
}
