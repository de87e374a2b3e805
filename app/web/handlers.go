package web

import (
	"context"
	"errors"
	"net/http"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"

	"github.com/umputun/kingcrab/app/stats"
	"github.com/umputun/kingcrab/app/store"
)

// dashboardView is the data loaded for a single dashboard request
type dashboardView struct {
	all     []store.Posting // all postings, empty on failure
	results []store.Posting // search results, all postings for empty query
	errors  []string        // user-visible banners
}

// handleDashboard renders the main dashboard. Each request loads postings from the backend,
// computes statistics and renders the page. Backend failures never fail the page,
// they are reported as banners with empty data substituted.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := s.newTemplateData(r)
	view := s.loadView(r.Context(), data.Query)

	data.Summary = stats.Compute(view.all, s.statsOpts)
	data.Bars = newBarChart(data.Summary.TopWords)
	data.Line = newLineChart(data.Summary.Dates, lineChartWidth, lineChartHeight)
	data.Results = view.results
	data.Errors = view.errors

	s.render(w, "base.html", "base", data)
}

// handleResultsPartial returns the results table for live search
func (s *Server) handleResultsPartial(w http.ResponseWriter, r *http.Request) {
	data := s.newTemplateData(r)
	results, err := s.search(r.Context(), data.Query)
	if err != nil {
		data.Errors = append(data.Errors, banner(err))
	}
	data.Results = results
	s.render(w, "partials", "results-partial", data)
}

// loadView fetches all postings and, for non-empty query, search results concurrently
func (s *Server) loadView(ctx context.Context, query string) dashboardView {
	var all, found []store.Posting
	var listErr, searchErr error

	gr := syncs.NewSizedGroup(2, syncs.Context(ctx))
	gr.Go(func(ctx context.Context) {
		all, listErr = s.postings.List(ctx)
	})
	if query != "" {
		gr.Go(func(ctx context.Context) {
			found, searchErr = s.postings.Search(ctx, query)
		})
	}
	gr.Wait()

	res := dashboardView{all: all, results: found}
	if listErr != nil {
		log.Printf("[WARN] failed to load postings: %v", listErr)
		res.errors = append(res.errors, banner(listErr))
		res.all = []store.Posting{}
	}
	if query == "" {
		res.results = res.all
		return res
	}
	if searchErr != nil {
		log.Printf("[WARN] failed to search postings for %q: %v", query, searchErr)
		if listErr == nil || !errors.Is(searchErr, store.ErrUnavailable) {
			res.errors = append(res.errors, banner(searchErr)) // don't repeat the same unavailable banner
		}
		res.results = []store.Posting{}
	}
	return res
}

// search returns search results, or all postings for empty query. Failure gives empty results.
func (s *Server) search(ctx context.Context, query string) ([]store.Posting, error) {
	var res []store.Posting
	var err error
	if query == "" {
		res, err = s.postings.List(ctx)
	} else {
		res, err = s.postings.Search(ctx, query)
	}
	if err != nil {
		log.Printf("[WARN] failed to get results for %q: %v", query, err)
		return []store.Posting{}, err
	}
	return res, nil
}

// banner makes user-visible message for backend error
func banner(err error) string {
	if errors.Is(err, store.ErrUnavailable) {
		return "Base de datos no disponible: " + err.Error()
	}
	return "Error al consultar la base de datos: " + err.Error()
}
