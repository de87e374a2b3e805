// Package syncer copies postings from the remote backend into the local database,
// once or periodically on a cron schedule.
package syncer

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/robfig/cron/v3"

	"github.com/umputun/kingcrab/app/store"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source
//go:generate moq -out mocks/target.go -pkg mocks -skip-ensure -fmt goimports . Target

// Syncer wires cron, source and target together
type Syncer struct {
	Cron
	Source   Source
	Target   Target
	Schedule string // standard cron spec or descriptor, i.e. "@hourly"

	running atomic.Bool
}

// Source provides all postings, implemented by remote store
type Source interface {
	List(ctx context.Context) ([]store.Posting, error)
}

// Target replaces stored postings, implemented by store.SQLite
type Target interface {
	Replace(ctx context.Context, postings []store.Posting) error
}

// Cron interface defines basic robfig/cron methods used by syncer
type Cron interface {
	Start()
	Stop() context.Context
	Schedule(schedule cron.Schedule, cmd cron.Job) cron.EntryID
}

// Once copies all postings from source to target and returns the number of copied postings.
// Target is not touched if source fails.
func (s *Syncer) Once(ctx context.Context) (int, error) {
	if !s.running.CompareAndSwap(false, true) {
		return 0, fmt.Errorf("sync already in progress")
	}
	defer s.running.Store(false)

	st := time.Now()
	postings, err := s.Source.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load source postings: %w", err)
	}
	if err := s.Target.Replace(ctx, postings); err != nil {
		return 0, fmt.Errorf("failed to save postings: %w", err)
	}
	log.Printf("[INFO] synced %d postings in %v", len(postings), time.Since(st).Truncate(time.Millisecond))
	return len(postings), nil
}

// Do runs blocking periodic sync until ctx canceled
func (s *Syncer) Do(ctx context.Context) error {
	sched, err := cron.ParseStandard(s.Schedule)
	if err != nil {
		return fmt.Errorf("can't parse sync schedule %q: %w", s.Schedule, err)
	}

	id := s.Cron.Schedule(sched, cron.FuncJob(func() {
		if _, err := s.Once(ctx); err != nil {
			log.Printf("[WARN] sync failed, %v", err)
		}
	}))
	log.Printf("[INFO] sync scheduled %q, first: %s (%v)", s.Schedule, sched.Next(time.Now()).Format(time.RFC3339), id)

	s.Start()
	<-ctx.Done()
	log.Print("[DEBUG] terminate sync")
	<-s.Stop().Done()
	return nil
}
