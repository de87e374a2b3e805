package syncer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/kingcrab/app/store"
	"github.com/umputun/kingcrab/app/syncer/mocks"
)

func TestSyncer_Once(t *testing.T) {
	postings := []store.Posting{{Title: "Backend Developer", URL: "https://example.com/1"}, {Title: "Analista de Datos"}}
	src := &mocks.SourceMock{ListFunc: func(context.Context) ([]store.Posting, error) { return postings, nil }}
	dst := &mocks.TargetMock{ReplaceFunc: func(context.Context, []store.Posting) error { return nil }}

	s := Syncer{Source: src, Target: dst}
	n, err := s.Once(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, dst.ReplaceCalls(), 1)
	assert.Equal(t, postings, dst.ReplaceCalls()[0].Postings)
}

func TestSyncer_OnceErrors(t *testing.T) {
	t.Run("source failure keeps target", func(t *testing.T) {
		src := &mocks.SourceMock{ListFunc: func(context.Context) ([]store.Posting, error) { return nil, errors.New("timeout") }}
		dst := &mocks.TargetMock{ReplaceFunc: func(context.Context, []store.Posting) error { return nil }}

		s := Syncer{Source: src, Target: dst}
		_, err := s.Once(context.Background())
		require.EqualError(t, err, "failed to load source postings: timeout")
		assert.Empty(t, dst.ReplaceCalls())
	})

	t.Run("target failure", func(t *testing.T) {
		src := &mocks.SourceMock{ListFunc: func(context.Context) ([]store.Posting, error) { return []store.Posting{}, nil }}
		dst := &mocks.TargetMock{ReplaceFunc: func(context.Context, []store.Posting) error { return errors.New("disk full") }}

		s := Syncer{Source: src, Target: dst}
		_, err := s.Once(context.Background())
		require.EqualError(t, err, "failed to save postings: disk full")
	})

	t.Run("overlapping sync rejected", func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		src := &mocks.SourceMock{ListFunc: func(context.Context) ([]store.Posting, error) {
			close(started)
			<-release
			return []store.Posting{}, nil
		}}
		dst := &mocks.TargetMock{ReplaceFunc: func(context.Context, []store.Posting) error { return nil }}
		s := Syncer{Source: src, Target: dst}

		done := make(chan error, 1)
		go func() {
			_, err := s.Once(context.Background())
			done <- err
		}()
		<-started

		_, err := s.Once(context.Background())
		require.EqualError(t, err, "sync already in progress")

		close(release)
		require.NoError(t, <-done)
	})
}

func TestSyncer_Do(t *testing.T) {
	synced := make(chan struct{}, 10)
	src := &mocks.SourceMock{ListFunc: func(context.Context) ([]store.Posting, error) {
		return []store.Posting{{Title: "Go Developer"}}, nil
	}}
	dst := &mocks.TargetMock{ReplaceFunc: func(context.Context, []store.Posting) error {
		synced <- struct{}{}
		return nil
	}}

	s := Syncer{Cron: cron.New(), Source: src, Target: dst, Schedule: "@every 1s"}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Do(ctx) }()

	select {
	case <-synced:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled sync did not run")
	}
	cancel()
	require.NoError(t, <-done)
}

func TestSyncer_DoBadSchedule(t *testing.T) {
	s := Syncer{Cron: cron.New(), Schedule: "not a schedule"}
	err := s.Do(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't parse sync schedule")
}
