package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"", KindAuto, false},
		{"auto", KindAuto, false},
		{"Remote", KindRemote, false},
		{" local ", KindLocal, false},
		{"postgres", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestParams_Resolve(t *testing.T) {
	tests := []struct {
		name string
		p    Params
		want Kind
	}{
		{"auto with url and key", Params{Kind: KindAuto, RemoteURL: "https://x.supabase.co", RemoteKey: "k"}, KindRemote},
		{"auto with url only", Params{Kind: KindAuto, RemoteURL: "https://x.supabase.co"}, KindLocal},
		{"auto with key only", Params{RemoteKey: "k"}, KindLocal},
		{"auto without anything", Params{}, KindLocal},
		{"explicit local", Params{Kind: KindLocal, RemoteURL: "https://x.supabase.co", RemoteKey: "k"}, KindLocal},
		{"explicit remote", Params{Kind: KindRemote}, KindRemote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Resolve())
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("remote", func(t *testing.T) {
		s, err := New(context.Background(), Params{Kind: KindAuto, RemoteURL: "https://x.supabase.co", RemoteKey: "k"})
		require.NoError(t, err)
		r, ok := s.(*Remote)
		require.True(t, ok)
		assert.Equal(t, DefaultTable, r.table)
	})

	t.Run("remote not configured", func(t *testing.T) {
		s, err := New(context.Background(), Params{Kind: KindRemote, RemoteURL: "https://x.supabase.co"})
		require.NoError(t, err)
		_, err = s.List(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnavailable))
		assert.Contains(t, err.Error(), "missing key")
		_, err = s.Search(context.Background(), "dev")
		assert.True(t, errors.Is(err, ErrUnavailable))
		assert.NoError(t, s.Close())
	})

	t.Run("local", func(t *testing.T) {
		s, err := New(context.Background(), Params{DBPath: filepath.Join(t.TempDir(), "jobs.db"), Table: "Jobs"})
		require.NoError(t, err)
		defer s.Close()
		l, ok := s.(*SQLite)
		require.True(t, ok)
		assert.Equal(t, "Jobs", l.table)
		res, err := s.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New(context.Background(), Params{Kind: "postgres"})
		assert.Error(t, err)
	})
}

func TestPosting_HasURL(t *testing.T) {
	assert.True(t, Posting{URL: "https://example.com"}.HasURL())
	assert.False(t, Posting{URL: ""}.HasURL())
	assert.False(t, Posting{URL: "  "}.HasURL())
}
