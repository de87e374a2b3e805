package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/kingcrab/app/stats"
	"github.com/umputun/kingcrab/app/store"
	"github.com/umputun/kingcrab/app/syncer"
	"github.com/umputun/kingcrab/app/web"
)

var opts struct {
	Listen       string        `short:"l" long:"listen" env:"KINGCRAB_LISTEN" default:"127.0.0.1:8080" description:"web server listen address"`
	BaseURL      string        `long:"base-url" env:"KINGCRAB_BASE_URL" description:"base url path for reverse proxy, i.e. /jobs"`
	Backend      string        `short:"b" long:"backend" env:"KINGCRAB_BACKEND" default:"auto" choice:"auto" choice:"remote" choice:"local" description:"storage backend"`
	DBPath       string        `long:"db" env:"KINGCRAB_DB" default:"data/trabajos.db" description:"local sqlite database file"`
	CacheTTL     time.Duration `long:"cache-ttl" env:"KINGCRAB_CACHE_TTL" default:"1m" description:"backend results cache ttl, 0 to disable"`
	Sync         bool          `long:"sync" env:"KINGCRAB_SYNC" description:"copy remote postings to the local database and exit"`
	SyncSchedule string        `long:"sync-schedule" env:"KINGCRAB_SYNC_SCHEDULE" description:"periodic remote to local sync, cron spec, i.e. @hourly"`
	Dbg          bool          `long:"dbg" env:"KINGCRAB_DEBUG" description:"debug mode"`

	Supabase struct {
		URL     string        `long:"url" env:"SUPABASE_URL" description:"supabase project url"`
		Key     string        `long:"key" env:"SUPABASE_KEY" description:"supabase api key"`
		Table   string        `long:"table" env:"KINGCRAB_SUPABASE_TABLE" default:"Trabajos" description:"postings table"`
		Timeout time.Duration `long:"timeout" env:"KINGCRAB_SUPABASE_TIMEOUT" default:"10s" description:"http timeout"`
	} `group:"supabase" namespace:"supabase"`

	Retry struct {
		Attempts int           `long:"attempts" env:"ATTEMPTS" default:"1" description:"how many times to try a failed remote request"`
		Duration time.Duration `long:"duration" env:"DURATION" default:"500ms" description:"initial retry delay"`
		Factor   float64       `long:"factor" env:"FACTOR" default:"2" description:"backoff factor"`
		Jitter   bool          `long:"jitter" env:"JITTER" description:"jitter"`
	} `group:"retry" namespace:"retry" env-namespace:"KINGCRAB_RETRY"`

	Stats struct {
		Top        int    `long:"top" env:"TOP" default:"5" description:"number of words in the ranking"`
		CloudWords int    `long:"cloud-words" env:"CLOUD_WORDS" default:"100" description:"max number of words in the cloud"`
		StopWords  string `long:"stopwords" env:"STOPWORDS" description:"yaml file with additional stop words"`
	} `group:"stats" env-namespace:"KINGCRAB"`

	Auth struct {
		Hash string `long:"hash" env:"HASH" description:"bcrypt hash of the dashboard password, empty to disable auth"`
	} `group:"auth" namespace:"auth" env-namespace:"KINGCRAB_AUTH"`

	Log struct {
		Enabled         bool   `long:"enabled" env:"ENABLED" description:"enable logging to file"`
		Filename        string `long:"filename" env:"FILENAME" default:"kingcrab.log" description:"log file name"`
		MaxSize         int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max log file size in megabytes"`
		MaxBackups      int    `long:"max-backups" env:"MAX_BACKUPS" default:"7" description:"max number of rotated files"`
		MaxAge          int    `long:"max-age" env:"MAX_AGE" default:"0" description:"max days to keep rotated files, 0 keeps all"`
		EnabledCompress bool   `long:"compress" env:"COMPRESS" description:"compress rotated files"`
	} `group:"log" namespace:"log" env-namespace:"KINGCRAB_LOG"`
}

var revision = "unknown"

func main() {
	fmt.Printf("kingcrab %s\n", revision)

	// .env is optional, values from it don't override the real environment
	_ = godotenv.Load()

	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(2)
	}
	setupLogs()

	defer func() {
		if x := recover(); x != nil {
			log.Printf("[WARN] run time panic:\n%v", x)
			panic(x)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals(cancel) // handle SIGQUIT and SIGTERM

	if err := run(ctx); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(ctx context.Context) error {
	if opts.Sync {
		return syncLocal(ctx)
	}

	if opts.SyncSchedule != "" {
		if err := startPeriodicSync(ctx); err != nil {
			return fmt.Errorf("failed to start periodic sync: %w", err)
		}
	}

	st, err := makeStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to make store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}()

	stopWords, err := stats.LoadStopWords(opts.Stats.StopWords)
	if err != nil {
		return fmt.Errorf("failed to load stop words: %w", err)
	}

	srv, err := web.New(web.Config{
		Postings: st,
		Stats: stats.Options{
			TopN:       opts.Stats.Top,
			CloudWords: opts.Stats.CloudWords,
			StopWords:  stopWords,
		},
		BaseURL:      validateBaseURL(opts.BaseURL),
		Version:      revision,
		BackendInfo:  backendInfo(),
		PasswordHash: opts.Auth.Hash,
	})
	if err != nil {
		return fmt.Errorf("failed to make web server: %w", err)
	}
	return srv.Run(ctx, opts.Listen)
}

// storeParams makes store.Params from options
func storeParams() (store.Params, error) {
	kind, err := store.ParseKind(opts.Backend)
	if err != nil {
		return store.Params{}, err
	}
	return store.Params{
		Kind:      kind,
		DBPath:    opts.DBPath,
		RemoteURL: strings.TrimSuffix(opts.Supabase.URL, "/"),
		RemoteKey: opts.Supabase.Key,
		Table:     opts.Supabase.Table,
		Timeout:   opts.Supabase.Timeout,
		Retry: store.RetryParams{
			Attempts: opts.Retry.Attempts,
			Duration: opts.Retry.Duration,
			Factor:   opts.Retry.Factor,
			Jitter:   opts.Retry.Jitter,
		},
	}, nil
}

// makeStore selects the backend once and wraps it with results cache
func makeStore(ctx context.Context) (store.Store, error) {
	params, err := storeParams()
	if err != nil {
		return nil, err
	}
	st, err := store.New(ctx, params)
	if err != nil {
		return nil, err
	}
	return store.NewCached(st, opts.CacheTTL, 100), nil
}

// makeSyncer makes syncer copying remote postings to the local database.
// The returned func closes both stores.
func makeSyncer(ctx context.Context) (*syncer.Syncer, func(), error) {
	params, err := storeParams()
	if err != nil {
		return nil, nil, err
	}
	params.Kind = store.KindRemote
	remote, err := store.New(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make remote store: %w", err)
	}

	local, err := store.NewSQLite(ctx, opts.DBPath, opts.Supabase.Table)
	if err != nil {
		_ = remote.Close()
		return nil, nil, fmt.Errorf("failed to open local store: %w", err)
	}

	closer := func() {
		if err := local.Close(); err != nil {
			log.Printf("[WARN] failed to close local store: %v", err)
		}
		_ = remote.Close()
	}
	return &syncer.Syncer{Cron: cron.New(), Source: remote, Target: local, Schedule: opts.SyncSchedule}, closer, nil
}

// syncLocal copies all remote postings into the local database once
func syncLocal(ctx context.Context) error {
	sn, closer, err := makeSyncer(ctx)
	if err != nil {
		return err
	}
	defer closer()

	n, err := sn.Once(ctx)
	if err != nil {
		return err
	}
	log.Printf("[INFO] synced %d postings to %s", n, opts.DBPath)
	return nil
}

// startPeriodicSync runs scheduled sync in background until ctx canceled
func startPeriodicSync(ctx context.Context) error {
	sn, closer, err := makeSyncer(ctx)
	if err != nil {
		return err
	}
	if _, err := cron.ParseStandard(opts.SyncSchedule); err != nil {
		closer()
		return fmt.Errorf("invalid sync schedule %q: %w", opts.SyncSchedule, err)
	}
	go func() {
		defer closer()
		if err := sn.Do(ctx); err != nil {
			log.Printf("[WARN] periodic sync stopped, %v", err)
		}
	}()
	return nil
}

// backendInfo describes the selected backend for the sidebar, without credentials
func backendInfo() string {
	params, err := storeParams()
	if err != nil {
		return opts.Backend
	}
	if params.Resolve() == store.KindRemote {
		return "supabase: " + opts.Supabase.URL
	}
	return "local: " + opts.DBPath
}

// validateBaseURL normalizes base url, "/" and empty mean root
func validateBaseURL(baseURL string) string {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL != "" && !strings.HasPrefix(baseURL, "/") {
		baseURL = "/" + baseURL
	}
	return baseURL
}

// setupLogs configures lgr and returns the writer used for log output
func setupLogs() io.Writer {
	var out io.Writer = os.Stdout
	if opts.Log.Enabled {
		out = &lumberjack.Logger{
			Filename:   opts.Log.Filename,
			MaxSize:    opts.Log.MaxSize,
			MaxBackups: opts.Log.MaxBackups,
			MaxAge:     opts.Log.MaxAge,
			Compress:   opts.Log.EnabledCompress,
		}
	}

	if opts.Dbg {
		log.Setup(log.Debug, log.Msec, log.CallerFunc, log.CallerPkg, log.CallerFile, log.Out(out), log.Err(out))
		return out
	}
	log.Setup(log.Msec, log.Out(out), log.Err(out))
	return out
}

func signals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	go func() {
		stacktrace := make([]byte, 8192)
		for sig := range sigChan {
			if sig == syscall.SIGQUIT { // catch SIGQUIT and print stack traces
				length := runtime.Stack(stacktrace, true)
				fmt.Println(string(stacktrace[:length]))
				continue
			}
			log.Printf("[INFO] got signal %v, shutting down", sig)
			cancel()
		}
	}()
	signal.Notify(sigChan, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
}
