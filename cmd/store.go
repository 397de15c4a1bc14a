package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bivarmap/internal/boundary"
	"github.com/sells-group/bivarmap/internal/fetcher"
	"github.com/sells-group/bivarmap/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "bivarmap.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// newBoundaryLoader wires the HTTP and FTP fetchers into a boundary
// loader backed by the given store's cache. A nil store disables
// caching.
func newBoundaryLoader(st store.Store) *boundary.Loader {
	httpFetcher := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.Fetch.MaxRetries,
		RateLimiters: fetcher.DefaultRateLimiters(),
	})
	ftpFetcher := fetcher.NewFTPFetcher(fetcher.FTPOptions{
		Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
	})
	return boundary.NewLoader(httpFetcher, ftpFetcher, st, cfg.Data.TempDir)
}
