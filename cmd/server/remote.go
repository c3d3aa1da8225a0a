package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/config"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store/postgres"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store/postgrest"
	"github.com/Lixing-Zhang/kart-challenge/storefront/internal/store/sqlite"
)

// openRemote connects the configured remote store. A nil store means the
// storefront runs from its snapshot alone. The returned func releases it.
func openRemote(ctx context.Context, cfg config.RemoteConfig, log *slog.Logger) (store.Remote, func(), error) {
	noop := func() {}
	timeout := time.Duration(cfg.Timeout) * time.Second

	switch driver := cfg.ResolvedDriver(); driver {
	case config.DriverSupabase:
		log.Info("using supabase remote store",
			"url", cfg.SupabaseURL,
			"anon_key", config.Redact(cfg.SupabaseAnonKey),
			"table", cfg.Table,
		)
		return postgrest.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.Table, timeout), noop, nil

	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		s, err := postgres.Open(connectCtx, cfg.DatabaseURL, cfg.Table)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		log.Info("using postgres remote store", "table", cfg.Table)
		return s, s.Close, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.Table)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open sqlite database %s: %w", cfg.SQLitePath, err)
		}
		log.Info("using sqlite remote store", "path", cfg.SQLitePath, "table", cfg.Table)
		return s, func() {
			if err := s.Close(); err != nil {
				log.Warn("failed to close sqlite database", "error", err)
			}
		}, nil

	default:
		log.Warn("no remote store configured, serving the local snapshot only",
			"hint", "set SUPABASE_URL and SUPABASE_ANON_KEY, DATABASE_URL, or STORE_DRIVER=sqlite",
		)
		return nil, noop, nil
	}
}
