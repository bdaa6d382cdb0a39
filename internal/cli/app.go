package cli

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"menucatalog/internal/assets"
	"menucatalog/internal/auth"
	"menucatalog/internal/catalog"
	"menucatalog/internal/config"
	"menucatalog/internal/database/relational"
	"menucatalog/internal/metric"
	"menucatalog/internal/output"
	"menucatalog/internal/source"
	"menucatalog/internal/store"
)

// app wires the configured collaborators together.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	db       *relational.DuckDBClient
	store    *store.MemoryStore
	src      source.Source
	resolver *assets.Resolver
	registry *prometheus.Registry
	recorder *metric.PromRecorder
	prices   catalog.PriceFormatter
}

func newApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	reg := prometheus.NewRegistry()
	rec := metric.NewPromRecorder(reg)

	var (
		db  *relational.DuckDBClient
		err error
	)
	if cfg.Cart.DatabasePath == "" {
		db, err = relational.NewInMemoryDB()
	} else {
		db, err = relational.NewFileDB(cfg.Cart.DatabasePath)
	}
	if err != nil {
		return nil, fmt.Errorf("open cart database: %w", err)
	}

	repo := relational.NewRepo(db.DB())
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cart database: %w", err)
	}

	authn, err := auth.NewStaticAuthenticator(cfg.Auth.Users)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(cfg.Auth.Users) == 0 {
		log.Warn("no users configured, sign-in will always fail")
	}

	storeCfg := store.DefaultConfig().
		WithCartTimeout(cfg.CartTimeout()).
		WithRefreshTimeout(cfg.FetchTimeout()).
		WithRefreshInterval(cfg.RefreshInterval())
	st, err := store.NewMemoryStore(repo, authn,
		store.WithConfig(storeCfg),
		store.WithLogger(log),
		store.WithRecorder(rec),
	)
	if err != nil {
		db.Close()
		return nil, err
	}

	var src source.Source
	if cfg.Catalog.URL != "" {
		src = source.NewHTTPSource(cfg.Catalog.URL, cfg.FetchTimeout())
	} else {
		src = source.NewFileSource(cfg.Catalog.Path)
	}

	resolver := assets.NewResolver(
		assets.WithProbe(cfg.Assets.Probe),
		assets.WithPlaceholder(cfg.Assets.PlaceholderURL),
		assets.WithTimeout(cfg.ProbeTimeout()),
		assets.WithLogger(log),
	)

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		store:    st,
		src:      src,
		resolver: resolver,
		registry: reg,
		recorder: rec,
		prices:   catalog.NewPriceFormatter(cfg.Currency.Locale, cfg.Currency.Symbol),
	}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("closing cart database", zap.Error(err))
	}
}

// imageFunc never blocks: unprobed URLs show as-is until probing finishes.
func (a *app) imageFunc() output.ImageFunc {
	return func(url string) string {
		if got, ok := a.resolver.Cached(url); ok {
			return got
		}
		return url
	}
}

func (a *app) resolveImages(ctx context.Context) {
	if !a.cfg.Assets.Probe {
		return
	}
	if _, err := a.resolver.ResolveAll(ctx, a.store.Snapshot().MenuItems); err != nil {
		a.log.Debug("image probing stopped", zap.Error(err))
	}
}

// run loads the catalog and keeps background work going until ctx is done.
func (a *app) run(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.store.Refresh(gCtx, a.src); err != nil {
			return nil
		}
		a.resolveImages(gCtx)
		return nil
	})

	if fs, ok := a.src.(*source.FileSource); ok && a.cfg.Catalog.Watch {
		w, err := source.NewFileWatcher(fs, func(items []catalog.MenuItem, err error) {
			a.store.SetCatalog(items, err)
			if err == nil {
				a.resolveImages(gCtx)
			}
		}, a.log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			defer w.Close()
			w.Watch(gCtx)
			return nil
		})
	}

	if interval := a.cfg.RefreshInterval(); interval > 0 {
		r, err := store.NewRefresher(a.store, a.src, interval)
		if err != nil {
			return err
		}
		if err := r.Start(gCtx); err != nil {
			return err
		}
		g.Go(func() error {
			<-gCtx.Done()
			r.Stop()
			return nil
		})
	}

	if addr := a.cfg.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return metric.Serve(gCtx, addr, a.registry, a.log)
		})
	}

	return g.Wait()
}
