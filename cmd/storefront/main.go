package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Skotchmaster/beads_storefront/internal/config"
	"github.com/Skotchmaster/beads_storefront/internal/events"
	"github.com/Skotchmaster/beads_storefront/internal/httpserver"
	"github.com/Skotchmaster/beads_storefront/internal/itemstore"
	"github.com/Skotchmaster/beads_storefront/internal/search"
	"github.com/Skotchmaster/beads_storefront/pkg/apiclient"
	"github.com/Skotchmaster/beads_storefront/pkg/db"
	"github.com/Skotchmaster/beads_storefront/pkg/logging"
	"github.com/Skotchmaster/beads_storefront/pkg/middleware/csrf"
	loggingmw "github.com/Skotchmaster/beads_storefront/pkg/middleware/logging"
	"github.com/Skotchmaster/beads_storefront/pkg/middleware/ratelimit"
)

const (
	sweepInterval = 10 * time.Minute
	sweepIdle     = time.Hour
)

type backing struct {
	db    *gorm.DB
	redis *redis.Client
	es    *search.Elastic
}

func (b *backing) ready(ctx context.Context) error {
	if b.db != nil {
		sqlDB, err := b.db.DB()
		if err != nil {
			return fmt.Errorf("db: %w", err)
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("db ping: %w", err)
		}
	}
	if b.redis != nil {
		if err := b.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}
	return nil
}

func (b *backing) close(l *slog.Logger) {
	if b.db != nil {
		if sqlDB, err := b.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				l.Error("db_close_failed", "error", err)
			}
		}
	}
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			l.Error("redis_close_failed", "error", err)
		}
	}
}

func openPersister(ctx context.Context, cfg config.Config, b *backing) (itemstore.Persister, error) {
	switch cfg.ItemStoreBackend {
	case "postgres", "sqlite":
		gdb, err := db.Open(ctx, cfg.ItemStoreBackend, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.db = gdb
		p := &itemstore.GormPersister{DB: gdb}
		if err := p.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate item store: %w", err)
		}
		return p, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		b.redis = redis.NewClient(opts)
		if err := b.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		return &itemstore.RedisPersister{Client: b.redis, Prefix: cfg.ServiceName, TTL: cfg.ItemTTL}, nil
	default:
		return itemstore.NewMemoryPersister(), nil
	}
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b := &backing{}
	initCtx, cancelInit := context.WithTimeout(ctx, 15*time.Second)
	persister, err := openPersister(initCtx, cfg, b)
	if err != nil {
		cancelInit()
		logger.Error("itemstore_init_failed", "backend", cfg.ItemStoreBackend, "error", err)
		os.Exit(1)
	}

	api := apiclient.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	searcher := &search.Service{Catalog: api}
	if cfg.ESURL != "" {
		es, err := search.NewElastic(search.ElasticConfig{URL: cfg.ESURL, Username: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			logger.Warn("search_init_failed", "reason", "falling back to backend search", "error", err)
		} else if err := es.Ping(initCtx); err != nil {
			logger.Warn("search_ping_failed", "reason", "falling back to backend search", "error", err)
		} else {
			b.es = es
			searcher.Index = es
		}
	}
	cancelInit()

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	}

	items := itemstore.NewRegistry(persister, nil)
	go items.RunSweeper(ctx, sweepInterval, sweepIdle)

	limiter := ratelimit.New(cfg.LoginRPS, cfg.LoginBurst)
	go limiter.Run(ctx, time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(csrf.Middleware(csrf.Config{
		Secure: cfg.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/health/")
		},
	}))

	httpserver.Register(e, &httpserver.Deps{
		API:          api,
		Items:        items,
		Search:       searcher,
		Events:       publisher,
		LoginPath:    cfg.LoginPath,
		CookieSecure: cfg.CookieSecure,
		LoginLimit:   limiter.Middleware(),
		Ready: func(c echo.Context) error {
			return b.ready(c.Request().Context())
		},
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server_start", "addr", cfg.ListenAddr, "api", cfg.APIBaseURL, "itemstore", cfg.ItemStoreBackend, "search_index", b.es != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("events_close_failed", "error", err)
	}
	b.close(logger)

	logger.Info("shutdown_complete")
}
