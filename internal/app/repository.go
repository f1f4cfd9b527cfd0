package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
	"github.com/vladislavdragonenkov/grocery/internal/metrics"
	"github.com/vladislavdragonenkov/grocery/internal/storage/csvfile"
	"github.com/vladislavdragonenkov/grocery/internal/storage/memory"
	"github.com/vladislavdragonenkov/grocery/internal/storage/postgres"
	"github.com/vladislavdragonenkov/grocery/internal/storage/rediscache"
)

// Repository хранит собранный по конфигурации источник заказов и
// ресурсы, которые нужно закрыть.
type Repository struct {
	domain.OrderRepository
	Backend string

	closers []func() error
}

// Close освобождает подключения к Postgres и Redis.
func (r *Repository) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OpenRepository строит цепочку: источник → метрики → кэш.
// m может быть nil, тогда метрики не собираются.
func OpenRepository(ctx context.Context, cfg Config, m *metrics.RepositoryMetrics, logger *log.Entry) (*Repository, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	repo := &Repository{Backend: cfg.Source}
	var source domain.OrderRepository

	switch cfg.Source {
	case SourceCSV:
		opts := []csvfile.Option{csvfile.WithLogger(logger.WithField("component", "csv-orders"))}
		if cfg.CSVHeader {
			opts = append(opts, csvfile.WithHeader())
		}
		source = csvfile.NewOrderRepository(cfg.CSVPath, opts...)
	case SourcePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		repo.closers = append(repo.closers, store.Close)
		source = postgres.NewOrderRepository(store)
	default:
		return nil, fmt.Errorf("unsupported source %q", cfg.Source)
	}

	source = metrics.InstrumentRepository(source, cfg.Source, m)

	switch cfg.Cache {
	case CacheNone, "":
	case CacheMemory:
		source = memory.NewCachedRepository(source)
	case CacheRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		repo.closers = append(repo.closers, client.Close)
		source = rediscache.NewOrderRepository(client, source,
			rediscache.WithTTL(cfg.RedisTTL),
			rediscache.WithLogger(logger.WithField("component", "redis-order-cache")),
		)
	default:
		_ = repo.Close()
		return nil, fmt.Errorf("unsupported cache %q", cfg.Cache)
	}

	repo.OrderRepository = source
	logger.WithFields(log.Fields{
		"source": cfg.Source,
		"cache":  cfg.Cache,
	}).Debug("order repository ready")
	return repo, nil
}
