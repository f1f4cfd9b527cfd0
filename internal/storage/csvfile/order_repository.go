// Package csvfile реализует OrderRepository поверх CSV-файла каталога заказов.
package csvfile

import (
	"context"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// Option настраивает CSV-репозиторий.
type Option func(*orderRepository)

// WithHeader пропускает первую строку файла.
func WithHeader() Option {
	return func(r *orderRepository) {
		r.header = true
	}
}

// WithLogger задаёт логгер репозитория.
func WithLogger(logger *log.Entry) Option {
	return func(r *orderRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// orderRepository перечитывает файл при каждом вызове: источник статичен,
// кэширование делается декораторами (memory, rediscache).
type orderRepository struct {
	path   string
	header bool
	logger *log.Entry
}

// NewOrderRepository возвращает репозиторий, читающий заказы из path.
func NewOrderRepository(path string, opts ...Option) domain.OrderRepository {
	r := &orderRepository{
		path:   path,
		logger: log.WithField("component", "csv-repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// All читает файл целиком и возвращает все заказы.
func (r *orderRepository) All(ctx context.Context) ([]*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open orders file: %w", err)
	}
	defer f.Close()

	orders, err := Decode(r.path, f, r.header)
	if err != nil {
		r.logger.WithError(err).WithField("path", r.path).Warn("failed to parse orders file")
		return nil, err
	}

	r.logger.WithFields(log.Fields{
		"path":     r.path,
		"orders":   len(orders),
		"duration": time.Since(start),
	}).Debug("orders file loaded")

	return orders, nil
}

// Find загружает файл и ищет заказ по id.
func (r *orderRepository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.All(ctx)
	if err != nil {
		return nil, err
	}
	return domain.FindIn(orders, id)
}

var _ domain.OrderRepository = (*orderRepository)(nil)
