// Package rediscache кэширует заказы в Redis поверх основного репозитория.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

const (
	keyPrefix  = "grocery:order:"
	defaultTTL = 5 * time.Minute
)

// Option настраивает OrderRepository.
type Option func(*OrderRepository)

// WithTTL задаёт время жизни записи в кэше. Нулевое значение отключает истечение.
func WithTTL(ttl time.Duration) Option {
	return func(r *OrderRepository) {
		r.ttl = ttl
	}
}

// WithLogger задаёт логгер репозитория.
func WithLogger(logger *log.Entry) Option {
	return func(r *OrderRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// OrderRepository читает заказы из Redis, а при промахе обращается к source
// и сохраняет найденный заказ. Недоступность Redis не ломает чтение.
type OrderRepository struct {
	client redis.UniversalClient
	source domain.OrderRepository
	ttl    time.Duration
	logger *log.Entry
}

// NewOrderRepository создаёт read-through кэш для source.
func NewOrderRepository(client redis.UniversalClient, source domain.OrderRepository, opts ...Option) *OrderRepository {
	r := &OrderRepository{
		client: client,
		source: source,
		ttl:    defaultTTL,
		logger: log.WithField("component", "redis-order-cache"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key возвращает ключ Redis для заказа.
func Key(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

// All всегда читает источник: порядок каталога хранится только там.
func (r *OrderRepository) All(ctx context.Context) ([]*domain.Order, error) {
	return r.source.All(ctx)
}

// Find возвращает заказ из кэша или из источника. NotFound не кэшируется.
func (r *OrderRepository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	if order, ok := r.lookup(ctx, id); ok {
		return order, nil
	}

	order, err := r.source.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, order)
	return order, nil
}

// Invalidate удаляет заказы из кэша.
func (r *OrderRepository) Invalidate(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, Key(id))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate cached orders: %w", err)
	}
	return nil
}

func (r *OrderRepository) lookup(ctx context.Context, id int64) (*domain.Order, bool) {
	raw, err := r.client.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.WithError(err).WithField("order_id", id).Warn("redis get failed, falling back to source")
		}
		return nil, false
	}

	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		r.logger.WithError(err).WithField("order_id", id).Warn("drop corrupted cache entry")
		_ = r.client.Del(ctx, Key(id)).Err()
		return nil, false
	}
	return &order, true
}

func (r *OrderRepository) store(ctx context.Context, order *domain.Order) {
	payload, err := json.Marshal(order)
	if err != nil {
		r.logger.WithError(err).WithField("order_id", order.ID()).Warn("marshal order for cache")
		return
	}
	if err := r.client.Set(ctx, Key(order.ID()), payload, r.ttl).Err(); err != nil {
		r.logger.WithError(err).WithField("order_id", order.ID()).Warn("redis set failed")
	}
}

var _ domain.OrderRepository = (*OrderRepository)(nil)
