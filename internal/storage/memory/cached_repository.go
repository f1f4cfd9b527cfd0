package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// CachedRepository загружает источник один раз и дальше отвечает из памяти.
// Источник считается статичным: инвалидации нет, ошибки загрузки не кэшируются.
type CachedRepository struct {
	source domain.OrderRepository

	mu     sync.Mutex
	loaded *OrderRepository
}

// NewCachedRepository оборачивает source ленивым кэшем.
func NewCachedRepository(source domain.OrderRepository) *CachedRepository {
	return &CachedRepository{source: source}
}

// All возвращает все заказы, при первом вызове загружая источник.
func (c *CachedRepository) All(ctx context.Context) ([]*domain.Order, error) {
	repo, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return repo.All(ctx)
}

// Find ищет заказ в загруженном снимке.
func (c *CachedRepository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	repo, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	return repo.Find(ctx, id)
}

// Warm загружает источник заранее (например, при старте сервера).
func (c *CachedRepository) Warm(ctx context.Context) error {
	_, err := c.load(ctx)
	return err
}

func (c *CachedRepository) load(ctx context.Context) (*OrderRepository, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded != nil {
		return c.loaded, nil
	}

	orders, err := c.source.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load orders into cache: %w", err)
	}
	c.loaded = NewOrderRepository(orders...)
	return c.loaded, nil
}

var _ domain.OrderRepository = (*CachedRepository)(nil)
