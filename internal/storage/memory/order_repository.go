package memory

import (
	"context"
	"sync"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// OrderRepository: in-memory реализация OrderRepository и OrderImporter.
// Сохраняет порядок добавления и отдаёт копии заказов.
type OrderRepository struct {
	mu    sync.RWMutex
	index map[int64]int
	items []*domain.Order
}

// NewOrderRepository возвращает репозиторий, заполненный переданными заказами.
func NewOrderRepository(orders ...*domain.Order) *OrderRepository {
	r := &OrderRepository{index: make(map[int64]int, len(orders))}
	r.put(orders)
	return r
}

// All возвращает копии всех заказов в порядке добавления.
func (r *OrderRepository) All(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Order, 0, len(r.items))
	for _, order := range r.items {
		result = append(result, order.Clone())
	}
	return result, nil
}

// Find возвращает копию заказа или ErrOrderNotFound.
func (r *OrderRepository) Find(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos, ok := r.index[id]
	if !ok {
		return nil, domain.NotFound(id)
	}
	return r.items[pos].Clone(), nil
}

// Import заменяет заказы с совпадающим ID и дописывает новые в конец.
func (r *OrderRepository) Import(_ context.Context, orders []*domain.Order) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(orders)
	return len(orders), nil
}

// Len возвращает количество заказов.
func (r *OrderRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

func (r *OrderRepository) put(orders []*domain.Order) {
	for _, order := range orders {
		// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
		clone := order.Clone()
		if pos, exists := r.index[order.ID()]; exists {
			r.items[pos] = clone
			continue
		}
		r.index[order.ID()] = len(r.items)
		r.items = append(r.items, clone)
	}
}

var (
	_ domain.OrderRepository = (*OrderRepository)(nil)
	_ domain.OrderImporter   = (*OrderRepository)(nil)
)
