package domain

import "context"

// OrderRepository описывает источник заказов, доступный только на чтение.
type OrderRepository interface {
	// All возвращает все заказы в порядке первого появления в источнике.
	All(ctx context.Context) ([]*Order, error)
	// Find возвращает заказ по идентификатору или ErrOrderNotFound.
	Find(ctx context.Context, id int64) (*Order, error)
}

// FindIn ищет заказ в уже загруженном списке.
func FindIn(orders []*Order, id int64) (*Order, error) {
	for _, order := range orders {
		if order.ID() == id {
			return order, nil
		}
	}
	return nil, NotFound(id)
}
