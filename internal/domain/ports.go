package domain

import "context"

// OrderImporter загружает заказы в хранилище (например, CSV -> PostgreSQL).
type OrderImporter interface {
	// Import сохраняет заказы, заменяя товары уже существующих. Возвращает число сохранённых заказов.
	Import(ctx context.Context, orders []*Order) (int, error)
}

// OrderPublisher публикует снимки заказов во внешнюю шину.
type OrderPublisher interface {
	PublishOrders(ctx context.Context, orders []*Order) (int, error)
}
