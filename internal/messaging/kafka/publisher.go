package kafka

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// OrderPublisher публикует снимки заказов в topic с id заказа в качестве ключа.
type OrderPublisher struct {
	producer *Producer
	topic    string
}

// NewOrderPublisher создаёт паблишер; пустой topic заменяется на TopicOrderSnapshots.
func NewOrderPublisher(producer *Producer, topic string) *OrderPublisher {
	if topic == "" {
		topic = TopicOrderSnapshots
	}
	return &OrderPublisher{producer: producer, topic: topic}
}

// PublishOrders отправляет по событию на заказ и останавливается на первой ошибке.
// Возвращает число успешно опубликованных заказов.
func (p *OrderPublisher) PublishOrders(ctx context.Context, orders []*domain.Order) (int, error) {
	if p == nil || p.producer == nil {
		return 0, fmt.Errorf("kafka order publisher is not initialized")
	}

	for i, order := range orders {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		key := strconv.FormatInt(order.ID(), 10)
		if err := p.producer.PublishEvent(p.topic, key, NewOrderSnapshotEvent(order)); err != nil {
			return i, fmt.Errorf("publish order %d: %w", order.ID(), err)
		}
	}
	return len(orders), nil
}

var _ domain.OrderPublisher = (*OrderPublisher)(nil)
