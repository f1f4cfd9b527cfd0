package kafka

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// EventType определяет тип события
type EventType string

const (
	EventTypeOrderSnapshot EventType = "order.snapshot"
)

// Topics для Kafka
const (
	TopicOrderSnapshots = "grocery.order.snapshots"
)

// OrderSnapshotEvent содержит заказ вместе с рассчитанными суммами.
type OrderSnapshotEvent struct {
	EventID   string           `json:"event_id"`
	EventType EventType        `json:"event_type"`
	OrderID   int64            `json:"order_id"`
	Products  []domain.Product `json:"products"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Tax       decimal.Decimal  `json:"tax"`
	Total     decimal.Decimal  `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewOrderSnapshotEvent создает событие со снимком заказа
func NewOrderSnapshotEvent(order *domain.Order) *OrderSnapshotEvent {
	return &OrderSnapshotEvent{
		EventID:   uuid.NewString(),
		EventType: EventTypeOrderSnapshot,
		OrderID:   order.ID(),
		Products:  order.Products(),
		Subtotal:  order.Subtotal(),
		Tax:       order.Tax(),
		Total:     order.Total(),
		Timestamp: time.Now().UTC(),
	}
}
