package metrics

import (
	"context"
	"time"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

type instrumentedRepository struct {
	next    domain.OrderRepository
	backend string
	metrics *RepositoryMetrics
}

// InstrumentRepository оборачивает repo сбором метрик с меткой backend.
func InstrumentRepository(repo domain.OrderRepository, backend string, m *RepositoryMetrics) domain.OrderRepository {
	if m == nil {
		return repo
	}
	return &instrumentedRepository{next: repo, backend: backend, metrics: m}
}

func (r *instrumentedRepository) All(ctx context.Context) ([]*domain.Order, error) {
	started := time.Now()
	orders, err := r.next.All(ctx)
	r.metrics.RecordLoad(r.backend, len(orders), time.Since(started), err)
	return orders, err
}

func (r *instrumentedRepository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	order, err := r.next.Find(ctx, id)
	switch {
	case err == nil:
		r.metrics.RecordLookup(r.backend, ResultFound)
	case domain.IsNotFound(err):
		r.metrics.RecordLookup(r.backend, ResultNotFound)
	default:
		r.metrics.RecordLookup(r.backend, ResultError)
	}
	return order, err
}
