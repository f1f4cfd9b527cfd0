package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
	"github.com/vladislavdragonenkov/grocery/internal/storage/memory"
)

func gatherMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if labelsMatch(metric, labels) {
				return metric
			}
		}
	}
	t.Fatalf("metric %s%v not found", name, labels)
	return nil
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if want != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}

func TestNewRepositoryMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first := NewRepositoryMetrics(reg)
	second := NewRepositoryMetrics(reg)

	if first.loads != second.loads || first.lookups != second.lookups {
		t.Fatal("expected collectors to be shared between instances")
	}
}

func TestRecordLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	m.RecordLoad("csv", 100, 20*time.Millisecond, nil)
	m.RecordLoad("csv", 0, time.Millisecond, errors.New("broken row"))

	success := gatherMetric(t, reg, "grocery_repository_loads_total", map[string]string{"backend": "csv", "result": ResultSuccess})
	if success.GetCounter().GetValue() != 1 {
		t.Fatalf("expected 1 successful load, got %v", success.GetCounter().GetValue())
	}
	failed := gatherMetric(t, reg, "grocery_repository_loads_total", map[string]string{"backend": "csv", "result": ResultError})
	if failed.GetCounter().GetValue() != 1 {
		t.Fatalf("expected 1 failed load, got %v", failed.GetCounter().GetValue())
	}

	// Неудачная загрузка не сбрасывает число заказов.
	loaded := gatherMetric(t, reg, "grocery_repository_orders_loaded", map[string]string{"backend": "csv"})
	if loaded.GetGauge().GetValue() != 100 {
		t.Fatalf("expected 100 orders loaded, got %v", loaded.GetGauge().GetValue())
	}

	duration := gatherMetric(t, reg, "grocery_repository_load_duration_seconds", map[string]string{"backend": "csv"})
	if duration.GetHistogram().GetSampleCount() != 2 {
		t.Fatalf("expected 2 duration samples, got %d", duration.GetHistogram().GetSampleCount())
	}
}

type failingRepository struct{ err error }

func (r failingRepository) All(context.Context) ([]*domain.Order, error) { return nil, r.err }

func (r failingRepository) Find(context.Context, int64) (*domain.Order, error) { return nil, r.err }

func TestInstrumentRepository(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRepositoryMetrics(reg)

	order := domain.NewOrder(1, domain.Product{Name: "Bran", Price: decimal.NewFromInt(2)})
	repo := InstrumentRepository(memory.NewOrderRepository(order), "memory", m)
	ctx := context.Background()

	orders, err := repo.All(ctx)
	if err != nil || len(orders) != 1 {
		t.Fatalf("unexpected all result: %v, %d", err, len(orders))
	}
	if _, err := repo.Find(ctx, 1); err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if _, err := repo.Find(ctx, 2); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	broken := InstrumentRepository(failingRepository{err: errors.New("io")}, "csv", m)
	if _, err := broken.Find(ctx, 1); err == nil {
		t.Fatal("expected error")
	}

	cases := []struct {
		backend string
		result  string
	}{
		{"memory", ResultFound},
		{"memory", ResultNotFound},
		{"csv", ResultError},
	}
	for _, tc := range cases {
		metric := gatherMetric(t, reg, "grocery_repository_lookups_total", map[string]string{"backend": tc.backend, "result": tc.result})
		if metric.GetCounter().GetValue() != 1 {
			t.Fatalf("expected 1 lookup for %s/%s, got %v", tc.backend, tc.result, metric.GetCounter().GetValue())
		}
	}

	loaded := gatherMetric(t, reg, "grocery_repository_orders_loaded", map[string]string{"backend": "memory"})
	if loaded.GetGauge().GetValue() != 1 {
		t.Fatalf("expected 1 order loaded, got %v", loaded.GetGauge().GetValue())
	}
}

func TestInstrumentRepository_NilMetrics(t *testing.T) {
	repo := memory.NewOrderRepository()
	if got := InstrumentRepository(repo, "memory", nil); got != domain.OrderRepository(repo) {
		t.Fatal("expected repository to be returned unchanged")
	}
}
