package rediscache_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
	"github.com/vladislavdragonenkov/grocery/internal/storage/memory"
	"github.com/vladislavdragonenkov/grocery/internal/storage/rediscache"
)

type countingRepository struct {
	domain.OrderRepository
	finds int
}

func (r *countingRepository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	r.finds++
	return r.OrderRepository.Find(ctx, id)
}

func newSource() *countingRepository {
	first := domain.NewOrder(1,
		domain.Product{Name: "Slivered Almonds", Price: decimal.RequireFromString("22.88")},
		domain.Product{Name: "Wholewheat flour", Price: decimal.RequireFromString("1.93")},
		domain.Product{Name: "Grape Seed Oil", Price: decimal.RequireFromString("74.9")},
	)
	second := domain.NewOrder(2, domain.Product{Name: "Rye", Price: decimal.RequireFromString("3.10")})
	return &countingRepository{OrderRepository: memory.NewOrderRepository(first, second)}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "grocery:order:1", rediscache.Key(1))
	assert.Equal(t, "grocery:order:100", rediscache.Key(100))
}

func TestOrderRepository_FallsBackWhenRedisIsDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	source := newSource()
	repo := rediscache.NewOrderRepository(client, source)

	order, err := repo.Find(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "107.19", order.Total().StringFixed(2))

	_, err = repo.Find(context.Background(), 101)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	orders, err := repo.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderRepository_RedisReadThrough(t *testing.T) {
	client := openRedisForIntegrationTest(t)
	ctx := context.Background()

	source := newSource()
	repo := rediscache.NewOrderRepository(client, source, rediscache.WithTTL(time.Minute))
	require.NoError(t, repo.Invalidate(ctx, 1, 2, 101))

	first, err := repo.Find(ctx, 1)
	require.NoError(t, err)
	second, err := repo.Find(ctx, 1)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, 1, source.finds)

	ttl, err := client.TTL(ctx, rediscache.Key(1)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	// NotFound не кэшируется: каждый запрос доходит до источника.
	_, err = repo.Find(ctx, 101)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = repo.Find(ctx, 101)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	assert.Equal(t, 3, source.finds)

	exists, err := client.Exists(ctx, rediscache.Key(101)).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	require.NoError(t, repo.Invalidate(ctx, 1))
	_, err = repo.Find(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, source.finds)
}

func TestOrderRepository_DropsCorruptedEntry(t *testing.T) {
	client := openRedisForIntegrationTest(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, rediscache.Key(2), "{not json", time.Minute).Err())

	source := newSource()
	repo := rediscache.NewOrderRepository(client, source)

	order, err := repo.Find(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), order.ID())
	assert.Equal(t, 1, source.finds)

	require.NoError(t, repo.Invalidate(ctx, 2))
}

func openRedisForIntegrationTest(t *testing.T) *redis.Client {
	t.Helper()

	addr := strings.TrimSpace(os.Getenv("GROCERY_REDIS_TEST_ADDR"))
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: 500 * time.Millisecond, MaxRetries: -1})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis is not available for integration tests: %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
