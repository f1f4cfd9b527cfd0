package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

const (
	opTimeout = 5 * time.Second
	// importTimeout больше opTimeout: импорт пишет весь каталог одной транзакцией.
	importTimeout = 60 * time.Second
)

// OrderRepository хранит каталог заказов в таблицах orders/order_products.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository и OrderImporter.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{db: store.DB()}
}

// All возвращает заказы в порядке их первого импорта.
func (r *OrderRepository) All(ctx context.Context) ([]*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, p.product_name, p.unit_price
		FROM orders o
		LEFT JOIN order_products p ON p.order_id = o.id
		ORDER BY o.seq, p.position
	`)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	assembler, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	return assembler.Orders(), nil
}

// Find возвращает заказ по id или ErrOrderNotFound.
func (r *OrderRepository) Find(ctx context.Context, id int64) (*domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, p.product_name, p.unit_price
		FROM orders o
		LEFT JOIN order_products p ON p.order_id = o.id
		WHERE o.id = $1
		ORDER BY p.position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("select order %d: %w", id, err)
	}
	defer rows.Close()

	assembler, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	if assembler.Len() == 0 {
		return nil, domain.NotFound(id)
	}
	return assembler.Orders()[0], nil
}

// Import сохраняет заказы одной транзакцией. Существующий заказ сохраняет
// свою позицию в каталоге, его товары заменяются целиком.
func (r *OrderRepository) Import(ctx context.Context, orders []*domain.Order) (n int, err error) {
	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, order := range orders {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id) VALUES ($1)
			ON CONFLICT (id) DO NOTHING
		`, order.ID()); err != nil {
			return 0, fmt.Errorf("upsert order %d: %w", order.ID(), err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM order_products WHERE order_id = $1`, order.ID()); err != nil {
			return 0, fmt.Errorf("clear products of order %d: %w", order.ID(), err)
		}
		for pos, product := range order.Products() {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO order_products (order_id, position, product_name, unit_price)
				VALUES ($1, $2, $3, $4)
			`, order.ID(), pos, product.Name, product.Price); err != nil {
				return 0, fmt.Errorf("insert product %q of order %d: %w", product.Name, order.ID(), err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(orders), nil
}

func scanProducts(rows *sql.Rows) (*domain.Assembler, error) {
	assembler := domain.NewAssembler()
	for rows.Next() {
		var (
			id    int64
			name  sql.NullString
			price decimal.NullDecimal
		)
		if err := rows.Scan(&id, &name, &price); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		// Заказ без товаров приходит одной строкой с NULL из LEFT JOIN.
		if !name.Valid {
			assembler.Touch(id)
			continue
		}
		assembler.Add(id, domain.Product{Name: name.String, Price: price.Decimal})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order products: %w", err)
	}
	return assembler, nil
}

var (
	_ domain.OrderRepository = (*OrderRepository)(nil)
	_ domain.OrderImporter   = (*OrderRepository)(nil)
)
