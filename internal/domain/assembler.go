package domain

// Assembler собирает заказы из плоских строк (id, товар, цена).
// Заказы выдаются в порядке первого появления их ID.
type Assembler struct {
	index  map[int64]*Order
	orders []*Order
}

// NewAssembler создаёт пустой сборщик.
func NewAssembler() *Assembler {
	return &Assembler{index: make(map[int64]*Order)}
}

// Touch регистрирует заказ без добавления товаров.
func (a *Assembler) Touch(id int64) *Order {
	if order, ok := a.index[id]; ok {
		return order
	}
	order := NewOrder(id)
	a.index[id] = order
	a.orders = append(a.orders, order)
	return order
}

// Add добавляет товар в заказ id. Повтор товара внутри заказа обновляет цену.
func (a *Assembler) Add(id int64, product Product) {
	order := a.Touch(id)
	order.products.Set(product.Name, product.Price)
}

// Len возвращает число различных заказов.
func (a *Assembler) Len() int {
	return len(a.orders)
}

// Orders возвращает собранные заказы.
func (a *Assembler) Orders() []*Order {
	out := make([]*Order, len(a.orders))
	copy(out, a.orders)
	return out
}
