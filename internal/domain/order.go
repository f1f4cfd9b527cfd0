package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SalesTaxRate задаёт ставку налога с продаж (7.5%) от суммы позиций.
var SalesTaxRate = decimal.RequireFromString("0.075")

// Налог округляется до центов.
const taxPlaces = 2

// Product описывает позицию заказа: название товара и цену за единицу.
type Product struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Order хранит идентификатор заказа и набор товаров с ценами.
// Порядок товаров совпадает с порядком добавления.
type Order struct {
	id       int64
	products *orderedmap.OrderedMap[string, decimal.Decimal]
}

// NewOrder создаёт заказ с начальным набором товаров.
// Повтор названия перезаписывает цену, сохраняя позицию первого вхождения.
func NewOrder(id int64, products ...Product) *Order {
	o := &Order{
		id:       id,
		products: orderedmap.New[string, decimal.Decimal](),
	}
	for _, p := range products {
		o.products.Set(p.Name, p.Price)
	}
	return o
}

// ID возвращает идентификатор заказа.
func (o *Order) ID() int64 {
	return o.id
}

// Products возвращает копию списка товаров в порядке добавления.
func (o *Order) Products() []Product {
	if o.products == nil {
		return []Product{}
	}
	out := make([]Product, 0, o.products.Len())
	for pair := o.products.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Product{Name: pair.Key, Price: pair.Value})
	}
	return out
}

// ProductCount возвращает количество товаров в заказе.
func (o *Order) ProductCount() int {
	if o.products == nil {
		return 0
	}
	return o.products.Len()
}

// HasProduct сообщает, есть ли товар с таким названием.
func (o *Order) HasProduct(name string) bool {
	_, ok := o.Price(name)
	return ok
}

// Price возвращает цену товара и признак его наличия.
func (o *Order) Price(name string) (decimal.Decimal, bool) {
	if o.products == nil {
		return decimal.Zero, false
	}
	return o.products.Get(name)
}

// Subtotal возвращает сумму цен всех товаров без налога.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	if o.products == nil {
		return sum
	}
	for pair := o.products.Oldest(); pair != nil; pair = pair.Next() {
		sum = sum.Add(pair.Value)
	}
	return sum
}

// Tax возвращает налог с продаж, округлённый до центов.
func (o *Order) Tax() decimal.Decimal {
	return o.Subtotal().Mul(SalesTaxRate).Round(taxPlaces)
}

// Total возвращает сумму заказа с налогом.
// Округляется только налог; сумма позиций прибавляется как есть.
func (o *Order) Total() decimal.Decimal {
	subtotal := o.Subtotal()
	return subtotal.Add(subtotal.Mul(SalesTaxRate).Round(taxPlaces))
}

// AddProduct добавляет товар, если его ещё нет в заказе.
// Возвращает false и ничего не меняет, если товар уже есть.
func (o *Order) AddProduct(name string, price decimal.Decimal) bool {
	if o.products == nil {
		o.products = orderedmap.New[string, decimal.Decimal]()
	}
	if _, exists := o.products.Get(name); exists {
		return false
	}
	o.products.Set(name, price)
	return true
}

// RemoveProduct удаляет товар из заказа.
// Возвращает false, если такого товара не было.
func (o *Order) RemoveProduct(name string) bool {
	if o.products == nil {
		return false
	}
	_, existed := o.products.Delete(name)
	return existed
}

// Clone возвращает независимую копию заказа.
func (o *Order) Clone() *Order {
	return NewOrder(o.id, o.Products()...)
}

// Equal сравнивает заказы по идентификатору и упорядоченному списку товаров.
func (o *Order) Equal(other *Order) bool {
	if o == nil || other == nil {
		return o == other
	}
	if o.id != other.id || o.ProductCount() != other.ProductCount() {
		return false
	}
	mine, theirs := o.Products(), other.Products()
	for i := range mine {
		if mine[i].Name != theirs[i].Name || !mine[i].Price.Equal(theirs[i].Price) {
			return false
		}
	}
	return true
}

type orderJSON struct {
	ID       int64           `json:"id"`
	Products []Product       `json:"products"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// MarshalJSON сериализует заказ вместе с расчётом суммы.
func (o *Order) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderJSON{
		ID:       o.id,
		Products: o.Products(),
		Subtotal: o.Subtotal(),
		Tax:      o.Tax(),
		Total:    o.Total(),
	})
}

// UnmarshalJSON восстанавливает идентификатор и товары; суммы пересчитываются.
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw orderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*o = *NewOrder(raw.ID, raw.Products...)
	return nil
}
