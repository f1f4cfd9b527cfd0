package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNotFound возвращается, если заказа с таким ID нет в источнике.
	ErrOrderNotFound = errors.New("order not found")
	// Ошибка строки с неверным количеством полей.
	ErrMalformedRow = errors.New("malformed row: expected order id, product name, unit price")
	// Ошибка нечислового или неположительного идентификатора заказа.
	ErrInvalidOrderID = errors.New("order id must be a positive integer")
	// Ошибка цены, которую не удалось разобрать как число.
	ErrInvalidPrice = errors.New("unit price is not a number")
	// Ошибка пустого названия товара.
	ErrEmptyProductName = errors.New("product name is required")
)

// ParseError описывает строку источника, которую не удалось разобрать.
type ParseError struct {
	Source string
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsNotFound проверяет, означает ли ошибка отсутствие заказа.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

// IsParseError проверяет, вызвана ли ошибка разбором источника.
func IsParseError(err error) bool {
	var perr *ParseError
	return errors.As(err, &perr)
}

// NotFound оборачивает ErrOrderNotFound идентификатором заказа.
func NotFound(id int64) error {
	return fmt.Errorf("%w: id=%d", ErrOrderNotFound, id)
}
