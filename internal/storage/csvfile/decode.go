package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

// Поля строки: id заказа, название товара, цена за единицу.
const fieldsPerRow = 3

// Decode читает строки вида "id,товар,цена" и собирает из них заказы
// в порядке первого появления id. source попадает в текст ошибок.
// Пустые строки пропускаются; первая ошибка разбора прерывает чтение.
func Decode(source string, r io.Reader, header bool) ([]*domain.Order, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	assembler := domain.NewAssembler()
	skipHeader := header

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &domain.ParseError{
					Source: source,
					Line:   csvErr.Line,
					Err:    fmt.Errorf("%w: %v", domain.ErrMalformedRow, csvErr.Err),
				}
			}
			return nil, fmt.Errorf("read %s: %w", source, err)
		}

		line, _ := reader.FieldPos(0)
		if skipHeader {
			skipHeader = false
			continue
		}

		id, product, err := parseRow(record)
		if err != nil {
			return nil, &domain.ParseError{Source: source, Line: line, Err: err}
		}
		assembler.Add(id, product)
	}

	return assembler.Orders(), nil
}

func parseRow(record []string) (int64, domain.Product, error) {
	if len(record) != fieldsPerRow {
		return 0, domain.Product{}, fmt.Errorf("%w: got %d fields", domain.ErrMalformedRow, len(record))
	}

	rawID := strings.TrimSpace(record[0])
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Product{}, fmt.Errorf("%w: %q", domain.ErrInvalidOrderID, rawID)
	}

	name := strings.TrimSpace(record[1])
	if name == "" {
		return 0, domain.Product{}, domain.ErrEmptyProductName
	}

	rawPrice := strings.TrimSpace(record[2])
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return 0, domain.Product{}, fmt.Errorf("%w: %q", domain.ErrInvalidPrice, rawPrice)
	}

	return id, domain.Product{Name: name, Price: price}, nil
}
