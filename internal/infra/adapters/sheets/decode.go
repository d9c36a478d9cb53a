package sheets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
)

// Row decoding is positional. The values API trims trailing empty cells, so
// a row may legally arrive shorter than its range; optional tail columns get
// a sensible default instead of failing the row.

func decodeInventoryRow(row []any) (entity.InventoryItem, error) {
	if len(row) < 4 {
		return entity.InventoryItem{}, fmt.Errorf("want at least 4 cells, got %d", len(row))
	}

	id, err := cellInt64(row[0])
	if err != nil {
		return entity.InventoryItem{}, fmt.Errorf("id: %w", err)
	}
	name := cellString(row[1])
	if name == "" {
		return entity.InventoryItem{}, errors.New("empty name")
	}
	price, err := cellDecimal(row[2])
	if err != nil {
		return entity.InventoryItem{}, fmt.Errorf("price: %w", err)
	}
	quantity, err := cellInt(row[3])
	if err != nil {
		return entity.InventoryItem{}, fmt.Errorf("quantity: %w", err)
	}

	available := quantity > 0
	if len(row) > 4 && cellString(row[4]) != "" {
		available = cellBool(row[4])
	}

	return entity.InventoryItem{
		ID:          id,
		Name:        name,
		Price:       price,
		Quantity:    quantity,
		IsAvailable: available,
	}, nil
}

func decodeFAQRow(row []any) (entity.FAQ, error) {
	if len(row) < 3 {
		return entity.FAQ{}, fmt.Errorf("want at least 3 cells, got %d", len(row))
	}

	id, err := cellInt64(row[0])
	if err != nil {
		return entity.FAQ{}, fmt.Errorf("id: %w", err)
	}
	question := cellString(row[1])
	answer := cellString(row[2])
	if question == "" || answer == "" {
		return entity.FAQ{}, errors.New("empty question or answer")
	}

	active := true
	if len(row) > 3 && cellString(row[3]) != "" {
		active = cellBool(row[3])
	}

	return entity.FAQ{ID: id, Question: question, Answer: answer, IsActive: active}, nil
}

// Cells arrive as strings under the default FORMATTED_VALUE rendering, but
// numbers and booleans are possible too, so every coercion accepts both.

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func cellInt64(v any) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, errors.New("empty cell")
		}
		return strconv.ParseInt(s, 10, 64)
	default:
		return 0, fmt.Errorf("cell %v is not an integer", v)
	}
}

func cellInt(v any) (int, error) {
	n, err := cellInt64(v)
	return int(n), err
}

func cellDecimal(v any) (decimal.Decimal, error) {
	switch t := v.(type) {
	case float64:
		return decimal.NewFromFloat(t), nil
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimPrefix(s, "$")
		if s == "" {
			return decimal.Zero, errors.New("empty cell")
		}
		return decimal.NewFromString(s)
	default:
		return decimal.Zero, fmt.Errorf("cell %v is not a number", v)
	}
}

// cellBool implements the flag rule for availability and active columns:
// any capitalization of "true" is true, every other value is false.
func cellBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	default:
		return strings.EqualFold(cellString(v), "true")
	}
}
