// Package numeric разбирает цены и количества, пришедшие из JSON или query-строки
// числом либо строкой, в строго типизированные значения.
//
// Цена хранится в копейках (Cents), чтобы не терять точность на float64.
package numeric

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	// ErrMissing значение не передано.
	ErrMissing = errors.New("is required")
	// ErrMalformed значение не является числом.
	ErrMalformed = errors.New("must be a number")
	// ErrNegative значение меньше нуля.
	ErrNegative = errors.New("must not be negative")
	// ErrPrecision у цены больше двух знаков после запятой.
	ErrPrecision = errors.New("must have at most two decimal places")
	// ErrNotInteger количество должно быть целым.
	ErrNotInteger = errors.New("must be an integer")
	// ErrOutOfRange значение не помещается в колонку хранилища.
	ErrOutOfRange = errors.New("is out of range")
)

// MaxCents соответствует NUMERIC(10,2): 99 999 999.99.
const MaxCents Cents = 9_999_999_999

// MaxQuantity соответствует колонке INTEGER.
const MaxQuantity = math.MaxInt32

// Loose хранит сырое числовое значение из запроса до разбора.
// Нулевое значение означает «поле не передано».
type Loose struct {
	raw string
	set bool
}

// String создаёт Loose из строки, например из query-параметра.
// Пустая строка считается непереданным значением.
func String(s string) Loose {
	s = strings.TrimSpace(s)
	return Loose{raw: s, set: s != ""}
}

// Int создаёт Loose из целого числа.
func Int(n int64) Loose {
	return Loose{raw: strconv.FormatInt(n, 10), set: true}
}

// IsSet сообщает, было ли значение передано.
func (l Loose) IsSet() bool { return l.set }

// Raw возвращает исходное представление значения.
func (l Loose) Raw() string { return l.raw }

// UnmarshalJSON принимает число, строку или null.
// Любой другой токен сохраняется как есть и отклоняется на этапе разбора.
func (l *Loose) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = Loose{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("numeric.Loose: %w", err)
		}
		*l = Loose{raw: strings.TrimSpace(s), set: true}
	default:
		*l = Loose{raw: string(data), set: true}
	}
	return nil
}

// MarshalJSON нужен для логирования запросов.
func (l Loose) MarshalJSON() ([]byte, error) {
	if !l.set {
		return []byte("null"), nil
	}
	return json.Marshal(l.raw)
}

// parseRat разбирает десятичную запись. Дроби "1/3" и префиксы "0x" не принимаются.
func parseRat(s string) (*big.Rat, error) {
	if s == "" {
		return nil, ErrMissing
	}
	if strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789.+-eE", r)
	}) >= 0 {
		return nil, ErrMalformed
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, ErrMalformed
	}
	return r, nil
}

// ParsePrice разбирает неотрицательную цену с точностью до копейки.
func ParsePrice(l Loose) (Cents, error) {
	if !l.set {
		return 0, ErrMissing
	}
	return ParseCents(l.raw)
}

// ParseCents разбирает десятичную строку вида "12.50" в копейки.
func ParseCents(s string) (Cents, error) {
	r, err := parseRat(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if r.Sign() < 0 {
		return 0, ErrNegative
	}
	r.Mul(r, big.NewRat(100, 1))
	if !r.IsInt() {
		return 0, ErrPrecision
	}
	n := r.Num()
	if !n.IsInt64() || Cents(n.Int64()) > MaxCents {
		return 0, ErrOutOfRange
	}
	return Cents(n.Int64()), nil
}

// ParseQuantity разбирает неотрицательное целое количество.
// Запись "25.0" допускается, "25.5" нет.
func ParseQuantity(l Loose) (int, error) {
	if !l.set {
		return 0, ErrMissing
	}
	r, err := parseRat(l.raw)
	if err != nil {
		return 0, err
	}
	if !r.IsInt() {
		return 0, ErrNotInteger
	}
	if r.Sign() < 0 {
		return 0, ErrNegative
	}
	n := r.Num()
	if !n.IsInt64() || n.Int64() > MaxQuantity {
		return 0, ErrOutOfRange
	}
	return int(n.Int64()), nil
}

// Cents — денежная сумма в копейках.
type Cents int64

// FromFloat переводит цену в копейки с округлением, используется в тестах и сидерах.
func FromFloat(f float64) Cents {
	return Cents(math.Round(f * 100))
}

// String возвращает сумму в виде "12.50".
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON отдаёт цену JSON-числом с двумя знаками после запятой.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON принимает число или строку; нужен для чтения из кеша.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var l Loose
	if err := l.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := ParsePrice(l)
	if err != nil {
		return fmt.Errorf("numeric.Cents: %q %w", l.raw, err)
	}
	*c = v
	return nil
}

// Scan читает NUMERIC из базы данных.
func (c *Cents) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case float64:
		*c = FromFloat(v)
		return nil
	case int64:
		*c = Cents(v * 100)
		return nil
	default:
		return fmt.Errorf("numeric.Cents: unsupported scan type %T", src)
	}
	v, err := ParseCents(s)
	if err != nil {
		return fmt.Errorf("numeric.Cents: %q %w", s, err)
	}
	*c = v
	return nil
}

// Value передаёт цену в базу строкой, которую PostgreSQL приводит к NUMERIC без потерь.
func (c Cents) Value() (driver.Value, error) {
	return c.String(), nil
}
