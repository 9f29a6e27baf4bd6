package models

import (
	"time"

	"github.com/magabrotheeeer/sweet-shop/internal/lib/numeric"
)

// Sweet — позиция на складе.
type Sweet struct {
	ID        int64         `json:"id"`
	Name      string        `json:"name"`
	Category  string        `json:"category"`
	Price     numeric.Cents `json:"price"`
	Quantity  int           `json:"quantity"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SweetInput принимает поля товара из JSON до разбора.
// Цена и количество могут прийти как числом, так и строкой.
type SweetInput struct {
	Name     string        `json:"name"`
	Category string        `json:"category"`
	Price    numeric.Loose `json:"price"`
	Quantity numeric.Loose `json:"quantity"`
}

// SweetFields — проверенные поля товара, которые пишутся в хранилище.
type SweetFields struct {
	Name     string        `json:"name" validate:"required"`
	Category string        `json:"category" validate:"required"`
	Price    numeric.Cents `json:"price" validate:"gte=0"`
	Quantity int           `json:"quantity" validate:"gte=0"`
}

// SearchParams — сырые параметры поиска из query-строки.
type SearchParams struct {
	Name     string
	Category string
	MinPrice string
	MaxPrice string
}

// SweetFilter передаётся в хранилище; nil-поле не ограничивает выборку.
type SweetFilter struct {
	Name     *string
	Category *string
	MinPrice *numeric.Cents
	MaxPrice *numeric.Cents
}

// LowStockEvent публикуется, когда после покупки остаток опускается до порога.
type LowStockEvent struct {
	SweetID    int64     `json:"sweet_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Threshold  int       `json:"threshold"`
	OccurredAt time.Time `json:"occurred_at"`
}
