package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/sweet-shop/internal/lib/numeric"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
	"github.com/magabrotheeeer/sweet-shop/internal/storage"
)

const sweetColumns = `id, name, category, price::text, quantity, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweet(row rowScanner) (*models.Sweet, error) {
	var sw models.Sweet
	if err := row.Scan(&sw.ID, &sw.Name, &sw.Category, &sw.Price, &sw.Quantity,
		&sw.CreatedAt, &sw.UpdatedAt); err != nil {
		return nil, err
	}
	return &sw, nil
}

// GetSweet возвращает позицию по ID или storage.ErrNotFound.
func (s *Storage) GetSweet(ctx context.Context, id int64) (*models.Sweet, error) {
	const op = "storage.GetSweet"

	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(op, err)
	}
	return sw, nil
}

// ListSweets возвращает позиции, подходящие под фильтр, отсортированные по имени
// (побайтовое сравнение) и затем по ID. Пустой фильтр возвращает весь склад.
func (s *Storage) ListSweets(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error) {
	const op = "storage.ListSweets"

	query := `SELECT ` + sweetColumns + `
			  FROM sweets
			  WHERE ($1::text IS NULL OR name ILIKE '%' || $1::text || '%' ESCAPE '\')
			    AND ($2::text IS NULL OR category ILIKE '%' || $2::text || '%' ESCAPE '\')
			    AND ($3::numeric IS NULL OR price >= $3::numeric)
			    AND ($4::numeric IS NULL OR price <= $4::numeric)
			  ORDER BY name COLLATE "C", id`

	rows, err := s.DB.QueryContext(ctx, query,
		likeArg(filter.Name), likeArg(filter.Category),
		priceArg(filter.MinPrice), priceArg(filter.MaxPrice))
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Sweet, 0)
	for rows.Next() {
		sw, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, sw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateSweet добавляет позицию; created_at и updated_at выставляются базой.
func (s *Storage) CreateSweet(ctx context.Context, fields models.SweetFields) (*models.Sweet, error) {
	const op = "storage.CreateSweet"

	query := `INSERT INTO sweets (name, category, price, quantity)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + sweetColumns
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query,
		fields.Name, fields.Category, fields.Price, fields.Quantity))
	if err != nil {
		return nil, classify(op, err)
	}
	return sw, nil
}

// UpdateSweet перезаписывает все четыре поля позиции и обновляет updated_at.
func (s *Storage) UpdateSweet(ctx context.Context, id int64, fields models.SweetFields) (*models.Sweet, error) {
	const op = "storage.UpdateSweet"

	query := `UPDATE sweets
			  SET name = $1, category = $2, price = $3, quantity = $4, updated_at = NOW()
			  WHERE id = $5
			  RETURNING ` + sweetColumns
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query,
		fields.Name, fields.Category, fields.Price, fields.Quantity, id))
	if err != nil {
		return nil, classify(op, err)
	}
	return sw, nil
}

// DeleteSweet удаляет позицию и возвращает её последнее состояние.
func (s *Storage) DeleteSweet(ctx context.Context, id int64) (*models.Sweet, error) {
	const op = "storage.DeleteSweet"

	query := `DELETE FROM sweets WHERE id = $1 RETURNING ` + sweetColumns
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, classify(op, err)
	}
	return sw, nil
}

// AdjustQuantity атомарно изменяет остаток на delta одним условным UPDATE:
// строка меняется, только если итоговое количество не станет отрицательным.
// Если строка не изменена, повторный запрос отличает storage.ErrNotFound
// от storage.ErrInsufficient.
func (s *Storage) AdjustQuantity(ctx context.Context, id int64, delta int) (*models.Sweet, error) {
	const op = "storage.AdjustQuantity"

	query := `UPDATE sweets
			  SET quantity = quantity + $1, updated_at = NOW()
			  WHERE id = $2 AND quantity + $1 >= 0
			  RETURNING ` + sweetColumns
	sw, err := scanSweet(s.DB.QueryRowContext(ctx, query, delta, id))
	if err == nil {
		return sw, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, classify(op, err)
	}

	var exists bool
	if err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM sweets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, classify(op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrInsufficient)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeArg экранирует шаблонные символы LIKE, чтобы подстрока искалась буквально.
func likeArg(v *string) any {
	if v == nil {
		return nil
	}
	return likeEscaper.Replace(*v)
}

func priceArg(v *numeric.Cents) any {
	if v == nil {
		return nil
	}
	return v.String()
}
