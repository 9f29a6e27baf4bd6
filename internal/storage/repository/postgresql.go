// Package repository реализует хранилище магазина на PostgreSQL:
// учётные записи пользователей и складские позиции.
//
// Все запросы имеют статический текст с позиционными параметрами;
// пользовательский ввод никогда не подставляется в SQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/sweet-shop/internal/storage"
)

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// Options задаёт параметры пула соединений.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, connectionString string, opts Options) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Storage{DB: db}, nil
}

// NewWithDB оборачивает уже открытое соединение, используется в тестах.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{DB: db}
}

// Ping проверяет соединение с базой, используется health-check'ом.
func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// classify переводит ошибки драйвера в классы ошибок пакета storage.
// Неизвестные ошибки считаются сбоем транспорта и возвращаются как есть.
func classify(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrAlreadyExists, pgErr.ConstraintName)
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrConstraint, pgErr.Message)
		case pgerrcode.NumericValueOutOfRange:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrOutOfRange, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
