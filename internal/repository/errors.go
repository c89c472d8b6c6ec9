package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shenikar/flood_watch/internal/models"
)

// mapError переводит ошибки драйвера в ошибки модели
func mapError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", msg, models.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return fmt.Errorf("%s: %w", msg, models.ErrAlreadyExists)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: referenced record does not exist: %w", msg, models.ErrNotFound)
		case pgerrcode.CheckViolation:
			return fmt.Errorf("%s: %s: %w", msg, pgErr.ConstraintName, models.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// notFound ошибка для команд, не затронувших ни одной строки
func notFound(entity string, id any) error {
	return fmt.Errorf("%s with id %v not found: %w", entity, id, models.ErrNotFound)
}

// rowScanner общий интерфейс pgx.Row и pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// collect сканирует все строки выборки функцией scan
func collect[T any](rows pgx.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()
	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return items, nil
}
