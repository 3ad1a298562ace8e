// internal/database/errors.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Сентинельные ошибки хранилища. Обработчики сопоставляют их с HTTP-статусами,
// не раскрывая клиенту текст ошибки драйвера.
var (
	// ErrNotFound - запрос не нашёл ни одной строки.
	ErrNotFound = errors.New("запись не найдена")

	// ErrDuplicate - нарушение уникального ограничения. Для таблицы звонков
	// это означает, что контакт уже имеет активную запись.
	ErrDuplicate = errors.New("нарушение уникальности")

	// ErrForeignKey - ссылка на несуществующую строку.
	ErrForeignKey = errors.New("нарушение внешнего ключа")

	// ErrUnavailable - база недоступна или запрос превысил тайм-аут.
	// Клиент может повторить запрос позже.
	ErrUnavailable = errors.New("база данных временно недоступна")
)

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsDuplicate(err error) bool   { return errors.Is(err, ErrDuplicate) }
func IsForeignKey(err error) bool  { return errors.Is(err, ErrForeignKey) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// Classify переводит ошибку драйвера в сентинельную ошибку пакета,
// сохраняя исходную причину через %w-цепочку.
// Коды SQLSTATE: https://www.postgresql.org/docs/current/errcodes-appendix.html
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	// Тайм-аут контекста запроса - повторяемая ошибка
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505": // unique_violation
			return fmt.Errorf("%s: %w: %s", op, ErrDuplicate, pgErr.ConstraintName)
		case pgErr.Code == "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w: %s", op, ErrForeignKey, pgErr.ConstraintName)
		case pgErr.Code == "57014": // query_canceled (statement_timeout)
			return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
		case strings.HasPrefix(pgErr.Code, "08"): // connection exception
			return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	// Сетевые сбои (обрыв соединения, DNS, TLS) - тоже повторяемые
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	return fmt.Errorf("%s: %w", op, err)
}
