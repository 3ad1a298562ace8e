// internal/database/helpers.go
package database

import (
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// NullStringToPointer превращает sql.NullString → *string.
func NullStringToPointer(ns sql.NullString) *string {
	if ns.Valid {
		s := ns.String
		return &s
	}
	return nil
}

// PointerToNullString превращает *string → sql.NullString.
func PointerToNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// TrimmedNullString нормализует опциональное текстовое поле: пустая после
// обрезки строка хранится как NULL, а не как ''.
func TrimmedNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

// NullUUIDToPointer разбирает sql.NullString с UUID внутри.
func NullUUIDToPointer(ns sql.NullString) (*uuid.UUID, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	u, err := uuid.Parse(ns.String)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
