package queries

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/models"
)

// CreateUser создаёт профиль сотрудника с хешем пароля.
// Повторная регистрация на тот же email возвращает ErrDuplicate.
func CreateUser(db *sql.DB, user *models.User) error {
	ctx, cancel := queryContext()
	defer cancel()

	const q = `
		INSERT INTO users(id,email,full_name,username,password_hash,is_admin,created_at)
		VALUES($1,$2,$3,$4,$5,$6,$7)`
	if _, err := db.ExecContext(ctx, q,
		user.ID, user.Email, user.FullName, user.Username,
		user.PasswordHash, user.IsAdmin, user.CreatedAt,
	); err != nil {
		return database.Classify("CreateUser", err)
	}

	log.Printf("CreateUser: создан профиль %s (ID: %s, admin=%v)", user.Email, user.ID, user.IsAdmin)
	return nil
}

// EnsureProfile идемпотентно создаёт строку профиля, если её ещё нет.
// Вызывается в начале путей записи, которым нужен внешний ключ на users.
func EnsureProfile(db *sql.DB, id uuid.UUID, email string) error {
	ctx, cancel := queryContext()
	defer cancel()

	username := email
	if i := strings.Index(email, "@"); i > 0 {
		username = email[:i]
	}

	const q = `
		INSERT INTO users(id,email,full_name,username,is_admin,created_at)
		VALUES($1,$2,'',$3,FALSE,$4)
		ON CONFLICT (id) DO NOTHING`
	if _, err := db.ExecContext(ctx, q, id, email, username, time.Now()); err != nil {
		return database.Classify("EnsureProfile", err)
	}
	return nil
}

// GetUserByEmail возвращает профиль по email (для аутентификации).
func GetUserByEmail(db *sql.DB, email string) (*models.User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var user models.User
	var hashNull sql.NullString

	const q = `
		SELECT id,email,full_name,username,password_hash,is_admin,created_at
		  FROM users
		 WHERE email=$1`
	if err := db.QueryRowContext(ctx, q, email).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Username,
		&hashNull, &user.IsAdmin, &user.CreatedAt,
	); err != nil {
		return nil, database.Classify("GetUserByEmail", err)
	}
	user.PasswordHash = hashNull.String
	return &user, nil
}

// GetUserByID возвращает профиль по идентификатору.
func GetUserByID(db *sql.DB, id uuid.UUID) (*models.User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var user models.User
	var hashNull sql.NullString

	const q = `
		SELECT id,email,full_name,username,password_hash,is_admin,created_at
		  FROM users
		 WHERE id=$1`
	if err := db.QueryRowContext(ctx, q, id).Scan(
		&user.ID, &user.Email, &user.FullName, &user.Username,
		&hashNull, &user.IsAdmin, &user.CreatedAt,
	); err != nil {
		return nil, database.Classify("GetUserByID", err)
	}
	user.PasswordHash = hashNull.String
	return &user, nil
}

// IsAdmin проверяет флаг администратора по идентификатору пользователя.
func IsAdmin(db *sql.DB, id uuid.UUID) (bool, error) {
	ctx, cancel := queryContext()
	defer cancel()

	var isAdmin bool
	if err := db.QueryRowContext(ctx,
		"SELECT is_admin FROM users WHERE id=$1", id,
	).Scan(&isAdmin); err != nil {
		return false, database.Classify("IsAdmin", err)
	}
	return isAdmin, nil
}

// ListUsers возвращает всех сотрудников, отсортированных по имени.
func ListUsers(db *sql.DB) ([]models.User, error) {
	ctx, cancel := queryContext()
	defer cancel()

	const q = `
		SELECT id,email,full_name,username,is_admin,created_at
		  FROM users
		 ORDER BY full_name ASC`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, database.Classify("ListUsers", err)
	}
	defer rows.Close()

	var list []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Email, &user.FullName, &user.Username,
			&user.IsAdmin, &user.CreatedAt,
		); err != nil {
			return nil, database.Classify("ListUsers: scan", err)
		}
		list = append(list, user)
	}
	if err := rows.Err(); err != nil {
		return nil, database.Classify("ListUsers: rows", err)
	}
	return list, nil
}
