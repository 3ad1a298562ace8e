// Скрипт наполнения базы тестовыми данными для разработки.
// Схему предварительно применяет cmd/migrate.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	// Подключаемся к базе данных
	db, err := sql.Open("pgx", buildDSN())
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Ошибка проверки соединения с БД: %v", err)
	}
	log.Println("Успешное подключение к базе данных")

	// Создаем администратора по умолчанию
	adminID := uuid.New()
	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Ошибка хеширования пароля: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (id, email, full_name, username, password_hash, is_admin)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		ON CONFLICT (email) DO NOTHING
	`, adminID, "admin@mejorra.com", "Администратор", "admin", string(passwordHash))
	if err != nil {
		log.Fatalf("Ошибка создания администратора: %v", err)
	}
	log.Printf("Создан администратор по умолчанию с ID: %s", adminID)

	// Создаем нескольких тестовых сотрудников
	users := []struct {
		fullName string
		email    string
		username string
	}{
		{"Иван Петров", "ivan@example.com", "ivan"},
		{"Мария Сидорова", "maria@example.com", "maria"},
		{"Алексей Иванов", "alexey@example.com", "alexey"},
	}

	for _, user := range users {
		userID := uuid.New()
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Ошибка хеширования пароля: %v", err)
		}
		_, err = db.Exec(`
			INSERT INTO users (id, email, full_name, username, password_hash, is_admin)
			VALUES ($1, $2, $3, $4, $5, FALSE)
			ON CONFLICT (email) DO NOTHING
		`, userID, user.email, user.fullName, user.username, string(hash))
		if err != nil {
			log.Fatalf("Ошибка создания сотрудника %s: %v", user.fullName, err)
		}
		log.Printf("Создан сотрудник %s с ID: %s", user.fullName, userID)
	}

	// Создаем тестовые контакты
	contacts := []struct {
		name    string
		number  string
		address string
	}{
		{"Сергей Козлов", "+7 900 100-10-01", "г. Москва, ул. Ленина, 1"},
		{"Ольга Новикова", "+7 900 100-10-02", ""},
		{"Дмитрий Волков", "+7 900 100-10-03", "г. Казань, ул. Баумана, 7"},
		{"Анна Морозова", "+7 900 100-10-04", ""},
		{"Павел Соколов", "+7 900 100-10-05", "г. Санкт-Петербург, Невский пр., 20"},
	}

	now := time.Now()
	for i, contact := range contacts {
		var address sql.NullString
		if contact.address != "" {
			address = sql.NullString{String: contact.address, Valid: true}
		}
		_, err = db.Exec(`
			INSERT INTO contacts (id, name, number, address, uploaded_by, uploaded_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.New(), contact.name, contact.number, address, adminID,
			now.Add(-time.Duration(i*24)*time.Hour))
		if err != nil {
			log.Fatalf("Ошибка создания контакта %s: %v", contact.name, err)
		}
	}
	log.Printf("Создано %d тестовых контактов", len(contacts))

	log.Println("База данных успешно наполнена тестовыми данными")
}

func buildDSN() string {
	host := env("PG_HOST", "localhost")
	port := env("PG_PORT", "5432")
	user := env("PG_USER", "postgres")
	password := os.Getenv("PG_PASSWORD")
	dbname := env("PG_DATABASE", "callcenter")
	sslmode := env("PG_SSL_MODE", "disable")

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
