// Утилита миграций схемы. Схема (включая частичный уникальный индекс,
// на который опирается назначение контактов) лежит в каталоге migrations/.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("Переменная окружения DATABASE_URL обязательна")
	}

	migrationsPath := os.Getenv("MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}

	m, err := migrate.New("file://"+migrationsPath, dbURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации миграций: %v", err)
	}
	defer m.Close()

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Ошибка применения миграций: %v", err)
		}
		log.Println("Миграции применены")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				log.Fatalf("down: неверный аргумент шагов %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Ошибка отката миграций: %v", err)
		}
		log.Printf("Откат на %d миграций выполнен", steps)

	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatalf("Ошибка получения версии: %v", err)
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)

	case "force":
		if len(args) < 2 {
			log.Fatal("force: требуется аргумент версии")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("force: неверная версия %q", args[1])
		}
		if err := m.Force(v); err != nil {
			log.Fatalf("Ошибка установки версии: %v", err)
		}
		log.Printf("Версия миграций принудительно установлена: %d", v)

	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Использование: migrate <команда> [аргументы]

Команды:
  up           Применить все миграции
  down [N]     Откатить N миграций (по умолчанию 1)
  version      Показать текущую версию
  force <V>    Принудительно установить версию

Окружение:
  DATABASE_URL      Обязательно. Полный DSN базы (pgx5://...).
  MIGRATIONS_PATH   Каталог миграций (по умолчанию ./migrations)`)
}
