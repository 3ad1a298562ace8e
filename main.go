package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/handlers"
	"github.com/egor/callcenterserver/middleware"
)

func main() {
	// Загружаем переменные окружения из .env файла
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используем переменные окружения")
	}

	// Инициализация базы данных
	db, err := database.Init()
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Инициализация роутера Gin
	r := gin.Default()

	// Добавляем middleware для логирования
	r.Use(middleware.Logger())

	// Настройка CORS для взаимодействия с фронтендом
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// API эндпоинты
	api := r.Group("/api")
	{
		// Эндпоинты авторизации (публичные)
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Проверка работоспособности
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":    "ok",
				"database":  "postgres",
				"timestamp": time.Now().Format(time.RFC3339),
			})
		})

		// Защищенные маршруты
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			authorized.GET("/auth/me", handlers.Me(db))

			// Эндпоинты контактов
			contacts := authorized.Group("/contacts")
			{
				contacts.GET("", handlers.GetContacts(db))
				contacts.GET("/available", handlers.GetAvailableContacts(db))
				contacts.POST("", handlers.CreateContact(db))
				contacts.POST("/bulk", handlers.BulkUploadContacts(db))
				contacts.GET("/:id", handlers.GetContactByID(db))
			}

			// Эндпоинты звонков
			calls := authorized.Group("/calls")
			{
				calls.POST("/request", handlers.RequestCall(db))
				calls.GET("/my-calls", handlers.GetMyCalls(db))
				calls.GET("", handlers.GetAllCalls(db))
				calls.GET("/follow-ups/by-status", handlers.GetFollowUps(db))
				calls.PUT("/:id", handlers.UpdateCall(db))
				calls.GET("/:id", handlers.GetCallByID(db))
			}

			// Эндпоинты админки
			authorized.GET("/admin/check", handlers.CheckAdmin(db))

			admin := authorized.Group("/admin")
			admin.Use(middleware.RequireAdmin(db))
			{
				admin.GET("/stats", handlers.GetStats(db))
				admin.GET("/contacts-monthly", handlers.GetContactsMonthly(db))
				admin.GET("/contacts-all", handlers.GetContactsAll(db))
				admin.GET("/contacts-this-month", handlers.GetContactsThisMonth(db))
				admin.GET("/calls-today", handlers.GetCallsToday(db))
				admin.GET("/calls-daily", handlers.GetCallsDaily(db))
				admin.GET("/team-performance", handlers.GetTeamPerformance(db))
				admin.GET("/yearly-report", handlers.GetYearlyReport(db))
			}
		}
	}

	// Запуск сервера
	port := os.Getenv("PORT")
	if port == "" {
		port = "5001"
	}
	log.Printf("Сервер запущен на порту :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
