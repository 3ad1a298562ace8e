package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Logger создаёт middleware для логирования HTTP запросов
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Время начала запроса
		startTime := time.Now()

		// Обрабатываем запрос
		c.Next()

		// Время выполнения запроса
		latencyTime := time.Since(startTime)

		// Получаем информацию о запросе
		method := c.Request.Method
		uri := c.Request.RequestURI
		status := c.Writer.Status()
		clientIP := c.ClientIP()

		// Идентификатор сотрудника, если запрос прошёл авторизацию
		user := "-"
		if v, ok := c.Get("userID"); ok {
			if id, ok := v.(uuid.UUID); ok {
				user = id.String()
			}
		}

		// Логируем запрос
		fmt.Printf("[GIN] %v | %3d | %13v | %15s | %-36s | %-7s %s\n",
			time.Now().Format("2006/01/02 - 15:04:05"),
			status,
			latencyTime,
			clientIP,
			user,
			method,
			uri,
		)
	}
}
