package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egor/callcenterserver/database"
)

// respondError сопоставляет классифицированную ошибку хранилища с HTTP-статусом.
// Текст ошибки драйвера никогда не попадает в ответ клиенту.
func respondError(c *gin.Context, op string, err error) {
	switch {
	case database.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "запись не найдена"})
	case database.IsDuplicate(err):
		c.JSON(http.StatusConflict, gin.H{"error": "конфликт данных"})
	case database.IsForeignKey(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "ссылка на несуществующую запись"})
	case database.IsUnavailable(err):
		log.Printf("%s: база недоступна: %v", op, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "сервис временно недоступен, повторите позже",
			"retry": true,
		})
	default:
		log.Printf("%s: внутренняя ошибка: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
	}
}
