package middleware

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/database/queries"
)

// RequireAdmin пропускает только администраторов. Флаг перечитывается из базы
// на каждый запрос, чтобы отзыв прав действовал без перевыпуска токена.
func RequireAdmin(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.MustGet("userID").(uuid.UUID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			c.Abort()
			return
		}

		isAdmin, err := queries.IsAdmin(db, userID)
		if err != nil {
			switch {
			case database.IsNotFound(err):
				// Токен валиден, но строки профиля нет - значит не администратор
				c.JSON(http.StatusForbidden, gin.H{"error": "доступ только для администраторов"})
			case database.IsUnavailable(err):
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "сервис временно недоступен, повторите позже"})
			default:
				log.Printf("RequireAdmin: ошибка проверки прав %s: %v", userID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось проверить права доступа"})
			}
			c.Abort()
			return
		}

		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "доступ только для администраторов"})
			c.Abort()
			return
		}

		c.Next()
	}
}
