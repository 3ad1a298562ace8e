package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/database/queries"
	"github.com/egor/callcenterserver/models"
)

// RequestCall назначает контакт текущему пользователю (Claim).
// Одновременные запросы на один контакт разрешает ограничение базы:
// ровно один получает 201, остальные - 409.
func RequestCall(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		var req struct {
			ContactID string `json:"contactId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "contactId обязателен"})
			return
		}

		contactID, err := uuid.Parse(req.ContactID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор контакта"})
			return
		}

		record, err := queries.ClaimContact(db, contactID, userID)
		if err != nil {
			switch {
			case database.IsNotFound(err):
				c.JSON(http.StatusNotFound, gin.H{"error": "контакт не найден"})
			case database.IsDuplicate(err):
				c.JSON(http.StatusConflict, gin.H{"error": "контакт уже назначен"})
			default:
				respondError(c, "RequestCall", err)
			}
			return
		}

		c.JSON(http.StatusCreated, record)
	}
}

// UpdateCall применяет переход статуса к записи звонка; попутно может
// обновить имя/адрес контакта и переназначить исполнителя
func UpdateCall(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerID := c.MustGet("userID").(uuid.UUID)

		callID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор записи"})
			return
		}

		var req struct {
			Status   string  `json:"status"`
			Comments *string `json:"comments"`
			UserID   *string `json:"userId"`
			Name     *string `json:"name"`
			Address  *string `json:"address"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("UpdateCall: ошибка парсинга данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат запроса"})
			return
		}

		if req.Status == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "статус обязателен"})
			return
		}
		if !models.IsValidStatus(req.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "недопустимый статус"})
			return
		}

		params := queries.UpdateCallParams{
			Status:         req.Status,
			Comments:       req.Comments,
			ContactName:    req.Name,
			ContactAddress: req.Address,
		}
		if req.UserID != nil {
			target, err := uuid.Parse(*req.UserID)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор пользователя"})
				return
			}
			params.UserID = &target
		}

		record, err := queries.UpdateCall(db, callID, callerID, params)
		if err != nil {
			switch {
			case database.IsNotFound(err):
				c.JSON(http.StatusNotFound, gin.H{"error": "запись звонка не найдена"})
			case database.IsDuplicate(err):
				// Повторное открытие терминальной записи при уже существующей
				// активной записи на тот же контакт
				c.JSON(http.StatusConflict, gin.H{"error": "контакт уже имеет активную запись звонка"})
			default:
				respondError(c, "UpdateCall", err)
			}
			return
		}

		c.JSON(http.StatusOK, record)
	}
}

// GetMyCalls возвращает активные записи текущего пользователя
func GetMyCalls(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		calls, err := queries.ListMyCalls(db, userID)
		if err != nil {
			respondError(c, "GetMyCalls", err)
			return
		}

		c.JSON(http.StatusOK, calls)
	}
}

// GetAllCalls возвращает все записи звонков
func GetAllCalls(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		calls, err := queries.ListAllCalls(db)
		if err != nil {
			respondError(c, "GetAllCalls", err)
			return
		}

		c.JSON(http.StatusOK, calls)
	}
}

// GetFollowUps возвращает записи с одним из перечисленных статусов
func GetFollowUps(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("statuses")
		if raw == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "параметр statuses обязателен"})
			return
		}

		statuses := strings.Split(raw, ",")
		for _, s := range statuses {
			if !models.IsValidStatus(s) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "недопустимый статус: " + s})
				return
			}
		}

		calls, err := queries.ListCallsByStatuses(db, statuses)
		if err != nil {
			respondError(c, "GetFollowUps", err)
			return
		}

		c.JSON(http.StatusOK, calls)
	}
}

// GetCallByID возвращает одну запись звонка
func GetCallByID(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		callID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор записи"})
			return
		}

		record, err := queries.GetCallByID(db, callID)
		if err != nil {
			if database.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "запись звонка не найдена"})
				return
			}
			respondError(c, "GetCallByID", err)
			return
		}

		c.JSON(http.StatusOK, record)
	}
}
