package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/egor/callcenterserver/database/queries"
	"github.com/egor/callcenterserver/models"
)

// GetContacts возвращает контакты, свободные либо назначенные текущему
// пользователю, вместе с их активной записью звонка
func GetContacts(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		contacts, err := queries.ListContactsForUser(db, userID)
		if err != nil {
			respondError(c, "GetContacts", err)
			return
		}

		c.JSON(http.StatusOK, contacts)
	}
}

// GetAvailableContacts возвращает контакты без активной записи звонка
func GetAvailableContacts(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		contacts, err := queries.ListAvailableContacts(db)
		if err != nil {
			respondError(c, "GetAvailableContacts", err)
			return
		}

		c.JSON(http.StatusOK, contacts)
	}
}

// GetContactByID возвращает один контакт
func GetContactByID(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный идентификатор контакта"})
			return
		}

		contact, err := queries.GetContactByID(db, id)
		if err != nil {
			respondError(c, "GetContactByID", err)
			return
		}

		c.JSON(http.StatusOK, contact)
	}
}

// CreateContact загружает один контакт
func CreateContact(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)
		email := c.MustGet("email").(string)

		var in models.NewContact
		if err := c.ShouldBindJSON(&in); err != nil {
			log.Printf("CreateContact: ошибка парсинга данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат запроса"})
			return
		}

		if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Number) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "имя и номер обязательны"})
			return
		}

		// Гарантируем наличие строки профиля перед записью с внешним ключом
		if err := queries.EnsureProfile(db, userID, email); err != nil {
			respondError(c, "CreateContact", err)
			return
		}

		contact, err := queries.CreateContact(db, userID, in)
		if err != nil {
			respondError(c, "CreateContact", err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":          contact.ID,
			"name":        contact.Name,
			"number":      contact.Number,
			"address":     contact.Address,
			"uploaded_by": contact.UploadedBy,
			"uploaded_at": contact.UploadedAt,
			"message":     "контакт успешно загружен",
		})
	}
}

// BulkUploadContacts загружает массив контактов пакетами.
// Частичный успех - ожидаемый исход: невалидные записи и сбойные пакеты
// перечисляются в ответе, не блокируя остальные.
func BulkUploadContacts(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)
		email := c.MustGet("email").(string)

		var req struct {
			Contacts []models.NewContact `json:"contacts"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("BulkUploadContacts: ошибка парсинга данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "неверный формат запроса"})
			return
		}
		if len(req.Contacts) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "массив contacts обязателен"})
			return
		}

		// Разделяем валидные и невалидные записи, запоминая исходные индексы
		var valid []models.NewContact
		var errorsList []gin.H
		for i, contact := range req.Contacts {
			if strings.TrimSpace(contact.Name) == "" || strings.TrimSpace(contact.Number) == "" {
				errorsList = append(errorsList, gin.H{
					"index": i,
					"error": "имя и номер обязательны",
				})
				continue
			}
			valid = append(valid, contact)
		}

		if len(valid) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "нет валидных контактов: у каждого контакта должны быть имя и номер",
			})
			return
		}

		if err := queries.EnsureProfile(db, userID, email); err != nil {
			respondError(c, "BulkUploadContacts", err)
			return
		}

		inserted, batchErrors := queries.BulkInsertContacts(db, userID, valid)
		for _, be := range batchErrors {
			errorsList = append(errorsList, gin.H{
				"batch":            be.Batch,
				"error":            be.Error,
				"contactsAffected": be.ContactsAffected,
			})
		}

		errorCount := len(req.Contacts) - inserted

		resp := gin.H{
			"successCount":   inserted,
			"errorCount":     errorCount,
			"totalProcessed": len(req.Contacts),
			"message":        fmt.Sprintf("загружено %d из %d контактов", inserted, len(req.Contacts)),
		}
		if len(errorsList) > 0 {
			resp["errors"] = errorsList
		}

		c.JSON(http.StatusCreated, resp)
	}
}
