package handlers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/egor/callcenterserver/database"
	"github.com/egor/callcenterserver/database/queries"
	"github.com/egor/callcenterserver/middleware"
	"github.com/egor/callcenterserver/models"
)

// Регистрация администраторов разрешена только для email этого домена
func adminEmailDomain() string {
	if d := os.Getenv("ADMIN_EMAIL_DOMAIN"); d != "" {
		return d
	}
	return "@mejorra.com"
}

// Register создаёт профиль сотрудника и сразу выдаёт токен
func Register(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
			FullName string `json:"full_name" binding:"required"`
			IsAdmin  bool   `json:"isAdmin"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Printf("Register: ошибка парсинга данных: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "email, password и full_name обязательны"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		if req.IsAdmin && !strings.HasSuffix(email, adminEmailDomain()) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "учетные записи администраторов доступны только для домена " + adminEmailDomain(),
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Register: ошибка хеширования пароля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
			return
		}

		username := email
		if i := strings.Index(email, "@"); i > 0 {
			username = email[:i]
		}

		user := &models.User{
			ID:           uuid.New(),
			Email:        email,
			FullName:     strings.TrimSpace(req.FullName),
			Username:     username,
			PasswordHash: string(hash),
			IsAdmin:      req.IsAdmin,
			CreatedAt:    time.Now(),
		}

		if err := queries.CreateUser(db, user); err != nil {
			if database.IsDuplicate(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "email уже зарегистрирован"})
				return
			}
			respondError(c, "Register", err)
			return
		}

		token, err := middleware.GenerateToken(user)
		if err != nil {
			log.Printf("Register: ошибка выпуска токена для %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "внутренняя ошибка сервера"})
			return
		}

		message := "учетная запись создана"
		if user.IsAdmin {
			message = "учетная запись администратора создана"
		}
		c.JSON(http.StatusCreated, gin.H{
			"token":   token,
			"user":    user,
			"message": message,
		})
	}
}

// Login обрабатывает авторизацию сотрудников
func Login(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var credentials struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&credentials); err != nil {
			log.Printf("Login: ошибка парсинга данных для авторизации: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "email и password обязательны"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(credentials.Email))
		log.Printf("Login: попытка авторизации для пользователя: %s", email)

		token, user, err := middleware.Authenticate(db, email, credentials.Password)
		if err != nil {
			if errors.Is(err, middleware.ErrInvalidCredentials) {
				log.Printf("Login: неверные учетные данные для %s", email)
				c.JSON(http.StatusUnauthorized, gin.H{"error": "неверные учетные данные"})
				return
			}
			respondError(c, "Login", err)
			return
		}

		log.Printf("Login: успешная авторизация %s (ID: %s)", user.Email, user.ID)
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		})
	}
}

// Me возвращает профиль текущего сотрудника
func Me(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet("userID").(uuid.UUID)

		user, err := queries.GetUserByID(db, userID)
		if err != nil {
			respondError(c, "Me", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
