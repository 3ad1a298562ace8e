package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegisterValidation(t *testing.T) {
	r := testRouter(func(g *gin.RouterGroup) {
		g.POST("/auth/register", Register(nil))
	})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"пустое тело", `{}`, http.StatusBadRequest},
		{"без пароля", `{"email": "ivan@example.com", "full_name": "Иван Петров"}`, http.StatusBadRequest},
		{"без имени", `{"email": "ivan@example.com", "password": "secret"}`, http.StatusBadRequest},
		{
			"администратор с чужим доменом",
			`{"email": "ivan@example.com", "password": "secret", "full_name": "Иван Петров", "isAdmin": true}`,
			http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", tt.body)
			if w.Code != tt.code {
				t.Errorf("ожидался %d, получено %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestLoginValidation(t *testing.T) {
	r := testRouter(func(g *gin.RouterGroup) {
		g.POST("/auth/login", Login(nil))
	})

	tests := []struct {
		name string
		body string
	}{
		{"пустое тело", `{}`},
		{"без пароля", `{"email": "ivan@example.com"}`},
		{"без email", `{"password": "secret"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/auth/login", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("ожидался 400, получено %d: %s", w.Code, w.Body.String())
			}
		})
	}
}
