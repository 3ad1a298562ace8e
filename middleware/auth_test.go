package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/egor/callcenterserver/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := &models.User{
		ID:      uuid.New(),
		Email:   "ivan@example.com",
		IsAdmin: true,
	}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if token == "" {
		t.Fatal("ожидался непустой токен")
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != user.ID.String() {
		t.Errorf("UserID: ожидалось %s, получено %s", user.ID, claims.UserID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email: ожидалось %s, получено %s", user.Email, claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("IsAdmin должен сохраняться в токене")
	}
	if claims.Issuer != "callcenter-server" {
		t.Errorf("Issuer: получено %s", claims.Issuer)
	}
	if claims.ExpiresAt == nil || time.Until(claims.ExpiresAt.Time) > 24*time.Hour {
		t.Errorf("срок действия токена: %v", claims.ExpiresAt)
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	for _, token := range []string{"", "не-токен", "aaa.bbb.ccc"} {
		if _, err := ValidateToken(token); err == nil {
			t.Errorf("токен %q не должен проходить проверку", token)
		}
	}
}

func TestValidateTokenWrongKey(t *testing.T) {
	claims := &JWTClaims{
		UserID: uuid.New().String(),
		Email:  "ivan@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("чужой ключ"))
	if err != nil {
		t.Fatalf("подпись тестового токена: %v", err)
	}

	if _, err := ValidateToken(signed); err == nil {
		t.Error("токен с чужой подписью не должен проходить проверку")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "ivan@example.com"}
	claims := &JWTClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtKey)
	if err != nil {
		t.Fatalf("подпись тестового токена: %v", err)
	}

	if _, err := ValidateToken(signed); err == nil {
		t.Error("просроченный токен не должен проходить проверку")
	}
}
