package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aarambh-bootcamp/registration-api/internal/config"
	"github.com/aarambh-bootcamp/registration-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// EnsureAdmin seeds the admin account from ADMIN_EMAIL/ADMIN_PASSWORD when
// no admin exists yet.
func (h *AuthHandler) EnsureAdmin(ctx context.Context) error {
	var count int64
	if err := h.db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if h.cfg.AdminEmail == "" || h.cfg.AdminPassword == "" {
		slog.Warn("no admin account configured, privileged routes are unreachable")
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(h.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := models.Admin{Email: h.cfg.AdminEmail, PasswordHash: string(hash)}
	return h.db.WithContext(ctx).Create(&admin).Error
}

type LoginRequest struct {
	Body struct {
		Email    string `json:"email" doc:"Admin email" required:"true"`
		Password string `json:"password" doc:"Admin password" required:"true"`
	}
}

type LoginResponse struct {
	Body struct {
		Token string `json:"token"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginRequest) (*LoginResponse, error) {
	var admin models.Admin
	err := h.db.WithContext(ctx).Where("email = ?", input.Body.Email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("Database error")
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(input.Body.Password)) != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}

	token, err := h.GenerateToken(admin.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginResponse{}
	res.Body.Token = token
	return res, nil
}

func (h *AuthHandler) GenerateToken(adminID uint) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"exp":      time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// AuthInput is embedded in every privileged request so huma documents the
// bearer requirement.
type AuthInput struct {
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

// Authorize verifies the bearer token and returns the admin id.
func (h *AuthHandler) Authorize(ctx context.Context, authorization string) (uint, error) {
	tokenString, ok := strings.CutPrefix(authorization, "Bearer ")
	if !ok || tokenString == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: no bearer token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, huma.Error401Unauthorized("Unauthorized: invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	adminIDFloat, ok := claims["admin_id"].(float64)
	if !ok {
		return 0, huma.Error401Unauthorized("Unauthorized: invalid token claims")
	}
	return uint(adminIDFloat), nil
}
