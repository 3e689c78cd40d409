package service

import (
	"context"
	"time"

	"fender-store/internal/models"

	"github.com/google/uuid"
)

type RegisterInput struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	FirstName       string `json:"first_name" validate:"required,max=150"`
	LastName        string `json:"last_name" validate:"required,max=150"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateUserInput struct {
	Email       string `json:"email" validate:"required,email,max=255"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

type AccessToken struct {
	Token     string    `json:"access_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token AccessToken  `json:"token"`
}

type AuthUseCase interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Claims, error)
	CreateSuperuser(ctx context.Context, in CreateUserInput) (*models.User, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, []models.Order, error)
}
