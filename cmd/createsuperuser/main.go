package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"fender-store/config"
	"fender-store/internal/hashing"
	"fender-store/internal/repository"
	"fender-store/internal/service"
	"fender-store/pkg/database"
	"fender-store/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	email := flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "superuser email")
	password := flag.String("password", "", "superuser password (or SUPERUSER_PASSWORD)")
	firstName := flag.String("first-name", "", "first name")
	lastName := flag.String("last-name", "", "last name")
	flag.Parse()

	if *password == "" {
		*password = os.Getenv("SUPERUSER_PASSWORD")
	}
	if *email == "" || *password == "" {
		fmt.Println("Usage: go run cmd/createsuperuser/main.go -email admin@example.com [-password ...] [-first-name ...] [-last-name ...]")
		fmt.Println("  password may also be passed via SUPERUSER_PASSWORD")
		os.Exit(1)
	}

	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()

	db := database.ConnectDB(config.LoadDB(log), log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	authSvc := service.NewAuthService(repos.Users, repos.Orders, hashing.NewBcrypt(0), nil, nil, 0, log)

	u, err := authSvc.CreateSuperuser(context.Background(), service.CreateUserInput{
		Email:       *email,
		FirstName:   *firstName,
		LastName:    *lastName,
		Password:    *password,
		IsActive:    true,
		IsStaff:     true,
		IsSuperuser: true,
	})
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			log.Fatal("invalid superuser input", zap.String("details", verr.Error()))
		case errors.Is(err, service.ErrEmailExists):
			log.Fatal("user with this email already exists", zap.String("email", *email))
		default:
			log.Fatal("failed to create superuser", zap.Error(err))
		}
	}

	log.Info("superuser created", zap.String("user_id", u.ID.String()), zap.String("email", u.Email))
}
