package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"wordquest/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the thin identity store behind register and login
type AuthService struct {
	*core
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string
	Level    string
}

// Register stores a new user with a bcrypt hashed password
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput.WithMessage("Username, email and password are required!")
	}

	role := strings.ToUpper(in.Role)
	if role == "" {
		role = models.RoleStudent
	}
	level := strings.ToUpper(in.Level)
	if level == "" {
		level = models.LevelBeginner
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidInput.WithMessage("Invalid role!")
	}
	if !models.ValidLevel(level) {
		return nil, ErrInvalidInput.WithMessage("Invalid level!")
	}

	db := s.db.WithContext(ctx)
	var count int64
	err := db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if count > 0 {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		FullName: strings.TrimSpace(in.FullName),
		Role:     role,
		Level:    level,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Printf("[AUTH] registered user=%d username=%s", user.ID, user.Username)
	return user, nil
}

// Login verifies the credentials and stamps the login time
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	err := db.Where("username = ? AND is_deleted = ?", strings.TrimSpace(username), false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	user.LastLogin = s.now()
	if err := db.Model(&user).Update("last_login", user.LastLogin).Error; err != nil {
		return nil, fmt.Errorf("update last login: %w", err)
	}
	return &user, nil
}
