package middleware

import (
	"fmt"
	"strings"
	"time"

	"wordquest/config"
	"wordquest/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// GenerateJWT signs a token for the user. The subject is the username.
func GenerateJWT(userID uint, username, role, level string) (string, error) {
	if level == "" {
		level = models.LevelBeginner
	}
	issued := time.Now()
	claims := jwt.MapClaims{
		"sub":    username,
		"userId": userID,
		"role":   role,
		"level":  level,
		"iat":    issued.Unix(),
		"exp":    issued.Add(config.AppConfig.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// JWTMiddleware verifies the bearer token and stores the identity claims in
// c.Locals: userId (uint), username, role and level.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Missing or invalid Authorization header")
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid Authorization header format")
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token payload")
	}
	// numeric claims decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token payload")
	}

	username, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	level, _ := claims["level"].(string)
	if level == "" {
		level = models.LevelBeginner
	}

	c.Locals("userId", uint(userID))
	c.Locals("username", username)
	c.Locals("role", role)
	c.Locals("level", level)
	return c.Next()
}

// UserID returns the authenticated user id set by JWTMiddleware
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userId").(uint)
	return id
}
