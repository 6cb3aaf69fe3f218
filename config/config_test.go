package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("MAX_LEVEL", "")
	t.Setenv("QUIZ_QUESTION_COUNT", "")
	t.Setenv("JWT_EXPIRY", "")

	LoadConfig()

	assert.Equal(t, 10, AppConfig.MaxLevel)
	assert.Equal(t, 5, AppConfig.QuizQuestionCount)
	assert.Equal(t, 10, AppConfig.QuizEligibilityCap)
	assert.Equal(t, time.Hour, AppConfig.JWTExpiry)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("MAX_LEVEL", "12")
	t.Setenv("JWT_EXPIRY", "15m")
	t.Setenv("SALT_ROUND", "not-a-number")

	LoadConfig()

	assert.Equal(t, 12, AppConfig.MaxLevel)
	assert.Equal(t, 15*time.Minute, AppConfig.JWTExpiry)
	assert.Equal(t, 10, AppConfig.SaltRound)
}
