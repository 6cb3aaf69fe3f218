package routers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"wordquest/catalog"
	"wordquest/config"
	"wordquest/database/dbtest"
	"wordquest/middleware"
	"wordquest/models"
	"wordquest/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "routes-secret", JWTExpiry: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })

	db := dbtest.New(t)
	store := catalog.NewStore(db)
	engine := services.NewEngine(db, store, nil, services.Options{BcryptCost: bcrypt.MinCost})

	app := fiber.New()
	Setup(app, engine, store)
	return &testServer{t: t, app: app, db: db}
}

func (s *testServer) seedLevel(level, words, questions int) []models.QuizQuestion {
	s.t.Helper()
	for i := 1; i <= words; i++ {
		key := fmt.Sprintf("l%d_w%d", level, i)
		require.NoError(s.t, s.db.Create(&models.LevelWord{LevelNumber: level, WordKey: key, DisplayOrder: i, Points: 10, Category: "animals"}).Error)
		require.NoError(s.t, s.db.Create(&models.Translation{WordKey: key, LanguageCode: "en", Text: fmt.Sprintf("word %d-%d", level, i)}).Error)
	}
	qs := make([]models.QuizQuestion, 0, questions)
	for i := 1; i <= questions; i++ {
		q := models.QuizQuestion{
			LevelNumber:   level,
			QuestionType:  "text",
			QuestionText:  fmt.Sprintf("q%d-%d", level, i),
			CorrectAnswer: fmt.Sprintf("a%d", i),
			Points:        20,
			RequiredScore: 70,
		}
		require.NoError(s.t, s.db.Create(&q).Error)
		qs = append(qs, q)
	}
	return qs
}

func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	out := map[string]interface{}{}
	require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

func (s *testServer) register(username, role string) string {
	s.t.Helper()
	status, body := s.do(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(s.t, fiber.StatusCreated, status, body)

	status, body = s.do(fiber.MethodPost, "/auth/login", "", fiber.Map{
		"username": username,
		"password": "secret123",
	})
	require.Equal(s.t, fiber.StatusOK, status, body)
	return body["token"].(string)
}

func obj(v interface{}) map[string]interface{} {
	return v.(map[string]interface{})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body := s.do(fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)
	s.register("alice", "")

	status, body := s.do(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"username": "alice", "email": "other@example.com", "password": "secret123",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, false, body["success"])

	status, body = s.do(fiber.MethodPost, "/auth/register", "", fiber.Map{
		"username": "b", "email": "bad", "password": "1",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := obj(body["errors"])
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	status, _ = s.do(fiber.MethodPost, "/auth/login", "", fiber.Map{"username": "alice", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = s.do(fiber.MethodGet, "/levels/user/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestLevelAndQuizFlow(t *testing.T) {
	s := newTestServer(t)
	qs := s.seedLevel(1, 2, 2)
	s.seedLevel(2, 2, 1)
	token := s.register("alice", "")

	status, body := s.do(fiber.MethodGet, "/levels/2", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, services.ErrLevelLocked.Message, body["message"])

	status, body = s.do(fiber.MethodGet, "/levels/1?lang=en", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	level := obj(body["level"])
	assert.EqualValues(t, 2, level["totalWords"])
	assert.Equal(t, "word 1-1", obj(level["words"].([]interface{})[0])["text"])

	status, _ = s.do(fiber.MethodPost, "/levels/1/complete-word", token, fiber.Map{"wordKey": "nope"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = s.do(fiber.MethodPost, "/levels/abc/complete-word", token, fiber.Map{"wordKey": "l1_w1"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	for _, key := range []string{"l1_w1", "l1_w2"} {
		status, body = s.do(fiber.MethodPost, "/levels/1/complete-word", token, fiber.Map{"wordKey": key})
		require.Equal(t, fiber.StatusOK, status, body)
	}
	result := obj(body["result"])
	assert.Equal(t, true, result["allWordsCompleted"])
	assert.NotNil(t, result["reward"])

	status, body = s.do(fiber.MethodPost, "/quiz/start", token, fiber.Map{"levelNumber": 1})
	require.Equal(t, fiber.StatusOK, status, body)
	session := obj(body["session"])
	assert.EqualValues(t, 2, session["totalQuestions"])
	assert.NotContains(t, obj(session["questions"].([]interface{})[0]), "correctAnswer")

	answers := map[string]string{}
	for _, q := range qs {
		answers[fmt.Sprint(q.ID)] = q.CorrectAnswer
	}
	status, body = s.do(fiber.MethodPost, "/quiz/submit", token, fiber.Map{"levelNumber": 1, "answers": answers})
	require.Equal(t, fiber.StatusOK, status, body)
	result = obj(body["result"])
	assert.Equal(t, true, result["passed"])
	assert.EqualValues(t, 100, result["score"])
	assert.Equal(t, true, result["nextLevelAvailable"])

	status, _ = s.do(fiber.MethodPost, "/quiz/submit", token, fiber.Map{"levelNumber": 1, "answers": map[string]string{"x": "y"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = s.do(fiber.MethodPost, "/levels/unlock-next", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 2, obj(body["result"])["levelNumber"])

	status, _ = s.do(fiber.MethodPost, "/levels/unlock-next", token, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = s.do(fiber.MethodGet, "/quiz/result?levelNumber=1", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, obj(body["result"])["passed"])

	status, body = s.do(fiber.MethodGet, "/levels/user/stats", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 1, obj(body["stats"])["levelsCompleted"])

	status, body = s.do(fiber.MethodGet, "/rewards", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	rewards := obj(body["rewards"])
	assert.EqualValues(t, 250, rewards["totalXP"])
	assert.EqualValues(t, 130, rewards["coins"])
	assert.EqualValues(t, 2, rewards["currentLevel"])

	status, body = s.do(fiber.MethodPost, "/rewards/spend", token, fiber.Map{"amount": 1000})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, services.ErrInsufficientCoins.Message, body["message"])

	status, body = s.do(fiber.MethodPost, "/rewards/spend", token, fiber.Map{"amount": 30, "reason": "hint"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 100, obj(body["result"])["coins"])

	status, body = s.do(fiber.MethodGet, "/progress/leaderboard?type=levels", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["leaderboard"], 1)

	status, _ = s.do(fiber.MethodGet, "/progress/leaderboard?type=coins", token, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	s.seedLevel(3, 2, 0)
	student := s.register("alice", "")
	admin := s.register("root", models.RoleAdmin)

	var alice models.User
	require.NoError(t, s.db.Where("username = ?", "alice").First(&alice).Error)

	payload := fiber.Map{"userId": alice.ID, "levelNumber": 3}
	status, _ := s.do(fiber.MethodPost, "/admin/levels/unlock", student, payload)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := s.do(fiber.MethodPost, "/admin/levels/unlock", admin, payload)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 3, obj(body["result"])["levelNumber"])

	status, body = s.do(fiber.MethodGet, "/levels/3/status", student, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, obj(body["status"])["unlocked"])

	status, body = s.do(fiber.MethodPost, "/admin/rewards/grant", admin, fiber.Map{"userId": alice.ID, "coins": 40})
	require.Equal(t, fiber.StatusOK, status, body)

	status, _ = s.do(fiber.MethodPost, "/admin/rewards/grant", admin, fiber.Map{"userId": alice.ID})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestTranslationRoutes(t *testing.T) {
	s := newTestServer(t)
	s.seedLevel(1, 2, 0)

	status, body := s.do(fiber.MethodGet, "/translations/l1_w1?lang=en", "", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "word 1-1", obj(body["translation"])["text"])

	status, _ = s.do(fiber.MethodGet, "/translations/l1_w1?lang=fr", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body = s.do(fiber.MethodGet, "/translations/l1_w2/all", "", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["translations"], 1)

	status, body = s.do(fiber.MethodGet, "/translations/search?q=word&lang=en", "", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["results"], 2)

	status, body = s.do(fiber.MethodGet, "/translations/categories", "", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, []interface{}{"animals"}, body["categories"])

	status, _ = s.do(fiber.MethodGet, "/translations/search", "", nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestSuccessEnvelopeShape(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error { return middleware.SuccessResponse(c, "thing", 1) })
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/x", nil))
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"success":true,"thing":1}`, string(raw))
}
