package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"wordquest/catalog"
	"wordquest/database/dbtest"
	"wordquest/locker"
	"wordquest/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	engine *Engine
	clock  *fakeClock
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWith(t, Options{MaxLevel: 10, QuizSize: 5, EligibilityCap: 10})
}

func newFixtureWith(t *testing.T, opts Options) *fixture {
	t.Helper()
	db := dbtest.New(t)
	opts.BcryptCost = bcrypt.MinCost

	clock := &fakeClock{t: time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)}
	engine := NewEngine(db, catalog.NewStore(db), locker.NewKeyedMutex(), opts)
	engine.SetClock(clock.Now)
	engine.Seed(42)

	return &fixture{t: t, ctx: context.Background(), db: db, engine: engine, clock: clock}
}

func (f *fixture) user(username string) uint {
	f.t.Helper()
	u := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     models.RoleStudent,
		Level:    models.LevelBeginner,
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u.ID
}

// words catalogs n words worth points each on level and returns their keys
func (f *fixture) words(level, n, points int) []string {
	f.t.Helper()
	keys := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		w := &models.LevelWord{
			LevelNumber:  level,
			WordKey:      fmt.Sprintf("l%d_w%d", level, i),
			Category:     "general",
			DisplayOrder: i,
			Points:       points,
		}
		require.NoError(f.t, f.db.Create(w).Error)
		keys = append(keys, w.WordKey)
	}
	return keys
}

func (f *fixture) translate(wordKey, lang, text string) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.Translation{WordKey: wordKey, LanguageCode: lang, Text: text}).Error)
}

// questions catalogs n questions on level; question i answers "answer-i"
func (f *fixture) questions(level, n int) []models.QuizQuestion {
	f.t.Helper()
	qs := make([]models.QuizQuestion, 0, n)
	for i := 1; i <= n; i++ {
		q := models.QuizQuestion{
			LevelNumber:   level,
			QuestionType:  "text",
			QuestionText:  fmt.Sprintf("level %d question %d", level, i),
			CorrectAnswer: fmt.Sprintf("answer-%d", i),
			Options:       []string{fmt.Sprintf("answer-%d", i), "wrong"},
			Points:        20,
			RequiredScore: 70,
			TimeLimit:     30,
		}
		require.NoError(f.t, f.db.Create(&q).Error)
		qs = append(qs, q)
	}
	return qs
}

func (f *fixture) completeAll(userID uint, level int, keys []string) *WordResult {
	f.t.Helper()
	var last *WordResult
	for _, k := range keys {
		r, err := f.engine.Progress.CompleteWord(f.ctx, userID, level, k)
		require.NoError(f.t, err)
		last = r
	}
	return last
}

func allCorrect(qs []models.QuizQuestion) map[uint]string {
	answers := make(map[uint]string, len(qs))
	for _, q := range qs {
		answers[q.ID] = q.CorrectAnswer
	}
	return answers
}

func (f *fixture) ledger(userID uint) models.RewardLedger {
	f.t.Helper()
	var l models.RewardLedger
	require.NoError(f.t, f.db.Where("user_id = ?", userID).First(&l).Error)
	return l
}

func (f *fixture) progress(userID uint, level int) *models.UserProgress {
	f.t.Helper()
	p, err := f.engine.core.findProgress(f.db, userID, level)
	require.NoError(f.t, err)
	return p
}

// passLevel completes every word of level and submits a perfect quiz
func (f *fixture) passLevel(userID uint, level int, keys []string, qs []models.QuizQuestion) {
	f.t.Helper()
	f.completeAll(userID, level, keys)
	res, err := f.engine.Quiz.SubmitQuiz(f.ctx, userID, level, allCorrect(qs))
	require.NoError(f.t, err)
	require.True(f.t, res.Passed)
}
