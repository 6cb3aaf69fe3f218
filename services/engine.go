// Package services holds the progression and assessment engine: word
// progress, quizzes, the level gate and the reward ledger.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"wordquest/catalog"
	"wordquest/locker"
	"wordquest/metrics"
	"wordquest/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options tune the engine rules
type Options struct {
	MaxLevel       int // highest level the gate will open
	QuizSize       int // questions per quiz session
	EligibilityCap int // completed words needed for the quiz, at most
	BcryptCost     int
}

func (o Options) withDefaults() Options {
	if o.MaxLevel <= 0 {
		o.MaxLevel = 10
	}
	if o.QuizSize <= 0 {
		o.QuizSize = 5
	}
	if o.EligibilityCap <= 0 {
		o.EligibilityCap = 10
	}
	if o.BcryptCost < bcrypt.MinCost || o.BcryptCost > bcrypt.MaxCost {
		o.BcryptCost = bcrypt.DefaultCost
	}
	return o
}

// core is shared by every service of one Engine
type core struct {
	db      *gorm.DB
	catalog catalog.Catalog
	locker  locker.Locker
	opts    Options

	now func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// Engine wires the services together over one database and catalog
type Engine struct {
	Auth     *AuthService
	Progress *ProgressService
	Quiz     *QuizService
	Levels   *LevelGate
	Rewards  *RewardService
	Streak   *StreakService

	core *core
}

func NewEngine(db *gorm.DB, cat catalog.Catalog, lk locker.Locker, opts Options) *Engine {
	if lk == nil {
		lk = locker.NewKeyedMutex()
	}
	c := &core{
		db:      db,
		catalog: cat,
		locker:  lk,
		opts:    opts.withDefaults(),
		now:     time.Now,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	rewards := &RewardService{core: c}
	e := &Engine{
		Auth:    &AuthService{core: c},
		Rewards: rewards,
		core:    c,
	}
	e.Progress = &ProgressService{core: c, rewards: rewards}
	e.Quiz = &QuizService{core: c, rewards: rewards, progress: e.Progress}
	e.Levels = &LevelGate{core: c, rewards: rewards}
	e.Streak = &StreakService{core: c, rewards: rewards}
	return e
}

// SetClock replaces the time source of every service
func (e *Engine) SetClock(now func() time.Time) {
	e.core.now = now
}

// Seed makes question selection and shuffling deterministic
func (e *Engine) Seed(seed int64) {
	e.core.rngMu.Lock()
	e.core.rng = rand.New(rand.NewSource(seed))
	e.core.rngMu.Unlock()
}

// Options returns the effective rule settings
func (e *Engine) Options() Options {
	return e.core.opts
}

func (c *core) shuffle(n int, swap func(i, j int)) {
	c.rngMu.Lock()
	c.rng.Shuffle(n, swap)
	c.rngMu.Unlock()
}

func (c *core) intn(n int) int {
	c.rngMu.Lock()
	defer c.rngMu.Unlock()
	return c.rng.Intn(n)
}

// withLock runs fn while holding the lock for key
func (c *core) withLock(ctx context.Context, key string, fn func() error) error {
	start := time.Now()
	unlock, err := c.locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	metrics.LockWaitSeconds.Observe(time.Since(start).Seconds())
	defer unlock()
	return fn()
}

// withOutcomeLock guards writes that can change a level's quiz outcome. The
// user key is taken first so these serialize with the level gate, which reads
// quiz_passed under the same key.
func (c *core) withOutcomeLock(ctx context.Context, userID uint, levelNumber int, fn func() error) error {
	return c.withLock(ctx, locker.UserKey(userID), func() error {
		return c.withLock(ctx, locker.ProgressKey(userID, levelNumber), fn)
	})
}

func (c *core) validLevel(levelNumber int) error {
	if levelNumber < 1 || levelNumber > c.opts.MaxLevel {
		return ErrInvalidLevel.WithMessage(fmt.Sprintf("Level must be between 1 and %d!", c.opts.MaxLevel))
	}
	return nil
}

// eligibilityThreshold is the number of completed words that opens the quiz:
// every word of the level, capped at EligibilityCap.
func (c *core) eligibilityThreshold(totalWords int) int {
	if totalWords < c.opts.EligibilityCap {
		return totalWords
	}
	return c.opts.EligibilityCap
}

func (c *core) quizEligible(completed, totalWords int) bool {
	threshold := c.eligibilityThreshold(totalWords)
	return threshold > 0 && completed >= threshold
}

func (c *core) userExists(db *gorm.DB, userID uint) error {
	var count int64
	err := db.Model(&models.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("check user %d: %w", userID, err)
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// findProgress loads a progress record with its words, nil when absent
func (c *core) findProgress(db *gorm.DB, userID uint, levelNumber int) (*models.UserProgress, error) {
	var p models.UserProgress
	err := db.Preload("Words").
		Where("user_id = ? AND level_number = ?", userID, levelNumber).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress %d/%d: %w", userID, levelNumber, err)
	}
	return &p, nil
}

// insertProgress creates an empty record for the pair. created is false when
// a record already existed.
func (c *core) insertProgress(db *gorm.DB, userID uint, levelNumber int) (*models.UserProgress, bool, error) {
	p := &models.UserProgress{
		UserID:      userID,
		LevelNumber: levelNumber,
		UnlockedAt:  c.now(),
	}
	res := db.Clauses(onConflictDoNothing()).Create(p)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create progress %d/%d: %w", userID, levelNumber, res.Error)
	}
	created := res.RowsAffected == 1

	stored, err := c.findProgress(db, userID, levelNumber)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("progress %d/%d vanished after insert", userID, levelNumber)
	}
	return stored, created, nil
}

func (c *core) levelPassed(db *gorm.DB, userID uint, levelNumber int) (bool, error) {
	var count int64
	err := db.Model(&models.UserProgress{}).
		Where("user_id = ? AND level_number = ? AND quiz_passed = ?", userID, levelNumber, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check level %d passed: %w", levelNumber, err)
	}
	return count > 0, nil
}

func onConflictDoNothing() clause.OnConflict {
	return clause.OnConflict{DoNothing: true}
}

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }
