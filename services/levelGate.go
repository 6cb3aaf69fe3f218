package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wordquest/locker"
	"wordquest/metrics"
	"wordquest/models"

	"gorm.io/gorm"
)

// LevelGate opens levels. The normal path is UnlockNextLevel, which follows the
// highest passed quiz; UnlockSpecificLevel is an administrative escape hatch
// that skips the sequential check.
type LevelGate struct {
	*core
	rewards *RewardService
}

type UnlockResult struct {
	LevelNumber int          `json:"levelNumber"`
	UnlockedAt  time.Time    `json:"unlockedAt"`
	Message     string       `json:"message"`
	Reward      *RewardGrant `json:"reward,omitempty"`
}

// UnlockNextLevel opens the level after the highest one with a passed quiz
func (g *LevelGate) UnlockNextLevel(ctx context.Context, userID uint) (*UnlockResult, error) {
	var result *UnlockResult
	err := g.withLock(ctx, locker.UserKey(userID), func() error {
		return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := g.userExists(tx, userID); err != nil {
				return err
			}

			var highest models.UserProgress
			err := tx.Where("user_id = ? AND quiz_passed = ?", userID, true).
				Order("level_number desc").
				First(&highest).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoCompletedLevel
			}
			if err != nil {
				return fmt.Errorf("find highest passed level: %w", err)
			}

			next := highest.LevelNumber + 1
			existing, err := g.findProgress(tx, userID, next)
			if err != nil {
				return err
			}
			if existing != nil {
				return ErrAlreadyUnlocked
			}
			if next > g.opts.MaxLevel {
				return ErrMaxLevelReached
			}

			result, err = g.open(tx, userID, next, true)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.LevelsUnlockedTotal.WithLabelValues("sequential").Inc()
	return result, nil
}

// UnlockSpecificLevel opens levelNumber without checking the previous level.
// It is reserved for administrators.
func (g *LevelGate) UnlockSpecificLevel(ctx context.Context, userID uint, levelNumber int) (*UnlockResult, error) {
	if err := g.validLevel(levelNumber); err != nil {
		return nil, err
	}

	var result *UnlockResult
	err := g.withLock(ctx, locker.UserKey(userID), func() error {
		return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := g.userExists(tx, userID); err != nil {
				return err
			}
			var err error
			result, err = g.open(tx, userID, levelNumber, false)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	metrics.LevelsUnlockedTotal.WithLabelValues("admin").Inc()
	log.Printf("[LEVEL-GATE] user=%d level %d opened by administrator", userID, levelNumber)
	return result, nil
}

// open creates the record for levelNumber; reward grants the unlock reward
func (g *LevelGate) open(tx *gorm.DB, userID uint, levelNumber int, reward bool) (*UnlockResult, error) {
	p, created, err := g.insertProgress(tx, userID, levelNumber)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, ErrAlreadyUnlocked
	}

	result := &UnlockResult{
		LevelNumber: levelNumber,
		UnlockedAt:  p.UnlockedAt,
		Message:     fmt.Sprintf("Level %d unlocked successfully", levelNumber),
	}
	if reward {
		if result.Reward, err = g.rewards.awardLevelUnlock(tx, userID, levelNumber); err != nil {
			return nil, err
		}
	}

	log.Printf("[LEVEL-GATE] user=%d unlocked level %d", userID, levelNumber)
	return result, nil
}
