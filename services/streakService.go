package services

import (
	"context"
	"fmt"
	"log"

	"wordquest/locker"
	"wordquest/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// StreakService tracks consecutive login days on the reward ledger
type StreakService struct {
	*core
	rewards *RewardService
}

type StreakResult struct {
	StreakDays    int          `json:"streakDays"`
	StreakUpdated bool         `json:"streakUpdated"`
	Reward        *RewardGrant `json:"reward,omitempty"`
}

func ledgerKey(userID uint) string {
	return "ledger:" + locker.UserKey(userID)
}

// UpdateDailyStreak records today's login. A login the day after the last one
// extends the streak, a second login today changes nothing and a longer gap
// restarts it at 1. Every change grants the daily streak reward.
func (s *StreakService) UpdateDailyStreak(ctx context.Context, userID uint) (*StreakResult, error) {
	var result *StreakResult
	err := s.withLock(ctx, ledgerKey(userID), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.userExists(tx, userID); err != nil {
				return err
			}
			ledger, err := s.rewards.findLedger(tx, userID)
			if err != nil {
				return err
			}

			today := now.With(s.now()).BeginningOfDay()
			yesterday := today.AddDate(0, 0, -1)

			r := &StreakResult{}
			switch {
			case ledger == nil || ledger.LastLogin == nil:
				r.StreakDays = 1
				r.StreakUpdated = true
			case !ledger.LastLogin.Before(today):
				r.StreakDays = ledger.StreakDays
			case !ledger.LastLogin.Before(yesterday):
				r.StreakDays = ledger.StreakDays + 1
				r.StreakUpdated = true
			default:
				r.StreakDays = 1
				r.StreakUpdated = true
			}

			if r.StreakUpdated {
				if r.Reward, err = s.rewards.awardDailyStreak(tx, userID, r.StreakDays); err != nil {
					return err
				}
			}
			result = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SweepExpiredStreaks zeroes the streak of every user whose last login is
// before yesterday. It returns the number of ledgers reset.
func (s *StreakService) SweepExpiredStreaks(ctx context.Context) (int64, error) {
	yesterday := now.With(s.now()).BeginningOfDay().AddDate(0, 0, -1)

	res := s.db.WithContext(ctx).
		Model(&models.RewardLedger{}).
		Where("streak_days > 0 AND (last_login IS NULL OR last_login < ?)", yesterday).
		Update("streak_days", 0)
	if res.Error != nil {
		return 0, fmt.Errorf("sweep expired streaks: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("[STREAK] reset %d expired streaks", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
