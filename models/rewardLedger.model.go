package models

import (
	"time"

	"gorm.io/gorm"
)

// RewardLedger holds the running XP / coin totals of one user
type RewardLedger struct {
	gorm.Model
	UserID          uint       `gorm:"not null;uniqueIndex" json:"userId"`
	TotalXP         int        `gorm:"not null;default:0" json:"totalXP"`
	Coins           int        `gorm:"not null;default:0" json:"coins"`
	CurrentLevel    int        `gorm:"not null;default:1" json:"currentLevel"`
	StreakDays      int        `gorm:"not null;default:0" json:"streakDays"`
	LastLogin       *time.Time `json:"lastLogin"`
	LastDailyReward *time.Time `json:"lastDailyReward"`
}

// UserBadge is a badge granted to a user; granting twice is a no-op
type UserBadge struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_badge" json:"-"`
	Badge     string    `gorm:"size:100;not null;uniqueIndex:idx_user_badge" json:"badge"`
	GrantedAt time.Time `gorm:"not null" json:"grantedAt"`
}

// RewardType identifies the event that produced a ledger movement
type RewardType string

const (
	RewardLevelCompletion RewardType = "level_completion"
	RewardQuizSuccess     RewardType = "quiz_success"
	RewardLevelUnlock     RewardType = "level_unlock"
	RewardWordMastery     RewardType = "word_mastery"
	RewardDailyStreak     RewardType = "daily_streak"
	RewardAdminCredit     RewardType = "admin_credit"
	RewardCoinSpend       RewardType = "coin_spend"
)

// RewardTransaction tracks every movement of a user's ledger
type RewardTransaction struct {
	gorm.Model
	UserID        uint       `gorm:"not null;index" json:"userId"`
	RewardType    RewardType `gorm:"type:varchar(50);not null" json:"type"`
	LevelNumber   int        `gorm:"default:0" json:"levelNumber,omitempty"`
	XP            int        `gorm:"not null;default:0" json:"xp"`
	Coins         int        `gorm:"not null;default:0" json:"coins"`
	CoinsBefore   int        `gorm:"not null;default:0" json:"coinsBefore"`
	CoinsAfter    int        `gorm:"not null;default:0" json:"coinsAfter"`
	Badge         string     `gorm:"size:100" json:"badge,omitempty"`
	Reference     string     `gorm:"size:100" json:"reference,omitempty"`
	Message       string     `gorm:"type:text" json:"message"`
	TransactionAt time.Time  `gorm:"not null" json:"transactionAt"`
}

func (RewardTransaction) TableName() string {
	return "reward_transactions"
}
