package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"wordquest/metrics"
	"wordquest/models"

	"gorm.io/gorm"
)

// RewardGrant is what one reward event added to a ledger
type RewardGrant struct {
	Type         models.RewardType `json:"type"`
	LevelNumber  int               `json:"levelNumber,omitempty"`
	WordKey      string            `json:"wordKey,omitempty"`
	Score        int               `json:"score,omitempty"`
	StreakDays   int               `json:"streakDays,omitempty"`
	XP           int               `json:"xp"`
	BonusXP      int               `json:"bonusXP,omitempty"`
	Coins        int               `json:"coins"`
	Badge        string            `json:"badge,omitempty"`
	Message      string            `json:"message"`
	TotalXP      int               `json:"totalXP"`
	TotalCoins   int               `json:"totalCoins"`
	CurrentLevel int               `json:"currentLevel,omitempty"`
}

// LevelCompletionReward is granted once the word threshold of a level is reached
func LevelCompletionReward(levelNumber int) RewardGrant {
	return RewardGrant{
		Type:        models.RewardLevelCompletion,
		LevelNumber: levelNumber,
		XP:          levelNumber * 50,
		Coins:       levelNumber * 20,
		Badge:       fmt.Sprintf("level_%d_complete", levelNumber),
		Message:     fmt.Sprintf("Congratulations! Level %d completed", levelNumber),
	}
}

// QuizSuccessReward is granted for a passed quiz
func QuizSuccessReward(levelNumber, score int) RewardGrant {
	bonus := quizBonusXP(score)
	return RewardGrant{
		Type:        models.RewardQuizSuccess,
		LevelNumber: levelNumber,
		Score:       score,
		XP:          100 + bonus,
		BonusXP:     bonus,
		Coins:       50 + levelNumber*10,
		Badge:       QuizBadge(score, levelNumber),
		Message:     quizSuccessMessage(score),
	}
}

// LevelUnlockReward is granted when a level is opened
func LevelUnlockReward(levelNumber int) RewardGrant {
	return RewardGrant{
		Type:        models.RewardLevelUnlock,
		LevelNumber: levelNumber,
		XP:          50,
		Coins:       levelNumber * 25,
		Badge:       fmt.Sprintf("level_%d_unlocked", levelNumber),
		Message:     fmt.Sprintf("Congratulations! Level %d unlocked", levelNumber),
	}
}

func WordMasteryReward(levelNumber int, wordKey string) RewardGrant {
	return RewardGrant{
		Type:        models.RewardWordMastery,
		LevelNumber: levelNumber,
		WordKey:     wordKey,
		XP:          25,
		Coins:       15,
		Message:     "Excellent! Word mastered: " + wordKey,
	}
}

func DailyStreakReward(streakDays int) RewardGrant {
	bonus := streakDays * 5
	if bonus > 50 {
		bonus = 50
	}
	return RewardGrant{
		Type:       models.RewardDailyStreak,
		StreakDays: streakDays,
		XP:         20 + streakDays*2,
		Coins:      10 + bonus,
		Message:    fmt.Sprintf("Day %d in a row! Keep it up!", streakDays),
	}
}

// QuizBadge names the badge earned for score on levelNumber
func QuizBadge(score, levelNumber int) string {
	switch {
	case score >= 95:
		return fmt.Sprintf("quiz_master_lvl_%d", levelNumber)
	case score >= 85:
		return fmt.Sprintf("quiz_expert_lvl_%d", levelNumber)
	case score >= 75:
		return fmt.Sprintf("quiz_pro_lvl_%d", levelNumber)
	default:
		return fmt.Sprintf("quiz_pass_lvl_%d", levelNumber)
	}
}

func quizBonusXP(score int) int {
	switch {
	case score >= 90:
		return 50
	case score >= 80:
		return 30
	case score >= 70:
		return 10
	default:
		return 0
	}
}

func quizSuccessMessage(score int) string {
	switch {
	case score >= 95:
		return fmt.Sprintf("Legendary score! %d%%", score)
	case score >= 85:
		return fmt.Sprintf("Incredible performance! %d%%", score)
	case score >= 75:
		return fmt.Sprintf("Good job! %d%%", score)
	default:
		return fmt.Sprintf("Quiz passed! %d%%", score)
	}
}

// RewardService applies reward events to the per-user ledger. Balance changes
// are single UPDATE statements so concurrent grants never lose an increment.
type RewardService struct {
	*core
}

// RewardSummary is the ledger totals plus granted badges
type RewardSummary struct {
	UserID          uint               `json:"userId"`
	TotalXP         int                `json:"totalXP"`
	Coins           int                `json:"coins"`
	CurrentLevel    int                `json:"currentLevel"`
	StreakDays      int                `json:"streakDays"`
	LastLogin       *time.Time         `json:"lastLogin"`
	LastDailyReward *time.Time         `json:"lastDailyReward"`
	Badges          []models.UserBadge `json:"badges"`
}

// LeaderboardEntry is one ranked user
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Value    int    `json:"value"`
}

const (
	LeaderboardXP     = "xp"
	LeaderboardLevels = "levels"
	LeaderboardStreak = "streak"

	maxLeaderboardSize = 50
)

func (s *RewardService) ensureLedger(tx *gorm.DB, userID uint) error {
	ledger := &models.RewardLedger{UserID: userID, CurrentLevel: 1}
	if err := tx.Clauses(onConflictDoNothing()).Create(ledger).Error; err != nil {
		return fmt.Errorf("create ledger for user %d: %w", userID, err)
	}
	return nil
}

func (s *RewardService) findLedger(db *gorm.DB, userID uint) (*models.RewardLedger, error) {
	var ledger models.RewardLedger
	err := db.Where("user_id = ?", userID).First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger for user %d: %w", userID, err)
	}
	return &ledger, nil
}

// apply adds grant to the ledger, stores its badge and writes the transaction
// row. extra carries additional column updates for the same statement.
func (s *RewardService) apply(tx *gorm.DB, userID uint, grant *RewardGrant, reference string, extra map[string]interface{}) error {
	if err := s.ensureLedger(tx, userID); err != nil {
		return err
	}

	updates := map[string]interface{}{
		"total_xp": gorm.Expr("total_xp + ?", grant.XP),
		"coins":    gorm.Expr("coins + ?", grant.Coins),
	}
	for k, v := range extra {
		updates[k] = v
	}
	err := tx.Model(&models.RewardLedger{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update ledger for user %d: %w", userID, err)
	}

	now := s.now()
	if grant.Badge != "" {
		badge := &models.UserBadge{UserID: userID, Badge: grant.Badge, GrantedAt: now}
		if err := tx.Clauses(onConflictDoNothing()).Create(badge).Error; err != nil {
			return fmt.Errorf("grant badge %s: %w", grant.Badge, err)
		}
	}

	ledger, err := s.findLedger(tx, userID)
	if err != nil {
		return err
	}
	grant.TotalXP = ledger.TotalXP
	grant.TotalCoins = ledger.Coins
	if grant.Type == models.RewardLevelUnlock {
		grant.CurrentLevel = ledger.CurrentLevel
	}

	txn := &models.RewardTransaction{
		UserID:        userID,
		RewardType:    grant.Type,
		LevelNumber:   grant.LevelNumber,
		XP:            grant.XP,
		Coins:         grant.Coins,
		CoinsBefore:   ledger.Coins - grant.Coins,
		CoinsAfter:    ledger.Coins,
		Badge:         grant.Badge,
		Reference:     reference,
		Message:       grant.Message,
		TransactionAt: now,
	}
	if err := tx.Create(txn).Error; err != nil {
		return fmt.Errorf("record reward transaction: %w", err)
	}

	metrics.RewardsGrantedTotal.WithLabelValues(string(grant.Type)).Inc()
	log.Printf("[REWARD] user=%d type=%s level=%d xp=%d coins=%d badge=%q",
		userID, grant.Type, grant.LevelNumber, grant.XP, grant.Coins, grant.Badge)
	return nil
}

func (s *RewardService) awardLevelCompletion(tx *gorm.DB, userID uint, levelNumber int) (*RewardGrant, error) {
	grant := LevelCompletionReward(levelNumber)
	if err := s.apply(tx, userID, &grant, "", nil); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (s *RewardService) awardQuizSuccess(tx *gorm.DB, userID uint, levelNumber, score int) (*RewardGrant, error) {
	grant := QuizSuccessReward(levelNumber, score)
	if err := s.apply(tx, userID, &grant, "", nil); err != nil {
		return nil, err
	}
	return &grant, nil
}

// awardLevelUnlock also raises currentLevel; it is never lowered
func (s *RewardService) awardLevelUnlock(tx *gorm.DB, userID uint, levelNumber int) (*RewardGrant, error) {
	grant := LevelUnlockReward(levelNumber)
	extra := map[string]interface{}{
		"current_level": gorm.Expr("CASE WHEN current_level < ? THEN ? ELSE current_level END", levelNumber, levelNumber),
	}
	if err := s.apply(tx, userID, &grant, "", extra); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (s *RewardService) awardWordMastery(tx *gorm.DB, userID uint, levelNumber int, wordKey string) (*RewardGrant, error) {
	grant := WordMasteryReward(levelNumber, wordKey)
	if err := s.apply(tx, userID, &grant, wordKey, nil); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (s *RewardService) awardDailyStreak(tx *gorm.DB, userID uint, streakDays int) (*RewardGrant, error) {
	now := s.now()
	grant := DailyStreakReward(streakDays)
	extra := map[string]interface{}{
		"streak_days":       streakDays,
		"last_login":        now,
		"last_daily_reward": now,
	}
	if err := s.apply(tx, userID, &grant, "", extra); err != nil {
		return nil, err
	}
	return &grant, nil
}

// DeductCoins spends amount coins. It reports false and changes nothing when
// the balance is too low.
func (s *RewardService) DeductCoins(ctx context.Context, userID uint, amount int, reason string) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidInput.WithMessage("Amount must be greater than 0!")
	}

	deducted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userExists(tx, userID); err != nil {
			return err
		}
		if err := s.ensureLedger(tx, userID); err != nil {
			return err
		}

		res := tx.Model(&models.RewardLedger{}).
			Where("user_id = ? AND coins >= ?", userID, amount).
			Update("coins", gorm.Expr("coins - ?", amount))
		if res.Error != nil {
			return fmt.Errorf("deduct coins for user %d: %w", userID, res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deducted = true

		ledger, err := s.findLedger(tx, userID)
		if err != nil {
			return err
		}
		return tx.Create(&models.RewardTransaction{
			UserID:        userID,
			RewardType:    models.RewardCoinSpend,
			Coins:         -amount,
			CoinsBefore:   ledger.Coins + amount,
			CoinsAfter:    ledger.Coins,
			Reference:     reason,
			Message:       fmt.Sprintf("Spent %d coins", amount),
			TransactionAt: s.now(),
		}).Error
	})
	if err != nil {
		return false, err
	}

	if deducted {
		metrics.CoinsDeductedTotal.Add(float64(amount))
	} else {
		metrics.CoinDeductionsRejectedTotal.Inc()
	}
	return deducted, nil
}

// AddCoins is an administrative credit
func (s *RewardService) AddCoins(ctx context.Context, userID uint, amount int, reason string) (*RewardGrant, error) {
	return s.adminCredit(ctx, userID, 0, amount, reason)
}

// AddXP is an administrative credit
func (s *RewardService) AddXP(ctx context.Context, userID uint, amount int, reason string) (*RewardGrant, error) {
	return s.adminCredit(ctx, userID, amount, 0, reason)
}

func (s *RewardService) adminCredit(ctx context.Context, userID uint, xp, coins int, reason string) (*RewardGrant, error) {
	if xp < 0 || coins < 0 || xp+coins == 0 {
		return nil, ErrInvalidInput.WithMessage("Amount must be greater than 0!")
	}

	grant := RewardGrant{
		Type:    models.RewardAdminCredit,
		XP:      xp,
		Coins:   coins,
		Message: "Administrative credit",
	}
	if reason != "" {
		grant.Message = "Administrative credit: " + reason
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userExists(tx, userID); err != nil {
			return err
		}
		return s.apply(tx, userID, &grant, reason, nil)
	})
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// ResetStreak sets the user's streak to zero
func (s *RewardService) ResetStreak(ctx context.Context, userID uint) error {
	db := s.db.WithContext(ctx)
	if err := s.userExists(db, userID); err != nil {
		return err
	}
	err := db.Model(&models.RewardLedger{}).
		Where("user_id = ?", userID).
		Update("streak_days", 0).Error
	if err != nil {
		return fmt.Errorf("reset streak for user %d: %w", userID, err)
	}
	log.Printf("[REWARD] user=%d streak reset", userID)
	return nil
}

// GetSummary returns the ledger totals and badges. Users without a ledger get
// the initial values.
func (s *RewardService) GetSummary(ctx context.Context, userID uint) (*RewardSummary, error) {
	db := s.db.WithContext(ctx)
	if err := s.userExists(db, userID); err != nil {
		return nil, err
	}

	summary := &RewardSummary{UserID: userID, CurrentLevel: 1, Badges: []models.UserBadge{}}
	ledger, err := s.findLedger(db, userID)
	if err != nil {
		return nil, err
	}
	if ledger != nil {
		summary.TotalXP = ledger.TotalXP
		summary.Coins = ledger.Coins
		summary.CurrentLevel = ledger.CurrentLevel
		summary.StreakDays = ledger.StreakDays
		summary.LastLogin = ledger.LastLogin
		summary.LastDailyReward = ledger.LastDailyReward
	}

	if err := db.Where("user_id = ?", userID).Order("granted_at asc, id asc").Find(&summary.Badges).Error; err != nil {
		return nil, fmt.Errorf("load badges for user %d: %w", userID, err)
	}
	return summary, nil
}

// GetHistory lists ledger movements, newest first
func (s *RewardService) GetHistory(ctx context.Context, userID uint, limit int) ([]models.RewardTransaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	var history []models.RewardTransaction
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("transaction_at desc, id desc").
		Limit(limit).
		Find(&history).Error
	if err != nil {
		return nil, fmt.Errorf("load reward history for user %d: %w", userID, err)
	}
	return history, nil
}

// Leaderboard ranks users by total XP, passed levels or streak
func (s *RewardService) Leaderboard(ctx context.Context, kind string, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}

	db := s.db.WithContext(ctx)
	var query *gorm.DB
	switch kind {
	case LeaderboardXP, "":
		query = db.Table("reward_ledgers AS l").
			Select("l.user_id AS user_id, u.username AS username, l.total_xp AS value").
			Joins("JOIN users u ON u.id = l.user_id").
			Where("u.is_deleted = ? AND u.deleted_at IS NULL", false).
			Order("value desc, l.user_id asc")
	case LeaderboardStreak:
		query = db.Table("reward_ledgers AS l").
			Select("l.user_id AS user_id, u.username AS username, l.streak_days AS value").
			Joins("JOIN users u ON u.id = l.user_id").
			Where("u.is_deleted = ? AND u.deleted_at IS NULL", false).
			Order("value desc, l.user_id asc")
	case LeaderboardLevels:
		query = db.Table("user_progresses AS p").
			Select("p.user_id AS user_id, u.username AS username, COUNT(*) AS value").
			Joins("JOIN users u ON u.id = p.user_id").
			Where("p.quiz_passed = ? AND p.deleted_at IS NULL AND u.is_deleted = ? AND u.deleted_at IS NULL", true, false).
			Group("p.user_id, u.username").
			Order("value desc, p.user_id asc")
	default:
		return nil, ErrInvalidInput.WithMessage("Leaderboard type must be xp, levels or streak!")
	}

	var entries []LeaderboardEntry
	if err := query.Limit(limit).Scan(&entries).Error; err != nil {
		return nil, fmt.Errorf("load %s leaderboard: %w", kind, err)
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
