package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"wordquest/locker"
	"wordquest/metrics"
	"wordquest/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// Level status values, in the order a level moves through them
const (
	StatusLocked       = "locked"
	StatusUnlocked     = "unlocked"
	StatusInProgress   = "in_progress"
	StatusReadyForQuiz = "ready_for_quiz"
	StatusCompleted    = "completed"
)

// ProgressService records word completion and mastery and projects a user's
// progress records into level and user statistics.
type ProgressService struct {
	*core
	rewards *RewardService
}

type WordResult struct {
	WordKey           string       `json:"wordKey"`
	LevelNumber       int          `json:"levelNumber"`
	PointsEarned      int          `json:"pointsEarned"`
	TotalPoints       int          `json:"totalPoints"`
	TotalCompleted    int          `json:"totalCompleted"`
	TotalWords        int          `json:"totalWords"`
	AllWordsCompleted bool         `json:"allWordsCompleted"`
	QuizAvailable     bool         `json:"quizAvailable"`
	AlreadyCompleted  bool         `json:"alreadyCompleted"`
	Reward            *RewardGrant `json:"reward,omitempty"`
}

type MasteryResult struct {
	WordKey         string       `json:"wordKey"`
	LevelNumber     int          `json:"levelNumber"`
	MasteredWords   int          `json:"masteredWords"`
	AlreadyMastered bool         `json:"alreadyMastered"`
	Reward          *RewardGrant `json:"reward,omitempty"`
}

// WordView is a catalog word in one language with the user's state
type WordView struct {
	WordKey      string `json:"wordKey"`
	Category     string `json:"category"`
	Points       int    `json:"points"`
	DisplayOrder int    `json:"displayOrder"`
	Text         string `json:"text"`
	GifURL       string `json:"gifUrl,omitempty"`
	AudioURL     string `json:"audioUrl,omitempty"`
	Description  string `json:"description,omitempty"`
	Learned      bool   `json:"learned"`
	Mastered     bool   `json:"mastered"`
}

type LevelView struct {
	LevelNumber        int        `json:"levelNumber"`
	Language           string     `json:"language"`
	TotalWords         int        `json:"totalWords"`
	LearnedWords       int        `json:"learnedWords"`
	MasteredWords      int        `json:"masteredWords"`
	ProgressPercentage int        `json:"progressPercentage"`
	TotalPoints        int        `json:"totalPoints"`
	Status             string     `json:"status"`
	QuizAvailable      bool       `json:"quizAvailable"`
	QuizPassed         bool       `json:"quizPassed"`
	QuizScore          *int       `json:"quizScore"`
	NextLevelAvailable bool       `json:"nextLevelAvailable"`
	NextLevelNumber    int        `json:"nextLevelNumber,omitempty"`
	Words              []WordView `json:"words"`
}

type LevelStatus struct {
	LevelNumber     int        `json:"levelNumber"`
	UserID          uint       `json:"userId"`
	Unlocked        bool       `json:"unlocked"`
	Status          string     `json:"status"`
	UnlockedAt      *time.Time `json:"unlockedAt"`
	CompletedWords  int        `json:"completedWords"`
	MasteredWords   int        `json:"masteredWords"`
	TotalWords      int        `json:"totalWords"`
	TotalPoints     int        `json:"totalPoints"`
	QuizPassed      bool       `json:"quizPassed"`
	QuizScore       *int       `json:"quizScore"`
	Attempts        int        `json:"attempts"`
	BestScore       *int       `json:"bestScore"`
	IsQuizAvailable bool       `json:"isQuizAvailable"`
}

type RemainingWords struct {
	LevelNumber        int        `json:"levelNumber"`
	TotalWords         int        `json:"totalWords"`
	CompletedCount     int        `json:"completedCount"`
	RemainingCount     int        `json:"remainingCount"`
	ProgressPercentage int        `json:"progressPercentage"`
	CompletedWords     []WordView `json:"completedWords"`
	RemainingWords     []WordView `json:"remainingWords"`
}

type LevelProgress struct {
	LevelNumber        int        `json:"levelNumber"`
	Status             string     `json:"status"`
	CompletedWords     []string   `json:"completedWords"`
	MasteredWords      []string   `json:"masteredWords"`
	TotalPoints        int        `json:"totalPoints"`
	QuizPassed         *bool      `json:"quizPassed"`
	QuizScore          *int       `json:"quizScore"`
	Attempts           int        `json:"attempts"`
	BestScore          *int       `json:"bestScore"`
	UnlockedAt         time.Time  `json:"unlockedAt"`
	CompletedAt        *time.Time `json:"completedAt"`
	LastAttempt        *time.Time `json:"lastAttempt"`
	ProgressPercentage int        `json:"progressPercentage"`
	QuizAvailable      bool       `json:"quizAvailable"`
}

type UserStats struct {
	UserID              uint    `json:"userId"`
	TotalWordsLearned   int     `json:"totalWordsLearned"`
	TotalWordsMastered  int     `json:"totalWordsMastered"`
	TotalPoints         int     `json:"totalPoints"`
	LevelsCompleted     int     `json:"levelsCompleted"`
	TotalLevelsUnlocked int     `json:"totalLevelsUnlocked"`
	CurrentLevel        int     `json:"currentLevel"`
	TotalQuizAttempts   int     `json:"totalQuizAttempts"`
	AverageQuizScore    float64 `json:"averageQuizScore"`
}

type LevelSummary struct {
	LevelNumber    int    `json:"levelNumber"`
	Status         string `json:"status"`
	Unlocked       bool   `json:"unlocked"`
	WordsCompleted int    `json:"wordsCompleted"`
	WordsMastered  int    `json:"wordsMastered"`
	TotalWords     int    `json:"totalWords"`
	TotalPoints    int    `json:"totalPoints"`
	QuizPassed     bool   `json:"quizPassed"`
	QuizScore      *int   `json:"quizScore"`
	QuizAvailable  bool   `json:"quizAvailable"`
}

type WeeklyStats struct {
	From          time.Time      `json:"from"`
	To            time.Time      `json:"to"`
	WordsLearned  int            `json:"wordsLearnedThisWeek"`
	QuizzesTaken  int            `json:"quizzesTakenThisWeek"`
	PointsEarned  int            `json:"pointsEarnedThisWeek"`
	DailyActivity map[string]int `json:"dailyActivity"`
	DailyAverage  float64        `json:"averageDailyWords"`
}

// getOrCreate returns the record for the pair, opening the level when the
// user is allowed to play it. Level 1 is always open; level N needs a passed
// quiz on level N-1.
func (s *ProgressService) getOrCreate(tx *gorm.DB, userID uint, levelNumber int) (*models.UserProgress, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}

	p, err := s.findProgress(tx, userID, levelNumber)
	if err != nil || p != nil {
		return p, err
	}

	if err := s.userExists(tx, userID); err != nil {
		return nil, err
	}
	if levelNumber > 1 {
		passed, err := s.levelPassed(tx, userID, levelNumber-1)
		if err != nil {
			return nil, err
		}
		if !passed {
			return nil, ErrLevelLocked
		}
	}

	p, created, err := s.insertProgress(tx, userID, levelNumber)
	if err != nil {
		return nil, err
	}
	if created {
		log.Printf("[PROGRESS] user=%d opened level %d", userID, levelNumber)
	}
	return p, nil
}

// GetOrCreateProgress returns the user's record for a level, creating it on
// first access when the gate allows it.
func (s *ProgressService) GetOrCreateProgress(ctx context.Context, userID uint, levelNumber int) (*models.UserProgress, error) {
	var p *models.UserProgress
	err := s.withLock(ctx, locker.ProgressKey(userID, levelNumber), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			p, err = s.getOrCreate(tx, userID, levelNumber)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CompleteWord marks wordKey learned. Repeating it earns nothing.
func (s *ProgressService) CompleteWord(ctx context.Context, userID uint, levelNumber int, wordKey string) (*WordResult, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	word := findWord(words, wordKey)
	if word == nil {
		return nil, ErrWordNotInLevel
	}

	var result *WordResult
	err = s.withLock(ctx, locker.ProgressKey(userID, levelNumber), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := s.getOrCreate(tx, userID, levelNumber)
			if err != nil {
				return err
			}

			ts := s.now()
			r := &WordResult{WordKey: wordKey, LevelNumber: levelNumber, TotalWords: len(words)}

			res := tx.Clauses(onConflictDoNothing()).Create(&models.ProgressWord{
				ProgressID:  p.ID,
				WordKey:     wordKey,
				CompletedAt: ts,
			})
			if res.Error != nil {
				return fmt.Errorf("record word %s: %w", wordKey, res.Error)
			}

			if res.RowsAffected == 1 {
				r.PointsEarned = word.PointValue()
				err := tx.Model(&models.UserProgress{}).
					Where("id = ?", p.ID).
					Updates(map[string]interface{}{
						"total_points": gorm.Expr("total_points + ?", r.PointsEarned),
						"last_attempt": ts,
					}).Error
				if err != nil {
					return fmt.Errorf("add word points: %w", err)
				}
				metrics.WordsCompletedTotal.Inc()
			} else {
				r.AlreadyCompleted = true
			}

			if p, err = s.findProgress(tx, userID, levelNumber); err != nil {
				return err
			}
			r.TotalPoints = p.TotalPoints
			r.TotalCompleted = p.CompletedCount()
			r.AllWordsCompleted = s.quizEligible(r.TotalCompleted, len(words))
			r.QuizAvailable = r.AllWordsCompleted && !p.IsQuizPassed()

			if r.AllWordsCompleted && p.CompletionRewardedAt == nil {
				claim := tx.Model(&models.UserProgress{}).
					Where("id = ? AND completion_rewarded_at IS NULL", p.ID).
					Update("completion_rewarded_at", ts)
				if claim.Error != nil {
					return fmt.Errorf("mark level %d rewarded: %w", levelNumber, claim.Error)
				}
				if claim.RowsAffected == 1 {
					if r.Reward, err = s.rewards.awardLevelCompletion(tx, userID, levelNumber); err != nil {
						return err
					}
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

// MasterWord marks an already completed word mastered
func (s *ProgressService) MasterWord(ctx context.Context, userID uint, levelNumber int, wordKey string) (*MasteryResult, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	word, err := s.catalog.Word(ctx, levelNumber, wordKey)
	if err != nil {
		return nil, err
	}
	if word == nil {
		return nil, ErrWordNotInLevel
	}

	var result *MasteryResult
	err = s.withLock(ctx, locker.ProgressKey(userID, levelNumber), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := s.findProgress(tx, userID, levelNumber)
			if err != nil {
				return err
			}
			if p == nil {
				return ErrWordNotCompleted
			}

			r := &MasteryResult{WordKey: wordKey, LevelNumber: levelNumber}
			ts := s.now()
			res := tx.Model(&models.ProgressWord{}).
				Where("progress_id = ? AND word_key = ? AND mastered = ?", p.ID, wordKey, false).
				Updates(map[string]interface{}{"mastered": true, "mastered_at": ts})
			if res.Error != nil {
				return fmt.Errorf("master word %s: %w", wordKey, res.Error)
			}

			if res.RowsAffected == 0 {
				if completed, _ := p.WordState(wordKey); !completed {
					return ErrWordNotCompleted
				}
				r.AlreadyMastered = true
			} else {
				metrics.WordsMasteredTotal.Inc()
				if r.Reward, err = s.rewards.awardWordMastery(tx, userID, levelNumber, wordKey); err != nil {
					return err
				}
			}

			var mastered int64
			err = tx.Model(&models.ProgressWord{}).
				Where("progress_id = ? AND mastered = ?", p.ID, true).
				Count(&mastered).Error
			if err != nil {
				return fmt.Errorf("count mastered words: %w", err)
			}
			r.MasteredWords = int(mastered)

			result = r
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// status derives where a level stands for the user; p is nil when locked
func (s *ProgressService) status(p *models.UserProgress, totalWords int) string {
	switch {
	case p == nil:
		return StatusLocked
	case p.IsQuizPassed():
		return StatusCompleted
	case s.quizEligible(p.CompletedCount(), totalWords):
		return StatusReadyForQuiz
	case p.CompletedCount() > 0:
		return StatusInProgress
	default:
		return StatusUnlocked
	}
}

func (s *ProgressService) quizAvailable(p *models.UserProgress, totalWords int) bool {
	return p != nil && !p.IsQuizPassed() && s.quizEligible(p.CompletedCount(), totalWords)
}

func (s *ProgressService) allProgress(db *gorm.DB, userID uint) ([]models.UserProgress, error) {
	var records []models.UserProgress
	err := db.Preload("Words").
		Where("user_id = ?", userID).
		Order("level_number asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load progress for user %d: %w", userID, err)
	}
	return records, nil
}

// GetUserStats sums the user's progress over every level
func (s *ProgressService) GetUserStats(ctx context.Context, userID uint) (*UserStats, error) {
	db := s.db.WithContext(ctx)
	if err := s.userExists(db, userID); err != nil {
		return nil, err
	}
	records, err := s.allProgress(db, userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{UserID: userID, TotalLevelsUnlocked: len(records)}
	scoreSum, scored := 0, 0
	for i := range records {
		p := &records[i]
		stats.TotalWordsLearned += p.CompletedCount()
		stats.TotalWordsMastered += p.MasteredCount()
		stats.TotalPoints += p.TotalPoints
		stats.TotalQuizAttempts += p.Attempts
		if p.IsQuizPassed() {
			stats.LevelsCompleted++
		}
		if p.LevelNumber > stats.CurrentLevel {
			stats.CurrentLevel = p.LevelNumber
		}
		if p.QuizScore != nil {
			scoreSum += *p.QuizScore
			scored++
		}
	}
	if stats.CurrentLevel == 0 {
		stats.CurrentLevel = 1
	}
	if scored > 0 {
		stats.AverageQuizScore = round2(float64(scoreSum) / float64(scored))
	}
	return stats, nil
}

// GetUserLevels lists every level with its derived status
func (s *ProgressService) GetUserLevels(ctx context.Context, userID uint) ([]LevelSummary, error) {
	db := s.db.WithContext(ctx)
	if err := s.userExists(db, userID); err != nil {
		return nil, err
	}
	records, err := s.allProgress(db, userID)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[int]*models.UserProgress, len(records))
	for i := range records {
		byLevel[records[i].LevelNumber] = &records[i]
	}

	levels := make([]LevelSummary, 0, s.opts.MaxLevel)
	for n := 1; n <= s.opts.MaxLevel; n++ {
		words, err := s.catalog.WordsForLevel(ctx, n)
		if err != nil {
			return nil, err
		}
		p := byLevel[n]
		summary := LevelSummary{
			LevelNumber: n,
			Status:      s.status(p, len(words)),
			Unlocked:    p != nil,
			TotalWords:  len(words),
		}
		if p != nil {
			summary.WordsCompleted = p.CompletedCount()
			summary.WordsMastered = p.MasteredCount()
			summary.TotalPoints = p.TotalPoints
			summary.QuizPassed = p.IsQuizPassed()
			summary.QuizScore = p.QuizScore
			summary.QuizAvailable = s.quizAvailable(p, len(words))
		}
		levels = append(levels, summary)
	}
	return levels, nil
}

// wordViews resolves each word's text in lang, falling back to the word key
func (s *ProgressService) wordViews(ctx context.Context, words []models.LevelWord, lang string) ([]WordView, error) {
	views := make([]WordView, 0, len(words))
	for _, w := range words {
		v := WordView{
			WordKey:      w.WordKey,
			Category:     w.Category,
			Points:       w.PointValue(),
			DisplayOrder: w.DisplayOrder,
			Text:         w.WordKey,
		}
		t, err := s.catalog.Translation(ctx, w.WordKey, lang)
		if err != nil {
			return nil, err
		}
		if t != nil {
			v.Text = t.Text
			v.GifURL = t.GifURL
			v.AudioURL = t.AudioURL
			v.Description = t.Description
		}
		views = append(views, v)
	}
	return views, nil
}

// GetLevelWithProgress returns the level's words in lang together with the
// user's progress on them. The level is opened if the gate allows it.
func (s *ProgressService) GetLevelWithProgress(ctx context.Context, userID uint, levelNumber int, lang string) (*LevelView, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, ErrLevelNotFound
	}
	views, err := s.wordViews(ctx, words, lang)
	if err != nil {
		return nil, err
	}

	var (
		p         *models.UserProgress
		nextFound bool
	)
	err = s.withLock(ctx, locker.ProgressKey(userID, levelNumber), func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			if p, err = s.getOrCreate(tx, userID, levelNumber); err != nil {
				return err
			}
			if p.IsQuizPassed() {
				next, err := s.findProgress(tx, userID, levelNumber+1)
				if err != nil {
					return err
				}
				nextFound = next != nil
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	view := &LevelView{
		LevelNumber:   levelNumber,
		Language:      lang,
		TotalWords:    len(words),
		TotalPoints:   p.TotalPoints,
		Status:        s.status(p, len(words)),
		QuizAvailable: s.quizAvailable(p, len(words)),
		QuizPassed:    p.IsQuizPassed(),
		QuizScore:     p.QuizScore,
		Words:         views,
	}
	for i := range view.Words {
		completed, mastered := p.WordState(view.Words[i].WordKey)
		view.Words[i].Learned = completed
		view.Words[i].Mastered = mastered
		if completed {
			view.LearnedWords++
		}
		if mastered {
			view.MasteredWords++
		}
	}
	view.ProgressPercentage = view.LearnedWords * 100 / len(words)

	if p.IsQuizPassed() && !nextFound && levelNumber < s.opts.MaxLevel {
		view.NextLevelAvailable = true
		view.NextLevelNumber = levelNumber + 1
	}
	return view, nil
}

// GetLevelStatus is read only; a level without a record reports locked
func (s *ProgressService) GetLevelStatus(ctx context.Context, userID uint, levelNumber int) (*LevelStatus, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	p, err := s.findProgress(s.db.WithContext(ctx), userID, levelNumber)
	if err != nil {
		return nil, err
	}

	status := &LevelStatus{
		LevelNumber: levelNumber,
		UserID:      userID,
		Status:      s.status(p, len(words)),
		TotalWords:  len(words),
	}
	if p == nil {
		return status, nil
	}

	unlockedAt := p.UnlockedAt
	status.Unlocked = true
	status.UnlockedAt = &unlockedAt
	status.CompletedWords = p.CompletedCount()
	status.MasteredWords = p.MasteredCount()
	status.TotalPoints = p.TotalPoints
	status.QuizPassed = p.IsQuizPassed()
	status.QuizScore = p.QuizScore
	status.Attempts = p.Attempts
	status.BestScore = p.BestScore
	status.IsQuizAvailable = s.quizAvailable(p, len(words))
	return status, nil
}

// GetRemainingWords splits the level's words into completed and remaining
func (s *ProgressService) GetRemainingWords(ctx context.Context, userID uint, levelNumber int, lang string) (*RemainingWords, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	views, err := s.wordViews(ctx, words, lang)
	if err != nil {
		return nil, err
	}
	p, err := s.GetOrCreateProgress(ctx, userID, levelNumber)
	if err != nil {
		return nil, err
	}

	out := &RemainingWords{
		LevelNumber:    levelNumber,
		TotalWords:     len(words),
		CompletedWords: []WordView{},
		RemainingWords: []WordView{},
	}
	for _, v := range views {
		completed, mastered := p.WordState(v.WordKey)
		if completed {
			v.Learned = true
			v.Mastered = mastered
			out.CompletedWords = append(out.CompletedWords, v)
		} else {
			out.RemainingWords = append(out.RemainingWords, v)
		}
	}
	out.CompletedCount = len(out.CompletedWords)
	out.RemainingCount = len(out.RemainingWords)
	if len(words) > 0 {
		out.ProgressPercentage = out.CompletedCount * 100 / len(words)
	}
	return out, nil
}

// GetLevelProgress returns the full record of an opened level
func (s *ProgressService) GetLevelProgress(ctx context.Context, userID uint, levelNumber int) (*LevelProgress, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	p, err := s.findProgress(s.db.WithContext(ctx), userID, levelNumber)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrLevelNotOpen
	}
	return s.levelProgress(p, len(words)), nil
}

func (s *ProgressService) levelProgress(p *models.UserProgress, totalWords int) *LevelProgress {
	lp := &LevelProgress{
		LevelNumber:    p.LevelNumber,
		Status:         s.status(p, totalWords),
		CompletedWords: p.CompletedWords(),
		MasteredWords:  p.MasteredWords(),
		TotalPoints:    p.TotalPoints,
		QuizPassed:     p.QuizPassed,
		QuizScore:      p.QuizScore,
		Attempts:       p.Attempts,
		BestScore:      p.BestScore,
		UnlockedAt:     p.UnlockedAt,
		CompletedAt:    p.CompletedAt,
		LastAttempt:    p.LastAttempt,
		QuizAvailable:  s.quizAvailable(p, totalWords),
	}
	if threshold := s.eligibilityThreshold(totalWords); threshold > 0 {
		lp.ProgressPercentage = p.CompletedCount() * 100 / threshold
		if lp.ProgressPercentage > 100 {
			lp.ProgressPercentage = 100
		}
	}
	return lp
}

// ResetLevelProgress clears words, points and quiz fields of an opened level.
// The level stays unlocked and its completion reward is not granted again.
func (s *ProgressService) ResetLevelProgress(ctx context.Context, userID uint, levelNumber int) (*LevelProgress, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}

	var p *models.UserProgress
	err = s.withOutcomeLock(ctx, userID, levelNumber, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			current, err := s.findProgress(tx, userID, levelNumber)
			if err != nil {
				return err
			}
			if current == nil {
				return ErrLevelNotOpen
			}

			if err := tx.Where("progress_id = ?", current.ID).Delete(&models.ProgressWord{}).Error; err != nil {
				return fmt.Errorf("clear words: %w", err)
			}
			err = tx.Model(&models.UserProgress{}).
				Where("id = ?", current.ID).
				Updates(map[string]interface{}{
					"total_points": 0,
					"quiz_passed":  nil,
					"quiz_score":   nil,
					"attempts":     0,
					"best_score":   nil,
					"completed_at": nil,
					"last_attempt": nil,
				}).Error
			if err != nil {
				return fmt.Errorf("reset level %d: %w", levelNumber, err)
			}

			p, err = s.findProgress(tx, userID, levelNumber)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[PROGRESS] user=%d reset level %d", userID, levelNumber)
	return s.levelProgress(p, len(words)), nil
}

// GetWeeklyStats summarises the last seven days, today included
func (s *ProgressService) GetWeeklyStats(ctx context.Context, userID uint) (*WeeklyStats, error) {
	db := s.db.WithContext(ctx)
	if err := s.userExists(db, userID); err != nil {
		return nil, err
	}

	today := now.With(s.now()).BeginningOfDay()
	since := today.AddDate(0, 0, -6)

	var learned []models.ProgressWord
	err := db.Model(&models.ProgressWord{}).
		Joins("JOIN user_progresses ON user_progresses.id = progress_words.progress_id").
		Where("user_progresses.user_id = ? AND progress_words.completed_at >= ?", userID, since).
		Find(&learned).Error
	if err != nil {
		return nil, fmt.Errorf("load weekly words: %w", err)
	}

	var touched []models.UserProgress
	err = db.Where("user_id = ? AND last_attempt >= ?", userID, since).Find(&touched).Error
	if err != nil {
		return nil, fmt.Errorf("load weekly progress: %w", err)
	}

	stats := &WeeklyStats{
		From:          since,
		To:            now.With(s.now()).EndOfDay(),
		WordsLearned:  len(learned),
		DailyActivity: make(map[string]int, 7),
	}
	for i := 0; i < 7; i++ {
		stats.DailyActivity[since.AddDate(0, 0, i).Format("2006-01-02")] = 0
	}
	for _, w := range learned {
		day := w.CompletedAt.In(today.Location()).Format("2006-01-02")
		if _, ok := stats.DailyActivity[day]; ok {
			stats.DailyActivity[day]++
		}
	}
	for _, p := range touched {
		if p.QuizScore != nil {
			stats.QuizzesTaken++
		}
		stats.PointsEarned += p.TotalPoints
	}
	stats.DailyAverage = round2(float64(stats.WordsLearned) / 7)
	return stats, nil
}

func findWord(words []models.LevelWord, wordKey string) *models.LevelWord {
	for i := range words {
		if words[i].WordKey == wordKey {
			return &words[i]
		}
	}
	return nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
