package models

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

// UserProgress is the per (user, level) progression record
type UserProgress struct {
	gorm.Model
	UserID      uint `gorm:"not null;uniqueIndex:idx_progress_user_level" json:"userId"`
	LevelNumber int  `gorm:"not null;uniqueIndex:idx_progress_user_level" json:"levelNumber"`
	TotalPoints int  `gorm:"not null;default:0" json:"totalPoints"`

	QuizPassed *bool `json:"quizPassed"` // nil until the first submission
	QuizScore  *int  `json:"quizScore"`
	Attempts   int   `gorm:"not null;default:0" json:"attempts"`
	BestScore  *int  `json:"bestScore"`

	UnlockedAt  time.Time  `gorm:"not null" json:"unlockedAt"`
	CompletedAt *time.Time `json:"completedAt"`
	LastAttempt *time.Time `json:"lastAttempt"`

	// Set the first time the word threshold is reached; survives resets so the
	// level completion reward is granted once.
	CompletionRewardedAt *time.Time `json:"-"`

	Words []ProgressWord `gorm:"foreignKey:ProgressID" json:"-"`
}

// ProgressWord is one completed word of a progress record. Mastery is a flag on
// the completed row, so a word can never be mastered without being completed.
type ProgressWord struct {
	ID          uint       `gorm:"primarykey" json:"-"`
	ProgressID  uint       `gorm:"not null;uniqueIndex:idx_progress_word" json:"-"`
	WordKey     string     `gorm:"size:100;not null;uniqueIndex:idx_progress_word" json:"wordKey"`
	CompletedAt time.Time  `gorm:"not null" json:"completedAt"`
	Mastered    bool       `gorm:"not null;default:false" json:"mastered"`
	MasteredAt  *time.Time `json:"masteredAt"`
}

func (p *UserProgress) IsQuizPassed() bool {
	return p.QuizPassed != nil && *p.QuizPassed
}

// CompletedWords returns the completed word keys ordered by completion time
func (p *UserProgress) CompletedWords() []string {
	words := make([]ProgressWord, len(p.Words))
	copy(words, p.Words)
	sort.SliceStable(words, func(i, j int) bool {
		return words[i].CompletedAt.Before(words[j].CompletedAt)
	})
	keys := make([]string, 0, len(words))
	for _, w := range words {
		keys = append(keys, w.WordKey)
	}
	return keys
}

func (p *UserProgress) MasteredWords() []string {
	keys := []string{}
	for _, w := range p.Words {
		if w.Mastered {
			keys = append(keys, w.WordKey)
		}
	}
	sort.Strings(keys)
	return keys
}

func (p *UserProgress) CompletedCount() int {
	return len(p.Words)
}

func (p *UserProgress) MasteredCount() int {
	n := 0
	for _, w := range p.Words {
		if w.Mastered {
			n++
		}
	}
	return n
}

// WordState reports whether wordKey is completed and whether it is mastered
func (p *UserProgress) WordState(wordKey string) (completed, mastered bool) {
	for _, w := range p.Words {
		if w.WordKey == wordKey {
			return true, w.Mastered
		}
	}
	return false, false
}
