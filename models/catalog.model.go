package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DefaultWordPoints     = 10
	DefaultQuestionPoints = 20
	DefaultRequiredScore  = 70
	DefaultTimeLimit      = 30
)

// LevelWord is a vocabulary item belonging to one level
type LevelWord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	LevelNumber  int       `gorm:"not null;index" json:"levelNumber"`
	WordKey      string    `gorm:"size:100;uniqueIndex;not null" json:"wordKey"`
	Category     string    `gorm:"size:50" json:"category"`
	DisplayOrder int       `gorm:"default:0" json:"displayOrder"`
	Points       int       `gorm:"not null;default:10" json:"points"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PointValue falls back to the default when the stored value is missing
func (w LevelWord) PointValue() int {
	if w.Points <= 0 {
		return DefaultWordPoints
	}
	return w.Points
}

// Translation holds the display text and media of a word in one language
type Translation struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	WordKey      string `gorm:"size:100;not null;uniqueIndex:idx_translation_word_lang" json:"wordKey"`
	LanguageCode string `gorm:"size:2;not null;uniqueIndex:idx_translation_word_lang" json:"languageCode"`
	Text         string `gorm:"size:255;not null" json:"text"`
	GifURL       string `gorm:"size:500" json:"gifUrl"`
	AudioURL     string `gorm:"size:500" json:"audioUrl"`
	Description  string `gorm:"size:500" json:"description"`
}

// QuizQuestion is a catalog question attached to a level
type QuizQuestion struct {
	ID            uint                       `gorm:"primarykey" json:"id"`
	LevelNumber   int                        `gorm:"not null;index" json:"levelNumber"`
	QuestionType  string                     `gorm:"size:50;not null" json:"questionType"`
	QuestionText  string                     `gorm:"size:500;not null" json:"questionText"`
	CorrectAnswer string                     `gorm:"size:255;not null" json:"correctAnswer,omitempty"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	GifURL        string                     `gorm:"size:500" json:"gifUrl"`
	Points        int                        `gorm:"not null;default:20" json:"points"`
	RequiredScore int                        `gorm:"not null;default:70" json:"requiredScore"`
	TimeLimit     int                        `json:"timeLimit"`
	Explanation   string                     `gorm:"size:500" json:"explanation,omitempty"`
}

func (q QuizQuestion) PointValue() int {
	if q.Points <= 0 {
		return DefaultQuestionPoints
	}
	return q.Points
}

func (q QuizQuestion) PassMark() int {
	if q.RequiredScore <= 0 {
		return DefaultRequiredScore
	}
	return q.RequiredScore
}

func (q QuizQuestion) TimeLimitSeconds() int {
	if q.TimeLimit <= 0 {
		return DefaultTimeLimit
	}
	return q.TimeLimit
}
