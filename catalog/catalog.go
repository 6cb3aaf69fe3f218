// Package catalog is the read-only content catalog: level words, their
// translations and the quiz questions of each level.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"wordquest/models"

	"gorm.io/gorm"
)

// Catalog is the query surface the progression engine needs.
type Catalog interface {
	WordsForLevel(ctx context.Context, levelNumber int) ([]models.LevelWord, error)
	Word(ctx context.Context, levelNumber int, wordKey string) (*models.LevelWord, error)
	Translation(ctx context.Context, wordKey, languageCode string) (*models.Translation, error)
	Translations(ctx context.Context, wordKey string) ([]models.Translation, error)
	QuestionsForLevel(ctx context.Context, levelNumber int) ([]models.QuizQuestion, error)
	Search(ctx context.Context, query, languageCode string) ([]models.Translation, error)
	Categories(ctx context.Context) ([]string, error)
	Languages(ctx context.Context) ([]string, error)
}

type translationKey struct {
	wordKey string
	lang    string
}

// Store is a gorm backed Catalog. Level word lists, questions and translations
// are cached after the first read; Invalidate drops the cache after an import.
type Store struct {
	db *gorm.DB

	mu           sync.RWMutex
	words        map[int][]models.LevelWord
	questions    map[int][]models.QuizQuestion
	translations map[translationKey]*models.Translation
}

var _ Catalog = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	s := &Store{db: db}
	s.Invalidate()
	return s
}

// Invalidate clears every cached entry
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = make(map[int][]models.LevelWord)
	s.questions = make(map[int][]models.QuizQuestion)
	s.translations = make(map[translationKey]*models.Translation)
}

// WordsForLevel returns the level's words ordered by display order. The
// returned slice is a copy and may be modified by the caller.
func (s *Store) WordsForLevel(ctx context.Context, levelNumber int) ([]models.LevelWord, error) {
	s.mu.RLock()
	cached, ok := s.words[levelNumber]
	s.mu.RUnlock()
	if ok {
		return cloneWords(cached), nil
	}

	var words []models.LevelWord
	err := s.db.WithContext(ctx).
		Where("level_number = ?", levelNumber).
		Order("display_order asc, id asc").
		Find(&words).Error
	if err != nil {
		return nil, fmt.Errorf("load words for level %d: %w", levelNumber, err)
	}

	s.mu.Lock()
	s.words[levelNumber] = words
	s.mu.Unlock()
	return cloneWords(words), nil
}

// Word returns nil when wordKey is not cataloged under levelNumber
func (s *Store) Word(ctx context.Context, levelNumber int, wordKey string) (*models.LevelWord, error) {
	words, err := s.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	for i := range words {
		if words[i].WordKey == wordKey {
			return &words[i], nil
		}
	}
	return nil, nil
}

// Translation returns nil when no translation exists for the pair
func (s *Store) Translation(ctx context.Context, wordKey, languageCode string) (*models.Translation, error) {
	key := translationKey{wordKey: wordKey, lang: languageCode}

	s.mu.RLock()
	cached, ok := s.translations[key]
	s.mu.RUnlock()
	if ok {
		if cached == nil {
			return nil, nil
		}
		t := *cached
		return &t, nil
	}

	var t models.Translation
	err := s.db.WithContext(ctx).
		Where("word_key = ? AND language_code = ?", wordKey, languageCode).
		First(&t).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load translation %s/%s: %w", wordKey, languageCode, err)
	}

	var found *models.Translation
	if err == nil {
		found = &t
	}

	s.mu.Lock()
	s.translations[key] = found
	s.mu.Unlock()

	if found == nil {
		return nil, nil
	}
	out := *found
	return &out, nil
}

func (s *Store) Translations(ctx context.Context, wordKey string) ([]models.Translation, error) {
	var translations []models.Translation
	err := s.db.WithContext(ctx).
		Where("word_key = ?", wordKey).
		Order("language_code asc").
		Find(&translations).Error
	if err != nil {
		return nil, fmt.Errorf("load translations for %s: %w", wordKey, err)
	}
	return translations, nil
}

func (s *Store) QuestionsForLevel(ctx context.Context, levelNumber int) ([]models.QuizQuestion, error) {
	s.mu.RLock()
	cached, ok := s.questions[levelNumber]
	s.mu.RUnlock()
	if ok {
		return cloneQuestions(cached), nil
	}

	var questions []models.QuizQuestion
	err := s.db.WithContext(ctx).
		Where("level_number = ?", levelNumber).
		Order("id asc").
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("load questions for level %d: %w", levelNumber, err)
	}

	s.mu.Lock()
	s.questions[levelNumber] = questions
	s.mu.Unlock()
	return cloneQuestions(questions), nil
}

// Search matches translation text in one language, case-insensitively
func (s *Store) Search(ctx context.Context, query, languageCode string) ([]models.Translation, error) {
	var results []models.Translation
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := s.db.WithContext(ctx).
		Where("language_code = ? AND LOWER(text) LIKE ?", languageCode, pattern).
		Order("text asc").
		Limit(50).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("search translations: %w", err)
	}
	return results, nil
}

func (s *Store) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := s.db.WithContext(ctx).
		Model(&models.LevelWord{}).
		Where("category <> ''").
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *Store) Languages(ctx context.Context) ([]string, error) {
	var languages []string
	err := s.db.WithContext(ctx).
		Model(&models.Translation{}).
		Distinct().
		Pluck("language_code", &languages).Error
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	sort.Strings(languages)
	return languages, nil
}

func cloneWords(in []models.LevelWord) []models.LevelWord {
	out := make([]models.LevelWord, len(in))
	copy(out, in)
	return out
}

func cloneQuestions(in []models.QuizQuestion) []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(in))
	for i, q := range in {
		out[i] = q
		out[i].Options = append([]string(nil), q.Options...)
	}
	return out
}
