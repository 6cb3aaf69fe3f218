package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"wordquest/models"

	"github.com/go-resty/resty/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Document is the JSON layout served by the content repository
type Document struct {
	Words        []models.LevelWord    `json:"words"`
	Translations []models.Translation  `json:"translations"`
	Questions    []models.QuizQuestion `json:"questions"`
}

// ImportStats counts what an import wrote
type ImportStats struct {
	Words        int
	Translations int
	Questions    int
	Skipped      int
}

// Importer loads a catalog Document into the database
type Importer struct {
	db     *gorm.DB
	client *resty.Client
	cache  *Store
}

// NewImporter builds an importer. cache may be nil; when set it is invalidated
// after every successful import.
func NewImporter(db *gorm.DB, cache *Store) *Importer {
	client := resty.New().
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetHeader("Accept", "application/json")
	return &Importer{db: db, client: client, cache: cache}
}

// Fetch downloads a Document from url
func (im *Importer) Fetch(ctx context.Context, url string) (*Document, error) {
	doc := &Document{}
	resp, err := im.client.R().
		SetContext(ctx).
		SetResult(doc).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode())
	}
	return doc, nil
}

// ReadFile decodes a Document from a local JSON file
func ReadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	doc := &Document{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}
	return doc, nil
}

// Import upserts words by word key, translations by (word key, language) and
// questions by (level, question text).
func (im *Importer) Import(ctx context.Context, doc *Document) (ImportStats, error) {
	var stats ImportStats

	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range doc.Words {
			w.WordKey = strings.TrimSpace(w.WordKey)
			if w.WordKey == "" || w.LevelNumber <= 0 {
				stats.Skipped++
				continue
			}
			if w.Points <= 0 {
				w.Points = models.DefaultWordPoints
			}
			w.ID = 0
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "word_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"level_number", "category", "display_order", "points"}),
			}).Create(&w).Error
			if err != nil {
				return fmt.Errorf("upsert word %s: %w", w.WordKey, err)
			}
			stats.Words++
		}

		for _, t := range doc.Translations {
			t.LanguageCode = strings.ToLower(strings.TrimSpace(t.LanguageCode))
			if t.WordKey == "" || len(t.LanguageCode) != 2 || t.Text == "" {
				stats.Skipped++
				continue
			}
			t.ID = 0
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "word_key"}, {Name: "language_code"}},
				DoUpdates: clause.AssignmentColumns([]string{"text", "gif_url", "audio_url", "description"}),
			}).Create(&t).Error
			if err != nil {
				return fmt.Errorf("upsert translation %s/%s: %w", t.WordKey, t.LanguageCode, err)
			}
			stats.Translations++
		}

		for _, q := range doc.Questions {
			if q.LevelNumber <= 0 || q.QuestionText == "" || q.CorrectAnswer == "" {
				stats.Skipped++
				continue
			}
			if q.Points <= 0 {
				q.Points = models.DefaultQuestionPoints
			}
			if q.RequiredScore <= 0 {
				q.RequiredScore = models.DefaultRequiredScore
			}
			if q.QuestionType == "" {
				q.QuestionType = "text"
			}

			var existing models.QuizQuestion
			err := tx.Where("level_number = ? AND question_text = ?", q.LevelNumber, q.QuestionText).First(&existing).Error
			switch {
			case err == nil:
				q.ID = existing.ID
				if err := tx.Save(&q).Error; err != nil {
					return fmt.Errorf("update question %d: %w", q.ID, err)
				}
			case err == gorm.ErrRecordNotFound:
				q.ID = 0
				if err := tx.Create(&q).Error; err != nil {
					return fmt.Errorf("insert question for level %d: %w", q.LevelNumber, err)
				}
			default:
				return err
			}
			stats.Questions++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if im.cache != nil {
		im.cache.Invalidate()
	}

	log.Printf("[CATALOG-IMPORT] words=%d translations=%d questions=%d skipped=%d",
		stats.Words, stats.Translations, stats.Questions, stats.Skipped)
	return stats, nil
}
