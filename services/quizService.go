package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"wordquest/metrics"
	"wordquest/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	imageQuizOptions   = 3
	imageQuizTimeLimit = 60
)

// QuizService issues and scores level quizzes.
//
// Sessions are not stored: SubmitQuiz scores whatever question ids the
// client sends back, as long as they belong to the level.
// TODO: persist the issued question set per session and reject answers to
// questions that were not issued.
type QuizService struct {
	*core
	rewards  *RewardService
	progress *ProgressService
}

// QuestionView is a quiz question without its answer key
type QuestionView struct {
	ID            uint     `json:"id"`
	QuestionType  string   `json:"questionType"`
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	GifURL        string   `json:"gifUrl,omitempty"`
	TimeLimit     int      `json:"timeLimit"`
	Points        int      `json:"points"`
	RequiredScore int      `json:"requiredScore"`
}

type QuizSession struct {
	SessionID      string         `json:"sessionId"`
	LevelNumber    int            `json:"levelNumber"`
	TotalQuestions int            `json:"totalQuestions"`
	TotalPoints    int            `json:"totalPoints"`
	RequiredScore  int            `json:"requiredScore"`
	TimeLimit      int            `json:"timeLimit"`
	StartTime      time.Time      `json:"startTime"`
	Questions      []QuestionView `json:"questions"`
}

type QuizResult struct {
	LevelNumber        int             `json:"levelNumber"`
	Passed             bool            `json:"passed"`
	Score              int             `json:"score"`
	CorrectAnswers     int             `json:"correctAnswers"`
	TotalQuestions     int             `json:"totalQuestions"`
	PointsEarned       int             `json:"pointsEarned"`
	RequiredScore      int             `json:"requiredScore"`
	Attempts           int             `json:"attempts"`
	BestScore          int             `json:"bestScore"`
	Results            map[uint]bool   `json:"results"`
	CorrectAnswersMap  map[uint]string `json:"correctAnswersMap"`
	Message            string          `json:"message"`
	NextLevelAvailable bool            `json:"nextLevelAvailable"`
	NextLevelNumber    int             `json:"nextLevelNumber,omitempty"`
	Reward             *RewardGrant    `json:"reward,omitempty"`
}

// ImageQuiz is a generated multiple choice question; it is not stored
type ImageQuiz struct {
	LevelNumber   int      `json:"levelNumber"`
	Language      string   `json:"language"`
	QuestionType  string   `json:"questionType"`
	QuestionText  string   `json:"questionText"`
	GifURL        string   `json:"gifUrl"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Points        int      `json:"points"`
	RequiredScore int      `json:"requiredScore"`
	TimeLimit     int      `json:"timeLimit"`
}

type QuizRecord struct {
	LevelNumber int        `json:"levelNumber"`
	Score       *int       `json:"score"`
	Passed      bool       `json:"passed"`
	Attempts    int        `json:"attempts"`
	BestScore   int        `json:"bestScore"`
	TotalPoints int        `json:"totalPoints"`
	LastAttempt *time.Time `json:"lastAttempt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func questionView(q models.QuizQuestion) QuestionView {
	options := []string(q.Options)
	if options == nil {
		options = []string{}
	}
	return QuestionView{
		ID:            q.ID,
		QuestionType:  q.QuestionType,
		QuestionText:  q.QuestionText,
		Options:       options,
		GifURL:        q.GifURL,
		TimeLimit:     q.TimeLimitSeconds(),
		Points:        q.PointValue(),
		RequiredScore: q.PassMark(),
	}
}

// StartQuiz issues up to QuizSize random questions of the level. The level
// must be open and its word threshold reached.
func (s *QuizService) StartQuiz(ctx context.Context, userID uint, levelNumber int) (*QuizSession, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	if err := s.userExists(db, userID); err != nil {
		return nil, err
	}
	p, err := s.findProgress(db, userID, levelNumber)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrLevelNotOpen
	}
	if !s.quizEligible(p.CompletedCount(), len(words)) {
		return nil, ErrQuizNotAvailable.WithMessage(fmt.Sprintf(
			"Complete %d words to unlock the quiz!", s.eligibilityThreshold(len(words))))
	}

	questions, err := s.catalog.QuestionsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	if len(questions) > s.opts.QuizSize {
		s.shuffle(len(questions), func(i, j int) {
			questions[i], questions[j] = questions[j], questions[i]
		})
		questions = questions[:s.opts.QuizSize]
	}

	session := &QuizSession{
		SessionID:      uuid.NewString(),
		LevelNumber:    levelNumber,
		TotalQuestions: len(questions),
		RequiredScore:  questions[0].PassMark(),
		StartTime:      s.now(),
		Questions:      make([]QuestionView, 0, len(questions)),
	}
	for _, q := range questions {
		session.TotalPoints += q.PointValue()
		session.TimeLimit += q.TimeLimitSeconds()
		session.Questions = append(session.Questions, questionView(q))
	}

	log.Printf("[QUIZ] user=%d started level %d session=%s questions=%d",
		userID, levelNumber, session.SessionID, session.TotalQuestions)
	return session, nil
}

// SubmitQuiz scores answers keyed by question id. Answers are compared
// case-insensitively; ids that are unknown or belong to another level are
// ignored. The word threshold is enforced here as well as in StartQuiz since
// sessions are not stored.
func (s *QuizService) SubmitQuiz(ctx context.Context, userID uint, levelNumber int, answers map[uint]string) (*QuizResult, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, ErrNoValidAnswers
	}

	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	questions, err := s.catalog.QuestionsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.QuizQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ids := make([]uint, 0, len(answers))
	for id := range answers {
		if _, ok := byID[id]; !ok {
			log.Printf("[QUIZ] WARN user=%d level=%d ignoring question %d not in level", userID, levelNumber, id)
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, ErrNoValidAnswers
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := &QuizResult{
		LevelNumber:       levelNumber,
		TotalQuestions:    len(ids),
		RequiredScore:     byID[ids[0]].PassMark(),
		Results:           make(map[uint]bool, len(ids)),
		CorrectAnswersMap: make(map[uint]string, len(ids)),
	}
	for _, id := range ids {
		q := byID[id]
		correct := strings.EqualFold(answers[id], q.CorrectAnswer)
		result.Results[id] = correct
		result.CorrectAnswersMap[id] = q.CorrectAnswer
		if correct {
			result.CorrectAnswers++
			result.PointsEarned += q.PointValue()
		}
	}
	result.Score = result.CorrectAnswers * 100 / result.TotalQuestions
	result.Passed = result.Score >= result.RequiredScore
	if !result.Passed {
		result.PointsEarned = 0
	}
	result.Message = resultMessage(result.Score, result.Passed)

	err = s.withOutcomeLock(ctx, userID, levelNumber, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			p, err := s.findProgress(tx, userID, levelNumber)
			if err != nil {
				return err
			}
			if p == nil {
				return ErrLevelNotOpen
			}
			if !s.quizEligible(p.CompletedCount(), len(words)) {
				return ErrQuizNotAvailable.WithMessage(fmt.Sprintf(
					"Complete %d words to unlock the quiz!", s.eligibilityThreshold(len(words))))
			}
			// points and the quiz reward are paid on the first pass since the
			// level was opened or reset
			firstPass := p.CompletedAt == nil

			ts := s.now()
			best := result.Score
			if p.BestScore != nil && *p.BestScore > best {
				best = *p.BestScore
			}
			updates := map[string]interface{}{
				"attempts":     gorm.Expr("attempts + 1"),
				"last_attempt": ts,
				"quiz_score":   result.Score,
				"best_score":   best,
			}
			if result.Passed {
				updates["quiz_passed"] = true
				updates["completed_at"] = ts
				if firstPass {
					updates["total_points"] = gorm.Expr("total_points + ?", result.PointsEarned)
				}
			} else {
				updates["quiz_passed"] = false
			}
			if err := tx.Model(&models.UserProgress{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("record quiz attempt: %w", err)
			}

			if result.Passed && firstPass {
				if result.Reward, err = s.rewards.awardQuizSuccess(tx, userID, levelNumber, result.Score); err != nil {
					return err
				}
			} else {
				result.PointsEarned = 0
			}

			if result.Passed && levelNumber < s.opts.MaxLevel {
				next, err := s.findProgress(tx, userID, levelNumber+1)
				if err != nil {
					return err
				}
				if next == nil {
					result.NextLevelAvailable = true
					result.NextLevelNumber = levelNumber + 1
				}
			}

			result.Attempts = p.Attempts + 1
			result.BestScore = best
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.QuizSubmissionsTotal.WithLabelValues(fmt.Sprint(result.Passed)).Inc()
	metrics.QuizScore.Observe(float64(result.Score))
	log.Printf("[QUIZ] user=%d level=%d score=%d passed=%t", userID, levelNumber, result.Score, result.Passed)
	return result, nil
}

// RetakeQuiz clears the quiz outcome of a level; word progress is kept
func (s *QuizService) RetakeQuiz(ctx context.Context, userID uint, levelNumber int) (*LevelProgress, error) {
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
			err = tx.Model(&models.UserProgress{}).
				Where("id = ?", current.ID).
				Updates(map[string]interface{}{
					"quiz_passed":  nil,
					"quiz_score":   nil,
					"last_attempt": nil,
				}).Error
			if err != nil {
				return fmt.Errorf("reset quiz for level %d: %w", levelNumber, err)
			}
			p, err = s.findProgress(tx, userID, levelNumber)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[QUIZ] user=%d retaking level %d", userID, levelNumber)
	return s.progress.levelProgress(p, len(words)), nil
}

// GetQuizResult returns the last scored outcome of a level
func (s *QuizService) GetQuizResult(ctx context.Context, userID uint, levelNumber int) (*QuizRecord, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	p, err := s.findProgress(s.db.WithContext(ctx), userID, levelNumber)
	if err != nil {
		return nil, err
	}
	if p == nil || p.QuizScore == nil {
		return nil, ErrNoQuizResult
	}
	return quizRecord(p), nil
}

// GetQuizHistory lists scored levels, most recent attempt first
func (s *QuizService) GetQuizHistory(ctx context.Context, userID uint) ([]QuizRecord, error) {
	var records []models.UserProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND quiz_score IS NOT NULL", userID).
		Order("last_attempt desc, level_number desc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load quiz history for user %d: %w", userID, err)
	}

	history := make([]QuizRecord, 0, len(records))
	for i := range records {
		history = append(history, *quizRecord(&records[i]))
	}
	return history, nil
}

func quizRecord(p *models.UserProgress) *QuizRecord {
	r := &QuizRecord{
		LevelNumber: p.LevelNumber,
		Score:       p.QuizScore,
		Passed:      p.IsQuizPassed(),
		Attempts:    p.Attempts,
		TotalPoints: p.TotalPoints,
		LastAttempt: p.LastAttempt,
		CompletedAt: p.CompletedAt,
	}
	if p.BestScore != nil {
		r.BestScore = *p.BestScore
	}
	return r
}

// CreateImageQuiz builds a three option question from random words of the
// level. Words without a translation in lang are shown by their key.
func (s *QuizService) CreateImageQuiz(ctx context.Context, levelNumber int, lang string) (*ImageQuiz, error) {
	if err := s.validLevel(levelNumber); err != nil {
		return nil, err
	}
	lang = strings.ToLower(strings.TrimSpace(lang))

	words, err := s.catalog.WordsForLevel(ctx, levelNumber)
	if err != nil {
		return nil, err
	}
	if len(words) < imageQuizOptions {
		return nil, ErrInsufficientWords
	}

	s.shuffle(len(words), func(i, j int) { words[i], words[j] = words[j], words[i] })
	picked := words[:imageQuizOptions]
	correctIdx := s.intn(len(picked))

	quiz := &ImageQuiz{
		LevelNumber:   levelNumber,
		Language:      lang,
		QuestionType:  "image",
		QuestionText:  imagePrompt(lang),
		Options:       make([]string, 0, len(picked)),
		Points:        models.DefaultQuestionPoints,
		RequiredScore: models.DefaultRequiredScore,
		TimeLimit:     imageQuizTimeLimit,
	}
	for i, w := range picked {
		text := w.WordKey
		t, err := s.catalog.Translation(ctx, w.WordKey, lang)
		if err != nil {
			return nil, err
		}
		if t != nil {
			text = t.Text
		} else {
			log.Printf("[QUIZ] WARN no %q translation for word %q, using the key", lang, w.WordKey)
		}
		if i == correctIdx {
			quiz.CorrectAnswer = text
			if t != nil {
				quiz.GifURL = t.GifURL
			}
		}
		quiz.Options = append(quiz.Options, text)
	}
	s.shuffle(len(quiz.Options), func(i, j int) {
		quiz.Options[i], quiz.Options[j] = quiz.Options[j], quiz.Options[i]
	})
	return quiz, nil
}

func imagePrompt(lang string) string {
	switch lang {
	case "en":
		return "Choose the correct word for the image"
	case "fr":
		return "Choisissez le mot correct pour l'image"
	default:
		return "اختر الكلمة الصحيحة للصورة"
	}
}

func resultMessage(score int, passed bool) string {
	if !passed {
		return fmt.Sprintf("You did not pass the quiz. Score: %d%%. Try again!", score)
	}
	switch {
	case score >= 90:
		return fmt.Sprintf("Amazing! Excellent score: %d%%", score)
	case score >= 80:
		return fmt.Sprintf("Excellent! Very good score: %d%%", score)
	case score >= 70:
		return fmt.Sprintf("Well done! You passed the quiz: %d%%", score)
	default:
		return fmt.Sprintf("You passed the quiz: %d%%", score)
	}
}
