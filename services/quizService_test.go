package services

import (
	"testing"
	"time"

	"wordquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitQuizAllCorrectPasses(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	keys := f.words(1, 2, 10)
	qs := f.questions(1, 2)
	f.completeAll(uid, 1, keys)

	res, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, allCorrect(qs))
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 100, res.Score)
	assert.Equal(t, 2, res.CorrectAnswers)
	assert.Equal(t, 2, res.TotalQuestions)
	assert.Equal(t, 40, res.PointsEarned)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 100, res.BestScore)
	assert.True(t, res.NextLevelAvailable)
	assert.Equal(t, 2, res.NextLevelNumber)

	require.NotNil(t, res.Reward)
	assert.Equal(t, 150, res.Reward.XP)
	assert.Equal(t, 50, res.Reward.BonusXP)
	assert.Equal(t, 60, res.Reward.Coins)
	assert.Equal(t, "quiz_master_lvl_1", res.Reward.Badge)

	p := f.progress(uid, 1)
	assert.True(t, p.IsQuizPassed())
	assert.Equal(t, 60, p.TotalPoints)
	require.NotNil(t, p.CompletedAt)
}

func TestSubmitQuizHalfCorrectFails(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	keys := f.words(1, 2, 10)
	qs := f.questions(1, 2)
	f.completeAll(uid, 1, keys)

	res, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, map[uint]string{
		qs[0].ID: qs[0].CorrectAnswer,
		qs[1].ID: "wrong",
	})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, 50, res.Score)
	assert.Zero(t, res.PointsEarned)
	assert.Nil(t, res.Reward)
	assert.False(t, res.NextLevelAvailable)
	assert.True(t, res.Results[qs[0].ID])
	assert.False(t, res.Results[qs[1].ID])
	assert.Equal(t, qs[1].CorrectAnswer, res.CorrectAnswersMap[qs[1].ID])

	p := f.progress(uid, 1)
	require.NotNil(t, p.QuizPassed)
	assert.False(t, *p.QuizPassed)
	assert.Equal(t, 20, p.TotalPoints)
	assert.Nil(t, p.CompletedAt)
}

func TestSubmitQuizComparesCaseInsensitively(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	f.completeAll(uid, 1, f.words(1, 1, 10))
	qs := f.questions(1, 1)

	res, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, map[uint]string{qs[0].ID: "ANSWER-1"})
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestSubmitQuizIgnoresForeignQuestions(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	f.completeAll(uid, 1, f.words(1, 1, 10))
	qs := f.questions(1, 2)
	other := f.questions(2, 1)

	res, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, map[uint]string{
		qs[0].ID:    qs[0].CorrectAnswer,
		other[0].ID: other[0].CorrectAnswer,
		9999:        "anything",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalQuestions)
	assert.Equal(t, 100, res.Score)
	assert.NotContains(t, res.Results, other[0].ID)

	_, err = f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, map[uint]string{9999: "x"})
	assert.ErrorIs(t, err, ErrNoValidAnswers)

	_, err = f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, map[uint]string{})
	assert.ErrorIs(t, err, ErrNoValidAnswers)
}

func TestSubmitQuizRequiresOpenLevel(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	qs := f.questions(1, 2)

	_, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, allCorrect(qs))
	assert.ErrorIs(t, err, ErrLevelNotOpen)
	assert.Nil(t, f.progress(uid, 1))
}

func TestResubmittingPassedQuiz(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	keys := f.words(1, 2, 10)
	qs := f.questions(1, 2)
	f.passLevel(uid, 1, keys, qs)
	before := f.ledger(uid)

	again, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, allCorrect(qs))
	require.NoError(t, err)
	assert.True(t, again.Passed)
	assert.Zero(t, again.PointsEarned)
	assert.Nil(t, again.Reward)
	assert.Equal(t, 2, again.Attempts)

	failed, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, map[uint]string{qs[0].ID: "no"})
	require.NoError(t, err)
	assert.False(t, failed.Passed)
	assert.Equal(t, 100, failed.BestScore)

	p := f.progress(uid, 1)
	require.NotNil(t, p.QuizPassed)
	assert.False(t, *p.QuizPassed, "a failed retry clears the pass")
	assert.Equal(t, 60, p.TotalPoints)
	assert.Equal(t, 3, p.Attempts)
	require.NotNil(t, p.QuizScore)
	assert.Equal(t, 0, *p.QuizScore)
	assert.Equal(t, before.TotalXP, f.ledger(uid).TotalXP)

	repassed, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, allCorrect(qs))
	require.NoError(t, err)
	assert.True(t, repassed.Passed)
	assert.Zero(t, repassed.PointsEarned)
	assert.Nil(t, repassed.Reward)

	p = f.progress(uid, 1)
	assert.True(t, p.IsQuizPassed())
	assert.Equal(t, 60, p.TotalPoints)
	assert.Equal(t, before.TotalXP, f.ledger(uid).TotalXP)
	assert.Equal(t, before.Coins, f.ledger(uid).Coins)
}

func TestSubmitQuizEnforcesWordThreshold(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	keys := f.words(1, 10, 10)
	qs := f.questions(1, 2)
	f.words(2, 3, 10)
	f.completeAll(uid, 1, keys[:1])

	_, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, allCorrect(qs))
	assert.ErrorIs(t, err, ErrQuizNotAvailable)
	assert.Equal(t, KindPrerequisiteNotMet, KindOf(err))
	assert.Contains(t, err.Error(), "10 words")

	p := f.progress(uid, 1)
	assert.Nil(t, p.QuizPassed)
	assert.Zero(t, p.Attempts)
	assert.Equal(t, 10, p.TotalPoints)

	_, err = f.engine.Levels.UnlockNextLevel(f.ctx, uid)
	assert.ErrorIs(t, err, ErrNoCompletedLevel)
	assert.Nil(t, f.progress(uid, 2))
}

func TestRetakeQuiz(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	keys := f.words(1, 2, 10)
	qs := f.questions(1, 2)
	f.passLevel(uid, 1, keys, qs)

	lp, err := f.engine.Quiz.RetakeQuiz(f.ctx, uid, 1)
	require.NoError(t, err)
	assert.Nil(t, lp.QuizPassed)
	assert.Nil(t, lp.QuizScore)
	assert.Nil(t, lp.LastAttempt)
	assert.Equal(t, 1, lp.Attempts)
	require.NotNil(t, lp.BestScore)
	assert.Equal(t, 100, *lp.BestScore)
	assert.Len(t, lp.CompletedWords, 2)
	assert.True(t, lp.QuizAvailable)
	assert.Equal(t, StatusReadyForQuiz, lp.Status)

	_, err = f.engine.Quiz.GetQuizResult(f.ctx, uid, 1)
	assert.ErrorIs(t, err, ErrNoQuizResult)

	before := f.ledger(uid)
	res, err := f.engine.Quiz.SubmitQuiz(f.ctx, uid, 1, allCorrect(qs))
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Nil(t, res.Reward)
	assert.Equal(t, before.TotalXP, f.ledger(uid).TotalXP)
	assert.Equal(t, 60, f.progress(uid, 1).TotalPoints)

	_, err = f.engine.Quiz.RetakeQuiz(f.ctx, uid, 2)
	assert.ErrorIs(t, err, ErrLevelNotOpen)
}

func TestStartQuiz(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	keys := f.words(1, 3, 10)
	f.questions(1, 7)

	_, err := f.engine.Quiz.StartQuiz(f.ctx, uid, 1)
	assert.ErrorIs(t, err, ErrLevelNotOpen)

	f.completeAll(uid, 1, keys[:2])
	_, err = f.engine.Quiz.StartQuiz(f.ctx, uid, 1)
	assert.ErrorIs(t, err, ErrQuizNotAvailable)
	assert.Contains(t, err.Error(), "3 words")

	f.completeAll(uid, 1, keys[2:])
	session, err := f.engine.Quiz.StartQuiz(f.ctx, uid, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, 5, session.TotalQuestions)
	assert.Len(t, session.Questions, 5)
	assert.Equal(t, 100, session.TotalPoints)
	assert.Equal(t, 150, session.TimeLimit)
	assert.Equal(t, 70, session.RequiredScore)

	seen := make(map[uint]bool)
	for _, q := range session.Questions {
		assert.False(t, seen[q.ID], "question %d issued twice", q.ID)
		seen[q.ID] = true
		assert.Len(t, q.Options, 2)
	}
}

func TestStartQuizWithoutQuestions(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	f.completeAll(uid, 1, f.words(1, 2, 10))

	_, err := f.engine.Quiz.StartQuiz(f.ctx, uid, 1)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestQuizResultAndHistory(t *testing.T) {
	f := newFixture(t)
	uid := f.user("alice")
	l1 := f.words(1, 2, 10)
	q1 := f.questions(1, 2)
	l2 := f.words(2, 2, 10)
	q2 := f.questions(2, 2)

	history, err := f.engine.Quiz.GetQuizHistory(f.ctx, uid)
	require.NoError(t, err)
	assert.Empty(t, history)

	f.passLevel(uid, 1, l1, q1)
	_, err = f.engine.Levels.UnlockNextLevel(f.ctx, uid)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	f.completeAll(uid, 2, l2)
	_, err = f.engine.Quiz.SubmitQuiz(f.ctx, uid, 2, map[uint]string{q2[0].ID: "nope"})
	require.NoError(t, err)

	rec, err := f.engine.Quiz.GetQuizResult(f.ctx, uid, 1)
	require.NoError(t, err)
	assert.True(t, rec.Passed)
	require.NotNil(t, rec.Score)
	assert.Equal(t, 100, *rec.Score)

	history, err = f.engine.Quiz.GetQuizHistory(f.ctx, uid)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 2, history[0].LevelNumber)
	assert.False(t, history[0].Passed)
	assert.Equal(t, 1, history[1].LevelNumber)
}

func TestCreateImageQuiz(t *testing.T) {
	f := newFixture(t)
	keys := f.words(1, 4, 10)
	for i, k := range keys[:3] {
		f.translate(k, "fr", []string{"chat", "chien", "oiseau"}[i])
	}

	quiz, err := f.engine.Quiz.CreateImageQuiz(f.ctx, 1, "FR")
	require.NoError(t, err)
	assert.Equal(t, "fr", quiz.Language)
	assert.Equal(t, "image", quiz.QuestionType)
	assert.Equal(t, "Choisissez le mot correct pour l'image", quiz.QuestionText)
	assert.Len(t, quiz.Options, 3)
	assert.Contains(t, quiz.Options, quiz.CorrectAnswer)
	assert.Equal(t, models.DefaultQuestionPoints, quiz.Points)
	assert.Equal(t, 60, quiz.TimeLimit)

	f.words(2, 2, 10)
	_, err = f.engine.Quiz.CreateImageQuiz(f.ctx, 2, "fr")
	assert.ErrorIs(t, err, ErrInsufficientWords)
}

func TestResultMessage(t *testing.T) {
	assert.Contains(t, resultMessage(95, true), "Amazing")
	assert.Contains(t, resultMessage(80, true), "Excellent")
	assert.Contains(t, resultMessage(70, true), "Well done")
	assert.Contains(t, resultMessage(40, false), "Try again")
}
