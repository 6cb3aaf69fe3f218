package services

import "errors"

// Kind groups errors by how a caller should react to them
type Kind string

const (
	KindNotFound           Kind = "NOT_FOUND"
	KindPrerequisiteNotMet Kind = "PREREQUISITE_NOT_MET"
	KindAlreadyExists      Kind = "ALREADY_EXISTS"
	KindLimitReached       Kind = "LIMIT_REACHED"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInternal           Kind = "INTERNAL"
)

// Error is a recoverable engine failure. Two Errors match under errors.Is when
// their codes are equal, so callers can compare against the sentinels below
// even after the message was customised.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e carrying a more specific message
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Code: e.Code, Message: msg}
}

var (
	ErrUserNotFound        = &Error{KindNotFound, "USER_NOT_FOUND", "User not found!"}
	ErrWordNotInLevel      = &Error{KindNotFound, "WORD_NOT_IN_LEVEL", "Word does not belong to this level!"}
	ErrLevelNotFound       = &Error{KindNotFound, "LEVEL_NOT_FOUND", "Level not found!"}
	ErrNoQuestions         = &Error{KindNotFound, "NO_QUESTIONS", "No questions available for this level!"}
	ErrNoQuizResult        = &Error{KindNotFound, "NO_QUIZ_RESULT", "No quiz result for this level!"}
	ErrTranslationNotFound = &Error{KindNotFound, "TRANSLATION_NOT_FOUND", "Translation not found!"}
	ErrLevelNotOpen        = &Error{KindPrerequisiteNotMet, "LEVEL_NOT_OPEN", "Level is not open!"}
	ErrLevelLocked         = &Error{KindPrerequisiteNotMet, "LEVEL_LOCKED", "Pass the previous level's quiz first!"}
	ErrWordNotCompleted    = &Error{KindPrerequisiteNotMet, "WORD_NOT_COMPLETED", "Complete the word before mastering it!"}
	ErrQuizNotAvailable    = &Error{KindPrerequisiteNotMet, "QUIZ_NOT_AVAILABLE", "Complete more words to unlock the quiz!"}
	ErrNoCompletedLevel    = &Error{KindPrerequisiteNotMet, "NO_COMPLETED_LEVEL", "No level has been completed yet!"}
	ErrAlreadyUnlocked     = &Error{KindAlreadyExists, "ALREADY_UNLOCKED", "Level is already unlocked!"}
	ErrUserExists          = &Error{KindAlreadyExists, "USER_EXISTS", "Username or email already registered!"}
	ErrMaxLevelReached     = &Error{KindLimitReached, "MAX_LEVEL_REACHED", "Maximum level reached!"}
	ErrInsufficientWords   = &Error{KindLimitReached, "INSUFFICIENT_WORDS", "Level needs at least 3 words to build a quiz!"}
	ErrInsufficientCoins   = &Error{KindLimitReached, "INSUFFICIENT_COINS", "Not enough coins!"}
	ErrInvalidLevel        = &Error{KindInvalidInput, "INVALID_LEVEL", "Invalid level number!"}
	ErrNoValidAnswers      = &Error{KindInvalidInput, "NO_VALID_ANSWERS", "No answers match this level's questions!"}
	ErrInvalidInput        = &Error{KindInvalidInput, "INVALID_INPUT", "Invalid input!"}
	ErrBadCredentials      = &Error{KindInvalidInput, "BAD_CREDENTIALS", "Invalid username or password!"}
)

// KindOf returns the Kind of err, or KindInternal when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
