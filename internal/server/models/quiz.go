package models

import "time"

// Quiz is a single four-option question. CorrectIndex is 1-based.
type Quiz struct {
	ID           int64
	Class        string
	Subject      string
	Chapter      string
	Question     string
	Options      [4]string
	CorrectIndex int
	Premium      bool
	CreatedAt    time.Time
}

// QuizAttempt is a pure audit record of one answered quiz.
type QuizAttempt struct {
	ID          int64
	TgID        int64
	QuizID      int64
	ChosenIndex int
	Correct     bool
	CreatedAt   time.Time
}
