// Package quiz implements quiz ingestion, random delivery, and the attempt
// audit log. Delivery uses the same entitlement check as content.
package quiz

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/studybot/internal/common"
	"github.com/dmitrijs2005/studybot/internal/server/models"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/repomanager"
)

// PremiumChecker is the entitlement read used to gate premium quizzes.
type PremiumChecker interface {
	IsPremium(ctx context.Context, tgID int64) (bool, error)
}

type Service struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	ent   PremiumChecker
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, ent PremiumChecker) *Service {
	return &Service{db: db, repos: repos, ent: ent}
}

// Add validates and persists a quiz. Exactly four non-empty options and a
// 1-based correct index are required; nothing is persisted on rejection.
func (s *Service) Add(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {
	for _, opt := range quiz.Options {
		if opt == "" {
			return nil, fmt.Errorf("%w: need 4 options", common.ErrInvalidQuiz)
		}
	}
	if quiz.CorrectIndex < 1 || quiz.CorrectIndex > 4 {
		return nil, fmt.Errorf("%w: correct index out of range", common.ErrInvalidQuiz)
	}
	if quiz.Question == "" {
		return nil, fmt.Errorf("%w: empty question", common.ErrInvalidQuiz)
	}

	return s.repos.Quizzes(s.db).Create(ctx, quiz)
}

// Pick selects one quiz uniformly at random for the node. The locked flag is
// set when the quiz is premium and the user is not; the caller shows an
// unlock hint instead of the question. common.ErrorNotFound means no quiz
// matches.
func (s *Service) Pick(ctx context.Context, tgID int64, class, subject, chapter string) (*models.Quiz, bool, error) {
	quiz, err := s.repos.Quizzes(s.db).PickRandom(ctx, class, subject, chapter)
	if err != nil {
		return nil, false, err
	}

	if quiz.Premium {
		premium, err := s.ent.IsPremium(ctx, tgID)
		if err != nil {
			return nil, false, err
		}
		if !premium {
			return quiz, true, nil
		}
	}

	return quiz, false, nil
}

// RecordAttempt appends one answered quiz to the audit log.
func (s *Service) RecordAttempt(ctx context.Context, tgID, quizID int64, chosenIndex int, correct bool) error {
	attempt := &models.QuizAttempt{TgID: tgID, QuizID: quizID, ChosenIndex: chosenIndex, Correct: correct}
	return s.repos.Attempts(s.db).Create(ctx, attempt)
}
