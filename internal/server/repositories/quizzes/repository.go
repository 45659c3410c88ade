package quizzes

import (
	"context"

	"github.com/dmitrijs2005/studybot/internal/server/models"
)

// Repository persists quizzes.
type Repository interface {
	Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error)

	// PickRandom returns one quiz chosen uniformly among the matches for
	// class and subject; an empty chapter matches any chapter. Returns
	// common.ErrorNotFound when nothing matches.
	PickRandom(ctx context.Context, class, subject, chapter string) (*models.Quiz, error)

	Count(ctx context.Context) (int64, error)
}
