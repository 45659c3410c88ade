package attempts

import (
	"context"

	"github.com/dmitrijs2005/studybot/internal/server/models"
)

// Repository is the quiz-attempt audit log. Write-only from the bot's point
// of view; nothing in the server reads it back.
type Repository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
}
