package attempts

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studybot/internal/dbx"
	"github.com/dmitrijs2005/studybot/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {

	query :=
		`INSERT INTO quiz_attempts (tg_id, quiz_id, chosen_index, correct)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query,
		attempt.TgID, attempt.QuizID, attempt.ChosenIndex, attempt.Correct); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}
