package quizzes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studybot/internal/common"
	"github.com/dmitrijs2005/studybot/internal/dbx"
	"github.com/dmitrijs2005/studybot/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, quiz *models.Quiz) (*models.Quiz, error) {

	query :=
		`INSERT INTO quizzes (class_num, subject, chapter, question, option1, option2, option3, option4, correct_index, premium)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		quiz.Class, quiz.Subject, quiz.Chapter, quiz.Question,
		quiz.Options[0], quiz.Options[1], quiz.Options[2], quiz.Options[3],
		quiz.CorrectIndex, quiz.Premium).Scan(&quiz.ID, &quiz.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return quiz, nil
}

func (r *PostgresRepository) PickRandom(ctx context.Context, class, subject, chapter string) (*models.Quiz, error) {
	query :=
		`SELECT id, class_num, subject, chapter, question, option1, option2, option3, option4, correct_index, premium, created_at
		 FROM quizzes
		 WHERE class_num = $1 AND subject = $2 AND ($3 = '' OR chapter = $3)
		 ORDER BY RANDOM() LIMIT 1
		 `

	quiz := &models.Quiz{}
	err := r.db.QueryRowContext(ctx, query, class, subject, chapter).Scan(
		&quiz.ID, &quiz.Class, &quiz.Subject, &quiz.Chapter, &quiz.Question,
		&quiz.Options[0], &quiz.Options[1], &quiz.Options[2], &quiz.Options[3],
		&quiz.CorrectIndex, &quiz.Premium, &quiz.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return quiz, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}
