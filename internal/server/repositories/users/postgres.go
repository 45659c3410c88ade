package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studybot/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) EnsureUser(ctx context.Context, tgID int64, name string) error {

	query :=
		`INSERT INTO users (tg_id, name)
		 VALUES ($1, $2)
		 ON CONFLICT (tg_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, tgID, name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) IsPremium(ctx context.Context, tgID int64) (bool, error) {
	query :=
		`SELECT is_premium FROM users
		 WHERE tg_id = $1
		 `

	var premium bool
	err := r.db.QueryRowContext(ctx, query, tgID).Scan(&premium)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("db error: %w", err)
	}

	return premium, nil
}

func (r *PostgresRepository) SetPremium(ctx context.Context, tgID int64) (bool, error) {
	query :=
		`UPDATE users SET is_premium = TRUE
		 WHERE tg_id = $1 AND is_premium = FALSE
		 `

	res, err := r.db.ExecContext(ctx, query, tgID)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}

func (r *PostgresRepository) Counts(ctx context.Context) (int64, int64, error) {
	query :=
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_premium) FROM users
		 `

	var total, premium int64
	if err := r.db.QueryRowContext(ctx, query).Scan(&total, &premium); err != nil {
		return 0, 0, fmt.Errorf("db error: %w", err)
	}

	return total, premium, nil
}
