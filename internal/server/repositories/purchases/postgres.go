package purchases

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

func (r *PostgresRepository) Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error) {

	query :=
		`INSERT INTO purchases (tg_id, txn_id, plan)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		purchase.TgID, purchase.TxnID, purchase.Plan).Scan(&purchase.ID, &purchase.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return purchase, nil
}

func (r *PostgresRepository) ExistsByTxn(ctx context.Context, txnID string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM purchases WHERE txn_id = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, txnID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
