// Package content provides the PostgreSQL-backed repository for catalog
// content items.
package content

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/studybot/internal/dbx"
	"github.com/dmitrijs2005/studybot/internal/server/models"
)

// PostgresRepository implements content storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.ContentItem) (*models.ContentItem, error) {

	query :=
		`INSERT INTO content (class_num, category, subject, chapter, title, file_id, premium)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		item.Class, item.Category, item.Subject, item.Chapter,
		item.Title, item.FileID, item.Premium).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return item, nil
}

func (r *PostgresRepository) DistinctSubjects(ctx context.Context, class, category string) ([]string, error) {
	query :=
		`SELECT DISTINCT subject FROM content
		 WHERE class_num = $1 AND category = $2
		 ORDER BY subject
		 `

	return r.queryStrings(ctx, query, class, category)
}

func (r *PostgresRepository) DistinctChapters(ctx context.Context, class, category, subject string) ([]string, error) {
	query :=
		`SELECT DISTINCT chapter FROM content
		 WHERE class_num = $1 AND category = $2 AND subject = $3
		 ORDER BY chapter
		 `

	return r.queryStrings(ctx, query, class, category, subject)
}

func (r *PostgresRepository) ListByChapter(ctx context.Context, class, category, subject, chapter string) ([]*models.ContentItem, error) {
	query :=
		`SELECT id, class_num, category, subject, chapter, title, file_id, premium, created_at
		 FROM content
		 WHERE class_num = $1 AND category = $2 AND subject = $3 AND chapter = $4
		 ORDER BY created_at DESC, id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, class, category, subject, chapter)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item := &models.ContentItem{}
		if err := rows.Scan(&item.ID, &item.Class, &item.Category, &item.Subject,
			&item.Chapter, &item.Title, &item.FileID, &item.Premium, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if v != "" {
			values = append(values, v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return values, nil
}
