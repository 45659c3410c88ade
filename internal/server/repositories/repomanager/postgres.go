package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studybot/internal/dbx"
	"github.com/dmitrijs2005/studybot/internal/server/migrations"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/attempts"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/content"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/quizzes"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Content(db dbx.DBTX) content.Repository {
	return content.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Quizzes(db dbx.DBTX) quizzes.Repository {
	return quizzes.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Purchases(db dbx.DBTX) purchases.Repository {
	return purchases.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Attempts(db dbx.DBTX) attempts.Repository {
	return attempts.NewPostgresRepository(db)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the given database.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return err
	}

	return nil
}
