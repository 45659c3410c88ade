// Package repomanager bundles the per-entity repositories behind one
// interface so that services can run any of them against either *sql.DB or
// an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studybot/internal/dbx"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/attempts"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/content"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/purchases"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/quizzes"
	"github.com/dmitrijs2005/studybot/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Content(db dbx.DBTX) content.Repository
	Quizzes(db dbx.DBTX) quizzes.Repository
	Purchases(db dbx.DBTX) purchases.Repository
	Attempts(db dbx.DBTX) attempts.Repository
}
