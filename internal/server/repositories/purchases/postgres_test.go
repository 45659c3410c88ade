package purchases

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/studybot/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+purchases\s*\(tg_id,\s*txn_id,\s*plan\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`

	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(9), time.Now())
	mock.ExpectQuery(q).
		WithArgs(int64(42), "TXN123", models.PlanManualUPI).
		WillReturnRows(rows)

	p := &models.Purchase{TgID: 42, TxnID: "TXN123", Plan: models.PlanManualUPI}
	got, err := repo.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("unexpected purchase: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+purchases`

	mock.ExpectQuery(q).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Purchase{})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestExistsByTxn(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+purchases\s+WHERE\s+txn_id\s*=\s*\$1\)\s*$`

	mock.ExpectQuery(q).WithArgs("TXN123").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByTxn(context.Background(), "TXN123")
	if err != nil {
		t.Fatalf("ExistsByTxn error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
}
