package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestEnsureUser_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(tg_id,\s*name\)\s*VALUES\s*\(\$1,\s*\$2\)\s*ON\s+CONFLICT\s*\(tg_id\)\s*DO\s+NOTHING\s*$`

	mock.ExpectExec(q).
		WithArgs(int64(42), "alice").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.EnsureUser(context.Background(), 42, "alice"); err != nil {
		t.Fatalf("EnsureUser error: %v", err)
	}
}

func TestEnsureUser_AlreadyPresent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users`

	// conflict path affects zero rows and is still a success
	mock.ExpectExec(q).
		WithArgs(int64(42), "alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.EnsureUser(context.Background(), 42, "alice"); err != nil {
		t.Fatalf("EnsureUser error: %v", err)
	}
}

func TestIsPremium_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+is_premium\s+FROM\s+users\s+WHERE\s+tg_id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows([]string{"is_premium"}).AddRow(true)
	mock.ExpectQuery(q).WithArgs(int64(42)).WillReturnRows(rows)

	got, err := repo.IsPremium(context.Background(), 42)
	if err != nil {
		t.Fatalf("IsPremium error: %v", err)
	}
	if !got {
		t.Fatal("expected premium=true")
	}
}

func TestIsPremium_UnknownUserIsNotPremium(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+is_premium\s+FROM\s+users`

	mock.ExpectQuery(q).WithArgs(int64(7)).WillReturnError(sql.ErrNoRows)

	got, err := repo.IsPremium(context.Background(), 7)
	if err != nil {
		t.Fatalf("IsPremium error: %v", err)
	}
	if got {
		t.Fatal("unknown user must not be premium")
	}
}

func TestIsPremium_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+is_premium\s+FROM\s+users`

	mock.ExpectQuery(q).WithArgs(int64(42)).WillReturnError(errors.New("db down"))

	_, err := repo.IsPremium(context.Background(), 42)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestSetPremium_Flips(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+is_premium\s*=\s*TRUE\s+WHERE\s+tg_id\s*=\s*\$1\s+AND\s+is_premium\s*=\s*FALSE\s*$`

	mock.ExpectExec(q).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 1))

	flipped, err := repo.SetPremium(context.Background(), 42)
	if err != nil {
		t.Fatalf("SetPremium error: %v", err)
	}
	if !flipped {
		t.Fatal("expected first activation to flip the row")
	}
}

func TestSetPremium_ReplayIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+is_premium`

	mock.ExpectExec(q).WithArgs(int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))

	flipped, err := repo.SetPremium(context.Background(), 42)
	if err != nil {
		t.Fatalf("SetPremium error: %v", err)
	}
	if flipped {
		t.Fatal("repeat activation must not report a flip")
	}
}

func TestCounts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+COUNT\(\*\),\s*COUNT\(\*\)\s+FILTER\s*\(WHERE\s+is_premium\)\s+FROM\s+users\s*$`

	rows := sqlmock.NewRows([]string{"count", "premium"}).AddRow(int64(10), int64(3))
	mock.ExpectQuery(q).WillReturnRows(rows)

	total, premium, err := repo.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts error: %v", err)
	}
	if total != 10 || premium != 3 {
		t.Fatalf("unexpected counts: %d/%d", total, premium)
	}
}
