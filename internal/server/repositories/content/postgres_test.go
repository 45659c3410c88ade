package content

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

	q := `(?s)^INSERT\s+INTO\s+content\s*\(class_num,\s*category,\s*subject,\s*chapter,\s*title,\s*file_id,\s*premium\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*RETURNING\s+id,\s*created_at\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now)
	mock.ExpectQuery(q).
		WithArgs("10", "PYQ", "Maths", "Ch-4 Trig", "2019 Set-1", "file-abc", false).
		WillReturnRows(rows)

	item := &models.ContentItem{
		Class: "10", Category: "PYQ", Subject: "Maths",
		Chapter: "Ch-4 Trig", Title: "2019 Set-1", FileID: "file-abc",
	}
	got, err := repo.Create(context.Background(), item)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected item: %+v", got)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+content`

	mock.ExpectQuery(q).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.ContentItem{})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestDistinctSubjects_SkipsEmpty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+DISTINCT\s+subject\s+FROM\s+content\s+WHERE\s+class_num\s*=\s*\$1\s+AND\s+category\s*=\s*\$2\s+ORDER\s+BY\s+subject\s*$`

	rows := sqlmock.NewRows([]string{"subject"}).AddRow("").AddRow("Maths").AddRow("Physics")
	mock.ExpectQuery(q).WithArgs("10", "PYQ").WillReturnRows(rows)

	got, err := repo.DistinctSubjects(context.Background(), "10", "PYQ")
	if err != nil {
		t.Fatalf("DistinctSubjects error: %v", err)
	}
	if len(got) != 2 || got[0] != "Maths" || got[1] != "Physics" {
		t.Fatalf("unexpected subjects: %v", got)
	}
}

func TestDistinctChapters_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+DISTINCT\s+chapter\s+FROM\s+content`

	mock.ExpectQuery(q).WithArgs("10", "PYQ", "Maths").
		WillReturnRows(sqlmock.NewRows([]string{"chapter"}))

	got, err := repo.DistinctChapters(context.Background(), "10", "PYQ", "Maths")
	if err != nil {
		t.Fatalf("DistinctChapters error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no chapters, got %v", got)
	}
}

func TestListByChapter_OrderedNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*class_num,\s*category,\s*subject,\s*chapter,\s*title,\s*file_id,\s*premium,\s*created_at\s+FROM\s+content\s+WHERE\s+.*ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "class_num", "category", "subject", "chapter", "title", "file_id", "premium", "created_at"}).
		AddRow(int64(2), "10", "PYQ", "Maths", "Ch-4", "Newer", "f2", true, now).
		AddRow(int64(1), "10", "PYQ", "Maths", "Ch-4", "Older", "f1", false, now.Add(-time.Hour))
	mock.ExpectQuery(q).WithArgs("10", "PYQ", "Maths", "Ch-4").WillReturnRows(rows)

	got, err := repo.ListByChapter(context.Background(), "10", "PYQ", "Maths", "Ch-4")
	if err != nil {
		t.Fatalf("ListByChapter error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Newer" || !got[0].Premium || got[1].Title != "Older" {
		t.Fatalf("unexpected items: %+v", got)
	}
}
