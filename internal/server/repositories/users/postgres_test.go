package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dormdeals/dormdeals/internal/common"
	"github.com/dormdeals/dormdeals/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func userColumns() []string {
	return []string{"id", "name", "email", "password", "university_id", "university_name", "profile_image_url", "refresh_token"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\).*RETURNING\s+id,\s*created_at`

	created := time.Now()
	mock.ExpectQuery(q).
		WithArgs("Alice", "alice@test.edu", "hash", int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(42), created))

	user, err := repo.Create(context.Background(), &models.User{
		Name: "Alice", Email: "alice@test.edu", PasswordHash: "hash", UniversityID: 7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 42 || !user.CreatedAt.Equal(created) {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Name: "Alice", Email: "alice@test.edu"})
	if err == nil || errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+u\.id,.*FROM\s+users\s+u.*WHERE\s+u\.email\s*=\s*\$1`

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(42), "Alice", "alice@test.edu", "hash", int64(7), "Test University", "", "tok")

	mock.ExpectQuery(q).WithArgs("alice@test.edu").WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "alice@test.edu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 42 || user.UniversityName != "Test University" || user.RefreshToken != "tok" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+u\.id,`).
		WithArgs("ghost@test.edu").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@test.edu")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestGetByID_NullUniversity(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(1), "Bob", "bob@test.edu", "hash", nil, "", "", "")

	mock.ExpectQuery(`SELECT\s+u\.id,`).WithArgs(int64(1)).WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.UniversityID != 0 || user.UniversityName != "" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestUpdateRefreshToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+users\s+SET\s+refresh_token\s*=\s*\$1,\s*updated_at\s*=\s*NOW\(\)\s+WHERE\s+id\s*=\s*\$2`

	mock.ExpectExec(q).
		WithArgs("new-token", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRefreshToken(context.Background(), 42, "new-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClearRefreshToken(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)UPDATE\s+users\s+SET\s+refresh_token\s*=\s*NULL,\s*updated_at\s*=\s*NOW\(\)\s+WHERE\s+id\s*=\s*\$1`

	mock.ExpectExec(q).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ClearRefreshToken(context.Background(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
