package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/dmitrijs2005/bookworm/internal/server/auth"
	"github.com/dmitrijs2005/bookworm/internal/server/config"
	"github.com/dmitrijs2005/bookworm/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	return cfg
}

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	svc := NewUserService(repomanager.NewPostgresRepositoryManager(), testConfig())
	return svc, mock, db
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

func userRow(id int64, email, userName, hash string, admin bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "user_name", "password", "admin_flag", "first_name", "last_name", "date_of_birth"}).
		AddRow(id, email, userName, hash, admin, "A", "B", "1990-01-01")
}

func TestRegister_Success(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+email`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+user_name`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WithArgs("a@x.com", "a", sqlmock.AnyArg(), false, "A", "B", "1990-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(`INSERT\s+INTO\s+refresh_tokens`).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pair, err := svc.Register(context.Background(), db, RegisterParams{
		Email: "a@x.com", UserName: "a", Password: "p1",
		FirstName: "A", LastName: "B", DateOfBirth: "1990-01-01",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected a full token pair, got %+v", pair)
	}

	claims, err := auth.ParseClaims(pair.AccessToken, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != 1 || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Admin {
		t.Fatalf("newly registered user must not be admin")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+users\s+WHERE\s+email`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), db, RegisterParams{Email: "a@x.com", UserName: "a", Password: "p1"})
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	// Rollback expected: no user row may be written.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE\s+email`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`WHERE\s+user_name`).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := svc.Register(context.Background(), db, RegisterParams{Email: "a@x.com", UserName: "a", Password: "p1"})
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("want ErrDuplicateUsername, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	hash := mustHash(t, "p1")

	mock.ExpectQuery(`SELECT\s+id,\s*email,\s*user_name,\s*password`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(1, "a@x.com", "a", hash, true))
	mock.ExpectExec(`INSERT\s+INTO\s+refresh_tokens`).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	pair, err := svc.Login(context.Background(), db, "a@x.com", "p1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	claims, err := auth.ParseClaims(pair.AccessToken, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != 1 || claims.Email != "a@x.com" || !claims.Admin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*email`).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.Login(context.Background(), db, "ghost@x.com", "p1")
	if !errors.Is(err, common.ErrEmailNotFound) {
		t.Fatalf("want ErrEmailNotFound, got %v", err)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	hash := mustHash(t, "correct")

	mock.ExpectQuery(`SELECT\s+id,\s*email`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(1, "a@x.com", "a", hash, false))

	pair, err := svc.Login(context.Background(), db, "a@x.com", "wrong")
	if !errors.Is(err, common.ErrWrongPassword) {
		t.Fatalf("want ErrWrongPassword, got %v", err)
	}
	if pair != nil {
		t.Fatalf("no token may be issued on a failed login")
	}
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	hash := mustHash(t, "old")

	mock.ExpectQuery(`SELECT\s+id,\s*email`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(1, "a@x.com", "a", hash, false))

	err := svc.ChangePassword(context.Background(), db, "a@x.com", "not-old", "new")
	if !errors.Is(err, common.ErrWrongPassword) {
		t.Fatalf("want ErrWrongPassword, got %v", err)
	}
}

func TestChangePassword_Success(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	hash := mustHash(t, "old")

	mock.ExpectQuery(`SELECT\s+id,\s*email`).
		WithArgs("a@x.com").
		WillReturnRows(userRow(1, "a@x.com", "a", hash, false))
	mock.ExpectExec(`UPDATE\s+users\s+SET\s+password`).
		WithArgs(sqlmock.AnyArg(), "a@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.ChangePassword(context.Background(), db, "a@x.com", "old", "new"); err != nil {
		t.Fatalf("ChangePassword error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateAttribute_InvalidAttribute(t *testing.T) {
	svc, _, db := newUserService(t)
	defer db.Close()

	err := svc.UpdateAttribute(context.Background(), db, "a@x.com", "admin_flag", "true")
	if !errors.Is(err, common.ErrInvalidAttribute) {
		t.Fatalf("want ErrInvalidAttribute, got %v", err)
	}
}

func TestUpdateAttribute_DuplicateUsername(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE\s+user_name`).
		WithArgs("taken").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := svc.UpdateAttribute(context.Background(), db, "a@x.com", "username", "taken")
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("want ErrDuplicateUsername, got %v", err)
	}
}

func TestRefreshToken_Expired(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "expires_at"}).
		AddRow(int64(1), time.Now().Add(-time.Minute))
	mock.ExpectQuery(`FROM\s+refresh_tokens`).
		WithArgs("stale").
		WillReturnRows(rows)

	_, err := svc.RefreshToken(context.Background(), db, "stale")
	if !errors.Is(err, common.ErrRefreshTokenExpired) {
		t.Fatalf("want ErrRefreshTokenExpired, got %v", err)
	}
}

func TestRefreshToken_RotatesTransactionally(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+refresh_tokens`).
		WithArgs("fresh").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(1), time.Now().Add(time.Hour)))
	mock.ExpectQuery(`WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(1)).
		WillReturnRows(userRow(1, "a@x.com", "a", "hash", false))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens`).
		WithArgs("fresh").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+refresh_tokens`).
		WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	pair, err := svc.RefreshToken(context.Background(), db, "fresh")
	if err != nil {
		t.Fatalf("RefreshToken error: %v", err)
	}
	if pair.RefreshToken == "fresh" {
		t.Fatalf("refresh token must rotate")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLogout_RevokesPresentedToken(t *testing.T) {
	svc, mock, db := newUserService(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+refresh_tokens`).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.Logout(context.Background(), db, "tok"); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
}

func TestLogout_NoTokenIsNoop(t *testing.T) {
	svc, _, db := newUserService(t)
	defer db.Close()

	if err := svc.Logout(context.Background(), db, ""); err != nil {
		t.Fatalf("Logout without a token must succeed, got %v", err)
	}
}
