package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookworm/internal/common"
	"github.com/dmitrijs2005/bookworm/internal/dbx"
	"github.com/dmitrijs2005/bookworm/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX, so it works
// equally against the pool, a request-pinned connection, or a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, user_name, password, admin_flag, first_name, last_name, date_of_birth)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.UserName, user.PasswordHash, user.Admin,
		user.FirstName, user.LastName, user.DateOfBirth).Scan(&user.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) UserNameExists(ctx context.Context, userName string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE user_name = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userName).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, user_name, password, admin_flag, first_name, last_name, date_of_birth
		 FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.UserName, &user.PasswordHash,
		&user.Admin, &user.FirstName, &user.LastName, &user.DateOfBirth)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, email, user_name, password, admin_flag, first_name, last_name, date_of_birth
		 FROM users
		 WHERE id = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.UserName, &user.PasswordHash,
		&user.Admin, &user.FirstName, &user.LastName, &user.DateOfBirth)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	query :=
		`SELECT email, user_name, first_name, last_name, date_of_birth
		 FROM users
		 WHERE email = $1
		 `

	p := &models.Profile{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&p.Email, &p.UserName, &p.FirstName, &p.LastName, &p.DateOfBirth)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

// attributeQueries maps each allowed profile attribute to a fixed UPDATE
// statement. Client input selects a key here and nothing else.
var attributeQueries = map[models.UserAttribute]string{
	models.AttrUserName:    `UPDATE users SET user_name = $1 WHERE email = $2`,
	models.AttrFirstName:   `UPDATE users SET first_name = $1 WHERE email = $2`,
	models.AttrLastName:    `UPDATE users SET last_name = $1 WHERE email = $2`,
	models.AttrDateOfBirth: `UPDATE users SET date_of_birth = $1 WHERE email = $2`,
}

func (r *PostgresRepository) UpdateAttribute(ctx context.Context, email string, attr models.UserAttribute, value string) error {
	query, ok := attributeQueries[attr]
	if !ok {
		return common.ErrInvalidAttribute
	}

	if _, err := r.db.ExecContext(ctx, query, value, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email string, passwordHash string) error {
	query := `UPDATE users SET password = $1 WHERE email = $2`

	if _, err := r.db.ExecContext(ctx, query, passwordHash, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
