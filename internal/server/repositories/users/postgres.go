package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dkoval/companyportal/internal/common"
	"github.com/dkoval/companyportal/internal/dbx"
	"github.com/dkoval/companyportal/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const uniqueViolation = "23505"

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, name, email, password_hash)
         VALUES ($1, $2, lower($3), $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Name, user.Email, user.PasswordHash).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return nil, common.ErrorDuplicateUsername
			}
			return nil, common.ErrorDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, name, email, password_hash, remember_token_hash, remember_token_expires
		 FROM users
		 WHERE id = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	query :=
		`SELECT id, username, name, email, password_hash, remember_token_hash, remember_token_expires
		 FROM users
		 WHERE email = lower($1) OR username = $1
		 `

	return r.scanOne(r.db.QueryRowContext(ctx, query, login))
}

func (r *PostgresRepository) UpdateRememberToken(ctx context.Context, id int64, hash *string, expires *time.Time) error {
	query :=
		`UPDATE users SET remember_token_hash = $1, remember_token_expires = $2
		 WHERE id = $3
		 `

	if _, err := r.db.ExecContext(ctx, query, hash, expires, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Name, &user.Email,
		&user.PasswordHash, &user.RememberTokenHash, &user.RememberTokenExpires)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
