package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, employee *models.Employee) (*models.Employee, error) {

	query :=
		`INSERT INTO employees (firstname, lastname, role)
         VALUES ($1, $2, $3)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		employee.FirstName, employee.LastName, employee.Role).Scan(&employee.ID, &employee.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employee, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	query :=
		`SELECT id, firstname, lastname, role, created_at FROM employees
		 WHERE id = $1
		 `

	employee := &models.Employee{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&employee.ID, &employee.FirstName, &employee.LastName, &employee.Role, &employee.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return employee, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Employee, error) {
	query :=
		`SELECT id, firstname, lastname, role, created_at FROM employees
		 ORDER BY id DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Employee
	for rows.Next() {
		employee := &models.Employee{}
		if err := rows.Scan(&employee.ID, &employee.FirstName, &employee.LastName,
			&employee.Role, &employee.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, employee *models.Employee) error {
	query :=
		`UPDATE employees SET firstname = $1, lastname = $2, role = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query,
		employee.FirstName, employee.LastName, employee.Role, employee.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query :=
		`DELETE FROM employees
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) CountByRole(ctx context.Context) ([]*models.RoleCount, error) {
	query :=
		`SELECT role, COUNT(*) AS total FROM employees
		 GROUP BY role
		 ORDER BY total DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.RoleCount
	for rows.Next() {
		rc := &models.RoleCount{}
		if err := rows.Scan(&rc.Role, &rc.Total); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
