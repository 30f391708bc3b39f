// Package employees declares the repository contract for employee records.
package employees

import (
	"context"

	"github.com/dkoval/companyportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, employee *models.Employee) (*models.Employee, error)
	GetByID(ctx context.Context, id int64) (*models.Employee, error)
	// List returns all employees, newest first.
	List(ctx context.Context) ([]*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, id int64) error
	// CountByRole returns per-role totals ordered by descending count.
	CountByRole(ctx context.Context) ([]*models.RoleCount, error)
}
