// Package repomanager wires the database connection, the goose migrations,
// and the per-table repositories behind a single interface.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkoval/companyportal/internal/server/repositories/employees"
	"github.com/dkoval/companyportal/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Employees() employees.Repository
}
