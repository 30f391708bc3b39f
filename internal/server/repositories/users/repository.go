// Package users declares the credential store contract: lookup and
// persistence of user identity records and their remember-token hashes.
package users

import (
	"context"
	"time"

	"github.com/dkoval/companyportal/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByLogin resolves a user by email or username. Email matching is
	// case-insensitive: values are lowercased on insert and on lookup.
	GetByLogin(ctx context.Context, login string) (*models.User, error)
	// UpdateRememberToken replaces the stored remember-token hash and expiry.
	// Passing nil for both clears the token.
	UpdateRememberToken(ctx context.Context, id int64, hash *string, expires *time.Time) error
}
