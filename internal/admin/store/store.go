// Package store persists admin accounts.
package store

import (
	"context"

	"memberdesk/internal/admin/models"
)

// AdminStore is the persistence surface for reviewer accounts.
type AdminStore interface {
	// Create inserts an account. Returns sentinel.ErrConflict when the
	// username is taken.
	Create(ctx context.Context, admin *models.Admin) error

	// FindByUsername returns sentinel.ErrNotFound for an unknown username.
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)

	// Any reports whether at least one admin exists; the setup operation is
	// disabled once this is true.
	Any(ctx context.Context) (bool, error)
}
