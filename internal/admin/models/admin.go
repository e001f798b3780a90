// Package models holds the admin account record.
package models

import "github.com/google/uuid"

// Admin is a reviewer account. Created once through setup; there is no
// update or delete path.
type Admin struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        string    `json:"email"`
}
