package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"memberdesk/internal/admin/models"
	"memberdesk/pkg/platform/sentinel"
	"memberdesk/pkg/platform/tx"
)

// PostgresAdminStore persists admin accounts in PostgreSQL.
type PostgresAdminStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresAdminStore {
	return &PostgresAdminStore{db: db}
}

func (s *PostgresAdminStore) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash, email)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		admin.ID.String(), admin.Username, admin.PasswordHash, admin.Email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}

func (s *PostgresAdminStore) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `SELECT id, username, password_hash, email FROM admins WHERE username = $1`

	var (
		admin models.Admin
		idStr string
	)
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, username).
		Scan(&idStr, &admin.Username, &admin.PasswordHash, &admin.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find admin by username: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse admin id: %w", err)
	}
	admin.ID = id
	return &admin, nil
}

func (s *PostgresAdminStore) Any(ctx context.Context) (bool, error) {
	var exists bool
	err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM admins)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check admins exist: %w", err)
	}
	return exists, nil
}
