// Package store persists member records. Stores are pure I/O; workflow
// rules (terminal-state guards, sponsor checks) live in the service layer.
// Implementations return sentinel errors that services translate into
// domain errors.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"memberdesk/internal/membership/models"
)

// MemberStore is the persistence surface for member records.
type MemberStore interface {
	// Create inserts a new record. Returns sentinel.ErrConflict when the
	// email is already taken.
	Create(ctx context.Context, member *models.Member) error

	// FindByID returns sentinel.ErrNotFound for an unknown id.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error)

	// ExistsApprovedByName reports whether an approved member with exactly
	// this name exists. Matching is name-string only.
	ExistsApprovedByName(ctx context.Context, name string) (bool, error)

	// UpdateSponsorStatuses persists sponsor verification results.
	UpdateSponsorStatuses(ctx context.Context, id uuid.UUID, s1, s2 models.SponsorStatus) error

	// CompletePayment marks payment completed and stores the provider's
	// identifier verbatim.
	CompletePayment(ctx context.Context, id uuid.UUID, paymentID string) error

	// RecordDecision sets the terminal status, the approval timestamp for
	// approvals, and overwrites admin notes when notes is non-empty.
	RecordDecision(ctx context.Context, id uuid.UUID, status models.Status, approvalDate *time.Time, notes string) error

	// ListPendingReview returns pending records with completed payment,
	// ordered by application date ascending.
	ListPendingReview(ctx context.Context) ([]models.Member, error)

	// ListByStatus returns records in a review state, newest application first.
	ListByStatus(ctx context.Context, status models.Status) ([]models.Member, error)

	// ListDirectory returns approved records with directory consent,
	// ordered by name ascending.
	ListDirectory(ctx context.Context) ([]models.Member, error)

	// ListSponsorIssues returns records where either sponsor was not found.
	ListSponsorIssues(ctx context.Context) ([]models.Member, error)
}
