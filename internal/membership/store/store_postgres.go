package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"memberdesk/internal/membership/models"
	"memberdesk/pkg/platform/sentinel"
	"memberdesk/pkg/platform/tx"
)

const memberColumns = `
	id, name, email, birthdate,
	address, city, province_state, postal_code,
	preferred_contact, phone_other,
	membership_category, membership_fee_cents, status,
	directory_consent, interests, interests_other,
	signature, application_date, approval_date,
	payment_status, payment_id,
	parent_guardian_signature,
	sponsor1_name, sponsor1_status, sponsor2_name, sponsor2_status,
	admin_notes`

// PostgresMemberStore persists member records in PostgreSQL. Queries join
// the transaction riding on the context when the service opened one.
type PostgresMemberStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresMemberStore {
	return &PostgresMemberStore{db: db}
}

func (s *PostgresMemberStore) Create(ctx context.Context, member *models.Member) error {
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	`
	_, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query,
		member.ID.String(), member.Name, member.Email, nullTime(member.Birthdate),
		member.Address, member.City, member.ProvinceState, member.PostalCode,
		member.PreferredContact, member.PhoneOther,
		string(member.Category), int64(member.Fee), string(member.Status),
		member.DirectoryConsent, member.Interests, member.InterestsOther,
		member.Signature, member.ApplicationDate, nullTime(member.ApprovalDate),
		string(member.PaymentStatus), nullString(member.PaymentID),
		member.ParentGuardianSignature,
		member.Sponsor1Name, string(member.Sponsor1Status),
		member.Sponsor2Name, string(member.Sponsor2Status),
		member.AdminNotes,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (s *PostgresMemberStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	member, err := scanMember(tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find member by id: %w", err)
	}
	return member, nil
}

func (s *PostgresMemberStore) ExistsApprovedByName(ctx context.Context, name string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM members WHERE name = $1 AND status = 'approved')`
	var exists bool
	if err := tx.Resolve(ctx, s.db).QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check approved sponsor: %w", err)
	}
	return exists, nil
}

func (s *PostgresMemberStore) UpdateSponsorStatuses(ctx context.Context, id uuid.UUID, s1, s2 models.SponsorStatus) error {
	query := `UPDATE members SET sponsor1_status = $2, sponsor2_status = $3 WHERE id = $1`
	return s.execOne(ctx, "update sponsor statuses", query, id.String(), string(s1), string(s2))
}

func (s *PostgresMemberStore) CompletePayment(ctx context.Context, id uuid.UUID, paymentID string) error {
	query := `UPDATE members SET payment_status = 'completed', payment_id = $2 WHERE id = $1`
	return s.execOne(ctx, "complete payment", query, id.String(), paymentID)
}

func (s *PostgresMemberStore) RecordDecision(ctx context.Context, id uuid.UUID, status models.Status, approvalDate *time.Time, notes string) error {
	query := `
		UPDATE members SET
			status = $2,
			approval_date = $3,
			admin_notes = CASE WHEN $4 <> '' THEN $4 ELSE admin_notes END
		WHERE id = $1
	`
	return s.execOne(ctx, "record decision", query, id.String(), string(status), nullTime(approvalDate), notes)
}

func (s *PostgresMemberStore) ListPendingReview(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE status = 'pending' AND payment_status = 'completed'
		ORDER BY application_date ASC
	`
	return s.list(ctx, "list pending review", query)
}

func (s *PostgresMemberStore) ListByStatus(ctx context.Context, status models.Status) ([]models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE status = $1
		ORDER BY application_date DESC
	`
	return s.list(ctx, "list by status", query, string(status))
}

func (s *PostgresMemberStore) ListDirectory(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE status = 'approved' AND directory_consent
		ORDER BY name ASC
	`
	return s.list(ctx, "list directory", query)
}

func (s *PostgresMemberStore) ListSponsorIssues(ctx context.Context) ([]models.Member, error) {
	query := `
		SELECT ` + memberColumns + `
		FROM members
		WHERE sponsor1_status = 'not_found' OR sponsor2_status = 'not_found'
		ORDER BY application_date ASC
	`
	return s.list(ctx, "list sponsor issues", query)
}

func (s *PostgresMemberStore) execOne(ctx context.Context, op, query string, args ...any) error {
	res, err := tx.Resolve(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresMemberStore) list(ctx context.Context, op, query string, args ...any) ([]models.Member, error) {
	rows, err := tx.Resolve(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []models.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (*models.Member, error) {
	var (
		m            models.Member
		idStr        string
		birthdate    sql.NullTime
		approvalDate sql.NullTime
		paymentID    sql.NullString
		category     string
		feeCents     int64
		status       string
		payStatus    string
		s1Status     string
		s2Status     string
	)

	err := row.Scan(
		&idStr, &m.Name, &m.Email, &birthdate,
		&m.Address, &m.City, &m.ProvinceState, &m.PostalCode,
		&m.PreferredContact, &m.PhoneOther,
		&category, &feeCents, &status,
		&m.DirectoryConsent, &m.Interests, &m.InterestsOther,
		&m.Signature, &m.ApplicationDate, &approvalDate,
		&payStatus, &paymentID,
		&m.ParentGuardianSignature,
		&m.Sponsor1Name, &s1Status, &m.Sponsor2Name, &s2Status,
		&m.AdminNotes,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse member id: %w", err)
	}
	m.ID = id
	m.Category = models.Category(category)
	m.Fee = models.FeeCents(feeCents)
	m.Status = models.Status(status)
	m.PaymentStatus = models.PaymentStatus(payStatus)
	m.Sponsor1Status = models.SponsorStatus(s1Status)
	m.Sponsor2Status = models.SponsorStatus(s2Status)
	if birthdate.Valid {
		b := birthdate.Time
		m.Birthdate = &b
	}
	if approvalDate.Valid {
		a := approvalDate.Time
		m.ApprovalDate = &a
	}
	if paymentID.Valid {
		m.PaymentID = paymentID.String
	}
	return &m, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
