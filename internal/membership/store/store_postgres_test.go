package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memberdesk/internal/membership/models"
	"memberdesk/pkg/platform/sentinel"
)

func newMockStore(t *testing.T) (*PostgresMemberStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func memberRows(id uuid.UUID, name string) *sqlmock.Rows {
	applied := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "name", "email", "birthdate",
		"address", "city", "province_state", "postal_code",
		"preferred_contact", "phone_other",
		"membership_category", "membership_fee_cents", "status",
		"directory_consent", "interests", "interests_other",
		"signature", "application_date", "approval_date",
		"payment_status", "payment_id",
		"parent_guardian_signature",
		"sponsor1_name", "sponsor1_status", "sponsor2_name", "sponsor2_status",
		"admin_notes",
	}).AddRow(
		id.String(), name, "pat@example.com", nil,
		"12 Steam Lane", "Burnaby", "BC", "V5A 1S6",
		"email", "",
		"Regular", int64(5000), "pending",
		false, "", "",
		name, applied, nil,
		"pending", nil,
		"",
		"", "", "", "",
		"",
	)
}

func TestPostgresMemberStore_Create_UniqueViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "members_email_key"})

	err := s.Create(context.Background(), &models.Member{ID: uuid.New(), Email: "dup@example.com"})
	assert.ErrorIs(t, err, sentinel.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_Create(t *testing.T) {
	s, mock := newMockStore(t)
	member := &models.Member{
		ID:              uuid.New(),
		Name:            "Pat Doe",
		Email:           "pat@example.com",
		Category:        models.CategoryRegular,
		Fee:             5000,
		Status:          models.StatusPending,
		ApplicationDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		PaymentStatus:   models.PaymentPending,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO members")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), member))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_FindByID(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("(?s)SELECT .+ FROM members WHERE id = \\$1").
		WithArgs(id.String()).
		WillReturnRows(memberRows(id, "Pat Doe"))

	member, err := s.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, member.ID)
	assert.Equal(t, models.CategoryRegular, member.Category)
	assert.Equal(t, models.FeeCents(5000), member.Fee)
	assert.Nil(t, member.Birthdate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_FindByID_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("(?s)SELECT .+ FROM members WHERE id = \\$1").
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_ExistsApprovedByName(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("Alice Smith").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := s.ExistsApprovedByName(context.Background(), "Alice Smith")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_CompletePayment_NotFound(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET payment_status = 'completed'")).
		WithArgs(id.String(), "PAY-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.CompletePayment(context.Background(), id, "PAY-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_RecordDecision(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()
	when := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE members SET")).
		WithArgs(id.String(), "approved", sqlmock.AnyArg(), "looks good").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.RecordDecision(context.Background(), id, models.StatusApproved, &when, "looks good")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_ListPendingReview(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("(?s)SELECT .+ FROM members\\s+WHERE status = 'pending' AND payment_status = 'completed'").
		WillReturnRows(memberRows(id, "Pat Doe"))

	list, err := s.ListPendingReview(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresMemberStore_ListByStatus(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectQuery("(?s)SELECT .+ FROM members\\s+WHERE status = \\$1").
		WithArgs("approved").
		WillReturnRows(memberRows(id, "Pat Doe"))

	list, err := s.ListByStatus(context.Background(), models.StatusApproved)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
