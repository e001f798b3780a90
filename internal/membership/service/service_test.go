package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"memberdesk/internal/membership/models"
	"memberdesk/internal/membership/store"
	dErrors "memberdesk/pkg/domain-errors"
	"memberdesk/pkg/requestcontext"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

// WorkflowSuite exercises the application workflow against the real
// in-memory store; no mocks.
type WorkflowSuite struct {
	suite.Suite
	store   *store.InMemoryMemberStore
	service *Service
	ctx     context.Context
}

func TestWorkflowSuite(t *testing.T) {
	suite.Run(t, new(WorkflowSuite))
}

func (s *WorkflowSuite) SetupTest() {
	s.store = store.NewInMemoryMemberStore()
	s.service = New(s.store)
	s.ctx = requestcontext.WithTime(context.Background(), testNow)
}

func birthForAge(age int) *time.Time {
	// Birthday is today, so the applicant is exactly `age`.
	t := time.Date(testNow.Year()-age, testNow.Month(), testNow.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func validSubmission(age int) models.Submission {
	return models.Submission{
		Name:          "Pat Doe",
		Email:         "pat@example.com",
		Birthdate:     birthForAge(age),
		Address:       "12 Steam Lane",
		City:          "Burnaby",
		ProvinceState: "BC",
		PostalCode:    "V5A 1S6",
		Signature:     "Pat Doe",
	}
}

// approvedMember seeds an approved record so it can act as a sponsor.
func (s *WorkflowSuite) approvedMember(name string) {
	member := &models.Member{
		ID:              uuid.New(),
		Name:            name,
		Email:           name + "@example.com",
		Address:         "1 Main St",
		City:            "Burnaby",
		ProvinceState:   "BC",
		PostalCode:      "V5A 1S6",
		Category:        models.CategoryRegular,
		Fee:             5000,
		Status:          models.StatusApproved,
		Signature:       name,
		ApplicationDate: testNow.AddDate(-1, 0, 0),
		PaymentStatus:   models.PaymentCompleted,
	}
	s.Require().NoError(s.store.Create(s.ctx, member))
}

// =============================================================================
// Submit
// =============================================================================

func (s *WorkflowSuite) TestSubmit_RegularApplicant() {
	member, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	s.Equal(models.CategoryRegular, member.Category)
	s.Equal(models.FeeCents(5000), member.Fee)
	s.Equal(models.StatusPending, member.Status)
	s.Equal(models.PaymentPending, member.PaymentStatus)
	s.Equal(testNow, member.ApplicationDate)
	s.Nil(member.ApprovalDate)

	stored, err := s.store.FindByID(s.ctx, member.ID)
	s.Require().NoError(err)
	s.Equal(member.Email, stored.Email)
}

func (s *WorkflowSuite) TestSubmit_SeniorFee() {
	member, err := s.service.Submit(s.ctx, validSubmission(65))
	s.Require().NoError(err)
	s.Equal(models.CategorySenior, member.Category)
	s.Equal(models.FeeCents(4000), member.Fee)
}

func (s *WorkflowSuite) TestSubmit_MissingFields() {
	sub := validSubmission(40)
	sub.Address = ""
	sub.Signature = ""

	_, err := s.service.Submit(s.ctx, sub)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	s.Contains(err.Error(), "address")
	s.Contains(err.Error(), "signature")
}

func (s *WorkflowSuite) TestSubmit_TooYoung() {
	_, err := s.service.Submit(s.ctx, validSubmission(9))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *WorkflowSuite) TestSubmit_MissingBirthdate() {
	sub := validSubmission(40)
	sub.Birthdate = nil

	_, err := s.service.Submit(s.ctx, sub)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *WorkflowSuite) TestSubmit_JuniorRequiresTwoSponsors() {
	sub := validSubmission(16)
	sub.Sponsor1 = "Alice Smith"

	_, err := s.service.Submit(s.ctx, sub)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	// Validation failure must leave no record behind.
	issues, listErr := s.store.ListByStatus(s.ctx, models.StatusPending)
	s.Require().NoError(listErr)
	s.Empty(issues)
}

func (s *WorkflowSuite) TestSubmit_ProbationaryRequiresGuardian() {
	sub := validSubmission(12)

	_, err := s.service.Submit(s.ctx, sub)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

	sub.ParentGuardian = "Chris Doe"
	member, err := s.service.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal(models.CategoryProbationary, member.Category)
	s.Equal("Chris Doe", member.ParentGuardianSignature)
}

func (s *WorkflowSuite) TestSubmit_DuplicateEmail() {
	first, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	dup := validSubmission(30)
	_, err = s.service.Submit(s.ctx, dup)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	// The prior record is untouched.
	stored, err := s.store.FindByID(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(models.CategoryRegular, stored.Category)
	s.Equal(models.StatusPending, stored.Status)
}

// =============================================================================
// Sponsor verification
// =============================================================================

func (s *WorkflowSuite) TestSubmit_JuniorSponsorVerification() {
	s.approvedMember("Alice Smith")

	sub := validSubmission(16)
	sub.Sponsor1 = "Alice Smith"
	sub.Sponsor2 = "Nobody Known"

	member, err := s.service.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal(models.SponsorVerified, member.Sponsor1Status)
	s.Equal(models.SponsorNotFound, member.Sponsor2Status)

	stored, err := s.store.FindByID(s.ctx, member.ID)
	s.Require().NoError(err)
	s.Equal(models.SponsorVerified, stored.Sponsor1Status)
	s.Equal(models.SponsorNotFound, stored.Sponsor2Status)
}

func (s *WorkflowSuite) TestSubmit_PendingSponsorDoesNotVerify() {
	// A sponsor who applied but is not yet approved never verifies.
	pending, err := s.service.Submit(s.ctx, models.Submission{
		Name: "Bob Jones", Email: "bob@example.com", Birthdate: birthForAge(30),
		Address: "2 Main St", City: "Burnaby", ProvinceState: "BC",
		PostalCode: "V5A 1S6", Signature: "Bob Jones",
	})
	s.Require().NoError(err)
	s.Equal(models.StatusPending, pending.Status)

	sub := validSubmission(16)
	sub.Sponsor1 = "Bob Jones"
	sub.Sponsor2 = "Bob Jones"

	member, err := s.service.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal(models.SponsorNotFound, member.Sponsor1Status)
	s.Equal(models.SponsorNotFound, member.Sponsor2Status)
}

func (s *WorkflowSuite) TestSubmit_AdultSponsorsNotChecked() {
	sub := validSubmission(40)
	sub.Sponsor1 = "Nobody Known"

	member, err := s.service.Submit(s.ctx, sub)
	s.Require().NoError(err)
	s.Equal(models.SponsorUnset, member.Sponsor1Status)
}

// =============================================================================
// Payment
// =============================================================================

func (s *WorkflowSuite) TestCompletePayment() {
	member, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	paid, err := s.service.CompletePayment(s.ctx, member.ID, "PAY-123")
	s.Require().NoError(err)
	s.Equal(models.PaymentCompleted, paid.PaymentStatus)
	s.Equal("PAY-123", paid.PaymentID)
}

func (s *WorkflowSuite) TestCompletePayment_EmptyIdentifier() {
	member, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	_, err = s.service.CompletePayment(s.ctx, member.ID, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *WorkflowSuite) TestCompletePayment_UnknownRecord() {
	_, err := s.service.CompletePayment(s.ctx, uuid.New(), "PAY-123")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Decisions
// =============================================================================

func (s *WorkflowSuite) TestApprove() {
	member, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	approved, err := s.service.Approve(s.ctx, member.ID, "welcome aboard")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.Status)
	s.Require().NotNil(approved.ApprovalDate)
	s.Equal(testNow, *approved.ApprovalDate)
	s.Equal("welcome aboard", approved.AdminNotes)
}

func (s *WorkflowSuite) TestReject_LeavesApprovalDateNull() {
	member, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	rejected, err := s.service.Reject(s.ctx, member.ID, "")
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, rejected.Status)
	s.Nil(rejected.ApprovalDate)
}

func (s *WorkflowSuite) TestDecide_TerminalRecordIsGuarded() {
	member, err := s.service.Submit(s.ctx, validSubmission(40))
	s.Require().NoError(err)

	_, err = s.service.Approve(s.ctx, member.ID, "")
	s.Require().NoError(err)

	_, err = s.service.Reject(s.ctx, member.ID, "changed my mind")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	stored, err := s.store.FindByID(s.ctx, member.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, stored.Status)
}

func (s *WorkflowSuite) TestDecide_UnknownRecord() {
	_, err := s.service.Approve(s.ctx, uuid.New(), "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Listings
// =============================================================================

func (s *WorkflowSuite) submitAt(email string, offset time.Duration) *models.Member {
	ctx := requestcontext.WithTime(context.Background(), testNow.Add(offset))
	sub := validSubmission(40)
	sub.Email = email
	sub.Name = "Applicant " + email
	member, err := s.service.Submit(ctx, sub)
	s.Require().NoError(err)
	return member
}

func (s *WorkflowSuite) TestListPendingReview_OrderAndFilter() {
	late := s.submitAt("late@example.com", 2*time.Hour)
	early := s.submitAt("early@example.com", -2*time.Hour)
	unpaid := s.submitAt("unpaid@example.com", 0)

	_, err := s.service.CompletePayment(s.ctx, late.ID, "PAY-1")
	s.Require().NoError(err)
	_, err = s.service.CompletePayment(s.ctx, early.ID, "PAY-2")
	s.Require().NoError(err)

	list, err := s.service.ListPendingReview(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(early.ID, list[0].ID)
	s.Equal(late.ID, list[1].ID)

	for _, m := range list {
		s.NotEqual(unpaid.ID, m.ID)
	}
}

func (s *WorkflowSuite) submitWithConsent(email string, consent bool) *models.Member {
	sub := validSubmission(40)
	sub.Email = email
	sub.Name = "Applicant " + email
	sub.DirectoryConsent = consent
	member, err := s.service.Submit(s.ctx, sub)
	s.Require().NoError(err)
	return member
}

func (s *WorkflowSuite) TestListDirectory_ConsentAndOrder() {
	zoe := s.submitWithConsent("zoe@example.com", true)
	adam := s.submitWithConsent("adam@example.com", true)
	silent := s.submitWithConsent("silent@example.com", false)

	for _, id := range []uuid.UUID{zoe.ID, adam.ID, silent.ID} {
		_, err := s.service.Approve(s.ctx, id, "")
		s.Require().NoError(err)
	}

	list, err := s.service.ListDirectory(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("Applicant adam@example.com", list[0].Name)
	s.Equal("Applicant zoe@example.com", list[1].Name)
}

func (s *WorkflowSuite) TestListSponsorIssues() {
	s.approvedMember("Alice Smith")

	good := validSubmission(16)
	good.Email = "good@example.com"
	good.Sponsor1 = "Alice Smith"
	good.Sponsor2 = "Alice Smith"
	_, err := s.service.Submit(s.ctx, good)
	s.Require().NoError(err)

	bad := validSubmission(16)
	bad.Email = "bad@example.com"
	bad.Sponsor1 = "Alice Smith"
	bad.Sponsor2 = "Nobody Known"
	flagged, err := s.service.Submit(s.ctx, bad)
	s.Require().NoError(err)

	issues, err := s.service.ListSponsorIssues(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(issues, 1)
	s.Equal(flagged.ID, issues[0].ID)
}
