// Package service orchestrates the application workflow: intake validation,
// record creation, sponsor verification, payment completion, and admin
// decisions. Category and fee are derived once at submission and never
// recomputed.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"memberdesk/internal/membership/eligibility"
	"memberdesk/internal/membership/models"
	"memberdesk/internal/membership/store"
	"memberdesk/internal/payment"
	"memberdesk/internal/platform/metrics"
	dErrors "memberdesk/pkg/domain-errors"
	"memberdesk/pkg/platform/audit"
	"memberdesk/pkg/platform/sentinel"
	"memberdesk/pkg/platform/tx"
	"memberdesk/pkg/requestcontext"
)

// Service runs the membership application workflow.
type Service struct {
	members  store.MemberStore
	tx       tx.Runner
	payments payment.Verifier
	audit    *auditEmitter
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

type serviceConfig struct {
	tx             tx.Runner
	payments       payment.Verifier
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher audit.Publisher
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

// WithTxRunner supplies the transaction runner; defaults to no transactional
// scope, which the in-memory store is fine with.
func WithTxRunner(r tx.Runner) Option {
	return func(cfg *serviceConfig) { cfg.tx = r }
}

// WithPaymentVerifier supplies the payment provider seam; defaults to the
// static verifier that trusts any non-empty identifier.
func WithPaymentVerifier(v payment.Verifier) Option {
	return func(cfg *serviceConfig) { cfg.payments = v }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.auditPublisher = p }
}

func New(members store.MemberStore, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.tx == nil {
		cfg.tx = tx.PassthroughRunner{}
	}
	if cfg.payments == nil {
		cfg.payments = payment.StaticVerifier{}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		members:  members,
		tx:       cfg.tx,
		payments: cfg.payments,
		audit:    newAuditEmitter(cfg.logger, cfg.auditPublisher),
		metrics:  cfg.metrics,
		logger:   cfg.logger,
		tracer:   otel.Tracer("memberdesk/membership"),
	}
}

// Submit validates an application end to end before any write, then creates
// the record and verifies sponsors in one all-or-nothing transaction. It
// returns the created record, whose ID routes the applicant to payment.
func (s *Service) Submit(ctx context.Context, sub models.Submission) (*models.Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.Submit")
	defer span.End()

	sub.Normalize()
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	elig, ok := eligibility.Calculate(sub.Birthdate, now)
	if !ok {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "applicant age is outside the eligible range")
	}
	span.SetAttributes(attribute.String("membership.category", string(elig.Category)))

	if elig.Category == models.CategoryJunior && (sub.Sponsor1 == "" || sub.Sponsor2 == "") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "junior applicants must name two sponsors")
	}
	if elig.Category == models.CategoryProbationary && sub.ParentGuardian == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "probationary applicants require a parent or guardian signature")
	}

	member := &models.Member{
		ID:                      uuid.New(),
		Name:                    sub.Name,
		Email:                   sub.Email,
		Birthdate:               sub.Birthdate,
		Address:                 sub.Address,
		City:                    sub.City,
		ProvinceState:           sub.ProvinceState,
		PostalCode:              sub.PostalCode,
		PreferredContact:        sub.PreferredContact,
		PhoneOther:              sub.PhoneOther,
		Category:                elig.Category,
		Fee:                     elig.Fee,
		Status:                  models.StatusPending,
		DirectoryConsent:        sub.DirectoryConsent,
		Interests:               strings.Join(sub.Interests, ","),
		InterestsOther:          sub.InterestsOther,
		Signature:               sub.Signature,
		ApplicationDate:         now,
		PaymentStatus:           models.PaymentPending,
		ParentGuardianSignature: sub.ParentGuardian,
		Sponsor1Name:            sub.Sponsor1,
		Sponsor2Name:            sub.Sponsor2,
	}

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.members.Create(txCtx, member); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "an application with this email already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "could not save application")
		}
		if member.Category == models.CategoryJunior {
			if err := s.verifySponsors(txCtx, member); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ApplicationsSubmitted.WithLabelValues(string(member.Category)).Inc()
	}
	s.audit.emit(ctx, audit.ActionApplicationSubmitted, member.ID.String(), map[string]string{
		"category": string(member.Category),
	})

	return member, nil
}

// Get returns a single record for the admin detail view.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Member, error) {
	member, err := s.members.FindByID(ctx, id)
	if err != nil {
		return nil, translateLookupErr(err)
	}
	return member, nil
}

// CompletePayment verifies the provider-supplied payment identifier and
// marks the application paid, storing the identifier verbatim.
func (s *Service) CompletePayment(ctx context.Context, id uuid.UUID, paymentID string) (*models.Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.CompletePayment")
	defer span.End()

	if err := s.payments.Verify(ctx, id.String(), paymentID); err != nil {
		return nil, err
	}

	var member *models.Member
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.members.FindByID(txCtx, id)
		if err != nil {
			return translateLookupErr(err)
		}
		if err := s.members.CompletePayment(txCtx, id, paymentID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "could not record payment")
		}
		m.PaymentStatus = models.PaymentCompleted
		m.PaymentID = paymentID
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsCompleted.Inc()
	}
	s.audit.emit(ctx, audit.ActionPaymentCompleted, id.String(), nil)

	return member, nil
}

// Approve moves a pending application to approved, stamping the approval
// time and optionally overwriting admin notes.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, notes string) (*models.Member, error) {
	return s.decide(ctx, id, models.StatusApproved, notes)
}

// Reject moves a pending application to rejected. The approval timestamp
// stays null.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, notes string) (*models.Member, error) {
	return s.decide(ctx, id, models.StatusRejected, notes)
}

func (s *Service) decide(ctx context.Context, id uuid.UUID, status models.Status, notes string) (*models.Member, error) {
	ctx, span := s.tracer.Start(ctx, "membership.Decide",
		trace.WithAttributes(attribute.String("membership.decision", string(status))))
	defer span.End()

	now := requestcontext.Now(ctx)

	var member *models.Member
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		m, err := s.members.FindByID(txCtx, id)
		if err != nil {
			return translateLookupErr(err)
		}
		if m.Status.Terminal() {
			return dErrors.New(dErrors.CodeConflict, "application has already been decided")
		}

		var approvalDate *time.Time
		if status == models.StatusApproved {
			approvalDate = &now
		}
		if err := s.members.RecordDecision(txCtx, id, status, approvalDate, notes); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "could not record decision")
		}

		m.Status = status
		m.ApprovalDate = approvalDate
		if notes != "" {
			m.AdminNotes = notes
		}
		member = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ApplicationsDecided.WithLabelValues(string(status)).Inc()
	}
	action := audit.ActionMemberApproved
	if status == models.StatusRejected {
		action = audit.ActionMemberRejected
	}
	s.audit.emit(ctx, action, id.String(), nil)

	return member, nil
}

// ListPendingReview returns paid, undecided applications in application
// order; this is the board review list.
func (s *Service) ListPendingReview(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.ListPendingReview(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list pending applications")
	}
	return members, nil
}

// ListByStatus returns records in a review state for the dashboard.
func (s *Service) ListByStatus(ctx context.Context, status models.Status) ([]models.Member, error) {
	members, err := s.members.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list applications")
	}
	return members, nil
}

// ListDirectory returns approved, consenting members ordered by name.
func (s *Service) ListDirectory(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.ListDirectory(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list directory")
	}
	return members, nil
}

// ListSponsorIssues returns records with an unresolved sponsor.
func (s *Service) ListSponsorIssues(ctx context.Context) ([]models.Member, error) {
	members, err := s.members.ListSponsorIssues(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list sponsor issues")
	}
	return members, nil
}

func translateLookupErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "could not load application")
}
