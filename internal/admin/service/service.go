// Package service implements admin account operations: the one-time setup,
// login against the stored password hash, and logout via session revocation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"memberdesk/internal/admin/models"
	"memberdesk/internal/admin/secrets"
	"memberdesk/internal/admin/store"
	"memberdesk/internal/platform/metrics"
	"memberdesk/internal/session"
	dErrors "memberdesk/pkg/domain-errors"
	"memberdesk/pkg/platform/audit"
	"memberdesk/pkg/platform/sentinel"
	"memberdesk/pkg/requestcontext"
)

// Service manages admin accounts and their sessions.
type Service struct {
	admins   store.AdminStore
	sessions *session.Manager
	metrics  *metrics.Metrics
	auditor  audit.Publisher
	logger   *slog.Logger
}

type serviceConfig struct {
	metrics *metrics.Metrics
	auditor audit.Publisher
	logger  *slog.Logger
}

// Option configures optional service dependencies.
type Option func(*serviceConfig)

func WithMetrics(m *metrics.Metrics) Option {
	return func(cfg *serviceConfig) { cfg.metrics = m }
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(cfg *serviceConfig) { cfg.auditor = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *serviceConfig) { cfg.logger = logger }
}

func New(admins store.AdminStore, sessions *session.Manager, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return &Service{
		admins:   admins,
		sessions: sessions,
		metrics:  cfg.metrics,
		auditor:  cfg.auditor,
		logger:   cfg.logger,
	}
}

// Login checks credentials and issues a signed session token. Failures are
// reported with one generic message; the caller never learns whether the
// username or the password was wrong.
func (s *Service) Login(ctx context.Context, username, password, userAgent string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", invalidCredentials()
	}

	admin, err := s.admins.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordLogin(ctx, audit.ActionAdminLoginFailed, username, userAgent)
			return "", invalidCredentials()
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not look up admin")
	}

	if err := secrets.Verify(password, admin.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.recordLogin(ctx, audit.ActionAdminLoginFailed, username, userAgent)
			return "", invalidCredentials()
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not verify credentials")
	}

	token, err := s.sessions.Issue(admin.ID, admin.Username, requestcontext.Now(ctx))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not create session")
	}

	s.recordLogin(ctx, audit.ActionAdminLoginSucceeded, username, userAgent)
	return token, nil
}

// Logout revokes the session token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessions.Revoke(ctx, token, requestcontext.Now(ctx)); err != nil {
		return err
	}
	s.emit(ctx, audit.Event{
		Action:    audit.ActionAdminLoggedOut,
		Timestamp: requestcontext.Now(ctx),
		ActorID:   requestcontext.AdminID(ctx).String(),
	})
	return nil
}

// SetupRequired reports whether the one-time setup is still open.
func (s *Service) SetupRequired(ctx context.Context) (bool, error) {
	any, err := s.admins.Any(ctx)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "could not check setup state")
	}
	return !any, nil
}

// Setup creates the first admin account. It is permanently disabled once any
// admin record exists.
func (s *Service) Setup(ctx context.Context, username, password, email string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || password == "" || email == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username, password, and email are required")
	}

	any, err := s.admins.Any(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not check setup state")
	}
	if any {
		return nil, dErrors.New(dErrors.CodeForbidden, "setup already completed")
	}

	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, err
	}

	admin := &models.Admin{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost the race against a concurrent setup; the gate holds.
			return nil, dErrors.New(dErrors.CodeForbidden, "setup already completed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not create admin")
	}

	s.emit(ctx, audit.Event{
		Action:    audit.ActionAdminCreated,
		Timestamp: requestcontext.Now(ctx),
		Subject:   admin.ID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return admin, nil
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid username or password")
}

// recordLogin emits metrics and an audit event enriched with the parsed
// browser and OS from the User-Agent header.
func (s *Service) recordLogin(ctx context.Context, action audit.Action, username, rawUA string) {
	result := "success"
	if action == audit.ActionAdminLoginFailed {
		result = "failure"
	}
	if s.metrics != nil {
		s.metrics.AdminLogins.WithLabelValues(result).Inc()
	}

	detail := map[string]string{"username": username}
	if rawUA != "" {
		ua := useragent.New(rawUA)
		browser, version := ua.Browser()
		detail["browser"] = strings.TrimSpace(browser + " " + version)
		detail["os"] = ua.OS()
	}

	s.emit(ctx, audit.Event{
		Action:    action,
		Timestamp: requestcontext.Now(ctx),
		RequestID: requestcontext.RequestID(ctx),
		Detail:    detail,
	})
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if err := s.auditor.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit publish failed",
			"action", string(event.Action),
			"error", err,
		)
	}
}
