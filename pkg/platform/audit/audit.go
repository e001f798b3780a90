// Package audit captures the security-relevant actions of the application
// intake and review workflow. Events are transport-agnostic so sinks can
// fan out: structured log by default, Kafka when configured.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Action names an audited event.
type Action string

const (
	ActionApplicationSubmitted Action = "application_submitted"
	ActionPaymentCompleted     Action = "payment_completed"
	ActionMemberApproved       Action = "member_approved"
	ActionMemberRejected       Action = "member_rejected"
	ActionAdminLoginSucceeded  Action = "admin_login_succeeded"
	ActionAdminLoginFailed     Action = "admin_login_failed"
	ActionAdminLoggedOut       Action = "admin_logged_out"
	ActionAdminCreated         Action = "admin_created"
)

// Event is emitted from domain logic to capture key actions.
type Event struct {
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	// ActorID identifies who performed the action: an admin ID for review
	// decisions, empty for applicant-initiated actions.
	ActorID string `json:"actor_id,omitempty"`
	// Subject identifies what was acted on, usually a member record ID.
	Subject   string `json:"subject,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	// Detail carries action-specific context (category, decision, browser).
	Detail map[string]string `json:"detail,omitempty"`
}

// Publisher delivers audit events to a sink. Implementations must be safe
// for concurrent use; delivery is best-effort and never blocks the workflow.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// LogPublisher writes audit events to the structured log. It is the default
// sink when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event Event) error {
	attrs := []any{
		"action", string(event.Action),
		"subject", event.Subject,
		"actor_id", event.ActorID,
		"request_id", event.RequestID,
	}
	for k, v := range event.Detail {
		attrs = append(attrs, "detail_"+k, v)
	}
	p.logger.InfoContext(ctx, "audit event", attrs...)
	return nil
}
