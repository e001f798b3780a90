package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"memberdesk/pkg/platform/audit"
	"memberdesk/pkg/requestcontext"
)

// auditEmitter decorates events with request context and swallows publisher
// failures: audit delivery must never fail the workflow.
type auditEmitter struct {
	logger    *slog.Logger
	publisher audit.Publisher
}

func newAuditEmitter(logger *slog.Logger, publisher audit.Publisher) *auditEmitter {
	return &auditEmitter{logger: logger, publisher: publisher}
}

func (e *auditEmitter) emit(ctx context.Context, action audit.Action, subject string, detail map[string]string) {
	if e.publisher == nil {
		return
	}

	event := audit.Event{
		Action:    action,
		Timestamp: requestcontext.Now(ctx),
		Subject:   subject,
		RequestID: requestcontext.RequestID(ctx),
		Detail:    detail,
	}
	if adminID := requestcontext.AdminID(ctx); adminID != uuid.Nil {
		event.ActorID = adminID.String()
	}

	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.WarnContext(ctx, "audit publish failed",
			"action", string(action),
			"subject", subject,
			"error", err,
		)
	}
}
