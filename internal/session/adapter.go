package session

import (
	"context"

	"github.com/google/uuid"

	"memberdesk/internal/platform/middleware"
	dErrors "memberdesk/pkg/domain-errors"
)

// ValidateSession adapts Manager to the middleware.SessionValidator
// interface, translating token claims into an admin identity.
func (m *Manager) ValidateSession(ctx context.Context, token string) (middleware.SessionClaims, error) {
	claims, err := m.Validate(ctx, token)
	if err != nil {
		return middleware.SessionClaims{}, err
	}

	adminID, err := uuid.Parse(claims.AdminID)
	if err != nil {
		return middleware.SessionClaims{}, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	return middleware.SessionClaims{
		AdminID:  adminID,
		Username: claims.Username,
	}, nil
}
