// Package session issues and validates the signed admin session tokens that
// replace server-side session state. Tokens are HS256 JWTs carried in an
// HttpOnly cookie; logout puts the token ID on a revocation list until the
// token would have expired anyway.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "memberdesk/pkg/domain-errors"
)

// Claims are the JWT claims for an admin session token.
type Claims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RevocationList tracks revoked token IDs. Entries expire on their own; the
// TTL matches the remaining token lifetime.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Manager issues and validates session tokens.
type Manager struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
	revoked    RevocationList
}

func NewManager(signingKey string, ttl time.Duration, revoked RevocationList) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     "memberdesk",
		ttl:        ttl,
		revoked:    revoked,
	}
}

// Issue creates a signed session token for an authenticated admin.
func (m *Manager) Issue(adminID uuid.UUID, username string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AdminID:  adminID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate checks signature, expiry, and the revocation list, and returns
// the token claims.
func (m *Manager) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "revocation check failed")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session has been revoked")
	}

	return claims, nil
}

// Revoke invalidates the token for its remaining lifetime. Tokens that are
// already invalid need no revocation and are ignored.
func (m *Manager) Revoke(ctx context.Context, tokenString string, now time.Time) error {
	claims, err := m.Validate(ctx, tokenString)
	if err != nil {
		return nil
	}

	ttl := m.ttl
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(now)
	}
	if ttl <= 0 {
		return nil
	}

	if err := m.revoked.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not revoke session")
	}
	return nil
}
