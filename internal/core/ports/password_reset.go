package ports

import (
	"context"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

// ResetRequestedMessage is returned for every accepted forgot-password
// request, whether or not the address belongs to an account.
const ResetRequestedMessage = "If an account with that email exists, a reset link has been sent."

// PasswordResetService drives the credential recovery flow.
type PasswordResetService interface {
	// RequestReset issues a reset token for email and mails the link. Unknown
	// addresses succeed without side effects.
	RequestReset(ctx context.Context, email string) error
	// VerifyResetToken resolves a plaintext token to its account without
	// mutating anything.
	VerifyResetToken(ctx context.Context, token string) (*domain.User, error)
	// ResetPassword replaces the password of the account holding token and
	// invalidates the token.
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Notifier delivers a message out of band.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ResetThrottle limits forgot-password requests per address.
type ResetThrottle interface {
	Allow(ctx context.Context, email string) (bool, error)
}

// ResetAuditLog persists the password reset audit trail.
type ResetAuditLog interface {
	InsertEvent(ctx context.Context, event *domain.ResetEvent) error
}
