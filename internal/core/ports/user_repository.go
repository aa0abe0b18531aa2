package ports

import (
	"context"
	"time"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// Email lookups expect an already normalized address.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// FindByResetToken returns the account holding tokenHash with an expiry
	// strictly after now, or domain.ErrInvalidResetToken.
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	// SetResetToken stores a pending reset, replacing any earlier one.
	SetResetToken(ctx context.Context, id string, token domain.ResetToken) error
	// ConsumeResetToken writes passwordHash and clears the reset fields in a
	// single update conditioned on the token still being stored and unexpired.
	// It returns domain.ErrInvalidResetToken when the condition no longer holds.
	ConsumeResetToken(ctx context.Context, id, tokenHash, passwordHash string, now time.Time) error

	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateMedicalProfile(ctx context.Context, id string, profile domain.MedicalProfile) (*domain.User, error)
	AddEmergencyContact(ctx context.Context, id string, contact domain.EmergencyContact) ([]domain.EmergencyContact, error)
	RemoveEmergencyContact(ctx context.Context, id, contactID string) ([]domain.EmergencyContact, error)
}
