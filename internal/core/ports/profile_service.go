package ports

import (
	"context"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

// ContactInput carries a new emergency contact.
type ContactInput struct {
	Name         string
	Relationship string
	PhoneNumber  string
	Email        string
}

// ProfileService manages the signed-in user's own data.
type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateMedicalProfile(ctx context.Context, userID string, profile domain.MedicalProfile) (*domain.MedicalProfile, error)
	ListContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error)
	AddContact(ctx context.Context, userID string, in ContactInput) ([]domain.EmergencyContact, error)
	RemoveContact(ctx context.Context, userID, contactID string) ([]domain.EmergencyContact, error)
}
