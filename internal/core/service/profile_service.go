package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medifirst/medifirst-api/internal/core/domain"
	"github.com/medifirst/medifirst-api/internal/core/ports"
)

type ProfileService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewProfileService(repo ports.UserRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{repo: repo, log: log}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	update.FirstName = strings.TrimSpace(update.FirstName)
	update.LastName = strings.TrimSpace(update.LastName)
	update.PhoneNumber = strings.TrimSpace(update.PhoneNumber)
	return s.repo.UpdateProfile(ctx, userID, update)
}

// UpdateMedicalProfile replaces the whole medical profile. Missing lists are
// stored as empty and an empty blood type as "Unknown".
func (s *ProfileService) UpdateMedicalProfile(ctx context.Context, userID string, profile domain.MedicalProfile) (*domain.MedicalProfile, error) {
	if profile.BloodType == "" {
		profile.BloodType = "Unknown"
	}
	profile.Allergies = nonNil(profile.Allergies)
	profile.MedicalConditions = nonNil(profile.MedicalConditions)
	profile.Medications = nonNil(profile.Medications)

	user, err := s.repo.UpdateMedicalProfile(ctx, userID, profile)
	if err != nil {
		return nil, err
	}
	return &user.MedicalProfile, nil
}

func (s *ProfileService) ListContacts(ctx context.Context, userID string) ([]domain.EmergencyContact, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.EmergencyContacts == nil {
		return []domain.EmergencyContact{}, nil
	}
	return user.EmergencyContacts, nil
}

func (s *ProfileService) AddContact(ctx context.Context, userID string, in ports.ContactInput) ([]domain.EmergencyContact, error) {
	contact := domain.EmergencyContact{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Relationship: strings.TrimSpace(in.Relationship),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Email:        domain.NormalizeEmail(in.Email),
	}

	contacts, err := s.repo.AddEmergencyContact(ctx, userID, contact)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("user_id", userID).Str("contact_id", contact.ID).Msg("emergency contact added")
	return contacts, nil
}

func (s *ProfileService) RemoveContact(ctx context.Context, userID, contactID string) ([]domain.EmergencyContact, error) {
	return s.repo.RemoveEmergencyContact(ctx, userID, contactID)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
