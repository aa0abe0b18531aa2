package domain

import (
	"time"
	"unicode/utf8"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	// MinPasswordLength is the shortest password, in characters, accepted at
	// registration and reset.
	MinPasswordLength = 6
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// CheckPassword applies the password policy shared by registration and reset.
func CheckPassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Blood types accepted on a medical profile.
var BloodTypes = []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-", "Unknown"}

// MedicalProfile is the health summary a user keeps for first responders.
type MedicalProfile struct {
	BloodType         string   `json:"bloodType" bson:"blood_type"`
	Allergies         []string `json:"allergies" bson:"allergies"`
	MedicalConditions []string `json:"medicalConditions" bson:"medical_conditions"`
	Medications       []string `json:"medications" bson:"medications"`
	Weight            *float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Height            *float64 `json:"height,omitempty" bson:"height,omitempty"`
}

// EmergencyContact is a person to reach when the user is in trouble.
type EmergencyContact struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
	PhoneNumber  string `json:"phoneNumber" bson:"phone_number"`
	Email        string `json:"email,omitempty" bson:"email,omitempty"`
}

// User models a registered account.
//
// ResetTokenHash and ResetTokenExpiry are set and cleared together; a
// non-nil expiry in the past means no reset is pending.
type User struct {
	ID                string             `json:"id"`
	FirstName         string             `json:"firstName"`
	LastName          string             `json:"lastName"`
	Email             string             `json:"email"`
	PasswordHash      string             `json:"-"`
	PhoneNumber       string             `json:"phoneNumber,omitempty"`
	ProfileImage      string             `json:"profileImage,omitempty"`
	Role              string             `json:"role"`
	MedicalProfile    MedicalProfile     `json:"medicalProfile"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts"`
	IsActive          bool               `json:"-"`
	LastLogin         *time.Time         `json:"lastLogin,omitempty"`
	ResetTokenHash    string             `json:"-"`
	ResetTokenExpiry  *time.Time         `json:"-"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// PendingReset returns the stored reset token, if any.
func (u *User) PendingReset() (ResetToken, bool) {
	if u.ResetTokenHash == "" || u.ResetTokenExpiry == nil {
		return ResetToken{}, false
	}
	return ResetToken{Hash: u.ResetTokenHash, ExpiresAt: *u.ResetTokenExpiry}, true
}

// ProfileUpdate carries the editable identity fields of a user.
type ProfileUpdate struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}
