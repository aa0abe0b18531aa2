package handler

import (
	"strings"

	"github.com/medifirst/medifirst-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	FirstName   string `json:"firstName"   validate:"required,max=50"`
	LastName    string `json:"lastName"    validate:"required,max=50"`
	Email       string `json:"email"       validate:"required,email"`
	Password    string `json:"password"    validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
}

func (r *registerRequest) normalize() { r.Email = domain.NormalizeEmail(r.Email) }

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() { r.Email = domain.NormalizeEmail(r.Email) }

type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

// --- Password reset ---

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" validate:"omitempty,email"`
}

func (r *forgotPasswordRequest) normalize() { r.Email = domain.NormalizeEmail(r.Email) }

// Password length is checked by the service so both transports report the
// same message.
type resetPasswordRequest struct {
	Password string `json:"password" form:"password"`
}

// --- Profile ---

type updateProfileRequest struct {
	FirstName   string `json:"firstName"   validate:"required,max=50"`
	LastName    string `json:"lastName"    validate:"required,max=50"`
	PhoneNumber string `json:"phoneNumber"`
}

type medicalProfileRequest struct {
	BloodType         string   `json:"bloodType"         validate:"omitempty,oneof=A+ A- B+ B- O+ O- AB+ AB- Unknown"`
	Allergies         []string `json:"allergies"`
	MedicalConditions []string `json:"medicalConditions"`
	Medications       []string `json:"medications"`
	Weight            *float64 `json:"weight"            validate:"omitempty,gt=0"`
	Height            *float64 `json:"height"            validate:"omitempty,gt=0"`
}

type medicalProfileResponse struct {
	Message        string                 `json:"message"`
	MedicalProfile *domain.MedicalProfile `json:"medicalProfile"`
}

type contactRequest struct {
	Name         string `json:"name"         validate:"required"`
	Relationship string `json:"relationship" validate:"required"`
	PhoneNumber  string `json:"phoneNumber"  validate:"required"`
	Email        string `json:"email"        validate:"omitempty,email"`
}

func (r *contactRequest) normalize() { r.Email = strings.TrimSpace(r.Email) }

type contactsResponse struct {
	Message           string                    `json:"message,omitempty"`
	EmergencyContacts []domain.EmergencyContact `json:"emergencyContacts"`
}

// --- First-aid guides ---

type guideStepRequest struct {
	StepNumber  int    `json:"stepNumber"  validate:"required,gt=0"`
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"imageUrl"    validate:"omitempty,url"`
	Warning     string `json:"warning"`
}

type guideRequest struct {
	Title               string             `json:"title"               validate:"required"`
	Category            string             `json:"category"            validate:"required,oneof=cpr choking burns bleeding fractures seizures heatstroke poisoning allergic-reaction general"`
	Description         string             `json:"description"         validate:"required"`
	Severity            string             `json:"severity"            validate:"omitempty,oneof=low medium high critical"`
	Steps               []guideStepRequest `json:"steps"               validate:"dive"`
	Warnings            []string           `json:"warnings"`
	WhenToCallEmergency []string           `json:"whenToCallEmergency"`
	ImageURL            string             `json:"imageUrl"            validate:"omitempty,url"`
	VideoURL            string             `json:"videoUrl"            validate:"omitempty,url"`
	IsOfflineAvailable  *bool              `json:"isOfflineAvailable"`
	Tags                []string           `json:"tags"`
}

type guideListResponse struct {
	Count  int             `json:"count"`
	Guides []*domain.Guide `json:"guides"`
}

type guideResponse struct {
	Message string        `json:"message,omitempty"`
	Guide   *domain.Guide `json:"guide"`
}
