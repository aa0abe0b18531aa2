package domain

import "time"

// Severity levels for a first-aid guide.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// GuideCategories lists the accepted guide categories.
var GuideCategories = []string{
	"cpr", "choking", "burns", "bleeding", "fractures",
	"seizures", "heatstroke", "poisoning", "allergic-reaction", "general",
}

// GuideStep is one numbered instruction within a guide.
type GuideStep struct {
	StepNumber  int    `json:"stepNumber" bson:"step_number"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	ImageURL    string `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Warning     string `json:"warning,omitempty" bson:"warning,omitempty"`
}

// Guide is a first-aid document.
type Guide struct {
	ID                  string      `json:"id" bson:"-"`
	Title               string      `json:"title" bson:"title"`
	Category            string      `json:"category" bson:"category"`
	Description         string      `json:"description" bson:"description"`
	Severity            string      `json:"severity" bson:"severity"`
	Steps               []GuideStep `json:"steps,omitempty" bson:"steps"`
	Warnings            []string    `json:"warnings,omitempty" bson:"warnings"`
	WhenToCallEmergency []string    `json:"whenToCallEmergency,omitempty" bson:"when_to_call_emergency"`
	ImageURL            string      `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	VideoURL            string      `json:"videoUrl,omitempty" bson:"video_url,omitempty"`
	IsOfflineAvailable  bool        `json:"isOfflineAvailable" bson:"is_offline_available"`
	Tags                []string    `json:"tags,omitempty" bson:"tags"`
	ViewCount           int64       `json:"viewCount" bson:"view_count"`
	CreatedAt           time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt           time.Time   `json:"updatedAt" bson:"updated_at"`
}

// ValidCategory reports whether c is a known guide category.
func ValidCategory(c string) bool {
	for _, known := range GuideCategories {
		if known == c {
			return true
		}
	}
	return false
}
