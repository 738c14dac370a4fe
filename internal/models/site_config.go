package models

import (
	"time"

	"github.com/aarambh-bootcamp/registration-api/internal/forms"
	"gorm.io/gorm"
)

// SiteInfo is the marketing-site configuration block. RegistrationOpen and
// MaxParticipants drive the capacity gate.
type SiteInfo struct {
	BootcampTitle    string    `json:"bootcampTitle"`
	BootcampDate     time.Time `json:"bootcampDate"`
	HeroTitle        string    `json:"heroTitle"`
	HeroSubtitle     string    `json:"heroSubtitle"`
	AboutDescription string    `json:"aboutDescription"`
	ContactEmail     string    `json:"contactEmail"`
	Location         string    `json:"location"`
	RegistrationOpen bool      `json:"registrationOpen"`
	MaxParticipants  int       `json:"maxParticipants"`
}

// SiteConfig is the single configuration record. The form field list is
// replaced wholesale on every admin save so readers never observe a partially
// edited schema.
type SiteConfig struct {
	gorm.Model
	FormFields forms.Schema `json:"formFields" gorm:"serializer:json"`
	SiteInfo   SiteInfo     `json:"siteInfo" gorm:"embedded;embeddedPrefix:site_"`
}

// DefaultFormFields is the field set seeded on first deploy.
func DefaultFormFields() forms.Schema {
	schema := forms.Schema{
		{Name: "full_name", Label: "Full Name", Type: forms.FieldText, Placeholder: "Your full name", Required: true, Visible: true},
		{Name: "email", Label: "Email", Type: forms.FieldEmail, Placeholder: "you@example.com", Required: true, Visible: true},
		{Name: "phone", Label: "Phone Number", Type: forms.FieldTel, Placeholder: "10-digit mobile number", Required: true, Visible: true,
			Validation: &forms.Rules{Pattern: `^[0-9]{10}$`}},
		{Name: "college", Label: "College", Type: forms.FieldText, Placeholder: "Your college or institute", Required: false, Visible: true},
		{Name: "year", Label: "Year of Study", Type: forms.FieldSelect, Required: true, Visible: true,
			Options: []string{"1st Year", "2nd Year", "3rd Year", "4th Year", "Other"}},
		{Name: "experience", Label: "Coding Experience", Type: forms.FieldRadio, Required: false, Visible: true,
			Options: []string{"Beginner", "Intermediate", "Advanced"}},
		{Name: "expectations", Label: "What do you hope to learn?", Type: forms.FieldTextarea, Required: false, Visible: true,
			Validation: &forms.Rules{MaxLength: intPtr(500)}},
	}
	schema.Normalize()
	return schema
}

// DefaultSiteInfo seeds the site block with registration open and a sane cap.
func DefaultSiteInfo() SiteInfo {
	return SiteInfo{
		BootcampTitle:    "Web Development Bootcamp",
		HeroTitle:        "Start your journey into web development",
		RegistrationOpen: true,
		MaxParticipants:  100,
	}
}

func intPtr(n int) *int { return &n }
