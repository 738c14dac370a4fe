package models

import (
	"time"

	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Registration is an accepted submission. Answers holds the cleaned
// field-name -> value map; Email is extracted from it when the schema
// defines an email field, and the unique index on it is what enforces the
// one-registration-per-email guarantee. It stays nil otherwise so schemas
// without an email field don't collide on the index.
type Registration struct {
	gorm.Model
	Email        *string            `json:"email,omitempty" gorm:"uniqueIndex"`
	Answers      map[string]any     `json:"answers" gorm:"serializer:json"`
	Status       RegistrationStatus `json:"status" gorm:"default:pending;index"`
	RegisteredAt time.Time          `json:"registeredAt" gorm:"index"`
}

// PublicRegistration is the projection returned to the submitter.
type PublicRegistration struct {
	ID           uint               `json:"id"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registeredAt"`
}

func (r Registration) Public() PublicRegistration {
	return PublicRegistration{ID: r.ID, Status: r.Status, RegisteredAt: r.RegisteredAt}
}
