// Package models contains the persistence models of the onboarding
// service, configured to work using GORM as the ORM. Table and column
// names match the relational schema shared with the auth provider.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OnboardingRequest is a row of company_onboarding_requests.
type OnboardingRequest struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyName  string    `gorm:"not null"`
	ContactName  string    `gorm:"not null"`
	Email        string    `gorm:"not null"`
	MobileNumber *string
	IsEnrolled   bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time `gorm:"not null;index"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (OnboardingRequest) TableName() string { return "company_onboarding_requests" }

func (m *OnboardingRequest) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// All lists every model the schema is migrated from, parents first.
func All() []interface{} {
	return []interface{}{
		&AppUser{},
		&Role{},
		&Company{},
		&UserCompanyRole{},
		&OnboardingRequest{},
		&Account{},
		&Session{},
		&VerificationToken{},
	}
}
