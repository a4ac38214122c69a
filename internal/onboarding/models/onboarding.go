// Package models defines the domain models of the onboarding service:
// onboarding requests, the records an approval provisions, and the
// uniform result handed back to callers of Submit and Approve.
package models

import (
	"time"

	"github.com/google/uuid"
)

// OnboardingRequest is a prospective company's sign-up submission.
type OnboardingRequest struct {
	// ID is the unique identifier of the request.
	ID uuid.UUID `json:"id"`
	// CompanyName is the name the company will be created with.
	CompanyName string `json:"companyName"`
	// ContactName becomes the admin user's display name.
	ContactName string `json:"contactName"`
	// Email is the contact address and the admin user's lookup key.
	Email string `json:"email"`
	// MobileNumber is optional.
	MobileNumber *string `json:"mobileNumber,omitempty"`
	// IsEnrolled flips to true once, when the request is approved.
	IsEnrolled bool      `json:"isEnrolled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// OnboardingRequestInput carries the fields of a submission.
type OnboardingRequestInput struct {
	CompanyName  string  `json:"companyName" validate:"required"`
	ContactName  string  `json:"contactName" validate:"required"`
	Email        string  `json:"email" validate:"required"`
	MobileNumber *string `json:"mobileNumber,omitempty"`
}

// Enrollment describes what an approval provisioned.
type Enrollment struct {
	Request *OnboardingRequest
	Company *Company
	User    *AppUser
	Binding *UserCompanyRole
	// UserCreated is false when an existing user was matched by email.
	UserCreated bool
	// UserRenamed is set when a matched user's name was replaced by the
	// request's contact name.
	UserRenamed bool
}
