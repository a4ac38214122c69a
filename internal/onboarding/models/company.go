package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminRole names the role granted to the user of an approved request.
const AdminRole = "admin"

// Company is a live company created by an approval.
type Company struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	ParentCompanyID *uuid.UUID `json:"parentCompanyId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// AppUser is an application user account.
type AppUser struct {
	ID            uuid.UUID `json:"id"`
	Name          *string   `json:"name,omitempty"`
	Email         string    `json:"email"`
	EmailVerified *bool     `json:"emailVerified,omitempty"`
	Image         *string   `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Role is reference data such as "admin".
type Role struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserCompanyRole binds a user to a role at a company.
type UserCompanyRole struct {
	UserID    uuid.UUID `json:"userId"`
	CompanyID uuid.UUID `json:"companyId"`
	RoleID    uuid.UUID `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
