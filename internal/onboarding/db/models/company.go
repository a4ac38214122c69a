package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is a row of companies. ParentCompanyID allows hierarchies but
// nothing in the onboarding flow sets it.
type Company struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name            string     `gorm:"not null"`
	ParentCompanyID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

func (m *Company) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// AppUser is a row of app_users. The table is shared with the auth provider
// and keeps its camelCase column names. Email is unique so concurrent
// approvals cannot create two users for one address.
type AppUser struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          *string   `gorm:"column:name"`
	Email         string    `gorm:"column:email;not null;uniqueIndex:app_users_email_unique"`
	EmailVerified *bool     `gorm:"column:emailVerified"`
	Image         *string   `gorm:"column:image"`
	CreatedAt     time.Time `gorm:"column:createdAt;not null"`
	UpdatedAt     time.Time `gorm:"column:updatedAt;not null"`
}

func (AppUser) TableName() string { return "app_users" }

func (m *AppUser) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Role is a row of roles.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;uniqueIndex:roles_name_unique"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *Role) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// UserCompanyRole is a row of user_company_roles. The triple of ids is the
// primary key; deleting any referenced row cascades.
type UserCompanyRole struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CompanyID uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	User    AppUser `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Role    Role    `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
}
