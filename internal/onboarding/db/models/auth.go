package models

import (
	"time"

	"github.com/google/uuid"
)

// Account, Session and VerificationToken belong to the external auth
// provider. They are migrated with the rest of the schema so the provider
// finds them, but the onboarding flow never reads or writes them. The
// provider names its columns in camelCase, except for user_id.

type Account struct {
	ID                    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID                uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	AccountID             string     `gorm:"column:accountId;not null"`
	ProviderID            string     `gorm:"column:providerId;not null"`
	AccessToken           *string    `gorm:"column:accessToken"`
	RefreshToken          *string    `gorm:"column:refreshToken"`
	AccessTokenExpiresAt  *time.Time `gorm:"column:accessTokenExpiresAt"`
	RefreshTokenExpiresAt *time.Time `gorm:"column:refreshTokenExpiresAt"`
	Scope                 *string    `gorm:"column:scope"`
	IDToken               *string    `gorm:"column:idToken"`
	Password              *string    `gorm:"column:password"`
	CreatedAt             time.Time  `gorm:"column:createdAt;not null"`
	UpdatedAt             time.Time  `gorm:"column:updatedAt;not null"`

	User AppUser `gorm:"foreignKey:UserID"`
}

func (Account) TableName() string { return "account" }

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Token     string    `gorm:"column:token;not null"`
	ExpiresAt time.Time `gorm:"column:expiresAt;not null"`
	IPAddress *string   `gorm:"column:ipAddress"`
	UserAgent *string   `gorm:"column:userAgent"`
	CreatedAt time.Time `gorm:"column:createdAt;not null"`
	UpdatedAt time.Time `gorm:"column:updatedAt;not null"`

	User AppUser `gorm:"foreignKey:UserID"`
}

func (Session) TableName() string { return "session" }

type VerificationToken struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Identifier string    `gorm:"column:identifier;not null"`
	Value      string    `gorm:"column:value;not null"`
	ExpiresAt  time.Time `gorm:"column:expiresAt;not null"`
	CreatedAt  time.Time `gorm:"column:createdAt;not null"`
	UpdatedAt  time.Time `gorm:"column:updatedAt;not null"`
}

func (VerificationToken) TableName() string { return "verificationToken" }
