package db

import (
	dbmodels "github.com/gartstein/onboarding/internal/onboarding/db/models"
	"github.com/gartstein/onboarding/internal/onboarding/models"
)

func onboardingRequestToRow(m *models.OnboardingRequest) *dbmodels.OnboardingRequest {
	return &dbmodels.OnboardingRequest{
		ID:           m.ID,
		CompanyName:  m.CompanyName,
		ContactName:  m.ContactName,
		Email:        m.Email,
		MobileNumber: m.MobileNumber,
		IsEnrolled:   m.IsEnrolled,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func onboardingRequestFromRow(row *dbmodels.OnboardingRequest) *models.OnboardingRequest {
	return &models.OnboardingRequest{
		ID:           row.ID,
		CompanyName:  row.CompanyName,
		ContactName:  row.ContactName,
		Email:        row.Email,
		MobileNumber: row.MobileNumber,
		IsEnrolled:   row.IsEnrolled,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func companyToRow(m *models.Company) *dbmodels.Company {
	return &dbmodels.Company{
		ID:              m.ID,
		Name:            m.Name,
		ParentCompanyID: m.ParentCompanyID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func companyFromRow(row *dbmodels.Company) *models.Company {
	return &models.Company{
		ID:              row.ID,
		Name:            row.Name,
		ParentCompanyID: row.ParentCompanyID,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func appUserToRow(m *models.AppUser) *dbmodels.AppUser {
	return &dbmodels.AppUser{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		EmailVerified: m.EmailVerified,
		Image:         m.Image,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func appUserFromRow(row *dbmodels.AppUser) *models.AppUser {
	return &models.AppUser{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		EmailVerified: row.EmailVerified,
		Image:         row.Image,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}

func roleFromRow(row *dbmodels.Role) *models.Role {
	return &models.Role{
		ID:        row.ID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func userCompanyRoleToRow(m *models.UserCompanyRole) *dbmodels.UserCompanyRole {
	return &dbmodels.UserCompanyRole{
		UserID:    m.UserID,
		CompanyID: m.CompanyID,
		RoleID:    m.RoleID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func userCompanyRoleFromRow(row *dbmodels.UserCompanyRole) *models.UserCompanyRole {
	return &models.UserCompanyRole{
		UserID:    row.UserID,
		CompanyID: row.CompanyID,
		RoleID:    row.RoleID,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
