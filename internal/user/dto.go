package user

import (
	"errors"
	"strings"
)

type CreateUserDTO struct {
	Email          string  `json:"email" validate:"required,email"`
	Name           string  `json:"name" validate:"required"`
	Password       string  `json:"password" validate:"required,min=8"`
	Role           string  `json:"role" validate:"required,oneof=user hod admin"`
	DepartmentID   int64   `json:"department_id" validate:"required"`
	AffiliationIDs []int64 `json:"affiliation_ids,omitempty"`
}

func (dto CreateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" || !strings.Contains(dto.Email, "@") {
		return errors.New("a valid email is required")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	switch dto.Role {
	case RoleUser, RoleHOD, RoleAdmin:
	default:
		return errors.New("role must be one of user, hod, admin")
	}
	if dto.DepartmentID == 0 {
		return errors.New("department_id is required")
	}
	if dto.Role != RoleHOD && len(dto.AffiliationIDs) > 0 {
		return errors.New("affiliations are only valid for the hod role")
	}
	return nil
}

type SetAffiliationsDTO struct {
	AffiliationIDs []int64 `json:"affiliation_ids"`
}

type UserResponse struct {
	ID                    int64   `json:"id"`
	Email                 string  `json:"email"`
	Name                  string  `json:"name"`
	Role                  string  `json:"role"`
	DepartmentID          int64   `json:"department_id"`
	IsActive              bool    `json:"is_active"`
	AffiliationIDs        []int64 `json:"affiliation_ids,omitempty"`
	SurveyedDepartmentIDs []int64 `json:"surveyed_department_ids,omitempty"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Email:                 u.Email,
		Name:                  u.Name,
		Role:                  u.Role,
		DepartmentID:          u.DepartmentID,
		IsActive:              u.IsActive,
		AffiliationIDs:        u.AffiliationIDs,
		SurveyedDepartmentIDs: u.SurveyedDepartmentIDs,
	}
}
