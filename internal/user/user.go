package user

import (
	"time"

	userDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/user"
)

const (
	RoleUser  = "user"
	RoleHOD   = "hod"
	RoleAdmin = "admin"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	DepartmentID int64     `json:"department_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// AffiliationIDs is the set of departments a HOD may act for. For
	// non-HOD roles it is empty; the home department always counts.
	AffiliationIDs []int64 `json:"affiliation_ids,omitempty"`

	// SurveyedDepartmentIDs is the set of departments this user has already
	// submitted a survey for in the current cycle.
	SurveyedDepartmentIDs []int64 `json:"surveyed_department_ids,omitempty"`
}

func (u *User) IsHOD() bool {
	return u.Role == RoleHOD
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsActiveUser() bool {
	return u.IsActive
}

// CanActFor reports whether the user may act on behalf of the department.
// Everyone may act for their home department; a HOD additionally for any
// department in their affiliation set.
func (u *User) CanActFor(departmentID int64) bool {
	if departmentID == u.DepartmentID {
		return true
	}
	if !u.IsHOD() {
		return false
	}
	for _, id := range u.AffiliationIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

func (u *User) HasSurveyed(departmentID int64) bool {
	for _, id := range u.SurveyedDepartmentIDs {
		if id == departmentID {
			return true
		}
	}
	return false
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModelWithSets(u *userDatamodel.User, affiliationIDs, surveyedIDs []int64) *User {
	domainUser := FromDataModel(u)
	domainUser.AffiliationIDs = affiliationIDs
	domainUser.SurveyedDepartmentIDs = surveyedIDs
	return domainUser
}
