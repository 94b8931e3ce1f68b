package category

import (
	"errors"
	"strings"
)

type CreateCategoryDTO struct {
	Name              string `json:"name" validate:"required,min=1,max=120"`
	Description       string `json:"description,omitempty"`
	ScopeDepartmentID *int64 `json:"scope_department_id,omitempty"`
}

func (dto CreateCategoryDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Name) > 120 {
		return errors.New("name must be less than 120 characters")
	}
	if dto.ScopeDepartmentID != nil && *dto.ScopeDepartmentID == 0 {
		return errors.New("scope_department_id must reference a department")
	}
	return nil
}

type CategoryResponse struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Description       string `json:"description,omitempty"`
	ScopeDepartmentID *int64 `json:"scope_department_id,omitempty"`
}

func (c *Category) ToResponse() CategoryResponse {
	return CategoryResponse{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		ScopeDepartmentID: c.ScopeDepartmentID,
	}
}
