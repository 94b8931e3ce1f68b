package category

import (
	"time"

	categoryDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/category"
)

// Category is a rateable dimension. ScopeDepartmentID nil means the category
// applies to every survey target; set, it applies only to surveys targeting
// that department.
type Category struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	ScopeDepartmentID *int64    `json:"scope_department_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (c *Category) IsGlobal() bool {
	return c.ScopeDepartmentID == nil
}

// AppliesTo reports whether the category must be answered when surveying the
// given target department.
func (c *Category) AppliesTo(targetDeptID int64) bool {
	return c.ScopeDepartmentID == nil || *c.ScopeDepartmentID == targetDeptID
}

func NewCategory(name, description string, scopeDeptID *int64) *Category {
	now := time.Now()
	return &Category{
		Name:              name,
		Description:       description,
		ScopeDepartmentID: scopeDeptID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.SurveyCategory {
	return &categoryDatamodel.SurveyCategory{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		ScopeDepartmentID: c.ScopeDepartmentID,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.SurveyCategory) *Category {
	return &Category{
		ID:                c.ID,
		Name:              c.Name,
		Description:       c.Description,
		ScopeDepartmentID: c.ScopeDepartmentID,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func FromDataModelSlice(categories []*categoryDatamodel.SurveyCategory) []*Category {
	result := make([]*Category, len(categories))
	for i, c := range categories {
		result[i] = FromDataModel(c)
	}
	return result
}
