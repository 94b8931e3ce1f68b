package mapping

import (
	"time"

	departmentDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/department"
)

// Grant is one directional evaluation right: From may survey To. Rights are
// never assumed symmetric.
type Grant struct {
	ID               int64     `json:"id"`
	FromDepartmentID int64     `json:"from_department_id"`
	ToDepartmentID   int64     `json:"to_department_id"`
	CreatedAt        time.Time `json:"created_at"`
}

func FromDataModel(m *departmentDatamodel.Mapping) *Grant {
	return &Grant{
		ID:               m.ID,
		FromDepartmentID: m.FromDepartmentID,
		ToDepartmentID:   m.ToDepartmentID,
		CreatedAt:        m.CreatedAt,
	}
}

func FromDataModelSlice(mappings []*departmentDatamodel.Mapping) []*Grant {
	result := make([]*Grant, len(mappings))
	for i, m := range mappings {
		result[i] = FromDataModel(m)
	}
	return result
}
