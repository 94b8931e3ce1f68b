package mapping

import "errors"

type GrantDTO struct {
	FromDepartmentID int64 `json:"from_department_id" validate:"required"`
	ToDepartmentID   int64 `json:"to_department_id" validate:"required"`
}

func (dto GrantDTO) Validate() error {
	if dto.FromDepartmentID == 0 {
		return errors.New("from_department_id is required")
	}
	if dto.ToDepartmentID == 0 {
		return errors.New("to_department_id is required")
	}
	return nil
}

type TargetResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
