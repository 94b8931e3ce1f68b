package survey

import "errors"

// ResponseDTO is one category answer in a submission, keyed by category name
// in the request payload.
type ResponseDTO struct {
	Rating       int     `json:"rating"`
	Expectations string  `json:"expectations,omitempty"`
	Priority     *string `json:"priority,omitempty"`
}

type SubmitSurveyDTO struct {
	ToDepartmentID int64                  `json:"to_department_id" validate:"required"`
	Responses      map[string]ResponseDTO `json:"responses" validate:"required"`
}

func (dto SubmitSurveyDTO) Validate() error {
	if dto.ToDepartmentID == 0 {
		return errors.New("to_department_id is required")
	}
	if len(dto.Responses) == 0 {
		return errors.New("responses are required")
	}
	return nil
}

type RecordResponse struct {
	ID               int64      `json:"id"`
	FromDepartmentID int64      `json:"from_department_id"`
	ToDepartmentID   int64      `json:"to_department_id"`
	SubmittedAt      string     `json:"submitted_at"`
	MeanRating       float64    `json:"mean_rating"`
	Responses        []Response `json:"responses"`
}

func (r *Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:               r.ID,
		FromDepartmentID: r.FromDepartmentID,
		ToDepartmentID:   r.ToDepartmentID,
		SubmittedAt:      r.SubmittedAt.Format("2006-01-02T15:04:05Z07:00"),
		MeanRating:       r.MeanRating(),
		Responses:        r.Responses,
	}
}
