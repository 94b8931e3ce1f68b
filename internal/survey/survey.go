package survey

import (
	"time"

	surveyDatamodel "github.com/crossdept/feedback-platform/internal/core/datamodel/survey"
)

// Ratings use a fixed five-point scale on a 0-100 range. No continuous
// values are accepted.
const (
	RatingStronglyDisagree = 20
	RatingDisagree         = 40
	RatingNeutral          = 60
	RatingAgree            = 80
	RatingStronglyAgree    = 100

	// JustificationThreshold is the rating at or below which the
	// expectations text becomes mandatory.
	JustificationThreshold = 60
)

func IsValidRating(rating int) bool {
	switch rating {
	case RatingStronglyDisagree, RatingDisagree, RatingNeutral, RatingAgree, RatingStronglyAgree:
		return true
	}
	return false
}

// Response is one category's answer inside a record. Responses are keyed by
// category name on the wire; the id is kept alongside for referential
// integrity.
type Response struct {
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Rating       int     `json:"rating"`
	Expectations string  `json:"expectations,omitempty"`
	Priority     *string `json:"priority,omitempty"`
}

// Record is one immutable submitted survey. No update or delete path exists
// outside admin tooling; the ledger only grows.
type Record struct {
	ID               int64      `json:"id"`
	FromDepartmentID int64      `json:"from_department_id"`
	ToDepartmentID   int64      `json:"to_department_id"`
	SubmittedByID    int64      `json:"submitted_by_id"`
	Cycle            string     `json:"cycle"`
	SubmittedAt      time.Time  `json:"submitted_at"`
	Responses        []Response `json:"responses"`
}

// MeanRating is the unrounded mean across the record's responses. Zero
// responses yields 0, but validation guarantees at least one response on
// every persisted record that has applicable categories.
func (r *Record) MeanRating() float64 {
	if len(r.Responses) == 0 {
		return 0
	}
	sum := 0
	for _, resp := range r.Responses {
		sum += resp.Rating
	}
	return float64(sum) / float64(len(r.Responses))
}

func ToDataModel(r *Record) *surveyDatamodel.Record {
	responses := make([]surveyDatamodel.Response, len(r.Responses))
	for i, resp := range r.Responses {
		responses[i] = surveyDatamodel.Response{
			CategoryID:   resp.CategoryID,
			CategoryName: resp.CategoryName,
			Rating:       resp.Rating,
			Expectations: resp.Expectations,
			Priority:     resp.Priority,
		}
	}
	return &surveyDatamodel.Record{
		ID:               r.ID,
		FromDepartmentID: r.FromDepartmentID,
		ToDepartmentID:   r.ToDepartmentID,
		SubmittedByID:    r.SubmittedByID,
		Cycle:            r.Cycle,
		SubmittedAt:      r.SubmittedAt,
		Responses:        responses,
	}
}

func FromDataModel(r *surveyDatamodel.Record) *Record {
	responses := make([]Response, len(r.Responses))
	for i, resp := range r.Responses {
		responses[i] = Response{
			CategoryID:   resp.CategoryID,
			CategoryName: resp.CategoryName,
			Rating:       resp.Rating,
			Expectations: resp.Expectations,
			Priority:     resp.Priority,
		}
	}
	return &Record{
		ID:               r.ID,
		FromDepartmentID: r.FromDepartmentID,
		ToDepartmentID:   r.ToDepartmentID,
		SubmittedByID:    r.SubmittedByID,
		Cycle:            r.Cycle,
		SubmittedAt:      r.SubmittedAt,
		Responses:        responses,
	}
}

func FromDataModelSlice(records []*surveyDatamodel.Record) []*Record {
	result := make([]*Record, len(records))
	for i, r := range records {
		result[i] = FromDataModel(r)
	}
	return result
}
